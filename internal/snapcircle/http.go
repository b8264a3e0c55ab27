package snapcircle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
)

// ErrorCode classifies a backend failure. The backend reports failures as a
// human-readable "detail" string; the mapping from detail text to code happens
// in exactly one place (classifyDetail) so the rest of the codebase can switch
// on codes instead of matching message fragments.
type ErrorCode string

// Error codes recognized from backend responses.
const (
	CodeNotFound           ErrorCode = "not_found"
	CodeUnauthorized       ErrorCode = "unauthorized"
	CodeForbidden          ErrorCode = "forbidden"
	CodeAlreadyRegistered  ErrorCode = "already_registered"
	CodeCannotJoinOwnEvent ErrorCode = "cannot_join_own_event"
	CodeNotRegistered      ErrorCode = "not_registered"
	CodeEmailTaken         ErrorCode = "email_taken"
	CodeValidation         ErrorCode = "validation"
	CodeServer             ErrorCode = "server"
)

// APIError is a failure reported by the backend.
type APIError struct {
	Status int
	Code   ErrorCode
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("snapcircle: %s (status %d)", e.Detail, e.Status)
	}
	return fmt.Sprintf("snapcircle: request failed with status %d", e.Status)
}

// IsCode reports whether err is an APIError carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// IsNotFound reports whether the error indicates a missing resource.
func IsNotFound(err error) bool { return IsCode(err, CodeNotFound) }

// IsUnauthorized reports whether the error indicates a rejected token.
func IsUnauthorized(err error) bool { return IsCode(err, CodeUnauthorized) }

// ErrorDetail returns the backend-provided message for an APIError,
// or the plain error text for anything else.
func ErrorDetail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// classifyDetail derives a structured code from an HTTP status and the
// backend's detail string. The 400-level detail matching mirrors the backend's
// known responses; everything unrecognized degrades to validation or server.
func classifyDetail(status int, detail string) ErrorCode {
	switch status {
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	}
	if status == http.StatusBadRequest {
		switch {
		case strings.Contains(detail, "Already registered"):
			return CodeAlreadyRegistered
		case strings.Contains(detail, "Cannot join your own event"):
			return CodeCannotJoinOwnEvent
		case strings.Contains(detail, "Not registered"):
			return CodeNotRegistered
		case strings.Contains(detail, "Email already registered"):
			return CodeEmailTaken
		}
		return CodeValidation
	}
	return CodeServer
}

// errorBody is the backend's error envelope. Detail is usually a string but
// request-validation failures deliver a list of {"msg": ...} objects.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

// decodeErrorDetail extracts the human-readable detail from an error body.
func decodeErrorDetail(body []byte) string {
	var envelope errorBody
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return strings.TrimSpace(string(body))
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, ", ")
		}
	}
	return strings.TrimSpace(string(envelope.Detail))
}

// decodeError turns a non-success response into an *APIError and fires the
// unauthorized hook when the token was rejected.
func (c *Client) decodeError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		body = nil
	}
	apiErr := &APIError{
		Status: resp.StatusCode,
		Detail: decodeErrorDetail(body),
	}
	apiErr.Code = classifyDetail(resp.StatusCode, apiErr.Detail)
	if apiErr.Code == CodeUnauthorized && c.onUnauthorized != nil {
		c.onUnauthorized()
	}
	return apiErr
}

// doGetJSON performs a GET request and unmarshals the JSON response into the
// result type. The endpoint is the path after the base API URL (e.g. "auth/me").
func doGetJSON[T any](ctx context.Context, c *Client, endpoint string) (*T, error) {
	return doRequestJSON[T](ctx, c, http.MethodGet, endpoint, nil, http.StatusOK)
}

// doPostJSON performs a POST request with a JSON body, accepting 200 or 201.
func doPostJSON[T any](ctx context.Context, c *Client, endpoint string, requestBody any) (*T, error) {
	return doRequestJSON[T](ctx, c, http.MethodPost, endpoint, requestBody, http.StatusOK, http.StatusCreated)
}

// doDeleteJSON performs a DELETE request and unmarshals the JSON response.
func doDeleteJSON[T any](ctx context.Context, c *Client, endpoint string) (*T, error) {
	return doRequestJSON[T](ctx, c, http.MethodDelete, endpoint, nil, http.StatusOK)
}

// doRequestJSON is the internal helper that performs HTTP requests with a JSON
// body and response. If the response status matches none of the expected ones,
// the decoded backend error is returned.
func doRequestJSON[T any](ctx context.Context, c *Client, method, endpoint string, requestBody any, expectedStatuses ...int) (*T, error) {
	url := c.resolveURL(endpoint)

	var bodyReader io.Reader
	if requestBody != nil {
		jsonBody, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("could not marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}

	c.setAuthHeader(req)
	if requestBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not send request: %w", err)
	}
	defer resp.Body.Close()

	if !slices.Contains(expectedStatuses, resp.StatusCode) {
		return nil, c.decodeError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read response body: %w", err)
	}

	var result T
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("could not unmarshal response: %w", err)
	}

	return &result, nil
}

// doMultipart performs a multipart/form-data request built by the caller.
func doMultipart[T any](ctx context.Context, c *Client, method, endpoint, contentType string, body io.Reader, expectedStatuses ...int) (*T, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.resolveURL(endpoint), body)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}

	c.setAuthHeader(req)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not send request: %w", err)
	}
	defer resp.Body.Close()

	if !slices.Contains(expectedStatuses, resp.StatusCode) {
		return nil, c.decodeError(resp)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read response body: %w", err)
	}

	var result T
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("could not unmarshal response: %w", err)
	}

	return &result, nil
}

func (c *Client) setAuthHeader(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
