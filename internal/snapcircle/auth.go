package snapcircle

import "context"

// loginResponse is the credential-exchange response.
type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a bearer token and stores it on the client.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	resp, err := doPostJSON[loginResponse](ctx, c, "auth/login", loginRequest{Email: email, Password: password})
	if err != nil {
		return "", err
	}
	c.token = resp.AccessToken
	return resp.AccessToken, nil
}

// Register creates a new account. It does not authenticate the client;
// call Login afterwards.
func (c *Client) Register(ctx context.Context, name, email, password string) (*User, error) {
	return doPostJSON[User](ctx, c, "auth/register", registerRequest{Name: name, Email: email, Password: password})
}

// Me resolves the current user from the bearer token.
func (c *Client) Me(ctx context.Context) (*User, error) {
	return doGetJSON[User](ctx, c, "auth/me")
}
