package cmd

import (
	"context"
	"errors"

	"github.com/snapcircle/snapcircle/internal/config"
	"github.com/snapcircle/snapcircle/internal/session"
	"github.com/snapcircle/snapcircle/internal/snapcircle"
	"github.com/snapcircle/snapcircle/internal/upload"
)

// newClient builds a backend client from configuration and the persisted
// token. Any 401 from the backend clears the persisted token so the next
// invocation starts anonymous instead of retrying a dead token.
func newClient() (*snapcircle.Client, *session.Store, *config.Config, error) {
	cfg := config.Load()

	store, err := session.DefaultStore()
	if err != nil {
		return nil, nil, nil, err
	}
	token, err := store.Token()
	if err != nil {
		return nil, nil, nil, err
	}

	opts := []snapcircle.Option{snapcircle.WithTimeout(cfg.API.Timeout)}
	if token != "" {
		opts = append(opts, snapcircle.WithToken(token))
	}
	client, err := snapcircle.New(cfg.API.URL, opts...)
	if err != nil {
		return nil, nil, nil, err
	}
	client.OnUnauthorized(func() {
		_ = store.Clear()
	})
	return client, store, cfg, nil
}

// requireUser resolves the current user, failing with a login hint when the
// client is anonymous.
func requireUser(ctx context.Context, client *snapcircle.Client) (*snapcircle.User, error) {
	if !client.Authenticated() {
		return nil, errors.New("not logged in, run 'snapcircle login' first")
	}
	return client.Me(ctx)
}

// uploadLimits converts configured limits into the upload package's form.
func uploadLimits(cfg *config.Config) upload.Limits {
	return upload.Limits{
		MaxFileSize: cfg.Upload.MaxFileSize(),
		MaxBatch:    cfg.Upload.MaxBatch,
	}
}
