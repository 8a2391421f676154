// Package rtdb adapts the Firebase Admin SDK to the backend capabilities:
// Firebase Auth serves the identity directory, the Realtime Database serves
// the profile and subtree stores.
//
// Import Path: github.com/sungjintrb/rtdb-admin/internal/provider/rtdb
package rtdb

import (
	"context"
	"fmt"
	"os"
	"sort"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/db"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/sungjintrb/rtdb-admin/internal/config"
	"github.com/sungjintrb/rtdb-admin/internal/domain"
)

// Client holds the Auth and Realtime Database clients of one Firebase app.
type Client struct {
	auth *auth.Client
	db   *db.Client
	log  *zap.Logger
}

var (
	_ domain.IdentityDirectory = (*Client)(nil)
	_ domain.Store             = (*Client)(nil)
)

// Open initializes a Firebase app from a service account file.
// No network call is made; use Ping to verify credentials and reachability.
func Open(ctx context.Context, cfg config.FirebaseConfig, log *zap.Logger) (*Client, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("firebase database URL is empty")
	}
	if _, err := os.Stat(cfg.CredentialsFile); err != nil {
		return nil, fmt.Errorf("service account file %q: %w (place serviceAccountKey.json in the working directory or set GOOGLE_APPLICATION_CREDENTIALS)", cfg.CredentialsFile, err)
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{
		DatabaseURL: cfg.DatabaseURL,
		ProjectID:   cfg.ProjectID,
	}, option.WithCredentialsFile(cfg.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase auth: %w", err)
	}
	dbClient, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize realtime database: %w", err)
	}

	log.Info("Firebase app initialized",
		zap.String("database_url", cfg.DatabaseURL),
		zap.String("credentials_file", cfg.CredentialsFile),
	)
	return &Client{auth: authClient, db: dbClient, log: log}, nil
}

// Ping lists a single user, which exercises credentials and network access.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.ListPage(ctx, 1, ""); err != nil {
		return fmt.Errorf("ping firebase: %w", err)
	}
	return nil
}

// Close releases nothing; the SDK clients hold no closable resources.
func (c *Client) Close() error { return nil }

func (c *Client) ListPage(ctx context.Context, pageSize int, pageToken string) (*domain.IdentityPage, error) {
	pager := iterator.NewPager(c.auth.Users(ctx, ""), pageSize, pageToken)
	var users []*auth.ExportedUserRecord
	next, err := pager.NextPage(&users)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	page := &domain.IdentityPage{
		Records:       make([]domain.IdentityRecord, 0, len(users)),
		NextPageToken: next,
	}
	for _, u := range users {
		if u == nil || u.UserRecord == nil || u.UserInfo == nil {
			continue
		}
		page.Records = append(page.Records, domain.IdentityRecord{
			UID:         u.UID,
			Email:       u.Email,
			DisplayName: u.DisplayName,
		})
	}
	return page, nil
}

func (c *Client) Exists(ctx context.Context, path string) (bool, error) {
	var v any
	if err := c.ref(path).GetShallow(ctx, &v); err != nil {
		return false, fmt.Errorf("get %s: %w", path, err)
	}
	return v != nil, nil
}

func (c *Client) Read(ctx context.Context, path string, dst any) (bool, error) {
	exists, err := c.Exists(ctx, path)
	if err != nil || !exists {
		return false, err
	}
	if err := c.ref(path).Get(ctx, dst); err != nil {
		return false, fmt.Errorf("get %s: %w", path, err)
	}
	return true, nil
}

func (c *Client) Write(ctx context.Context, path string, value any) error {
	if err := c.ref(path).Set(ctx, value); err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return nil
}

func (c *Client) Keys(ctx context.Context, path string) ([]string, bool, error) {
	var v any
	if err := c.ref(path).GetShallow(ctx, &v); err != nil {
		return nil, false, fmt.Errorf("get %s: %w", path, err)
	}
	return shallowKeys(v)
}

func (c *Client) Remove(ctx context.Context, path string) error {
	if err := c.ref(path).Delete(ctx); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

func (c *Client) ref(path string) *db.Ref {
	return c.db.NewRef(domain.CleanPath(path))
}

// shallowKeys interprets the result of a shallow read: objects come back as
// {key: true}, leaves as their scalar value, missing nodes as null.
func shallowKeys(v any) ([]string, bool, error) {
	switch node := v.(type) {
	case nil:
		return nil, false, nil
	case map[string]any:
		keys := make([]string, 0, len(node))
		for k := range node {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return keys, true, nil
	default:
		return nil, true, nil
	}
}
