package settings

import (
	"context"
	"errors"

	"avix/models"
)

// ErrNotFound is returned when no settings row exists for a tenant.
var ErrNotFound = errors.New("settings not found")

// Repository provides access to the per-tenant settings table.
type Repository interface {
	// GetByTenantID returns the tenant's settings row.
	GetByTenantID(ctx context.Context, tenantID string) (*models.Settings, error)
	// UpsertOAuth writes the OAuth fields after a handshake, creating the
	// settings row on first connect.
	UpsertOAuth(ctx context.Context, tenantID string, data models.OAuthUpdate) error
	// UpdateAccessToken blindly overwrites the stored access token.
	// Concurrent refreshes are tolerated; last write wins.
	UpdateAccessToken(ctx context.Context, id string, accessToken string) error
	// ClearOAuth nulls every OAuth field and marks the calendar disconnected.
	ClearOAuth(ctx context.Context, id string) error
}
