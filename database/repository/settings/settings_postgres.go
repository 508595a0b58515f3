package settings

import (
	"context"
	"database/sql"
	"fmt"

	"avix/database"
	"avix/models"

	"github.com/google/uuid"
)

// PostgresSettingsRepo implements Repository on the settings table.
type PostgresSettingsRepo struct {
	DB *sql.DB
}

// NewPostgresSettingsRepo returns a repository bound to the shared pool.
func NewPostgresSettingsRepo() *PostgresSettingsRepo {
	return &PostgresSettingsRepo{DB: database.GetDB()}
}

func (r *PostgresSettingsRepo) GetByTenantID(ctx context.Context, tenantID string) (*models.Settings, error) {
	const q = `
		SELECT id, tenant_id, company_name, ai_active,
		       google_refresh_token, google_access_token,
		       google_calendar_email, google_calendar_id,
		       calendar_connected, office_hours_start, office_hours_end
		FROM settings
		WHERE tenant_id = $1`

	var s models.Settings
	err := r.DB.QueryRowContext(ctx, q, tenantID).Scan(
		&s.ID, &s.TenantID, &s.CompanyName, &s.AIActive,
		&s.GoogleRefreshToken, &s.GoogleAccessToken,
		&s.GoogleCalendarEmail, &s.GoogleCalendarID,
		&s.CalendarConnected, &s.OfficeHoursStart, &s.OfficeHoursEnd,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("settings lookup for tenant %s: %w", tenantID, err)
	}
	return &s, nil
}

func (r *PostgresSettingsRepo) UpsertOAuth(ctx context.Context, tenantID string, data models.OAuthUpdate) error {
	const q = `
		INSERT INTO settings (
			id, tenant_id, company_name, ai_active,
			google_refresh_token, google_access_token,
			google_calendar_email, google_calendar_id, calendar_connected
		)
		VALUES ($1, $2, 'Avix AI', TRUE, $3, $4, $5, $6, $7)
		ON CONFLICT (tenant_id) DO UPDATE SET
			google_refresh_token  = EXCLUDED.google_refresh_token,
			google_access_token   = EXCLUDED.google_access_token,
			google_calendar_email = EXCLUDED.google_calendar_email,
			google_calendar_id    = EXCLUDED.google_calendar_id,
			calendar_connected    = EXCLUDED.calendar_connected`

	_, err := r.DB.ExecContext(ctx, q,
		uuid.New().String(), tenantID,
		data.RefreshToken, data.AccessToken,
		data.CalendarEmail, data.CalendarID, data.Connected,
	)
	if err != nil {
		return fmt.Errorf("settings oauth upsert for tenant %s: %w", tenantID, err)
	}
	return nil
}

func (r *PostgresSettingsRepo) UpdateAccessToken(ctx context.Context, id string, accessToken string) error {
	const q = `UPDATE settings SET google_access_token = $1 WHERE id = $2`
	if _, err := r.DB.ExecContext(ctx, q, accessToken, id); err != nil {
		return fmt.Errorf("settings access token update %s: %w", id, err)
	}
	return nil
}

func (r *PostgresSettingsRepo) ClearOAuth(ctx context.Context, id string) error {
	const q = `
		UPDATE settings SET
			google_refresh_token  = NULL,
			google_access_token   = NULL,
			google_calendar_email = NULL,
			calendar_connected    = FALSE
		WHERE id = $1`
	if _, err := r.DB.ExecContext(ctx, q, id); err != nil {
		return fmt.Errorf("settings oauth clear %s: %w", id, err)
	}
	return nil
}
