package calls

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"avix/database"
	"avix/models"

	"github.com/google/uuid"
)

// PostgresCallRepo implements Repository on the calls table.
type PostgresCallRepo struct {
	DB *sql.DB
}

// NewPostgresCallRepo returns a repository bound to the shared pool.
func NewPostgresCallRepo() *PostgresCallRepo {
	return &PostgresCallRepo{DB: database.GetDB()}
}

func (r *PostgresCallRepo) Upsert(ctx context.Context, call *models.Call) error {
	transcriptJSON, err := json.Marshal(call.TranscriptJSON)
	if err != nil {
		return fmt.Errorf("call transcript encode %s: %w", call.ExternalCallID, err)
	}
	customData, err := json.Marshal(call.CustomData)
	if err != nil {
		return fmt.Errorf("call custom data encode %s: %w", call.ExternalCallID, err)
	}

	const q = `
		INSERT INTO calls (
			id, tenant_id, external_call_id, customer_number, status,
			duration, summary, sentiment, transcript, transcript_json,
			recording_url, custom_data, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (tenant_id, external_call_id) DO UPDATE SET
			customer_number = EXCLUDED.customer_number,
			status          = EXCLUDED.status,
			duration        = EXCLUDED.duration,
			summary         = EXCLUDED.summary,
			sentiment       = EXCLUDED.sentiment,
			transcript      = EXCLUDED.transcript,
			transcript_json = EXCLUDED.transcript_json,
			recording_url   = EXCLUDED.recording_url,
			custom_data     = EXCLUDED.custom_data,
			created_at      = EXCLUDED.created_at`

	_, err = r.DB.ExecContext(ctx, q,
		uuid.New().String(), call.TenantID, call.ExternalCallID,
		call.CustomerNumber, call.Status, call.Duration, call.Summary,
		call.Sentiment, call.Transcript, transcriptJSON,
		call.RecordingURL, customData, call.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("call upsert %s for tenant %s: %w", call.ExternalCallID, call.TenantID, err)
	}
	return nil
}

func (r *PostgresCallRepo) ListByTenant(ctx context.Context, tenantID string) ([]models.Call, error) {
	const q = `
		SELECT id, tenant_id, external_call_id, customer_number, status,
		       duration, summary, sentiment, transcript, transcript_json,
		       recording_url, custom_data, created_at
		FROM calls
		WHERE tenant_id = $1
		ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, q, tenantID)
	if err != nil {
		return nil, fmt.Errorf("call list for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	var out []models.Call
	for rows.Next() {
		var (
			c              models.Call
			transcriptJSON []byte
			customData     []byte
		)
		if err := rows.Scan(
			&c.ID, &c.TenantID, &c.ExternalCallID, &c.CustomerNumber,
			&c.Status, &c.Duration, &c.Summary, &c.Sentiment,
			&c.Transcript, &transcriptJSON, &c.RecordingURL,
			&customData, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("call scan for tenant %s: %w", tenantID, err)
		}
		if len(transcriptJSON) > 0 {
			_ = json.Unmarshal(transcriptJSON, &c.TranscriptJSON)
		}
		if len(customData) > 0 {
			_ = json.Unmarshal(customData, &c.CustomData)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
