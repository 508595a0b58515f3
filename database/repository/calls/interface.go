package calls

import (
	"context"

	"avix/models"
)

// Repository provides access to the calls table.
type Repository interface {
	// Upsert inserts or overwrites a call keyed by (tenant_id,
	// external_call_id). Webhook re-delivery is idempotent; the later
	// delivery's fields win.
	Upsert(ctx context.Context, call *models.Call) error
	// ListByTenant returns every call row for a tenant, unfiltered.
	ListByTenant(ctx context.Context, tenantID string) ([]models.Call, error)
}
