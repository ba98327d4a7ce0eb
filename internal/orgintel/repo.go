package orgintel

import "context"

// Repo persists one organization map per (user, company).
type Repo interface {
	// Upsert stores m, replacing any previous map for the same user and company.
	// The returned map keeps the original ID and CreatedAt on replacement.
	Upsert(ctx context.Context, m OrganizationMap) (OrganizationMap, error)
	Get(ctx context.Context, userID, companyID string) (OrganizationMap, error)
	ListByUser(ctx context.Context, userID string) ([]OrganizationMap, error)
}
