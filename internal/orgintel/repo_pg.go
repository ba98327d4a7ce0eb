package orgintel

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Upsert(ctx context.Context, m OrganizationMap) (OrganizationMap, error) {
	const query = `
INSERT INTO organizational_maps (
	id, user_id, company_id, hierarchy_levels, confidence_score, model, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (user_id, company_id) DO UPDATE SET
	hierarchy_levels = EXCLUDED.hierarchy_levels,
	confidence_score = EXCLUDED.confidence_score,
	model = EXCLUDED.model,
	updated_at = EXCLUDED.updated_at
RETURNING id, created_at`
	payload, err := json.Marshal(m.Model)
	if err != nil {
		return OrganizationMap{}, fmt.Errorf("encode organization model: %w", err)
	}
	row := r.DB.QueryRowContext(ctx, query,
		m.ID,
		m.UserID,
		m.CompanyID,
		m.Model.HierarchyLevels,
		m.Model.ConfidenceScore,
		payload,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err := row.Scan(&m.ID, &m.CreatedAt); err != nil {
		return OrganizationMap{}, err
	}
	return m, nil
}

func (r *PGRepo) Get(ctx context.Context, userID, companyID string) (OrganizationMap, error) {
	const query = `
SELECT id, user_id, company_id, model, created_at, updated_at
FROM organizational_maps
WHERE user_id = $1 AND company_id = $2`
	m, err := scanMap(r.DB.QueryRowContext(ctx, query, userID, companyID))
	if errors.Is(err, sql.ErrNoRows) {
		return OrganizationMap{}, ErrNotFound
	}
	return m, err
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]OrganizationMap, error) {
	const query = `
SELECT id, user_id, company_id, model, created_at, updated_at
FROM organizational_maps
WHERE user_id = $1
ORDER BY updated_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []OrganizationMap{}
	for rows.Next() {
		m, err := scanMap(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMap(row rowScanner) (OrganizationMap, error) {
	var m OrganizationMap
	var payload []byte
	if err := row.Scan(&m.ID, &m.UserID, &m.CompanyID, &payload, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return OrganizationMap{}, err
	}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &m.Model); err != nil {
			return OrganizationMap{}, fmt.Errorf("decode organization model: %w", err)
		}
	}
	return m, nil
}
