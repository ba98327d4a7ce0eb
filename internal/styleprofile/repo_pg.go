package styleprofile

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres. The style fields are stored as one
// jsonb document; confidence and sample count get their own columns.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Get(ctx context.Context, userID string) (StyleProfile, error) {
	const query = `
SELECT id, user_id, style, confidence_score, samples_analyzed, created_at, updated_at
FROM style_profiles
WHERE user_id = $1`
	var p StyleProfile
	var style []byte
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&p.ID,
		&p.UserID,
		&style,
		&p.ConfidenceScore,
		&p.SamplesAnalyzed,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return StyleProfile{}, ErrNotFound
	}
	if err != nil {
		return StyleProfile{}, err
	}
	if len(style) > 0 {
		if err := json.Unmarshal(style, &p.Style); err != nil {
			return StyleProfile{}, fmt.Errorf("decode style: %w", err)
		}
	}
	return p, nil
}

func (r *PGRepo) Upsert(ctx context.Context, p StyleProfile) (StyleProfile, error) {
	const query = `
INSERT INTO style_profiles (id, user_id, style, confidence_score, samples_analyzed, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (user_id) DO UPDATE SET
	style = EXCLUDED.style,
	confidence_score = EXCLUDED.confidence_score,
	samples_analyzed = EXCLUDED.samples_analyzed,
	updated_at = EXCLUDED.updated_at
RETURNING id, created_at`
	style, err := json.Marshal(p.Style)
	if err != nil {
		return StyleProfile{}, fmt.Errorf("encode style: %w", err)
	}
	err = r.DB.QueryRowContext(ctx, query,
		p.ID,
		p.UserID,
		style,
		p.ConfidenceScore,
		p.SamplesAnalyzed,
		p.CreatedAt,
		p.UpdatedAt,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return StyleProfile{}, err
	}
	return p, nil
}
