package actionlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Append(ctx context.Context, entry Entry) error {
	const query = `
INSERT INTO action_logs (id, user_id, action_type, details, created_at)
VALUES ($1, $2, $3, $4, $5)`
	details, err := json.Marshal(entry.Details)
	if err != nil {
		return fmt.Errorf("encode action details: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, query,
		entry.ID,
		entry.UserID,
		entry.ActionType,
		details,
		entry.Timestamp,
	)
	return err
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
SELECT id, user_id, action_type, details, created_at
FROM action_logs
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var e Entry
		var details []byte
		if err := rows.Scan(&e.ID, &e.UserID, &e.ActionType, &details, &e.Timestamp); err != nil {
			return nil, err
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &e.Details); err != nil {
				e.Details = nil
			}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
