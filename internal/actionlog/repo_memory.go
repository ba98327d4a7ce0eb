package actionlog

import (
	"context"
	"sync"
)

// MemoryRepo stores entries in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu     sync.RWMutex
	byUser map[string][]Entry
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byUser: make(map[string][]Entry)}
}

func (r *MemoryRepo) Append(ctx context.Context, entry Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[entry.UserID] = append(r.byUser[entry.UserID], entry)
	return nil
}

// ListByUser returns the newest entries first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit int) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := r.byUser[userID]
	out := make([]Entry, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		out = append(out, entries[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
