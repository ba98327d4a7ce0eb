package styleprofile

import (
	"context"
	"sync"
)

// MemoryRepo stores profiles in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu     sync.RWMutex
	byUser map[string]StyleProfile
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byUser: make(map[string]StyleProfile)}
}

func (r *MemoryRepo) Get(ctx context.Context, userID string) (StyleProfile, error) {
	if err := ctx.Err(); err != nil {
		return StyleProfile{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byUser[userID]
	if !ok {
		return StyleProfile{}, ErrNotFound
	}
	return p, nil
}

func (r *MemoryRepo) Upsert(ctx context.Context, p StyleProfile) (StyleProfile, error) {
	if err := ctx.Err(); err != nil {
		return StyleProfile{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byUser[p.UserID]; ok {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	}
	r.byUser[p.UserID] = p
	return p, nil
}
