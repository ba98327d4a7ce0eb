package orgintel

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores organization maps in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	maps map[mapKey]OrganizationMap
}

type mapKey struct {
	userID    string
	companyID string
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{maps: make(map[mapKey]OrganizationMap)}
}

func (r *MemoryRepo) Upsert(ctx context.Context, m OrganizationMap) (OrganizationMap, error) {
	if err := ctx.Err(); err != nil {
		return OrganizationMap{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := mapKey{userID: m.UserID, companyID: m.CompanyID}
	if existing, ok := r.maps[key]; ok {
		m.ID = existing.ID
		m.CreatedAt = existing.CreatedAt
	}
	r.maps[key] = m
	return m, nil
}

func (r *MemoryRepo) Get(ctx context.Context, userID, companyID string) (OrganizationMap, error) {
	if err := ctx.Err(); err != nil {
		return OrganizationMap{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.maps[mapKey{userID: userID, companyID: companyID}]
	if !ok {
		return OrganizationMap{}, ErrNotFound
	}
	return m, nil
}

// ListByUser returns the user's maps, most recently updated first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]OrganizationMap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []OrganizationMap{}
	for key, m := range r.maps {
		if key.userID == userID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].CompanyID < out[j].CompanyID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}
