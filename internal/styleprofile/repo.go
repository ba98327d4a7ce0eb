package styleprofile

import "context"

// Repo persists one profile per user.
type Repo interface {
	Get(ctx context.Context, userID string) (StyleProfile, error)
	// Upsert stores p as the user's profile. The returned profile keeps the
	// original ID and CreatedAt when one already existed.
	Upsert(ctx context.Context, p StyleProfile) (StyleProfile, error)
}
