package actionlog

import "context"

// Repo persists action-log entries. There is no update or delete path.
type Repo interface {
	Append(ctx context.Context, entry Entry) error
	ListByUser(ctx context.Context, userID string, limit int) ([]Entry, error)
}
