package actionlog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"growth-intel/internal/shared/telemetry"
)

// Recorder appends entries to the repo and then publishes them.
type Recorder struct {
	Repo      Repo
	Publisher Publisher
	Now       func() time.Time
}

func NewRecorder(repo Repo, publisher Publisher) *Recorder {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &Recorder{Repo: repo, Publisher: publisher, Now: time.Now}
}

// Record persists one entry. A publish failure is logged, not returned.
func (r *Recorder) Record(ctx context.Context, userID, actionType string, details map[string]any) (Entry, error) {
	if r == nil || r.Repo == nil {
		return Entry{}, errors.New("action log not configured")
	}
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	entry := Entry{
		ID:         uuid.NewString(),
		UserID:     userID,
		ActionType: actionType,
		Details:    details,
		Timestamp:  now().UTC(),
	}
	if err := r.Repo.Append(ctx, entry); err != nil {
		return Entry{}, err
	}
	if r.Publisher != nil {
		if err := r.Publisher.Publish(ctx, entry); err != nil {
			telemetry.Warn("actionlog.publish_failed", map[string]any{
				"action_type": actionType,
				"user_id":     userID,
				"error":       err,
			})
		}
	}
	return entry, nil
}

// List returns the user's most recent entries.
func (r *Recorder) List(ctx context.Context, userID string, limit int) ([]Entry, error) {
	if r == nil || r.Repo == nil {
		return nil, errors.New("action log not configured")
	}
	return r.Repo.ListByUser(ctx, userID, limit)
}
