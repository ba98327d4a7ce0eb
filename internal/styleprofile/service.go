package styleprofile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"growth-intel/internal/actionlog"
	"growth-intel/internal/extract"
	"growth-intel/internal/shared/metrics"
	"growth-intel/internal/shared/storage/object"
	"growth-intel/internal/shared/telemetry"
)

// ErrCompletionFailed marks errors that came from the model call or its reply.
var ErrCompletionFailed = errors.New("completion failed")

// Service builds and applies per-user style profiles.
type Service struct {
	Repo    Repo
	Engine  *Engine
	Store   object.Store
	Actions *actionlog.Recorder
	Now     func() time.Time
}

// NewService constructs a Service. store may be nil, in which case uploads
// are extracted in memory without being archived.
func NewService(repo Repo, engine *Engine, store object.Store, actions *actionlog.Recorder) *Service {
	return &Service{Repo: repo, Engine: engine, Store: store, Actions: actions, Now: time.Now}
}

// AnalyzeSample analyzes text and merges the result into the user's profile,
// creating the profile on the first sample.
func (s *Service) AnalyzeSample(ctx context.Context, userID, text string) (StyleProfile, error) {
	if strings.TrimSpace(text) == "" {
		return StyleProfile{}, ErrEmptySample
	}

	analysis, err := s.Engine.AnalyzeSample(ctx, text)
	if err != nil {
		metrics.IncStyleFailure()
		telemetry.Error("style.analysis.failed", map[string]any{"user_id": userID, "error": err})
		return StyleProfile{}, fmt.Errorf("%w: %w", ErrCompletionFailed, err)
	}

	now := s.now()
	existing, err := s.Repo.Get(ctx, userID)
	var profile StyleProfile
	merged := false
	switch {
	case err == nil:
		profile = MergeProfile(existing, analysis, now)
		merged = true
	case errors.Is(err, ErrNotFound):
		profile = NewProfile(uuid.NewString(), userID, analysis, now)
	default:
		return StyleProfile{}, err
	}

	saved, err := s.Repo.Upsert(ctx, profile)
	if err != nil {
		return StyleProfile{}, err
	}
	metrics.IncStyleSample(merged)

	s.record(ctx, userID, actionlog.ActionStyleAnalysis, map[string]any{
		"sampleLength":    len(text),
		"merged":          merged,
		"tone":            saved.Tone,
		"formalityLevel":  saved.FormalityLevel,
		"confidenceScore": saved.ConfidenceScore,
	})
	return saved, nil
}

// AnalyzeUpload archives an uploaded sample, extracts its text and analyzes it.
func (s *Service) AnalyzeUpload(ctx context.Context, userID, fileName, mimeType string, r io.Reader) (StyleProfile, error) {
	var text string
	if s.Store == nil {
		data, err := io.ReadAll(r)
		if err != nil {
			return StyleProfile{}, fmt.Errorf("read upload: %w", err)
		}
		text, err = extract.TextFromBytes(ctx, data, mimeType, fileName)
		if err != nil {
			return StyleProfile{}, err
		}
	} else {
		obj, err := s.Store.Save(ctx, userID, fileName, r)
		if err != nil {
			return StyleProfile{}, fmt.Errorf("archive sample: %w", err)
		}
		if strings.TrimSpace(mimeType) == "" || strings.HasPrefix(mimeType, "application/octet-stream") {
			mimeType = obj.ContentType
		}
		text, err = extract.StoredText(ctx, s.Store, obj.Key, mimeType, fileName)
		if err != nil {
			return StyleProfile{}, err
		}
		telemetry.Info("style.sample.archived", map[string]any{
			"user_id":     userID,
			"storage_key": obj.Key,
			"size_bytes":  obj.Size,
		})
	}
	return s.AnalyzeSample(ctx, userID, text)
}

// Profile returns the user's stored profile.
func (s *Service) Profile(ctx context.Context, userID string) (StyleProfile, error) {
	p, err := s.Repo.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return StyleProfile{}, ErrProfileNotFound
	}
	return p, err
}

// Mirror rewrites text in the user's voice.
func (s *Service) Mirror(ctx context.Context, userID, text, targetType string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}
	if strings.TrimSpace(targetType) == "" {
		targetType = DefaultTargetType
	}
	profile, err := s.Profile(ctx, userID)
	if err != nil {
		return "", err
	}

	mirrored, err := s.Engine.MirrorStyle(ctx, text, profile, targetType)
	if err != nil {
		metrics.IncStyleFailure()
		telemetry.Error("style.mirror.failed", map[string]any{"user_id": userID, "error": err})
		return "", fmt.Errorf("%w: %w", ErrCompletionFailed, err)
	}
	metrics.IncStyleMirror()

	s.record(ctx, userID, actionlog.ActionStyleMirror, map[string]any{
		"targetType":      targetType,
		"originalLength":  len(text),
		"mirroredLength":  len(mirrored),
		"confidenceScore": profile.ConfidenceScore,
	})
	return mirrored, nil
}

func (s *Service) record(ctx context.Context, userID, actionType string, details map[string]any) {
	if s.Actions == nil {
		return
	}
	if _, err := s.Actions.Record(ctx, userID, actionType, details); err != nil {
		telemetry.Error("actionlog.record_failed", map[string]any{
			"action_type": actionType,
			"user_id":     userID,
			"error":       err,
		})
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
