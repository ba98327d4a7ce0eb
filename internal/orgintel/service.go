package orgintel

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"growth-intel/internal/actionlog"
	"growth-intel/internal/shared/telemetry"
)

// DefaultRoutingGoal is used when a routing request names no goal.
const DefaultRoutingGoal = "response_rate"

// Service persists org analyses and serves routing recommendations.
type Service struct {
	Repo    Repo
	Engine  *Engine
	Actions *actionlog.Recorder
	Now     func() time.Time

	inflight singleflight.Group
}

// NewService constructs a Service.
func NewService(repo Repo, engine *Engine, actions *actionlog.Recorder) *Service {
	return &Service{Repo: repo, Engine: engine, Actions: actions, Now: time.Now}
}

// Analyze runs the engine for companyID and upserts the result. Concurrent
// calls for the same user, company and contact list share a single engine
// call. The shared work runs detached from any one caller's cancellation; a
// caller whose ctx ends stops waiting and gets ctx.Err().
func (s *Service) Analyze(ctx context.Context, userID, companyID string, contacts []ContactRecord) (OrganizationMap, error) {
	companyID = strings.TrimSpace(companyID)
	if companyID == "" || len(contacts) == 0 {
		return OrganizationMap{}, ErrInvalidInput
	}

	work := context.WithoutCancel(ctx)
	ch := s.inflight.DoChan(analysisKey(userID, companyID, contacts), func() (any, error) {
		return s.analyze(work, userID, companyID, contacts)
	})

	select {
	case <-ctx.Done():
		return OrganizationMap{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return OrganizationMap{}, res.Err
		}
		if res.Shared {
			telemetry.Info("org.analysis.shared", map[string]any{"user_id": userID, "company_id": companyID})
		}
		return res.Val.(OrganizationMap), nil
	}
}

func (s *Service) analyze(ctx context.Context, userID, companyID string, contacts []ContactRecord) (OrganizationMap, error) {
	model := s.Engine.AnalyzeOrganization(ctx, contacts)
	model.CompanyID = companyID

	now := s.now()
	saved, err := s.Repo.Upsert(ctx, OrganizationMap{
		ID:        uuid.NewString(),
		UserID:    userID,
		CompanyID: companyID,
		Model:     model,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return OrganizationMap{}, err
	}

	s.record(ctx, userID, actionlog.ActionOrgAnalysis, map[string]any{
		"companyId":        companyID,
		"contactsAnalyzed": len(contacts),
		"hierarchyLevels":  model.HierarchyLevels,
		"confidenceScore":  model.ConfidenceScore,
	})
	return saved, nil
}

// analysisKey identifies an in-flight analysis. Quoting keeps caller-supplied
// ids from colliding across the boundary, and the contact digest keeps
// different inputs from sharing a result.
func analysisKey(userID, companyID string, contacts []ContactRecord) string {
	raw, _ := json.Marshal(contacts)
	sum := sha256.Sum256(raw)
	return strconv.Quote(userID) + strconv.Quote(companyID) + hex.EncodeToString(sum[:])
}

// Get returns the stored map for companyID.
func (s *Service) Get(ctx context.Context, userID, companyID string) (OrganizationMap, error) {
	return s.Repo.Get(ctx, userID, strings.TrimSpace(companyID))
}

// List returns every map the user has analyzed.
func (s *Service) List(ctx context.Context, userID string) ([]OrganizationMap, error) {
	return s.Repo.ListByUser(ctx, userID)
}

// Route recommends a contact path for in. The target company must have been
// analyzed first; otherwise ErrNoOrgIntel is returned.
func (s *Service) Route(ctx context.Context, userID string, in RoutingInput) (RoutingRecommendation, error) {
	in.TargetCompanyID = strings.TrimSpace(in.TargetCompanyID)
	if in.TargetCompanyID == "" || strings.TrimSpace(in.EmailContent) == "" {
		return RoutingRecommendation{}, ErrInvalidInput
	}
	goal := strings.TrimSpace(in.RoutingGoal)
	if goal == "" {
		goal = DefaultRoutingGoal
	}

	m, err := s.Repo.Get(ctx, userID, in.TargetCompanyID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RoutingRecommendation{}, ErrNoOrgIntel
		}
		return RoutingRecommendation{}, err
	}

	rec := s.Engine.GenerateRouting(ctx, in.EmailContent, in.Contacts, m.Model, goal)
	s.record(ctx, userID, actionlog.ActionEmailRouting, map[string]any{
		"targetCompanyId": in.TargetCompanyID,
		"routingGoal":     goal,
		"recommendedPath": rec.Path,
		"confidenceScore": rec.ConfidenceScore,
	})
	return rec, nil
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
