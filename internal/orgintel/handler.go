package orgintel

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"growth-intel/internal/shared/server/middleware"
	"growth-intel/internal/shared/server/respond"
)

const maxContacts = 500

// Handler wires HTTP handlers to the org-intel service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches org-intel routes to the router group. Extra
// middleware is applied to the model-backed routes only.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, modelMiddleware ...gin.HandlerFunc) {
	g := rg.Group("/org-intel")
	g.GET("", h.list)
	g.GET("/:companyId", h.get)
	g.POST("/analyze", chain(modelMiddleware, h.analyze)...)
	g.POST("/routing", chain(modelMiddleware, h.route)...)
}

func chain(mw []gin.HandlerFunc, handler gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(mw)+1)
	out = append(out, mw...)
	return append(out, handler)
}

type analyzeRequest struct {
	CompanyID string          `json:"companyId"`
	Contacts  []ContactRecord `json:"contacts"`
}

func (h *Handler) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if issues := validateAnalyze(req); len(issues) > 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid analysis request", issues)
		return
	}

	middleware.SetCompanyID(c, req.CompanyID)
	m, err := h.Svc.Analyze(c.Request.Context(), middleware.UserIDFromContext(c), req.CompanyID, req.Contacts)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "companyId and contacts are required", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to analyze organization", nil)
		}
		return
	}
	respond.OK(c, m)
}

func validateAnalyze(req analyzeRequest) []respond.Issue {
	var issues []respond.Issue
	if strings.TrimSpace(req.CompanyID) == "" {
		issues = append(issues, respond.Issue{Field: "companyId", Issue: "required"})
	}
	switch {
	case len(req.Contacts) == 0:
		issues = append(issues, respond.Issue{Field: "contacts", Issue: "required"})
	case len(req.Contacts) > maxContacts:
		issues = append(issues, respond.Issue{Field: "contacts", Issue: "too_many"})
	}
	return issues
}

func (h *Handler) list(c *gin.Context) {
	maps, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list organization maps", nil)
		return
	}
	respond.OK(c, gin.H{"items": maps})
}

func (h *Handler) get(c *gin.Context) {
	companyID := c.Param("companyId")
	middleware.SetCompanyID(c, companyID)
	m, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), companyID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "organization map not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch organization map", nil)
		}
		return
	}
	respond.OK(c, m)
}

func (h *Handler) route(c *gin.Context) {
	var req RoutingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if len(req.Contacts) > maxContacts {
		respond.Error(c, http.StatusBadRequest, "validation_error", "too many contacts", []respond.Issue{
			{Field: "contacts", Issue: "too_many"},
		})
		return
	}

	middleware.SetCompanyID(c, req.TargetCompanyID)
	rec, err := h.Svc.Route(c.Request.Context(), middleware.UserIDFromContext(c), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "targetCompanyId and emailContent are required", nil)
		case errors.Is(err, ErrNoOrgIntel):
			respond.Error(c, http.StatusNotFound, "no_org_intel", ErrNoOrgIntel.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to generate routing", nil)
		}
		return
	}
	respond.OK(c, rec)
}
