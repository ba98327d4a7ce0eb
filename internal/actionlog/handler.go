package actionlog

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"growth-intel/internal/shared/server/middleware"
	"growth-intel/internal/shared/server/respond"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Handler serves the caller's action history.
type Handler struct {
	Recorder *Recorder
}

func NewHandler(recorder *Recorder) *Handler {
	return &Handler{Recorder: recorder}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/actions", h.list)
}

func (h *Handler) list(c *gin.Context) {
	limit := defaultListLimit
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	entries, err := h.Recorder.List(c.Request.Context(), middleware.UserIDFromContext(c), limit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list actions", nil)
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	respond.OK(c, gin.H{"items": entries})
}
