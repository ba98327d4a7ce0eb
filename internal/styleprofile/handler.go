package styleprofile

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"growth-intel/internal/extract"
	"growth-intel/internal/llm"
	"growth-intel/internal/shared/server/middleware"
	"growth-intel/internal/shared/server/respond"
)

const (
	maxUploadSize = 5 << 20 // 5MB
	maxTextLength = 50000
)

// Handler wires HTTP handlers to the style service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches style-mirror routes to the router group. Extra
// middleware is applied to the model-backed routes only.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, modelMiddleware ...gin.HandlerFunc) {
	g := rg.Group("/style-mirror")
	g.GET("/profile", h.profile)
	g.POST("/samples", chain(modelMiddleware, h.analyzeSample)...)
	g.POST("/mirror", chain(modelMiddleware, h.mirror)...)
}

func chain(mw []gin.HandlerFunc, handler gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(mw)+1)
	out = append(out, mw...)
	return append(out, handler)
}

type sampleRequest struct {
	Text string `json:"text"`
}

func (h *Handler) analyzeSample(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)
		fileHeader, err := c.FormFile("file")
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
			return
		}
		defer file.Close()

		profile, err := h.Svc.AnalyzeUpload(c.Request.Context(), userID, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file)
		if err != nil {
			writeServiceError(c, err, "failed to analyze writing sample")
			return
		}
		respond.OK(c, profile)
		return
	}

	var req sampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if len(req.Text) > maxTextLength {
		respond.Error(c, http.StatusBadRequest, "validation_error", "text is too long", []respond.Issue{
			{Field: "text", Issue: "too_long"},
		})
		return
	}
	profile, err := h.Svc.AnalyzeSample(c.Request.Context(), userID, req.Text)
	if err != nil {
		writeServiceError(c, err, "failed to analyze writing sample")
		return
	}
	respond.OK(c, profile)
}

func (h *Handler) profile(c *gin.Context) {
	profile, err := h.Svc.Profile(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		writeServiceError(c, err, "failed to fetch style profile")
		return
	}
	respond.OK(c, profile)
}

type mirrorRequest struct {
	Text       string `json:"text"`
	TargetType string `json:"targetType"`
}

func (h *Handler) mirror(c *gin.Context) {
	var req mirrorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if len(req.Text) > maxTextLength {
		respond.Error(c, http.StatusBadRequest, "validation_error", "text is too long", []respond.Issue{
			{Field: "text", Issue: "too_long"},
		})
		return
	}
	mirrored, err := h.Svc.Mirror(c.Request.Context(), middleware.UserIDFromContext(c), req.Text, req.TargetType)
	if err != nil {
		writeServiceError(c, err, "failed to mirror style")
		return
	}
	respond.OK(c, gin.H{"mirroredText": mirrored})
}

func writeServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrEmptySample), errors.Is(err, ErrEmptyText):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrProfileNotFound):
		respond.Error(c, http.StatusNotFound, "no_style_profile", err.Error(), nil)
	case errors.Is(err, extract.ErrUnsupportedType):
		respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_media_type", "upload a PDF, DOCX or plain text file", nil)
	case errors.Is(err, llm.ErrNotConfigured):
		respond.Error(c, http.StatusServiceUnavailable, "llm_not_configured", "completion provider is not configured", nil)
	case errors.Is(err, ErrCompletionFailed):
		respond.Error(c, http.StatusBadGateway, "completion_failed", "the writing model did not return a usable response", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
