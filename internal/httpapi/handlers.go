package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"

	"github.com/ytget/clipshr/internal/apperr"
	"github.com/ytget/clipshr/internal/model"
	"github.com/ytget/clipshr/internal/platform"
)

// Handler serves the HTTP endpoints
type Handler struct {
	service  Service
	mediaDir string
	logger   hclog.Logger
}

// NewHandler creates the endpoint handlers
func NewHandler(svc Service, mediaDir string, logger hclog.Logger) *Handler {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Handler{
		service:  svc,
		mediaDir: mediaDir,
		logger:   logger,
	}
}

type analyzeRequest struct {
	URL string `json:"url"`
}

type deleteRequest struct {
	Filename string `json:"filename"`
}

type downloadResponse struct {
	Success bool `json:"success"`
	*model.JobResult
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Deleted *int   `json:"deleted,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Analyze handles POST /analyze
func (h *Handler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperr.Invalid("Invalid request body"))
		return
	}

	analysis, err := h.service.Analyze(c.Request.Context(), req.URL)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

// Download handles POST /download and returns once the job has finished
func (h *Handler) Download(c *gin.Context) {
	var opts model.DownloadOptions
	if err := c.ShouldBindJSON(&opts); err != nil {
		h.fail(c, apperr.Invalid("Invalid request body"))
		return
	}

	result, err := h.service.Download(c.Request.Context(), opts)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, downloadResponse{Success: true, JobResult: result})
}

// StartDownload handles POST /downloads and answers before the job runs
func (h *Handler) StartDownload(c *gin.Context) {
	var opts model.DownloadOptions
	if err := c.ShouldBindJSON(&opts); err != nil {
		h.fail(c, apperr.Invalid("Invalid request body"))
		return
	}

	jobID, err := h.service.StartDownload(c.Request.Context(), opts)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"download_id": jobID})
}

// Progress handles GET /progress/:id. Unknown ids yield the sentinel record.
func (h *Handler) Progress(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Progress(c.Param("id")))
}

// History handles GET /history
func (h *Handler) History(c *gin.Context) {
	records, err := h.service.History()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// Delete handles POST /delete
func (h *Handler) Delete(c *gin.Context) {
	var req deleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperr.Invalid("Invalid request body"))
		return
	}

	if err := h.service.Delete(req.Filename); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Success: true, Message: "File deleted"})
}

// ClearHistory handles POST /clear-history
func (h *Handler) ClearHistory(c *gin.Context) {
	deleted, err := h.service.ClearHistory()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{
		Success: true,
		Message: fmt.Sprintf("History cleared, %d files deleted", deleted),
		Deleted: &deleted,
	})
}

// Media handles GET /media/*filename
func (h *Handler) Media(c *gin.Context) {
	name := strings.TrimPrefix(c.Param("filename"), "/")
	if err := platform.ValidateFilename(name); err != nil {
		h.fail(c, apperr.Invalid("Invalid filename"))
		return
	}

	path := filepath.Join(h.mediaDir, name)
	if !platform.FileExists(path) {
		c.JSON(http.StatusNotFound, errorResponse{Error: "File not found"})
		return
	}
	c.File(path)
}

// fail writes err as {"error": ...} with the status of its kind
func (h *Handler) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := err.Error()

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		status = appErr.HTTPStatus()
		message = appErr.UserMessage()
	}

	kind := apperr.KindOf(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "path", c.Request.URL.Path, "kind", kind, "error", err)
	} else {
		h.logger.Debug("request rejected", "path", c.Request.URL.Path, "kind", kind, "error", err)
	}
	c.JSON(status, errorResponse{Error: message})
}
