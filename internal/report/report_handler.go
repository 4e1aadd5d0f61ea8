package report

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jdsuarez23/comfachoco/internal/shared/apperror"
	"github.com/jdsuarez23/comfachoco/internal/shared/response"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("report.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("report request failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Stats(c *gin.Context) {
	resp, err := h.service.Stats(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ExportCSV(c *gin.Context) {
	filename := fmt.Sprintf("leave_requests_%d.csv", time.Now().Unix())
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	count, err := h.service.ExportCSV(c.Request.Context(), c.Writer)
	if err != nil {
		h.logger.Error("csv export failed", zap.Int("rows_written", count), zap.Error(err))
		return
	}
	h.logger.Info("csv export completed", zap.Int("rows", count))
}

func (h *Handler) TriggerTraining(c *gin.Context) {
	if err := h.service.TriggerTraining(c.Request.Context()); err != nil {
		response.Error(c, http.StatusServiceUnavailable, apperror.CodeServiceUnavailable,
			"model training could not be started", err.Error())
		return
	}

	response.Success(c, http.StatusOK, gin.H{"training": "completed"}, nil)
}
