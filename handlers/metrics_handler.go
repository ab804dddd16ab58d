package handlers

import (
	"log/slog"

	"rulehub/helper"
	"rulehub/models"

	"github.com/gin-gonic/gin"
)

type MetricsHandler struct {
	Helper *helper.HTTPHelper
}

func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// ReportWebVital accepts a browser performance sample. Samples are logged
// only; nothing is persisted.
func (h *MetricsHandler) ReportWebVital(c *gin.Context) {
	var req models.WebVitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	slog.Info("Web vital reported", "name", req.Name, "value", *req.Value, "id", req.ID)

	h.Helper.SendSuccess(c, "Recorded", h.Helper.EmptyJsonMap())
}
