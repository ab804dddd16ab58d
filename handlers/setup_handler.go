package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"rulehub/helper"
	"rulehub/models"
	"rulehub/services"

	"github.com/gin-gonic/gin"
	"gopkg.in/go-playground/validator.v9"
)

type SetupHandler struct {
	setupService services.SetupService
	Helper       *helper.HTTPHelper
}

func NewSetupHandler(setupService services.SetupService) *SetupHandler {
	return &SetupHandler{setupService: setupService}
}

// GeneratePackage builds a zip of rules matching the wizard answers and
// streams it back as a download.
func (h *SetupHandler) GeneratePackage(c *gin.Context) {
	var req models.SetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	if h.Helper.Validate != nil {
		if err := h.Helper.Validate.Struct(req); err != nil {
			if validationErrors, ok := err.(validator.ValidationErrors); ok {
				h.Helper.SendValidationError(c, validationErrors)
				return
			}
			h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
			return
		}
	}

	pkg, err := h.setupService.GeneratePackage(req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidSetup):
			h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		case errors.Is(err, services.ErrNoMatchingRules):
			h.Helper.SendNotFoundError(c, err.Error(), h.Helper.EmptyJsonMap())
		default:
			h.Helper.SendInternalServerError(c, err.Error(), h.Helper.EmptyJsonMap())
		}
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", pkg.Filename))
	c.Header("X-Session-Id", pkg.SessionID)
	c.Header("X-Rule-Count", fmt.Sprintf("%d", pkg.RuleCount))
	c.Data(http.StatusOK, "application/zip", pkg.Content)
}
