package handlers

import (
	"errors"
	"strconv"

	"rulehub/helper"
	"rulehub/models"
	"rulehub/services"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminService services.AdminService
	Helper       *helper.HTTPHelper
}

func NewAdminHandler(adminService services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func (h *AdminHandler) ListAdmins(c *gin.Context) {
	admins, err := h.adminService.ListAdmins()
	if err != nil {
		h.Helper.SendInternalServerError(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Success", admins)
}

func (h *AdminHandler) AddAdmin(c *gin.Context) {
	adminEmail, _ := c.Get("admin_email")

	var req models.AddAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	admin, err := h.adminService.AddAdmin(req.Email, adminEmail.(string))
	if err != nil {
		if errors.Is(err, services.ErrAdminExists) {
			h.Helper.SendConflictError(c, err.Error(), h.Helper.EmptyJsonMap())
			return
		}
		h.Helper.SendInternalServerError(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Admin added successfully", admin)
}

func (h *AdminHandler) RemoveAdmin(c *gin.Context) {
	adminEmail, _ := c.Get("admin_email")
	targetEmail := c.Param("email")

	err := h.adminService.RemoveAdmin(adminEmail.(string), targetEmail)
	if err != nil {
		if errors.Is(err, services.ErrSelfRemoval) {
			h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
			return
		}
		if errors.Is(err, services.ErrAdminNotFound) {
			h.Helper.SendNotFoundError(c, err.Error(), h.Helper.EmptyJsonMap())
			return
		}
		h.Helper.SendInternalServerError(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Admin removed successfully", h.Helper.EmptyJsonMap())
}

func (h *AdminHandler) DatabaseStats(c *gin.Context) {
	stats, err := h.adminService.DatabaseStats()
	if err != nil {
		h.Helper.SendInternalServerError(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Success", stats)
}

// Backup, Cleanup and Optimize report success without doing real work; the
// managed database service owns those operations.
func (h *AdminHandler) Backup(c *gin.Context) {
	h.Helper.SendSuccess(c, "Backup completed", h.adminService.SimulateMaintenance("backup"))
}

func (h *AdminHandler) Cleanup(c *gin.Context) {
	h.Helper.SendSuccess(c, "Cleanup completed", h.adminService.SimulateMaintenance("cleanup"))
}

func (h *AdminHandler) Optimize(c *gin.Context) {
	h.Helper.SendSuccess(c, "Optimize completed", h.adminService.SimulateMaintenance("optimize"))
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	users, total, err := h.adminService.ListUsers(page, limit)
	if err != nil {
		h.Helper.SendInternalServerError(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Success", gin.H{
		"users":      users,
		"pagination": h.Helper.GeneratePaging(page, limit, total),
	})
}

func (h *AdminHandler) UserStats(c *gin.Context) {
	stats, err := h.adminService.UserStats()
	if err != nil {
		h.Helper.SendInternalServerError(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Success", stats)
}
