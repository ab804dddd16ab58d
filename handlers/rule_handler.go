package handlers

import (
	"strconv"

	"rulehub/helper"
	"rulehub/models"
	"rulehub/services"

	"github.com/gin-gonic/gin"
)

type RuleHandler struct {
	ruleService services.RuleService
	Helper      *helper.HTTPHelper
}

func NewRuleHandler(ruleService services.RuleService) *RuleHandler {
	return &RuleHandler{ruleService: ruleService}
}

func (h *RuleHandler) GetCategories(c *gin.Context) {
	categories, err := h.ruleService.GetCategories()
	if err != nil {
		h.Helper.SendInternalServerError(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Success", categories)
}

func (h *RuleHandler) GetCategory(c *gin.Context) {
	category, err := h.ruleService.GetCategory(c.Param("identifier"))
	if err != nil {
		h.Helper.SendInternalServerError(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}
	if category == nil {
		h.Helper.SendNotFoundError(c, "Category not found", h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Success", category)
}

func (h *RuleHandler) GetRules(c *gin.Context) {
	var params models.RuleListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	rules, total, err := h.ruleService.GetRules(params)
	if err != nil {
		h.Helper.SendInternalServerError(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Success", gin.H{
		"rules":      rules,
		"pagination": h.Helper.GeneratePaging(params.Page, params.Limit, total),
	})
}

// GetRule resolves id, slug or legacy path fragments so old links keep
// working.
func (h *RuleHandler) GetRule(c *gin.Context) {
	rule, err := h.ruleService.FindRule(c.Param("identifier"))
	if err != nil {
		h.Helper.SendInternalServerError(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}
	if rule == nil {
		h.Helper.SendNotFoundError(c, "Rule not found", h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Success", rule)
}

// LookupRule resolves identifiers that cannot travel in a path segment,
// such as legacy source fragments containing slashes.
func (h *RuleHandler) LookupRule(c *gin.Context) {
	identifier := c.Query("path")
	if identifier == "" {
		h.Helper.SendBadRequest(c, "Missing path parameter", h.Helper.EmptyJsonMap())
		return
	}

	rule, err := h.ruleService.FindRule(identifier)
	if err != nil {
		h.Helper.SendInternalServerError(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}
	if rule == nil {
		h.Helper.SendNotFoundError(c, "Rule not found", h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Success", rule)
}

func (h *RuleHandler) GetRuleVersions(c *gin.Context) {
	rule, err := h.ruleService.FindRule(c.Param("identifier"))
	if err != nil {
		h.Helper.SendInternalServerError(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}
	if rule == nil {
		h.Helper.SendNotFoundError(c, "Rule not found", h.Helper.EmptyJsonMap())
		return
	}

	versions, err := h.ruleService.GetRuleVersions(rule.ID)
	if err != nil {
		h.Helper.SendInternalServerError(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Success", versions)
}

func (h *RuleHandler) CreateRule(c *gin.Context) {
	var req models.CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	rule, err := h.ruleService.CreateRule(req)
	if err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Rule created successfully", rule)
}

func (h *RuleHandler) UpdateRule(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid rule ID", h.Helper.EmptyJsonMap())
		return
	}

	var req models.UpdateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	rule, err := h.ruleService.UpdateRule(uint(id), req)
	if err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Rule updated successfully", rule)
}

func (h *RuleHandler) DeleteRule(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid rule ID", h.Helper.EmptyJsonMap())
		return
	}

	if err := h.ruleService.DeleteRule(uint(id)); err != nil {
		h.Helper.SendNotFoundError(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Rule deleted successfully", h.Helper.EmptyJsonMap())
}

func (h *RuleHandler) CreateCategory(c *gin.Context) {
	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	category, err := h.ruleService.CreateCategory(req)
	if err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Category created successfully", category)
}

func (h *RuleHandler) UpdateCategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid category ID", h.Helper.EmptyJsonMap())
		return
	}

	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	category, err := h.ruleService.UpdateCategory(uint(id), req)
	if err != nil {
		h.Helper.SendNotFoundError(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Category updated successfully", category)
}

func (h *RuleHandler) DeleteCategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid category ID", h.Helper.EmptyJsonMap())
		return
	}

	if err := h.ruleService.DeleteCategory(uint(id)); err != nil {
		h.Helper.SendNotFoundError(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Category deleted successfully", h.Helper.EmptyJsonMap())
}
