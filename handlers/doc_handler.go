package handlers

import (
	"errors"
	"strconv"

	"rulehub/helper"
	"rulehub/models"
	"rulehub/services"

	"github.com/gin-gonic/gin"
)

type DocHandler struct {
	docService services.DocService
	Helper     *helper.HTTPHelper
}

func NewDocHandler(docService services.DocService) *DocHandler {
	return &DocHandler{docService: docService}
}

func (h *DocHandler) CreatePage(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var req models.CreateDocPageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	page, err := h.docService.CreatePage(req, userID.(uint))
	if err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Page created successfully", page)
}

func (h *DocHandler) UpdatePage(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid page ID", h.Helper.EmptyJsonMap())
		return
	}

	var req models.UpdateDocPageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	page, err := h.docService.UpdatePage(uint(id), req)
	if err != nil {
		if errors.Is(err, services.ErrPageCycle) {
			h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
			return
		}
		h.Helper.SendNotFoundError(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Page updated successfully", page)
}

func (h *DocHandler) DeletePage(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid page ID", h.Helper.EmptyJsonMap())
		return
	}

	if err := h.docService.DeletePage(uint(id)); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Page deleted successfully", h.Helper.EmptyJsonMap())
}

// GetPage returns the page plus its breadcrumb trail.
func (h *DocHandler) GetPage(c *gin.Context) {
	page, err := h.docService.GetPage(c.Param("identifier"))
	if err != nil {
		h.Helper.SendInternalServerError(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}
	if page == nil {
		h.Helper.SendNotFoundError(c, "Page not found", h.Helper.EmptyJsonMap())
		return
	}

	breadcrumbs, err := h.docService.GetBreadcrumbs(page)
	if err != nil {
		h.Helper.SendInternalServerError(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Success", gin.H{
		"page":        page,
		"breadcrumbs": breadcrumbs,
	})
}

func (h *DocHandler) GetTree(c *gin.Context) {
	tree, err := h.docService.GetTree()
	if err != nil {
		h.Helper.SendInternalServerError(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Success", tree)
}

func (h *DocHandler) SearchPages(c *gin.Context) {
	var params models.DocSearchParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	pages, total, err := h.docService.Search(params)
	if err != nil {
		h.Helper.SendInternalServerError(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Success", gin.H{
		"pages":      pages,
		"pagination": h.Helper.GeneratePaging(params.Page, params.Limit, total),
	})
}

func (h *DocHandler) CreateComment(c *gin.Context) {
	userID, _ := c.Get("user_id")

	pageID, err := strconv.ParseUint(c.Param("identifier"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid page ID", h.Helper.EmptyJsonMap())
		return
	}

	var req models.CreateDocCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	comment, err := h.docService.CreateComment(uint(pageID), req, userID.(uint))
	if err != nil {
		h.Helper.SendNotFoundError(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Comment created successfully", comment)
}

func (h *DocHandler) GetComments(c *gin.Context) {
	pageID, err := strconv.ParseUint(c.Param("identifier"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid page ID", h.Helper.EmptyJsonMap())
		return
	}

	comments, err := h.docService.GetComments(uint(pageID))
	if err != nil {
		h.Helper.SendNotFoundError(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Success", comments)
}

func (h *DocHandler) UpdateComment(c *gin.Context) {
	userID, _ := c.Get("user_id")

	id, err := strconv.ParseUint(c.Param("comment_id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid comment ID", h.Helper.EmptyJsonMap())
		return
	}

	var req models.UpdateDocCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	comment, err := h.docService.UpdateComment(uint(id), req, userID.(uint))
	if err != nil {
		if errors.Is(err, services.ErrNotCommentOwner) {
			h.Helper.SendForbiddenError(c, err.Error(), h.Helper.EmptyJsonMap())
			return
		}
		h.Helper.SendNotFoundError(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Comment updated successfully", comment)
}

func (h *DocHandler) DeleteComment(c *gin.Context) {
	userID, _ := c.Get("user_id")

	id, err := strconv.ParseUint(c.Param("comment_id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid comment ID", h.Helper.EmptyJsonMap())
		return
	}

	if err := h.docService.DeleteComment(uint(id), userID.(uint)); err != nil {
		if errors.Is(err, services.ErrNotCommentOwner) {
			h.Helper.SendForbiddenError(c, err.Error(), h.Helper.EmptyJsonMap())
			return
		}
		h.Helper.SendNotFoundError(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Comment deleted successfully", h.Helper.EmptyJsonMap())
}

func (h *DocHandler) ResolveComment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("comment_id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid comment ID", h.Helper.EmptyJsonMap())
		return
	}

	comment, err := h.docService.ResolveComment(uint(id))
	if err != nil {
		h.Helper.SendNotFoundError(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Comment resolved", comment)
}

func (h *DocHandler) CreateTag(c *gin.Context) {
	var req models.CreateDocTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	tag, err := h.docService.CreateTag(req)
	if err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Tag created successfully", tag)
}

func (h *DocHandler) GetTags(c *gin.Context) {
	tags, err := h.docService.GetTags()
	if err != nil {
		h.Helper.SendInternalServerError(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Success", tags)
}

func (h *DocHandler) UpdateTag(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid tag ID", h.Helper.EmptyJsonMap())
		return
	}

	var req models.UpdateDocTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	tag, err := h.docService.UpdateTag(uint(id), req)
	if err != nil {
		h.Helper.SendNotFoundError(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Tag updated successfully", tag)
}

func (h *DocHandler) DeleteTag(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid tag ID", h.Helper.EmptyJsonMap())
		return
	}

	if err := h.docService.DeleteTag(uint(id)); err != nil {
		if errors.Is(err, services.ErrTagInUse) {
			h.Helper.SendConflictError(c, err.Error(), h.Helper.EmptyJsonMap())
			return
		}
		h.Helper.SendNotFoundError(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Tag deleted successfully", h.Helper.EmptyJsonMap())
}
