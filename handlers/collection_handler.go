package handlers

import (
	"errors"
	"strconv"

	"rulehub/helper"
	"rulehub/models"
	"rulehub/services"

	"github.com/gin-gonic/gin"
)

type CollectionHandler struct {
	collectionService services.CollectionService
	Helper            *helper.HTTPHelper
}

func NewCollectionHandler(collectionService services.CollectionService) *CollectionHandler {
	return &CollectionHandler{collectionService: collectionService}
}

func (h *CollectionHandler) Create(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var req models.CreateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	collection, err := h.collectionService.Create(req, userID.(uint))
	if err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Collection created successfully", collection)
}

func (h *CollectionHandler) Get(c *gin.Context) {
	userID, _ := c.Get("user_id")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid collection ID", h.Helper.EmptyJsonMap())
		return
	}

	collection, err := h.collectionService.Get(uint(id), userID.(uint))
	if err != nil {
		if errors.Is(err, services.ErrNotCollectionOwner) {
			h.Helper.SendForbiddenError(c, err.Error(), h.Helper.EmptyJsonMap())
			return
		}
		h.Helper.SendInternalServerError(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}
	if collection == nil {
		h.Helper.SendNotFoundError(c, "Collection not found", h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Success", collection)
}

func (h *CollectionHandler) GetMine(c *gin.Context) {
	userID, _ := c.Get("user_id")

	collections, err := h.collectionService.GetForUser(userID.(uint))
	if err != nil {
		h.Helper.SendInternalServerError(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Success", collections)
}

func (h *CollectionHandler) GetPublic(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	collections, total, err := h.collectionService.GetPublic(page, limit)
	if err != nil {
		h.Helper.SendInternalServerError(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Success", gin.H{
		"collections": collections,
		"pagination":  h.Helper.GeneratePaging(page, limit, total),
	})
}

func (h *CollectionHandler) Update(c *gin.Context) {
	userID, _ := c.Get("user_id")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid collection ID", h.Helper.EmptyJsonMap())
		return
	}

	var req models.CreateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	collection, err := h.collectionService.Update(uint(id), req, userID.(uint))
	if err != nil {
		if errors.Is(err, services.ErrNotCollectionOwner) {
			h.Helper.SendForbiddenError(c, err.Error(), h.Helper.EmptyJsonMap())
			return
		}
		h.Helper.SendNotFoundError(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Collection updated successfully", collection)
}

func (h *CollectionHandler) Delete(c *gin.Context) {
	userID, _ := c.Get("user_id")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid collection ID", h.Helper.EmptyJsonMap())
		return
	}

	if err := h.collectionService.Delete(uint(id), userID.(uint)); err != nil {
		if errors.Is(err, services.ErrNotCollectionOwner) {
			h.Helper.SendForbiddenError(c, err.Error(), h.Helper.EmptyJsonMap())
			return
		}
		h.Helper.SendNotFoundError(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Collection deleted successfully", h.Helper.EmptyJsonMap())
}

func (h *CollectionHandler) AddRule(c *gin.Context) {
	userID, _ := c.Get("user_id")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid collection ID", h.Helper.EmptyJsonMap())
		return
	}

	ruleID, err := strconv.ParseUint(c.Param("rule_id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid rule ID", h.Helper.EmptyJsonMap())
		return
	}

	collection, err := h.collectionService.AddRule(uint(id), uint(ruleID), userID.(uint))
	if err != nil {
		if errors.Is(err, services.ErrNotCollectionOwner) {
			h.Helper.SendForbiddenError(c, err.Error(), h.Helper.EmptyJsonMap())
			return
		}
		h.Helper.SendNotFoundError(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Rule added to collection", collection)
}

func (h *CollectionHandler) RemoveRule(c *gin.Context) {
	userID, _ := c.Get("user_id")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid collection ID", h.Helper.EmptyJsonMap())
		return
	}

	ruleID, err := strconv.ParseUint(c.Param("rule_id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid rule ID", h.Helper.EmptyJsonMap())
		return
	}

	collection, err := h.collectionService.RemoveRule(uint(id), uint(ruleID), userID.(uint))
	if err != nil {
		if errors.Is(err, services.ErrNotCollectionOwner) {
			h.Helper.SendForbiddenError(c, err.Error(), h.Helper.EmptyJsonMap())
			return
		}
		h.Helper.SendNotFoundError(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Rule removed from collection", collection)
}
