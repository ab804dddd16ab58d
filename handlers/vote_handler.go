package handlers

import (
	"errors"
	"strconv"

	"rulehub/helper"
	"rulehub/repositories"
	"rulehub/services"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct {
	voteService services.VoteService
	Helper      *helper.HTTPHelper
}

func NewVoteHandler(voteService services.VoteService) *VoteHandler {
	return &VoteHandler{voteService: voteService}
}

func (h *VoteHandler) AddVote(c *gin.Context) {
	userID, _ := c.Get("user_id")

	ruleID, err := strconv.ParseUint(c.Param("identifier"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid rule ID", h.Helper.EmptyJsonMap())
		return
	}

	rule, err := h.voteService.AddVote(userID.(uint), uint(ruleID))
	if err != nil {
		if errors.Is(err, repositories.ErrVoteExists) {
			h.Helper.SendConflictError(c, err.Error(), h.Helper.EmptyJsonMap())
			return
		}
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Vote added", gin.H{"rule_id": rule.ID, "votes": rule.Votes})
}

func (h *VoteHandler) RemoveVote(c *gin.Context) {
	userID, _ := c.Get("user_id")

	ruleID, err := strconv.ParseUint(c.Param("identifier"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid rule ID", h.Helper.EmptyJsonMap())
		return
	}

	rule, err := h.voteService.RemoveVote(userID.(uint), uint(ruleID))
	if err != nil {
		if errors.Is(err, repositories.ErrVoteNotFound) {
			h.Helper.SendNotFoundError(c, err.Error(), h.Helper.EmptyJsonMap())
			return
		}
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Vote removed", gin.H{"rule_id": rule.ID, "votes": rule.Votes})
}

func (h *VoteHandler) GetVoteStatus(c *gin.Context) {
	userID, _ := c.Get("user_id")

	ruleID, err := strconv.ParseUint(c.Param("identifier"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid rule ID", h.Helper.EmptyJsonMap())
		return
	}

	voted, err := h.voteService.HasVoted(userID.(uint), uint(ruleID))
	if err != nil {
		h.Helper.SendInternalServerError(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Success", gin.H{"voted": voted})
}
