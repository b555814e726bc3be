package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/electrify/backend/internal/contest"
	"github.com/emilythestrangee/electrify/backend/internal/middleware"
)

type VoteHandler struct {
	svc *contest.Service
}

func NewVoteHandler(svc *contest.Service) *VoteHandler {
	return &VoteHandler{svc: svc}
}

// CastVote admits a single public vote. The voter key comes from the
// voter cookie (or client IP for cookie-less callers), so no login is
// required to vote.
func (h *VoteHandler) CastVote(c *gin.Context) {
	contestID, err := contestIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var input struct {
		ContestantID uint `json:"contestant_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "contestant_id is required"})
		return
	}

	voterKey := middleware.VoterKey(c)

	currentVotes, err := h.svc.CastVote(c.Request.Context(), contestID, input.ContestantID, voterKey)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Vote recorded successfully",
		"current_votes": currentVotes,
	})
}
