package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/electrify/backend/internal/contest"
	"github.com/emilythestrangee/electrify/backend/internal/middleware"
	"github.com/emilythestrangee/electrify/backend/internal/models"
	"github.com/emilythestrangee/electrify/backend/internal/notify"
)

type ContestHandler struct {
	svc      *contest.Service
	notifier notify.Notifier
}

func NewContestHandler(svc *contest.Service, notifier notify.Notifier) *ContestHandler {
	return &ContestHandler{svc: svc, notifier: notifier}
}

func contestIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("contestId"), 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid contest id", contest.ErrValidation)
	}
	return uint(id), nil
}

// CreateContest creates a new draft contest (PROTECTED)
func (h *ContestHandler) CreateContest(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "User not authenticated"})
		return
	}

	var input models.CreateContestRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	created, err := h.svc.CreateContest(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": created})
}

// AttachContestants adds entrants to an owned contest (PROTECTED)
func (h *ContestHandler) AttachContestants(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "User not authenticated"})
		return
	}

	contestID, err := contestIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var input struct {
		Contestants []models.AttachContestantRequest `json:"contestants" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Contestants should be an array"})
		return
	}

	// Ownership is a transport concern here; the store itself only
	// checks that the contest exists.
	existing, err := h.svc.GetContest(c.Request.Context(), contestID)
	if err != nil {
		respondError(c, err)
		return
	}
	if existing.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "You do not have permission to modify this contest"})
		return
	}

	if _, err := h.svc.AttachContestants(c.Request.Context(), contestID, input.Contestants); err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.svc.GetContest(c.Request.Context(), contestID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
}

// SetPublished publishes or unpublishes a contest (PROTECTED)
func (h *ContestHandler) SetPublished(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "User not authenticated"})
		return
	}

	contestID, err := contestIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var input struct {
		IsPublished *bool `json:"is_published" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "is_published is required"})
		return
	}

	var updated *models.Contest
	if *input.IsPublished {
		updated, err = h.svc.Publish(c.Request.Context(), contestID, userID)
	} else {
		updated, err = h.svc.Unpublish(c.Request.Context(), contestID, userID)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Contest unpublished"
	if updated.IsPublished {
		message = "Contest published!"
		notify.SendAsync(h.notifier, updated.User.Email, "Contest published",
			fmt.Sprintf("Your contest %q is now live.", updated.Name))
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": message, "data": updated})
}

// DeleteContest removes a contest and everything under it (PROTECTED)
func (h *ContestHandler) DeleteContest(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "User not authenticated"})
		return
	}

	contestID, err := contestIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), contestID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Contest deleted successfully"})
}

// GetMyContests returns the caller's contests with resolved standings (PROTECTED)
func (h *ContestHandler) GetMyContests(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "User not authenticated"})
		return
	}

	contests, err := h.svc.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	results := make([]contest.Results, 0, len(contests))
	for i := range contests {
		results = append(results, h.svc.ResolveSnapshot(&contests[i]))
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": results})
}

// GetPublishedContests lists all contests open to the public
func (h *ContestHandler) GetPublishedContests(c *gin.Context) {
	contests, err := h.svc.ListPublished(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if contests == nil {
		contests = []models.Contest{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": contests})
}

// GetContest returns one published contest with its contestants
func (h *ContestHandler) GetContest(c *gin.Context) {
	contestID, err := contestIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	found, err := h.svc.GetPublishedContest(c.Request.Context(), contestID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "contest": found})
}

// GetContestants returns a contest's contestants in display order
func (h *ContestHandler) GetContestants(c *gin.Context) {
	contestID, err := contestIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	found, err := h.svc.GetContest(c.Request.Context(), contestID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": found.Contestants})
}

// GetResults returns ranked standings; winners appear only after close
func (h *ContestHandler) GetResults(c *gin.Context) {
	contestID, err := contestIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	results, err := h.svc.ResolveContest(c.Request.Context(), contestID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": results})
}
