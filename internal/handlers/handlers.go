package handlers

import (
	"gorm.io/gorm"

	"github.com/emilythestrangee/electrify/backend/internal/config"
	"github.com/emilythestrangee/electrify/backend/internal/contest"
	"github.com/emilythestrangee/electrify/backend/internal/notify"
	"github.com/emilythestrangee/electrify/backend/internal/storage"
)

// Handler combines all handler types
type Handler struct {
	Auth    *AuthHandler
	Contest *ContestHandler
	Vote    *VoteHandler
	Upload  *UploadHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db *gorm.DB, cfg *config.Config, notifier notify.Notifier, uploader storage.Uploader) *Handler {
	engine := contest.NewService(db, contest.Options{
		EnforceVotingWindow: cfg.EnforceVotingWindow,
		StorageTimeout:      cfg.StorageTimeout,
	})

	return &Handler{
		Auth:    NewAuthHandler(db, cfg.JWTSecret, notifier),
		Contest: NewContestHandler(engine, notifier),
		Vote:    NewVoteHandler(engine),
		Upload:  NewUploadHandler(uploader),
	}
}
