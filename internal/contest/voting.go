package contest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/emilythestrangee/electrify/backend/internal/models"
)

// Vote admission: admit or reject a single vote attempt, idempotent
// under retries and concurrent requests. The flow is
//
//	validate -> membership check -> window gate -> insert Vote ->
//	conditional counter increment -> (compensating delete on failure)
//
// The unique index on (contest_id, contestant_id, voter_key) is the
// single source of truth for "already voted"; the counter update is a
// storage-level increment, never read-modify-write.

// CastVote records one vote and returns the contestant's updated tally.
func (s *Service) CastVote(ctx context.Context, contestID, contestantID uint, voterKey string) (int, error) {
	if contestID == 0 || contestantID == 0 {
		return 0, fmt.Errorf("%w: invalid contest or contestant id", ErrValidation)
	}
	if strings.TrimSpace(voterKey) == "" {
		return 0, fmt.Errorf("%w: missing voter key", ErrValidation)
	}

	db, cancel := s.session(ctx)
	defer cancel()

	// The contest must be published and the contestant must belong to it.
	var contest models.Contest
	err := db.Where("id = ? AND is_published = ?", contestID, true).First(&contest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: contest not found or not published", ErrNotFound)
		}
		return 0, wrapStorage(err)
	}
	var member int64
	err = db.Model(&models.Contestant{}).
		Where("id = ? AND contest_id = ?", contestantID, contestID).
		Count(&member).Error
	if err != nil {
		return 0, wrapStorage(err)
	}
	if member == 0 {
		return 0, fmt.Errorf("%w: contestant not in this contest", ErrNotFound)
	}

	if s.enforceWindow && !contest.IsActive(s.now()) {
		return 0, fmt.Errorf("%w: contest is not accepting votes", ErrInvalidState)
	}

	// Record the ballot. A unique-index rejection means this voter key
	// already voted for this contestant; the counter must not move.
	vote := models.Vote{
		ContestID:    contestID,
		ContestantID: contestantID,
		VoterKey:     voterKey,
	}
	if err := db.Create(&vote).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, fmt.Errorf("%w: you have already voted for this contestant", ErrDuplicateVote)
		}
		return 0, wrapStorage(err)
	}

	// Conditional increment keyed on both ids, guarding against a
	// contestant removed or reassigned between the membership check
	// and here.
	res := db.Model(&models.Contestant{}).
		Where("id = ? AND contest_id = ?", contestantID, contestID).
		UpdateColumn("votes", gorm.Expr("votes + ?", 1))
	if res.Error != nil {
		return 0, wrapStorage(res.Error)
	}
	if res.RowsAffected == 0 {
		// Roll back the orphan ballot; a Vote with no matching tally
		// must not survive.
		if delErr := db.Delete(&models.Vote{}, vote.ID).Error; delErr != nil {
			log.Printf("vote rollback failed for vote %d: %v", vote.ID, delErr)
		}
		return 0, fmt.Errorf("%w: contestant no longer in this contest", ErrNotFound)
	}

	var contestant models.Contestant
	if err := db.First(&contestant, contestantID).Error; err != nil {
		return 0, wrapStorage(err)
	}
	return contestant.Votes, nil
}
