package contest

import (
	"context"
	"fmt"

	"github.com/emilythestrangee/electrify/backend/internal/models"
)

// Lifecycle manager: Draft -> Published -> Closed. Closed is derived
// (published and now past EndDate), never stored. All state-flag
// mutation funnels through here; the store does not expose it.

// Publish makes a contest visible for voting. Only the owner may
// publish, and only once at least one contestant is attached.
// Publishing an already-published contest is a no-op success.
func (s *Service) Publish(ctx context.Context, contestID, callerID uint) (*models.Contest, error) {
	contest, err := s.GetContest(ctx, contestID)
	if err != nil {
		return nil, err
	}
	if contest.UserID != callerID {
		return nil, fmt.Errorf("%w: you do not have permission to modify this contest", ErrForbidden)
	}
	if contest.IsPublished {
		return contest, nil
	}
	if len(contest.Contestants) == 0 {
		return nil, fmt.Errorf("%w: cannot publish contest without contestants", ErrInvalidState)
	}

	db, cancel := s.session(ctx)
	defer cancel()

	err = db.Model(&models.Contest{}).
		Where("id = ?", contestID).
		Update("is_published", true).Error
	if err != nil {
		return nil, wrapStorage(err)
	}
	contest.IsPublished = true
	return contest, nil
}

// Unpublish hides a contest again. Allowed only while the contest is
// still inside its voting window and nobody has voted yet; once votes
// exist, hiding the contest would retroactively discard them.
func (s *Service) Unpublish(ctx context.Context, contestID, callerID uint) (*models.Contest, error) {
	contest, err := s.GetContest(ctx, contestID)
	if err != nil {
		return nil, err
	}
	if contest.UserID != callerID {
		return nil, fmt.Errorf("%w: you do not have permission to modify this contest", ErrForbidden)
	}
	if !contest.IsPublished {
		return contest, nil
	}
	if s.now().After(contest.EndDate) {
		return nil, fmt.Errorf("%w: contest has already closed", ErrInvalidState)
	}
	votes, err := s.countVotes(ctx, contestID)
	if err != nil {
		return nil, err
	}
	if votes > 0 {
		return nil, fmt.Errorf("%w: contest already has recorded votes", ErrInvalidState)
	}

	db, cancel := s.session(ctx)
	defer cancel()

	err = db.Model(&models.Contest{}).
		Where("id = ?", contestID).
		Update("is_published", false).Error
	if err != nil {
		return nil, wrapStorage(err)
	}
	contest.IsPublished = false
	return contest, nil
}

// Delete removes a contest and cascades to its contestants and votes.
// The owner may delete at any lifecycle stage.
func (s *Service) Delete(ctx context.Context, contestID, callerID uint) error {
	contest, err := s.GetContest(ctx, contestID)
	if err != nil {
		return err
	}
	if contest.UserID != callerID {
		return fmt.Errorf("%w: you do not have permission to delete this contest", ErrForbidden)
	}
	return s.deleteCascade(ctx, contestID)
}
