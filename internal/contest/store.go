package contest

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/emilythestrangee/electrify/backend/internal/models"
)

// Entity store: durable CRUD for contests, contestants and votes.
// Only structural constraints are enforced here (required fields,
// date ordering, referential existence); lifecycle and admission rules
// live in lifecycle.go and voting.go.

// CreateContest stores a new draft contest for ownerID.
func (s *Service) CreateContest(ctx context.Context, ownerID uint, req models.CreateContestRequest) (*models.Contest, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("%w: name and description are required", ErrValidation)
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return nil, fmt.Errorf("%w: start and end dates are required", ErrValidation)
	}
	if !req.EndDate.After(req.StartDate) {
		return nil, fmt.Errorf("%w: end date must be after start date", ErrValidation)
	}

	contest := models.Contest{
		UserID:        ownerID,
		Name:          req.Name,
		Description:   req.Description,
		CoverPhotoURL: req.CoverPhotoURL,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Contestants:   []models.Contestant{},
	}

	db, cancel := s.session(ctx)
	defer cancel()

	if err := db.Create(&contest).Error; err != nil {
		return nil, wrapStorage(err)
	}
	return &contest, nil
}

// AttachContestants appends entrants to a contest in the given order.
// Display order is insertion order, so the batch is created one row at
// a time inside a transaction.
func (s *Service) AttachContestants(ctx context.Context, contestID uint, reqs []models.AttachContestantRequest) ([]models.Contestant, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: no contestants given", ErrValidation)
	}
	for _, r := range reqs {
		if strings.TrimSpace(r.Name) == "" {
			return nil, fmt.Errorf("%w: contestant name is required", ErrValidation)
		}
	}

	db, cancel := s.session(ctx)
	defer cancel()

	var contest models.Contest
	if err := db.First(&contest, contestID).Error; err != nil {
		return nil, wrapStorage(err)
	}

	contestants := make([]models.Contestant, 0, len(reqs))
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, r := range reqs {
			c := models.Contestant{
				ContestID: contestID,
				Name:      r.Name,
				PhotoURL:  r.PhotoURL,
			}
			if err := tx.Create(&c).Error; err != nil {
				return err
			}
			contestants = append(contestants, c)
		}
		return nil
	})
	if err != nil {
		return nil, wrapStorage(err)
	}
	return contestants, nil
}

// GetContest returns a contest with its contestants in display order.
func (s *Service) GetContest(ctx context.Context, id uint) (*models.Contest, error) {
	db, cancel := s.session(ctx)
	defer cancel()

	var contest models.Contest
	if err := withContestants(db).First(&contest, id).Error; err != nil {
		return nil, wrapStorage(err)
	}
	return &contest, nil
}

// GetPublishedContest returns a contest only if it is published.
func (s *Service) GetPublishedContest(ctx context.Context, id uint) (*models.Contest, error) {
	db, cancel := s.session(ctx)
	defer cancel()

	var contest models.Contest
	err := withContestants(db).Where("id = ? AND is_published = ?", id, true).First(&contest).Error
	if err != nil {
		return nil, wrapStorage(err)
	}
	return &contest, nil
}

// ListPublished returns all published contests, newest first.
func (s *Service) ListPublished(ctx context.Context) ([]models.Contest, error) {
	db, cancel := s.session(ctx)
	defer cancel()

	var contests []models.Contest
	err := withContestants(db).
		Where("is_published = ?", true).
		Order("created_at desc").
		Find(&contests).Error
	if err != nil {
		return nil, wrapStorage(err)
	}
	return contests, nil
}

// ListByOwner returns every contest owned by ownerID, newest first.
func (s *Service) ListByOwner(ctx context.Context, ownerID uint) ([]models.Contest, error) {
	db, cancel := s.session(ctx)
	defer cancel()

	var contests []models.Contest
	err := withContestants(db).
		Where("user_id = ?", ownerID).
		Order("created_at desc").
		Find(&contests).Error
	if err != nil {
		return nil, wrapStorage(err)
	}
	return contests, nil
}

// deleteCascade removes the contest with all of its contestants and
// votes in one transaction, so readers never observe dangling rows.
func (s *Service) deleteCascade(ctx context.Context, contestID uint) error {
	db, cancel := s.session(ctx)
	defer cancel()

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("contest_id = ?", contestID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("contest_id = ?", contestID).Delete(&models.Contestant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Contest{}, contestID).Error
	})
	return wrapStorage(err)
}

// countVotes reports how many votes have been recorded for a contest.
func (s *Service) countVotes(ctx context.Context, contestID uint) (int64, error) {
	db, cancel := s.session(ctx)
	defer cancel()

	var n int64
	if err := db.Model(&models.Vote{}).Where("contest_id = ?", contestID).Count(&n).Error; err != nil {
		return 0, wrapStorage(err)
	}
	return n, nil
}

// withContestants preloads the owning user and the contestant set in
// insertion order.
func withContestants(db *gorm.DB) *gorm.DB {
	return db.Preload("User").Preload("Contestants", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("contestants.id asc")
	})
}
