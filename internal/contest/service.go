package contest

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Service is the contest voting engine: contest lifecycle, contestant
// registration, vote admission and winner resolution over a single
// shared store. It holds no in-process locks; the votes table's unique
// index does all the arbitration.
type Service struct {
	db            *gorm.DB
	enforceWindow bool
	timeout       time.Duration
	now           func() time.Time
}

// Options configures engine policy. Zero values get sane defaults.
type Options struct {
	// EnforceVotingWindow rejects votes when now is outside
	// [StartDate, EndDate]. Off means published contests accept votes
	// immediately regardless of their window.
	EnforceVotingWindow bool

	// StorageTimeout bounds each storage call; expiry surfaces as
	// ErrTransient.
	StorageTimeout time.Duration

	// Now overrides the clock, for tests.
	Now func() time.Time
}

func NewService(db *gorm.DB, opts Options) *Service {
	if opts.StorageTimeout <= 0 {
		opts.StorageTimeout = 5 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		db:            db,
		enforceWindow: opts.EnforceVotingWindow,
		timeout:       opts.StorageTimeout,
		now:           opts.Now,
	}
}

// session returns a context-bound DB handle with the storage timeout
// applied. The caller must invoke cancel when done with the handle.
func (s *Service) session(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	return s.db.WithContext(ctx), cancel
}
