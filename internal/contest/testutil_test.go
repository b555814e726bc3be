package contest

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/emilythestrangee/electrify/backend/internal/database"
	"github.com/emilythestrangee/electrify/backend/internal/models"
)

// newTestDB opens a throwaway sqlite database with the production
// schema. TranslateError matches the real Postgres setup so unique
// violations surface as gorm.ErrDuplicatedKey here too.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=10000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Single connection keeps sqlite predictable under the
	// concurrency tests.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// clock is a controllable time source for window and closure tests.
type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func newTestService(t *testing.T, opts Options) (*Service, *clock) {
	t.Helper()
	c := &clock{now: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)}
	if opts.Now == nil {
		opts.Now = c.Now
	}
	return NewService(newTestDB(t), opts), c
}

// seedContest creates a draft contest around the clock's current time.
func seedContest(t *testing.T, s *Service, c *clock, ownerID uint) *models.Contest {
	t.Helper()
	created, err := s.CreateContest(context.Background(), ownerID, models.CreateContestRequest{
		Name:        "Summer Photo Contest",
		Description: "Best summer shot wins",
		StartDate:   c.now.Add(-time.Hour),
		EndDate:     c.now.Add(time.Hour),
	})
	require.NoError(t, err)
	return created
}

func voterKey(i int) string { return fmt.Sprintf("voter-%03d", i) }

// seedContestants attaches named entrants and returns them in order.
func seedContestants(t *testing.T, s *Service, contestID uint, names ...string) []models.Contestant {
	t.Helper()
	reqs := make([]models.AttachContestantRequest, 0, len(names))
	for _, n := range names {
		reqs = append(reqs, models.AttachContestantRequest{Name: n, PhotoURL: "https://img.test/" + n + ".jpg"})
	}
	attached, err := s.AttachContestants(context.Background(), contestID, reqs)
	require.NoError(t, err)
	return attached
}
