package contest

import (
	"context"
	"sort"
	"time"

	"github.com/emilythestrangee/electrify/backend/internal/models"
)

// Results is the presentation view of a contest: contestants ranked by
// votes, and the winner set once the contest has closed.
type Results struct {
	Contest     *models.Contest     `json:"contest"`
	Contestants []models.Contestant `json:"contestants"`
	Winners     []models.Contestant `json:"winners"`
	IsComplete  bool                `json:"is_complete"`
}

// Resolve ranks contestants by vote count descending with a stable
// tie-break on registration order (earlier entrant ranks higher).
// Winners are hidden until the contest closes so mid-contest standings
// cannot steer voters. Pure function of its inputs; safe to call
// concurrently with ongoing vote admission.
func Resolve(contest *models.Contest, now time.Time) Results {
	isComplete := now.After(contest.EndDate)

	if len(contest.Contestants) == 0 {
		return Results{
			Contest:     contest,
			Contestants: []models.Contestant{},
			Winners:     []models.Contestant{},
			IsComplete:  isComplete,
		}
	}

	ranked := make([]models.Contestant, len(contest.Contestants))
	copy(ranked, contest.Contestants)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ID < ranked[j].ID
	})
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Votes > ranked[j].Votes
	})

	winners := []models.Contestant{}
	if isComplete {
		top := ranked[0].Votes
		for _, c := range ranked {
			if c.Votes != top {
				break
			}
			winners = append(winners, c)
		}
	}

	return Results{
		Contest:     contest,
		Contestants: ranked,
		Winners:     winners,
		IsComplete:  isComplete,
	}
}

// ResolveSnapshot resolves an already-loaded contest against the
// service clock.
func (s *Service) ResolveSnapshot(contest *models.Contest) Results {
	return Resolve(contest, s.now())
}

// ResolveContest loads a published contest and resolves its results.
func (s *Service) ResolveContest(ctx context.Context, contestID uint) (Results, error) {
	contest, err := s.GetPublishedContest(ctx, contestID)
	if err != nil {
		return Results{}, err
	}
	return Resolve(contest, s.now()), nil
}
