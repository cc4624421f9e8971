package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/neighborly/neighborly-api/internal/domain/user"
)

// StrikeDecay removes one strike from every account whose last strike is older
// than the decay age, lifting restrictions as counts fall below their thresholds.
type StrikeDecay struct {
	repo     user.Repository
	age      time.Duration
	pageSize int
	now      func() time.Time
}

// NewStrikeDecay creates the decayStrikes job
func NewStrikeDecay(repo user.Repository, age time.Duration, pageSize int) *StrikeDecay {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &StrikeDecay{repo: repo, age: age, pageSize: pageSize, now: time.Now}
}

func (j *StrikeDecay) Name() string { return "decayStrikes" }

// Run sweeps eligible accounts page by page. Each page is written in one
// transaction; a failed page is logged and skipped so earlier pages stay
// committed. A failed page read ends the run.
func (j *StrikeDecay) Run(ctx context.Context) (int, error) {
	cutoff := j.now().Add(-j.age)

	var (
		cursor      *user.Cursor
		updated     int
		pages       int
		failedPages int
	)
	for {
		if err := ctx.Err(); err != nil {
			return updated, err
		}

		accounts, err := j.repo.ListStrikeDecayCandidates(ctx, cutoff, cursor, j.pageSize)
		if err != nil {
			return updated, fmt.Errorf("list decay candidates: %w", err)
		}
		if len(accounts) == 0 {
			break
		}
		pages++

		steps := make([]user.StrikeDecay, 0, len(accounts))
		for _, u := range accounts {
			steps = append(steps, u.NextStrikeDecay())
		}

		n, err := j.repo.ApplyStrikeDecay(ctx, steps)
		if err != nil {
			failedPages++
			log.Error().
				Err(err).
				Int("page", pages).
				Int("accounts", len(accounts)).
				Msg("Strike decay page failed")
		} else {
			updated += n
		}

		cursor = user.CursorAfter(accounts[len(accounts)-1])
		log.Debug().
			Int("page", pages).
			Int("updated", n).
			Str("cursor", cursor.Encode()).
			Msg("Strike decay page done")

		if len(accounts) < j.pageSize {
			break
		}
	}

	if failedPages > 0 {
		return updated, fmt.Errorf("%d of %d strike decay pages failed", failedPages, pages)
	}
	return updated, nil
}
