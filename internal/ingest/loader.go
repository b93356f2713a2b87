// Package ingest drives one fetch-and-load run: it drains a platform
// fetcher, filters games already present by (source, url), and loads the
// rest into the star schema.
package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"chessdash/internal/core"
)

// Fetcher produces a finite stream of normalized game records for one user.
// Implementations invoke fn once per game and propagate its error.
type Fetcher interface {
	FetchGames(ctx context.Context, username string, fn func(core.Game) error) error
}

// GameStore is the narrow storage contract the loader needs
type GameStore interface {
	GameExists(source, url string) (bool, error)
	InsertGame(g core.Game) (int64, error)
}

// Stats summarizes one ingest run
type Stats struct {
	RunID   string
	Loaded  int
	Skipped int
}

// Loader loads fetched games into a store, skipping duplicates
type Loader struct {
	store    GameStore
	validate *validator.Validate
}

// NewLoader creates a loader backed by the given store
func NewLoader(store GameStore) *Loader {
	return &Loader{
		store:    store,
		validate: validator.New(),
	}
}

// errLoadCap stops the fetch stream once the load cap is reached
var errLoadCap = errors.New("load cap reached")

// Run drains the fetcher for username and loads every game not already
// present. Games whose URL matches a stored (source, url) pair are skipped;
// games without a URL cannot be deduplicated and are always loaded. max
// caps the number of newly loaded games, 0 means unlimited.
func (l *Loader) Run(ctx context.Context, fetcher Fetcher, username string, max int) (Stats, error) {
	stats := Stats{RunID: uuid.NewString()}

	err := fetcher.FetchGames(ctx, username, func(g core.Game) error {
		if err := l.validate.Struct(g); err != nil {
			return fmt.Errorf("invalid game record: %w", err)
		}

		if g.URL != nil && *g.URL != "" {
			exists, err := l.store.GameExists(g.Source, *g.URL)
			if err != nil {
				return err
			}
			if exists {
				stats.Skipped++
				return nil
			}
		}

		if _, err := l.store.InsertGame(g); err != nil {
			return err
		}
		stats.Loaded++

		if max > 0 && stats.Loaded >= max {
			return errLoadCap
		}
		return nil
	})
	if err != nil && !errors.Is(err, errLoadCap) {
		return stats, err
	}
	return stats, nil
}
