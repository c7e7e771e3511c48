package stats

import (
	"context"

	"github.com/verte-zerg/typechase/internal/model"
	"github.com/verte-zerg/typechase/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Games          []model.GameAggregate
	WindowGameIDs  []int64
	CharAggsAll    []model.CharAggregate
	CharAggsRecent []model.CharAggregate
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	games, err := st.ListGames(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(games) > cfg.Last {
		games = games[len(games)-cfg.Last:]
	}

	windowIDs := lastGameIDs(games, cfg.CurveWindow)
	charAggsAll, err := st.ListCharAggregatesForGames(ctx, gameIDs(games))
	if err != nil {
		return Report{}, err
	}
	charAggsRecent, err := st.ListCharAggregatesForGames(ctx, windowIDs)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Games:          games,
		WindowGameIDs:  windowIDs,
		CharAggsAll:    charAggsAll,
		CharAggsRecent: charAggsRecent,
	}, nil
}

func gameIDs(games []model.GameAggregate) []int64 {
	ids := make([]int64, len(games))
	for i, g := range games {
		ids[i] = g.GameID
	}
	return ids
}

func lastGameIDs(games []model.GameAggregate, window int) []int64 {
	if window <= 0 || len(games) <= window {
		return gameIDs(games)
	}
	return gameIDs(games[len(games)-window:])
}
