package patterns

import (
	"context"
	"fmt"
	"sync"

	"github.com/vytor/chesscoach/internal/logger"
	"github.com/vytor/chesscoach/internal/models"
)

// MinBatchSize is the hard lower bound on games per batch; recurring
// patterns are meaningless on smaller samples.
const MinBatchSize = 5

// ErrBatchTooSmall rejects batches under MinBatchSize.
var ErrBatchTooSmall = fmt.Errorf("batch must contain at least %d games", MinBatchSize)

// Analyzer runs the scanner and phase aggregator over a whole batch.
// The zero value is usable; MaxConcurrent bounds per-game parallelism.
type Analyzer struct {
	MaxConcurrent int
}

type gameResult struct {
	scan   GameScan
	phases *PhaseAccumulator
}

// AnalyzeBatch processes every game and merges per-game results into one
// PatternSummary. Games are independent, so they run in parallel; the merge
// walks results in game-index order, which keeps the output identical for
// any worker count or scheduling.
func (a Analyzer) AnalyzeBatch(ctx context.Context, games []models.AnalyzedGame, subjects []models.Color) (*models.PatternSummary, error) {
	if len(games) < MinBatchSize {
		return nil, ErrBatchTooSmall
	}
	if len(subjects) != len(games) {
		return nil, fmt.Errorf("subjects length %d does not match games length %d", len(subjects), len(games))
	}

	maxConc := a.MaxConcurrent
	if maxConc <= 0 {
		maxConc = 4
	}

	results := make([]gameResult, len(games))
	sem := make(chan struct{}, maxConc)

	var wg sync.WaitGroup
	for i := range games {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				return
			}
			phases := NewPhaseAccumulator()
			phases.AccumulateGame(games[idx], subjects[idx])
			results[idx] = gameResult{
				scan:   ScanGame(games[idx], subjects[idx], idx),
				phases: phases,
			}
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Merge in game-index order: list accumulators append, numeric ones add.
	tactical := make(map[models.PatternKind][]models.TacticalInstance)
	merged := NewPhaseAccumulator()
	skipped := 0
	for _, res := range results {
		for _, inst := range res.scan.Instances {
			tactical[inst.Pattern] = append(tactical[inst.Pattern], inst)
		}
		skipped += res.scan.SkippedMoves
		merged.Merge(res.phases)
	}

	if skipped > 0 {
		logger.FromContext(ctx).Warn("skipped %d flagged moves with unreadable positions", skipped)
	}

	phaseStats := merged.Stats()
	summary := &models.PatternSummary{
		TotalGames:       len(games),
		OverallAccuracy:  AccuracyFromLoss(totalLossSum(merged), merged.TotalMoves()),
		TacticalPatterns: tactical,
		PhaseStats:       phaseStats,
		Recommendations:  Recommend(tactical, phaseStats),
	}

	if err := checkInvariants(summary, merged.TotalMoves()); err != nil {
		return nil, err
	}
	return summary, nil
}

func totalLossSum(acc *PhaseAccumulator) float64 {
	sum := 0.0
	for _, s := range acc.CPLossSum {
		sum += s
	}
	return sum
}

// checkInvariants fails loudly on aggregator defects instead of absorbing
// them: out-of-range game indexes or phase counts that do not add up.
func checkInvariants(s *models.PatternSummary, totalMoves int) error {
	for kind, instances := range s.TacticalPatterns {
		for _, inst := range instances {
			if inst.GameIndex < 0 || inst.GameIndex >= s.TotalGames {
				return fmt.Errorf("invariant violation: %s instance references game %d of %d", kind, inst.GameIndex, s.TotalGames)
			}
		}
	}
	phaseMoves := 0
	for _, stats := range s.PhaseStats {
		phaseMoves += stats.MoveCount
	}
	if phaseMoves != totalMoves {
		return fmt.Errorf("invariant violation: phase move counts sum to %d, want %d", phaseMoves, totalMoves)
	}
	if s.OverallAccuracy < 0 || s.OverallAccuracy > 100 {
		return fmt.Errorf("invariant violation: overall accuracy %.1f out of range", s.OverallAccuracy)
	}
	return nil
}
