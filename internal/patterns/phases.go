package patterns

import (
	"math"

	"github.com/vytor/chesscoach/internal/models"
)

// PhaseAccumulator collects per-phase counters for one game or one batch.
// Numeric accumulators add under Merge, so per-game results reduce cleanly.
type PhaseAccumulator struct {
	CPLossSum map[models.GamePhase]float64
	Moves     map[models.GamePhase]int
	Blunders  map[models.GamePhase]int
	Mistakes  map[models.GamePhase]int
}

func NewPhaseAccumulator() *PhaseAccumulator {
	return &PhaseAccumulator{
		CPLossSum: make(map[models.GamePhase]float64),
		Moves:     make(map[models.GamePhase]int),
		Blunders:  make(map[models.GamePhase]int),
		Mistakes:  make(map[models.GamePhase]int),
	}
}

// AccumulateGame buckets every qualifying move of one game by phase.
func (a *PhaseAccumulator) AccumulateGame(game models.AnalyzedGame, subject models.Color) {
	for _, move := range game.Moves {
		if subject != "" && move.Color != subject {
			continue
		}
		phase := models.PhaseForMove(moveNumber(move))

		a.Moves[phase]++
		a.CPLossSum[phase] += CentipawnLoss(move)

		switch Quality(move) {
		case models.QualityBlunder:
			a.Blunders[phase]++
		case models.QualityMistake:
			a.Mistakes[phase]++
		}
	}
}

// Merge folds another accumulator into this one.
func (a *PhaseAccumulator) Merge(other *PhaseAccumulator) {
	for phase, n := range other.Moves {
		a.Moves[phase] += n
	}
	for phase, s := range other.CPLossSum {
		a.CPLossSum[phase] += s
	}
	for phase, n := range other.Blunders {
		a.Blunders[phase] += n
	}
	for phase, n := range other.Mistakes {
		a.Mistakes[phase] += n
	}
}

// TotalMoves is the filtered move count across all phases.
func (a *PhaseAccumulator) TotalMoves() int {
	total := 0
	for _, n := range a.Moves {
		total += n
	}
	return total
}

// Stats derives the final per-phase statistics. Phases with no moves are
// omitted rather than reported as empty.
func (a *PhaseAccumulator) Stats() map[models.GamePhase]models.PhaseStats {
	out := make(map[models.GamePhase]models.PhaseStats, len(a.Moves))
	for phase, moves := range a.Moves {
		if moves == 0 {
			continue
		}
		out[phase] = models.PhaseStats{
			Phase:        phase,
			Accuracy:     AccuracyFromLoss(a.CPLossSum[phase], moves),
			BlunderCount: a.Blunders[phase],
			MistakeCount: a.Mistakes[phase],
			MoveCount:    moves,
		}
	}
	return out
}

// AccuracyFromLoss converts a summed centipawn loss over n moves into a 0-100
// accuracy score. Phase and whole-batch accuracy share this exact formula so
// the two stay comparable.
func AccuracyFromLoss(cpLossSum float64, moves int) float64 {
	if moves == 0 {
		return 100
	}
	avgLoss := cpLossSum / float64(moves)
	accuracy := 100 - avgLoss/2
	if accuracy < 0 {
		accuracy = 0
	}
	if accuracy > 100 {
		accuracy = 100
	}
	return round1(accuracy)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
