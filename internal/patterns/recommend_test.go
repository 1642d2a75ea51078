package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/chesscoach/internal/models"
)

func instances(kind models.PatternKind, lost float64, gameIndexes ...int) []models.TacticalInstance {
	out := make([]models.TacticalInstance, 0, len(gameIndexes))
	for _, gi := range gameIndexes {
		out = append(out, models.TacticalInstance{GameIndex: gi, Pattern: kind, LostMaterial: lost})
	}
	return out
}

func phaseStats(phase models.GamePhase, accuracy float64, blunders int) models.PhaseStats {
	return models.PhaseStats{Phase: phase, Accuracy: accuracy, BlunderCount: blunders, MoveCount: 10}
}

func TestRecommend(t *testing.T) {
	t.Run("recurring hanging queen leads the list", func(t *testing.T) {
		tactical := map[models.PatternKind][]models.TacticalInstance{
			models.PatternHangingPiece: instances(models.PatternHangingPiece, 9, 0, 1, 2),
		}

		recs := Recommend(tactical, nil)

		require.NotEmpty(t, recs)
		assert.Equal(t,
			"You're losing material to hanging pieces (3 games, avg 9.0 pawns lost). Practice recognizing hanging piece patterns.",
			recs[0])
	})

	t.Run("single occurrence is not a trend", func(t *testing.T) {
		tactical := map[models.PatternKind][]models.TacticalInstance{
			models.PatternPin: instances(models.PatternPin, 3, 0),
		}

		recs := Recommend(tactical, nil)

		assert.Empty(t, recs)
	})

	t.Run("weak endgame called out against strong opening", func(t *testing.T) {
		phases := map[models.GamePhase]models.PhaseStats{
			models.PhaseOpening: phaseStats(models.PhaseOpening, 90, 0),
			models.PhaseEndgame: phaseStats(models.PhaseEndgame, 60, 0),
		}

		recs := Recommend(nil, phases)

		require.Len(t, recs, 1)
		assert.Equal(t,
			"Your endgame accuracy is low (60% vs 90% in opening). Focus on endgame technique.",
			recs[0])
	})

	t.Run("small gap without blunders stays quiet", func(t *testing.T) {
		phases := map[models.GamePhase]models.PhaseStats{
			models.PhaseOpening: phaseStats(models.PhaseOpening, 90, 0),
			models.PhaseEndgame: phaseStats(models.PhaseEndgame, 87, 1),
		}

		recs := Recommend(nil, phases)

		assert.Empty(t, recs)
	})

	t.Run("repeat blunders override a small gap", func(t *testing.T) {
		phases := map[models.GamePhase]models.PhaseStats{
			models.PhaseOpening: phaseStats(models.PhaseOpening, 90, 0),
			models.PhaseEndgame: phaseStats(models.PhaseEndgame, 87, 2),
		}

		recs := Recommend(nil, phases)

		require.Len(t, recs, 1)
		assert.Contains(t, recs[0], "Your endgame accuracy is low")
	})

	t.Run("second pattern fills the third slot", func(t *testing.T) {
		tactical := map[models.PatternKind][]models.TacticalInstance{
			models.PatternHangingPiece: instances(models.PatternHangingPiece, 5, 0, 1),
			models.PatternPin:          instances(models.PatternPin, 3, 0, 2),
		}
		phases := map[models.GamePhase]models.PhaseStats{
			models.PhaseOpening:    phaseStats(models.PhaseOpening, 95, 0),
			models.PhaseMiddlegame: phaseStats(models.PhaseMiddlegame, 70, 3),
		}

		recs := Recommend(tactical, phases)

		require.Len(t, recs, 3)
		assert.Contains(t, recs[0], "hanging piece")
		assert.Contains(t, recs[1], "Your middlegame accuracy is low")
		assert.Equal(t, "Practice recognizing pins (2 games).", recs[2])
	})

	t.Run("blunder review fills the third slot without a second pattern", func(t *testing.T) {
		tactical := map[models.PatternKind][]models.TacticalInstance{
			models.PatternHangingPiece: instances(models.PatternHangingPiece, 5, 0, 1),
		}
		phases := map[models.GamePhase]models.PhaseStats{
			models.PhaseOpening:    phaseStats(models.PhaseOpening, 95, 0),
			models.PhaseMiddlegame: phaseStats(models.PhaseMiddlegame, 80, 3),
			models.PhaseEndgame:    phaseStats(models.PhaseEndgame, 70, 0),
		}

		recs := Recommend(tactical, phases)

		require.Len(t, recs, 3)
		assert.Contains(t, recs[1], "Your endgame accuracy is low")
		assert.Equal(t, "You had 3 blunders in the middlegame. Review these critical moments.", recs[2])
	})

	t.Run("sentinel weighted patterns win count ties", func(t *testing.T) {
		tactical := map[models.PatternKind][]models.TacticalInstance{
			models.PatternHangingPiece: instances(models.PatternHangingPiece, 3, 0, 1),
			models.PatternBackRank:     instances(models.PatternBackRank, models.SentinelMaterial, 2, 3),
		}

		recs := Recommend(tactical, nil)

		require.NotEmpty(t, recs)
		assert.Contains(t, recs[0], "back rank")
	})

	t.Run("deterministic across calls", func(t *testing.T) {
		tactical := map[models.PatternKind][]models.TacticalInstance{
			models.PatternHangingPiece: instances(models.PatternHangingPiece, 5, 0, 1),
			models.PatternPin:          instances(models.PatternPin, 3, 2, 3),
			models.PatternKnightFork:   instances(models.PatternKnightFork, 3, 4, 5),
		}
		phases := map[models.GamePhase]models.PhaseStats{
			models.PhaseOpening:    phaseStats(models.PhaseOpening, 95, 0),
			models.PhaseMiddlegame: phaseStats(models.PhaseMiddlegame, 70, 1),
			models.PhaseEndgame:    phaseStats(models.PhaseEndgame, 70, 1),
		}

		first := Recommend(tactical, phases)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, Recommend(tactical, phases))
		}
		assert.LessOrEqual(t, len(first), 3)
	})

	t.Run("instances in the same game count one game", func(t *testing.T) {
		tactical := map[models.PatternKind][]models.TacticalInstance{
			models.PatternKnightFork: instances(models.PatternKnightFork, 3, 0, 0),
		}

		recs := Recommend(tactical, nil)

		require.NotEmpty(t, recs)
		assert.Equal(t,
			"You're losing material to knight forks (1 game, avg 3.0 pawns lost). Practice recognizing knight fork patterns.",
			recs[0])
	})
}
