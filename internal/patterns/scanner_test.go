package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/chesscoach/internal/models"
)

const (
	// Black queen on d8 is attacked by the white rook on d4 with no defender.
	fenHangingQueen = "3q3k/8/8/8/3R4/8/8/4K3 w - - 0 1"
	// Black knight on e5 is pinned to the king by the rook on e1; the d6 pawn
	// defends it, so only the pin detector fires.
	fenPinnedKnight = "4k3/8/3p4/4n3/8/8/8/4RK2 w - - 0 1"
	// The e5 knight both hangs to the e1 rook and is pinned; priority order
	// decides which pattern is reported.
	fenHangingAndPinned = "4k3/8/8/4n3/8/8/8/4RK2 w - - 0 1"
	// Quiet position with nothing to find.
	fenQuiet = "4k3/8/8/8/8/8/8/4K3 w - - 0 1"
)

func blunderMove(number int, color models.Color, fenAfter string) models.AnalyzedMove {
	return models.AnalyzedMove{
		MoveNumber:     number,
		Color:          color,
		FENAfter:       fenAfter,
		Classification: models.QualityBlunder,
	}
}

func TestScanGame(t *testing.T) {
	t.Run("flags only error moves", func(t *testing.T) {
		game := models.AnalyzedGame{Moves: []models.AnalyzedMove{
			{MoveNumber: 5, Color: models.ColorBlack, FENAfter: fenHangingQueen, Classification: models.QualityGood},
			blunderMove(12, models.ColorBlack, fenHangingQueen),
		}}

		scan := ScanGame(game, "", 0)

		require.Len(t, scan.Instances, 1)
		inst := scan.Instances[0]
		assert.Equal(t, 0, inst.GameIndex)
		assert.Equal(t, 12, inst.MoveNumber)
		assert.Equal(t, models.PatternHangingPiece, inst.Pattern)
		assert.Equal(t, 9.0, inst.LostMaterial)
		assert.Equal(t, fenHangingQueen, inst.FEN)
		assert.Equal(t, "Queen on d8 left undefended", inst.Description)
	})

	t.Run("mistakes are scanned too", func(t *testing.T) {
		game := models.AnalyzedGame{Moves: []models.AnalyzedMove{
			{MoveNumber: 8, Color: models.ColorBlack, FENAfter: fenPinnedKnight, Classification: models.QualityMistake},
		}}

		scan := ScanGame(game, "", 0)

		require.Len(t, scan.Instances, 1)
		assert.Equal(t, models.PatternPin, scan.Instances[0].Pattern)
	})

	t.Run("first detector wins on overlapping motifs", func(t *testing.T) {
		game := models.AnalyzedGame{Moves: []models.AnalyzedMove{
			blunderMove(10, models.ColorBlack, fenHangingAndPinned),
		}}

		scan := ScanGame(game, "", 0)

		require.Len(t, scan.Instances, 1)
		assert.Equal(t, models.PatternHangingPiece, scan.Instances[0].Pattern)
	})

	t.Run("subject filter skips opponent errors", func(t *testing.T) {
		game := models.AnalyzedGame{Moves: []models.AnalyzedMove{
			blunderMove(10, models.ColorBlack, fenHangingQueen),
		}}

		scan := ScanGame(game, models.ColorWhite, 0)

		assert.Empty(t, scan.Instances)
		assert.Zero(t, scan.SkippedMoves)
	})

	t.Run("flagged move with no motif is a valid outcome", func(t *testing.T) {
		game := models.AnalyzedGame{Moves: []models.AnalyzedMove{
			blunderMove(10, models.ColorWhite, fenQuiet),
		}}

		scan := ScanGame(game, "", 0)

		assert.Empty(t, scan.Instances)
		assert.Zero(t, scan.SkippedMoves)
	})

	t.Run("corrupt or missing FEN skips the move", func(t *testing.T) {
		game := models.AnalyzedGame{Moves: []models.AnalyzedMove{
			blunderMove(10, models.ColorBlack, "not a fen"),
			blunderMove(11, models.ColorBlack, ""),
			blunderMove(12, models.ColorBlack, fenHangingQueen),
		}}

		scan := ScanGame(game, "", 0)

		assert.Equal(t, 2, scan.SkippedMoves)
		require.Len(t, scan.Instances, 1)
		assert.Equal(t, 12, scan.Instances[0].MoveNumber)
	})

	t.Run("victim side follows the mover", func(t *testing.T) {
		// White queen hangs to the black rook after a white blunder.
		fen := "3r3k/8/8/8/3Q4/8/8/6K1 b - - 0 1"
		game := models.AnalyzedGame{Moves: []models.AnalyzedMove{
			blunderMove(10, models.ColorWhite, fen),
		}}

		scan := ScanGame(game, "", 0)

		require.Len(t, scan.Instances, 1)
		assert.Equal(t, "Queen on d4 left undefended", scan.Instances[0].Description)
	})
}
