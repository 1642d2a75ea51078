package patterns

import (
	"github.com/corentings/chess/v2"
	"github.com/vytor/chesscoach/internal/models"
)

// GameScan is the motif scan of one game: at most one instance per flagged
// move, plus a count of flagged moves whose position could not be rebuilt.
type GameScan struct {
	Instances    []models.TacticalInstance
	SkippedMoves int
}

// ScanGame walks one game's move list, selects moves classified mistake or
// worse (restricted to subject when set), and runs the detectors in priority
// order on the post-move position. The first match wins; a flagged move with
// no match is a valid outcome.
func ScanGame(game models.AnalyzedGame, subject models.Color, gameIndex int) GameScan {
	var scan GameScan
	detectors := Detectors()

	for _, move := range game.Moves {
		if !Quality(move).IsError() {
			continue
		}
		if subject != "" && move.Color != subject {
			continue
		}
		if move.FENAfter == "" {
			scan.SkippedMoves++
			continue
		}

		board, err := boardFromFEN(move.FENAfter)
		if err != nil {
			scan.SkippedMoves++
			continue
		}

		victim := chess.White
		if move.Color == models.ColorBlack {
			victim = chess.Black
		}

		for _, detect := range detectors {
			d, ok := detect(board, victim)
			if !ok {
				continue
			}
			scan.Instances = append(scan.Instances, models.TacticalInstance{
				GameIndex:    gameIndex,
				MoveNumber:   moveNumber(move),
				Pattern:      d.Kind,
				LostMaterial: d.LostMaterial,
				FEN:          move.FENAfter,
				Description:  d.Description,
			})
			break
		}
	}

	return scan
}

func boardFromFEN(fen string) (*chess.Board, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, err
	}
	return chess.NewGame(opt).Position().Board(), nil
}

// moveNumber falls back to deriving the full-move number from the half-move
// index when the pipeline left it unset.
func moveNumber(m models.AnalyzedMove) int {
	if m.MoveNumber > 0 {
		return m.MoveNumber
	}
	return m.Index/2 + 1
}
