package patterns

import (
	"fmt"
	"sort"
	"strings"

	"github.com/corentings/chess/v2"
	"github.com/vytor/chesscoach/internal/models"
)

// Detection is the result of one detector: what was spotted and how much
// material it puts at risk, in pawn units. The caller attaches game and move
// metadata.
type Detection struct {
	Kind         models.PatternKind
	LostMaterial float64
	Description  string
}

// Detector inspects a post-move board from the victim's point of view.
// The victim is the player who just made the flagged move.
type Detector func(b *chess.Board, victim chess.Color) (Detection, bool)

// Detectors run in fixed priority order; the scanner keeps the first match so
// a single error is never counted under two motifs.
func Detectors() []Detector {
	return []Detector{
		detectHangingPiece,
		detectKnightFork,
		detectPin,
		detectBackRank,
	}
}

var pieceValues = map[chess.PieceType]float64{
	chess.Pawn:   1,
	chess.Knight: 3,
	chess.Bishop: 3,
	chess.Rook:   5,
	chess.Queen:  9,
	chess.King:   models.SentinelMaterial,
}

var pieceNames = map[chess.PieceType]string{
	chess.Pawn:   "pawn",
	chess.Knight: "knight",
	chess.Bishop: "bishop",
	chess.Rook:   "rook",
	chess.Queen:  "queen",
	chess.King:   "king",
}

func squareAt(file, rank int) chess.Square {
	return chess.Square(rank*8 + file)
}

func squareName(sq chess.Square) string {
	return fmt.Sprintf("%c%c", 'a'+int(sq.File()), '1'+int(sq.Rank()))
}

func onBoard(file, rank int) bool {
	return file >= 0 && file < 8 && rank >= 0 && rank < 8
}

var knightOffsets = [8][2]int{
	{1, 2}, {2, 1}, {2, -1}, {1, -2},
	{-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
}

var kingOffsets = [8][2]int{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

var rookDirs = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
var bishopDirs = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}

func knightAttackSquares(sq chess.Square) []chess.Square {
	f, r := int(sq.File()), int(sq.Rank())
	out := make([]chess.Square, 0, 8)
	for _, o := range knightOffsets {
		if onBoard(f+o[0], r+o[1]) {
			out = append(out, squareAt(f+o[0], r+o[1]))
		}
	}
	return out
}

// attackers returns the squares of every piece of the given color that
// attacks target on the current board. Sliding attacks stop at the first
// occupied square; x-ray attacks are not counted.
func attackers(b *chess.Board, target chess.Square, by chess.Color) []chess.Square {
	var out []chess.Square
	tf, tr := int(target.File()), int(target.Rank())

	// Pawns capture diagonally toward the enemy side, so a white pawn
	// attacking target sits one rank below it.
	pawnRank := tr - 1
	if by == chess.Black {
		pawnRank = tr + 1
	}
	for _, df := range []int{-1, 1} {
		if !onBoard(tf+df, pawnRank) {
			continue
		}
		sq := squareAt(tf+df, pawnRank)
		if p := b.Piece(sq); p != chess.NoPiece && p.Color() == by && p.Type() == chess.Pawn {
			out = append(out, sq)
		}
	}

	for _, sq := range knightAttackSquares(target) {
		if p := b.Piece(sq); p != chess.NoPiece && p.Color() == by && p.Type() == chess.Knight {
			out = append(out, sq)
		}
	}

	for _, o := range kingOffsets {
		if !onBoard(tf+o[0], tr+o[1]) {
			continue
		}
		sq := squareAt(tf+o[0], tr+o[1])
		if p := b.Piece(sq); p != chess.NoPiece && p.Color() == by && p.Type() == chess.King {
			out = append(out, sq)
		}
	}

	slide := func(dirs [4][2]int, want chess.PieceType) {
		for _, d := range dirs {
			f, r := tf+d[0], tr+d[1]
			for onBoard(f, r) {
				sq := squareAt(f, r)
				p := b.Piece(sq)
				if p != chess.NoPiece {
					if p.Color() == by && (p.Type() == want || p.Type() == chess.Queen) {
						out = append(out, sq)
					}
					break
				}
				f += d[0]
				r += d[1]
			}
		}
	}
	slide(rookDirs, chess.Rook)
	slide(bishopDirs, chess.Bishop)

	return out
}

// exchangeNet returns the attacker's best net material gain from capturing a
// piece worth victim, with capturers committed least-valuable first and
// either side free to stop the sequence. Lists must be sorted ascending.
func exchangeNet(victim float64, atk, def []float64) float64 {
	if len(atk) == 0 {
		return 0
	}
	gain := victim - exchangeNet(atk[0], def, atk[1:])
	if gain < 0 {
		return 0
	}
	return gain
}

func attackerValues(b *chess.Board, squares []chess.Square) []float64 {
	vals := make([]float64, 0, len(squares))
	for _, sq := range squares {
		vals = append(vals, pieceValues[b.Piece(sq).Type()])
	}
	sort.Float64s(vals)
	return vals
}

// detectHangingPiece reports the highest-value victim piece whose defenders
// cannot hold it against a capture sequence.
func detectHangingPiece(b *chess.Board, victim chess.Color) (Detection, bool) {
	attacker := victim.Other()

	var bestSq chess.Square
	var bestType chess.PieceType
	bestValue := 0.0
	found := false

	for i := 0; i < 64; i++ {
		sq := chess.Square(i)
		p := b.Piece(sq)
		if p == chess.NoPiece || p.Color() != victim || p.Type() == chess.King {
			continue
		}

		atk := attackers(b, sq, attacker)
		if len(atk) == 0 {
			continue
		}
		def := attackers(b, sq, victim)

		value := pieceValues[p.Type()]
		if exchangeNet(value, attackerValues(b, atk), attackerValues(b, def)) <= 0 {
			continue
		}
		if value > bestValue {
			bestValue = value
			bestSq = sq
			bestType = p.Type()
			found = true
		}
	}

	if !found {
		return Detection{}, false
	}
	name := pieceNames[bestType]
	return Detection{
		Kind:         models.PatternHangingPiece,
		LostMaterial: bestValue,
		Description:  fmt.Sprintf("%s on %s left undefended", capitalize(name), squareName(bestSq)),
	}, true
}

// detectKnightFork reports an opponent knight attacking two or more valuable
// victim pieces (value >= 3, or the king) from its current square.
func detectKnightFork(b *chess.Board, victim chess.Color) (Detection, bool) {
	attacker := victim.Other()

	var best Detection
	bestTotal := 0.0
	found := false

	for i := 0; i < 64; i++ {
		sq := chess.Square(i)
		p := b.Piece(sq)
		if p == chess.NoPiece || p.Color() != attacker || p.Type() != chess.Knight {
			continue
		}

		var targetNames []string
		var nonKingValues []float64
		total := 0.0
		kingForked := false
		for _, tsq := range knightAttackSquares(sq) {
			t := b.Piece(tsq)
			if t == chess.NoPiece || t.Color() != victim {
				continue
			}
			if t.Type() == chess.King {
				kingForked = true
			} else if pieceValues[t.Type()] < 3 {
				continue
			} else {
				nonKingValues = append(nonKingValues, pieceValues[t.Type()])
			}
			targetNames = append(targetNames, pieceNames[t.Type()])
			total += pieceValues[t.Type()]
		}
		if len(targetNames) < 2 {
			continue
		}

		// A royal fork is forced loss; otherwise the opponent saves the
		// bigger piece and concedes the smaller one.
		lost := models.SentinelMaterial
		if !kingForked {
			lost = nonKingValues[0]
			for _, v := range nonKingValues[1:] {
				if v < lost {
					lost = v
				}
			}
		}

		if total > bestTotal {
			bestTotal = total
			best = Detection{
				Kind:         models.PatternKnightFork,
				LostMaterial: lost,
				Description:  fmt.Sprintf("Knight on %s forks %s", squareName(sq), strings.Join(targetNames, " and ")),
			}
			found = true
		}
	}

	return best, found
}

// detectPin reports the highest-value victim piece pinned to its king by an
// opponent sliding piece.
func detectPin(b *chess.Board, victim chess.Color) (Detection, bool) {
	kingSq, ok := findKing(b, victim)
	if !ok {
		return Detection{}, false
	}
	attacker := victim.Other()

	var best Detection
	bestValue := 0.0
	found := false

	for i := 0; i < 64; i++ {
		sq := chess.Square(i)
		p := b.Piece(sq)
		if p == chess.NoPiece || p.Color() != attacker {
			continue
		}

		var dirs [][2]int
		switch p.Type() {
		case chess.Rook:
			dirs = rookDirs[:]
		case chess.Bishop:
			dirs = bishopDirs[:]
		case chess.Queen:
			dirs = append(rookDirs[:], bishopDirs[:]...)
		default:
			continue
		}

		d, aligned := rayToward(sq, kingSq, dirs)
		if !aligned {
			continue
		}

		pinnedSq, pinned := solePieceBetween(b, sq, kingSq, d)
		if !pinned {
			continue
		}
		pp := b.Piece(pinnedSq)
		if pp.Color() != victim {
			continue
		}

		value := pieceValues[pp.Type()]
		if value <= bestValue {
			continue
		}
		bestValue = value
		best = Detection{
			Kind:         models.PatternPin,
			LostMaterial: value,
			Description: fmt.Sprintf("%s on %s pinned to king by %s",
				capitalize(pieceNames[pp.Type()]), squareName(pinnedSq), pieceNames[p.Type()]),
		}
		found = true
	}

	return best, found
}

// detectBackRank reports a victim king trapped on its home rank behind its
// own pawns while an opponent rook or queen can reach that rank uncontested.
func detectBackRank(b *chess.Board, victim chess.Color) (Detection, bool) {
	kingSq, ok := findKing(b, victim)
	if !ok {
		return Detection{}, false
	}

	homeRank, forward := 0, 1
	if victim == chess.Black {
		homeRank, forward = 7, -1
	}
	if int(kingSq.Rank()) != homeRank {
		return Detection{}, false
	}

	// Every escape square one rank ahead must be plugged by an own pawn.
	kf := int(kingSq.File())
	for f := max(0, kf-1); f <= min(7, kf+1); f++ {
		p := b.Piece(squareAt(f, homeRank+forward))
		if p == chess.NoPiece || p.Color() != victim || p.Type() != chess.Pawn {
			return Detection{}, false
		}
	}

	// A victim rook or queen on the home rank contests the invasion.
	attacker := victim.Other()
	for f := 0; f < 8; f++ {
		p := b.Piece(squareAt(f, homeRank))
		if p != chess.NoPiece && p.Color() == victim && (p.Type() == chess.Rook || p.Type() == chess.Queen) {
			return Detection{}, false
		}
	}

	if !heavyPieceReachesRank(b, attacker, homeRank) {
		return Detection{}, false
	}

	return Detection{
		Kind:         models.PatternBackRank,
		LostMaterial: models.SentinelMaterial,
		Description:  "Back rank weakness - king trapped by own pawns",
	}, true
}

// heavyPieceReachesRank reports whether any rook or queen of the given color
// sits on the rank already or has a clear file path onto it.
func heavyPieceReachesRank(b *chess.Board, color chess.Color, rank int) bool {
	for i := 0; i < 64; i++ {
		sq := chess.Square(i)
		p := b.Piece(sq)
		if p == chess.NoPiece || p.Color() != color || (p.Type() != chess.Rook && p.Type() != chess.Queen) {
			continue
		}
		if int(sq.Rank()) == rank {
			return true
		}
		step := 1
		if int(sq.Rank()) > rank {
			step = -1
		}
		clear := true
		for r := int(sq.Rank()) + step; r != rank; r += step {
			if b.Piece(squareAt(int(sq.File()), r)) != chess.NoPiece {
				clear = false
				break
			}
		}
		if !clear {
			continue
		}
		// The landing square may be empty or hold a capturable piece.
		landing := b.Piece(squareAt(int(sq.File()), rank))
		if landing == chess.NoPiece || landing.Color() != color {
			return true
		}
	}
	return false
}

func findKing(b *chess.Board, color chess.Color) (chess.Square, bool) {
	for i := 0; i < 64; i++ {
		sq := chess.Square(i)
		p := b.Piece(sq)
		if p != chess.NoPiece && p.Color() == color && p.Type() == chess.King {
			return sq, true
		}
	}
	return 0, false
}

// rayToward returns the unit direction leading from sq to target in a
// straight line, if that direction is one of dirs.
func rayToward(sq, target chess.Square, dirs [][2]int) ([2]int, bool) {
	df := int(target.File()) - int(sq.File())
	dr := int(target.Rank()) - int(sq.Rank())
	if df == 0 && dr == 0 {
		return [2]int{}, false
	}
	if df != 0 && dr != 0 && abs(df) != abs(dr) {
		return [2]int{}, false
	}
	d := [2]int{sign(df), sign(dr)}
	for _, cand := range dirs {
		if cand == d {
			return d, true
		}
	}
	return [2]int{}, false
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}

// solePieceBetween walks from sq toward target along d and returns the single
// occupied square strictly between them, if there is exactly one.
func solePieceBetween(b *chess.Board, sq, target chess.Square, d [2]int) (chess.Square, bool) {
	f, r := int(sq.File())+d[0], int(sq.Rank())+d[1]
	var foundSq chess.Square
	count := 0
	for onBoard(f, r) {
		cur := squareAt(f, r)
		if cur == target {
			return foundSq, count == 1
		}
		if b.Piece(cur) != chess.NoPiece {
			count++
			if count > 1 {
				return 0, false
			}
			foundSq = cur
		}
		f += d[0]
		r += d[1]
	}
	return 0, false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
