package models

import "strings"

// Color identifies which side made a move.
type Color string

const (
	ColorWhite Color = "white"
	ColorBlack Color = "black"
)

// MoveQuality is the engine pipeline's classification of a single move.
type MoveQuality string

const (
	QualityExcellent  MoveQuality = "excellent"
	QualityGood       MoveQuality = "good"
	QualityInaccuracy MoveQuality = "inaccuracy"
	QualityMistake    MoveQuality = "mistake"
	QualityBlunder    MoveQuality = "blunder"
)

// IsError reports whether the move is bad enough to scan for tactical motifs.
func (q MoveQuality) IsError() bool {
	return q == QualityMistake || q == QualityBlunder
}

// AnalyzedMove is one half-move as produced by the evaluation pipeline.
// Evaluations are in centipawns from white's perspective.
type AnalyzedMove struct {
	Index          int         `json:"index"`
	MoveNumber     int         `json:"move_number"`
	Color          Color       `json:"color"`
	Move           string      `json:"move"`
	FENBefore      string      `json:"fen_before"`
	FENAfter       string      `json:"fen_after"`
	EvalBefore     float64     `json:"eval_before"`
	EvalAfter      float64     `json:"eval_after"`
	Classification MoveQuality `json:"classification"`
}

// AnalyzedGame is the ordered move list of one game plus the player names
// needed to resolve which color belongs to the subject.
type AnalyzedGame struct {
	White string         `json:"white"`
	Black string         `json:"black"`
	Moves []AnalyzedMove `json:"moves"`
}

// SubjectColor matches username against the recorded player names,
// case-insensitively. An empty Color means no match: the game is analyzed
// unfiltered, with both colors counted.
func (g AnalyzedGame) SubjectColor(username string) Color {
	if username == "" {
		return ""
	}
	switch {
	case strings.EqualFold(g.White, username):
		return ColorWhite
	case strings.EqualFold(g.Black, username):
		return ColorBlack
	}
	return ""
}

// AnalyzeRequest is the input boundary of the pattern subsystem.
type AnalyzeRequest struct {
	Username string         `json:"username"`
	Games    []AnalyzedGame `json:"games"`
}
