package models

// PatternKind is a closed enumeration of catalogued tactical motifs.
// DiscoveredAttack and Skewer are reserved names with no detector yet.
type PatternKind string

const (
	PatternHangingPiece     PatternKind = "hanging_piece"
	PatternKnightFork       PatternKind = "knight_fork"
	PatternPin              PatternKind = "pin"
	PatternBackRank         PatternKind = "back_rank"
	PatternDiscoveredAttack PatternKind = "discovered_attack"
	PatternSkewer           PatternKind = "skewer"
)

// GamePhase buckets moves by full-move number. Cutoffs, not material
// heuristics, so the same game always lands in the same buckets.
type GamePhase string

const (
	PhaseOpening    GamePhase = "opening"    // moves 1-15
	PhaseMiddlegame GamePhase = "middlegame" // moves 16-40
	PhaseEndgame    GamePhase = "endgame"    // moves 41+
)

// PhaseForMove returns the phase bucket for a full-move number.
func PhaseForMove(moveNumber int) GamePhase {
	switch {
	case moveNumber <= 15:
		return PhaseOpening
	case moveNumber <= 40:
		return PhaseMiddlegame
	default:
		return PhaseEndgame
	}
}

// SentinelMaterial marks losses that are not ordinary material, such as a
// back-rank mate or a royal fork. It ranks above any real exchange.
const SentinelMaterial = 100.0

// TacticalInstance is one detected motif on one flagged move.
// Created once, never mutated.
type TacticalInstance struct {
	GameIndex    int         `json:"game_index"`
	MoveNumber   int         `json:"move_number"`
	Pattern      PatternKind `json:"pattern"`
	LostMaterial float64     `json:"lost_material"`
	FEN          string      `json:"fen"`
	Description  string      `json:"description"`
}

// PhaseStats is the aggregated performance of one phase across a batch.
type PhaseStats struct {
	Phase        GamePhase `json:"phase"`
	Accuracy     float64   `json:"accuracy"`
	BlunderCount int       `json:"blunder_count"`
	MistakeCount int       `json:"mistake_count"`
	MoveCount    int       `json:"move_count"`
}

// PatternSummary is the single output record of a batch analysis.
// Instance lists are ordered by game index, then move order.
type PatternSummary struct {
	TotalGames       int                                `json:"total_games"`
	OverallAccuracy  float64                            `json:"overall_accuracy"`
	TacticalPatterns map[PatternKind][]TacticalInstance `json:"tactical_patterns"`
	PhaseStats       map[GamePhase]PhaseStats           `json:"phase_stats"`
	Recommendations  []string                           `json:"recommendations"`
}
