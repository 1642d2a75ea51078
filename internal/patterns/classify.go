package patterns

import "github.com/vytor/chesscoach/internal/models"

// CentipawnLoss is the evaluation a move gave away from the mover's
// perspective, clamped at zero. Evaluations are from white's perspective, so
// a drop hurts white and a rise hurts black.
func CentipawnLoss(m models.AnalyzedMove) float64 {
	diff := m.EvalAfter - m.EvalBefore
	var loss float64
	if m.Color == models.ColorWhite {
		loss = -diff
	} else {
		loss = diff
	}
	if loss < 0 {
		return 0
	}
	return loss
}

// Classify derives a quality classification from the move's evaluation pair.
// Used as a fallback when the evaluation pipeline omits the classification.
func Classify(m models.AnalyzedMove) models.MoveQuality {
	loss := CentipawnLoss(m)
	switch {
	case loss > 200:
		return models.QualityBlunder
	case loss > 100:
		return models.QualityMistake
	case loss > 50:
		return models.QualityInaccuracy
	case loss > 10:
		return models.QualityGood
	default:
		return models.QualityExcellent
	}
}

// Quality returns the move's classification, deriving one when missing.
func Quality(m models.AnalyzedMove) models.MoveQuality {
	if m.Classification != "" {
		return m.Classification
	}
	return Classify(m)
}
