package patterns

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vytor/chesscoach/internal/models"
)

const maxRecommendations = 3

// phaseGapThreshold is the accuracy-point gap between best and worst phase
// that makes the weak phase worth calling out on its own.
const phaseGapThreshold = 5.0

// Recommend derives up to three ranked coaching recommendations from the
// merged batch results. Output is deterministic: pattern kinds rank by
// instance count, then total lost material (so sentinel-weighted motifs win
// ties), then kind name; phases rank by accuracy, then name. Fewer than three
// qualifying entries is a valid short list.
func Recommend(tactical map[models.PatternKind][]models.TacticalInstance, phases map[models.GamePhase]models.PhaseStats) []string {
	var recs []string

	kinds := rankedKinds(tactical)
	ranked := rankedPhases(phases)

	// 1. Most frequent tactical pattern, if it recurs.
	if len(kinds) > 0 && len(tactical[kinds[0]]) >= 2 {
		recs = append(recs, patternRecommendation(kinds[0], tactical[kinds[0]], true))
	}

	// 2. Weakest phase against the strongest, when the gap is meaningful.
	phaseUsed := models.GamePhase("")
	if len(ranked) >= 2 {
		weakest := ranked[0]
		strongest := ranked[len(ranked)-1]
		gap := strongest.Accuracy - weakest.Accuracy
		if gap > phaseGapThreshold || weakest.BlunderCount >= 2 {
			recs = append(recs, fmt.Sprintf(
				"Your %s accuracy is low (%.0f%% vs %.0f%% in %s). Focus on %s technique.",
				weakest.Phase, weakest.Accuracy, strongest.Accuracy, strongest.Phase, weakest.Phase))
			phaseUsed = weakest.Phase
		}
	}

	// 3. Second most frequent pattern, else the second-weakest phase.
	if len(kinds) >= 2 && len(tactical[kinds[1]]) >= 1 {
		recs = append(recs, patternRecommendation(kinds[1], tactical[kinds[1]], false))
	} else if second, ok := secondWeakestPhase(ranked, phaseUsed); ok && second.BlunderCount > 0 {
		recs = append(recs, fmt.Sprintf(
			"You had %d blunder%s in the %s. Review these critical moments.",
			second.BlunderCount, plural(second.BlunderCount), second.Phase))
	}

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

func patternRecommendation(kind models.PatternKind, instances []models.TacticalInstance, withLoss bool) string {
	readable := strings.ReplaceAll(string(kind), "_", " ")
	games := make(map[int]struct{})
	total := 0.0
	for _, inst := range instances {
		games[inst.GameIndex] = struct{}{}
		total += inst.LostMaterial
	}
	gameCount := len(games)

	if withLoss {
		avg := total / float64(len(instances))
		return fmt.Sprintf(
			"You're losing material to %ss (%d game%s, avg %.1f pawns lost). Practice recognizing %s patterns.",
			readable, gameCount, plural(gameCount), avg, readable)
	}
	return fmt.Sprintf("Practice recognizing %ss (%d game%s).", readable, gameCount, plural(gameCount))
}

// rankedKinds orders pattern kinds by instance count, total lost material,
// then name, most severe first.
func rankedKinds(tactical map[models.PatternKind][]models.TacticalInstance) []models.PatternKind {
	kinds := make([]models.PatternKind, 0, len(tactical))
	for kind, instances := range tactical {
		if len(instances) == 0 {
			continue
		}
		kinds = append(kinds, kind)
	}
	totalLost := func(kind models.PatternKind) float64 {
		sum := 0.0
		for _, inst := range tactical[kind] {
			sum += inst.LostMaterial
		}
		return sum
	}
	sort.Slice(kinds, func(i, j int) bool {
		ci, cj := len(tactical[kinds[i]]), len(tactical[kinds[j]])
		if ci != cj {
			return ci > cj
		}
		li, lj := totalLost(kinds[i]), totalLost(kinds[j])
		if li != lj {
			return li > lj
		}
		return kinds[i] < kinds[j]
	})
	return kinds
}

// rankedPhases orders phases weakest first, name as tie-break.
func rankedPhases(phases map[models.GamePhase]models.PhaseStats) []models.PhaseStats {
	out := make([]models.PhaseStats, 0, len(phases))
	for _, stats := range phases {
		out = append(out, stats)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Accuracy != out[j].Accuracy {
			return out[i].Accuracy < out[j].Accuracy
		}
		return out[i].Phase < out[j].Phase
	})
	return out
}

func secondWeakestPhase(ranked []models.PhaseStats, used models.GamePhase) (models.PhaseStats, bool) {
	skipped := false
	for _, stats := range ranked {
		if stats.Phase == used && !skipped {
			skipped = true
			continue
		}
		if used == "" && !skipped {
			// No phase recommendation was emitted; still skip the weakest so
			// this slot stays a distinct second observation.
			skipped = true
			continue
		}
		return stats, true
	}
	return models.PhaseStats{}, false
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
