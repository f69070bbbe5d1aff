// Package match pairs two part lists by similarity and measures how well
// they agree. The usual pairing is AI output against human-corrected ground
// truth; the result feeds the accuracy metrics and the learning loop.
package match

import (
	"math"
	"strings"

	"cutplan/internal/common"
	"cutplan/internal/entity"
)

// Config holds the matcher tolerances and scoring weights. Defaults mirror
// production behavior; tests probe edge cases by supplying their own.
type Config struct {
	AcceptThreshold float64
	DimensionTolMM  float64
	DimensionNearMM float64
	DimensionWeight float64
	QuantityWeight  float64
	LabelWeight     float64
}

// DefaultConfig returns the production tolerances: ±2mm full dimension
// credit, ±10mm partial, 0.5/0.3/0.2 weights, 0.5 acceptance threshold. A
// candidate must score strictly above the threshold; hitting it exactly
// (quantity agreement plus two empty labels) is not evidence of a match.
func DefaultConfig() Config {
	return Config{
		AcceptThreshold: 0.5,
		DimensionTolMM:  2,
		DimensionNearMM: 10,
		DimensionWeight: 0.5,
		QuantityWeight:  0.3,
		LabelWeight:     0.2,
	}
}

// FromCommon adapts the application configuration.
func FromCommon(cfg common.MatcherConfig) Config {
	return Config{
		AcceptThreshold: cfg.AcceptThreshold,
		DimensionTolMM:  cfg.DimensionTolMM,
		DimensionNearMM: cfg.DimensionNearMM,
		DimensionWeight: cfg.DimensionWeight,
		QuantityWeight:  cfg.QuantityWeight,
		LabelWeight:     cfg.LabelWeight,
	}
}

// Pair is one accepted candidate/truth pairing and its field differences.
type Pair struct {
	Candidate entity.CutPart
	Truth     entity.CutPart
	Score     float64
	Diffs     []FieldDiff
}

// Result partitions the two input lists after greedy matching.
type Result struct {
	Matched   []Pair
	Unmatched []entity.CutPart // truth items no candidate was accepted for
	Extra     []entity.CutPart // candidates no truth item claimed
}

// Matcher pairs candidate parts against truth parts.
type Matcher struct {
	cfg Config
}

// New returns a matcher with the given tolerances.
func New(cfg Config) *Matcher {
	return &Matcher{cfg: cfg}
}

// Match greedily assigns candidates to truth items in input order: each
// truth item takes the highest-scoring unconsumed candidate above the
// acceptance threshold. Greedy is deliberate — documents carry tens of
// parts, not thousands, and a firm threshold keeps the pairing honest
// without a global assignment solver.
func (m *Matcher) Match(candidate, truth []entity.CutPart) Result {
	var result Result
	consumed := make([]bool, len(candidate))

	for _, t := range truth {
		bestIdx := -1
		bestScore := 0.0
		for i, c := range candidate {
			if consumed[i] {
				continue
			}
			score := m.similarity(c, t)
			if score > bestScore {
				bestIdx, bestScore = i, score
			}
		}
		if bestIdx < 0 || bestScore <= m.cfg.AcceptThreshold {
			result.Unmatched = append(result.Unmatched, t)
			continue
		}
		consumed[bestIdx] = true
		c := candidate[bestIdx]
		result.Matched = append(result.Matched, Pair{
			Candidate: c,
			Truth:     t,
			Score:     bestScore,
			Diffs:     m.diff(c, t),
		})
	}

	for i, c := range candidate {
		if !consumed[i] {
			result.Extra = append(result.Extra, c)
		}
	}
	return result
}

// similarity is a weighted sum: dimension closeness, exact quantity, label
// overlap. It stays in [0, DimensionWeight+QuantityWeight+LabelWeight].
func (m *Matcher) similarity(c, t entity.CutPart) float64 {
	score := m.dimensionScore(c, t)
	if c.Qty == t.Qty {
		score += m.cfg.QuantityWeight
	}
	score += m.cfg.LabelWeight * labelSimilarity(c.Label, t.Label)
	return score
}

func (m *Matcher) dimensionScore(c, t entity.CutPart) float64 {
	dl := math.Abs(c.Size.L - t.Size.L)
	dw := math.Abs(c.Size.W - t.Size.W)
	switch {
	case dl <= m.cfg.DimensionTolMM && dw <= m.cfg.DimensionTolMM:
		return m.cfg.DimensionWeight
	case dl <= m.cfg.DimensionNearMM && dw <= m.cfg.DimensionNearMM:
		// partial credit, 0.3 at default weights
		return m.cfg.DimensionWeight * 0.6
	default:
		return 0
	}
}

// labelSimilarity is a normalized character-position overlap, not an edit
// distance: cheap and good enough to break ties between same-size parts.
func labelSimilarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" && b == "" {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	shorter := len(a)
	if len(b) < shorter {
		shorter = len(b)
	}
	same := 0
	for i := 0; i < shorter; i++ {
		if a[i] == b[i] {
			same++
		}
	}
	longer := len(a)
	if len(b) > longer {
		longer = len(b)
	}
	return float64(same) / float64(longer)
}
