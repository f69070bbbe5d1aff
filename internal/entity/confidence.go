package entity

import "cutplan/constants"

// FieldConfidence is the trust estimate for one logical field of one part.
// It is always recomputed from the current part plus its source text and is
// never persisted on its own.
type FieldConfidence struct {
	Level  constants.ConfidenceLevel `json:"level"`
	Score  float64                   `json:"score"`
	Reason string                    `json:"reason,omitempty"`
}

// ConfidenceReport maps each scored field of a part to its estimate.
type ConfidenceReport map[constants.Field]FieldConfidence

// Overall returns the mean score across all scored fields, the number the
// review heuristic compares against its threshold.
func (r ConfidenceReport) Overall() float64 {
	if len(r) == 0 {
		return 0
	}
	var sum float64
	for _, fc := range r {
		sum += fc.Score
	}
	return sum / float64(len(r))
}

// Lowest returns the weakest field and its estimate. The bool is false for
// an empty report.
func (r ConfidenceReport) Lowest() (constants.Field, FieldConfidence, bool) {
	var (
		worst      constants.Field
		worstScore = 2.0
		found      bool
	)
	for _, f := range constants.ScoredFields {
		fc, ok := r[f]
		if !ok {
			continue
		}
		if fc.Score < worstScore {
			worst, worstScore, found = f, fc.Score, true
		}
	}
	if !found {
		return "", FieldConfidence{}, false
	}
	return worst, r[worst], true
}
