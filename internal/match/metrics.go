package match

import "cutplan/constants"

// FieldStat is the per-field agreement ratio over matched pairs. Total of
// zero means "no data": Value reports 1.0 because there was nothing to get
// wrong, and HasData lets consumers tell the two apart.
type FieldStat struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Value returns the agreement ratio, 1.0 when no pairs carried the field.
func (s FieldStat) Value() float64 {
	if s.Total == 0 {
		return 1.0
	}
	return float64(s.Correct) / float64(s.Total)
}

// HasData reports whether any matched pair contributed to the stat.
func (s FieldStat) HasData() bool {
	return s.Total > 0
}

// Metrics are the scalar accuracies derived from one match result.
type Metrics struct {
	TotalParts   int                           `json:"total_parts"`
	CorrectParts int                           `json:"correct_parts"`
	Accuracy     float64                       `json:"accuracy"`
	Fields       map[constants.Field]FieldStat `json:"fields"`
}

// ComputeMetrics converts a match result into scalar accuracies.
// truthCount is the ground-truth part count: truth items with no accepted
// candidate count as incorrect in the overall accuracy, but are excluded
// from per-field denominators. An empty truth list yields accuracy 1.0.
func ComputeMetrics(result Result, truthCount int) Metrics {
	metrics := Metrics{
		TotalParts: truthCount,
		Fields:     make(map[constants.Field]FieldStat, len(constants.ScoredFields)),
	}

	fieldWrong := make(map[constants.Field]int, len(constants.ScoredFields))
	for _, pair := range result.Matched {
		if len(pair.Diffs) == 0 {
			metrics.CorrectParts++
		}
		for _, d := range pair.Diffs {
			fieldWrong[d.Field]++
		}
	}

	matched := len(result.Matched)
	for _, f := range constants.ScoredFields {
		metrics.Fields[f] = FieldStat{
			Correct: matched - fieldWrong[f],
			Total:   matched,
		}
	}

	if truthCount == 0 {
		metrics.Accuracy = 1.0
		return metrics
	}
	metrics.Accuracy = float64(metrics.CorrectParts) / float64(truthCount)
	return metrics
}
