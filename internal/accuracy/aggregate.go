package accuracy

import (
	"sort"
	"time"

	"cutplan/constants"
	"cutplan/internal/entity"
)

// Trend classifies where accuracy is heading across a sample window.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"

	// trendDeadband is the half-to-half mean delta below which movement is
	// noise, not a trend.
	trendDeadband = 0.03
)

// GroupStat summarizes one slice of the window (a provider, a difficulty,
// a day).
type GroupStat struct {
	Samples      int     `json:"samples"`
	MeanAccuracy float64 `json:"mean_accuracy"`
}

// DayPoint is one day's worth of samples in the trend series.
type DayPoint struct {
	Day          string  `json:"day"` // YYYY-MM-DD, UTC
	Samples      int     `json:"samples"`
	MeanAccuracy float64 `json:"mean_accuracy"`
}

// FewShotEffect compares samples that used few-shot examples against those
// that did not.
type FewShotEffect struct {
	WithCount    int     `json:"with_count"`
	WithoutCount int     `json:"without_count"`
	WithMean     float64 `json:"with_mean"`
	WithoutMean  float64 `json:"without_mean"`
	Delta        float64 `json:"delta"`
}

// WeakArea is a field whose rolling average fell below the threshold,
// paired with static remediation hints.
type WeakArea struct {
	Field       constants.Field `json:"field"`
	Accuracy    float64         `json:"accuracy"`
	Suggestions []string        `json:"suggestions"`
}

// Summary is the headline rollup of a sample window.
type Summary struct {
	TotalSamples   int             `json:"total_samples"`
	TotalParts     int             `json:"total_parts"`
	MeanAccuracy   float64         `json:"mean_accuracy"`
	Trend          Trend           `json:"trend"`
	WeakestField   constants.Field `json:"weakest_field,omitempty"`
	StrongestField constants.Field `json:"strongest_field,omitempty"`
	FewShot        FewShotEffect   `json:"few_shot"`
}

// Report is everything the aggregator derives from one bounded window of
// samples. The window is caller-supplied; the aggregator never fetches.
type Report struct {
	Summary      Summary                            `json:"summary"`
	TrendSeries  []DayPoint                         `json:"trend_series"`
	ByProvider   map[string]GroupStat               `json:"by_provider"`
	ByDifficulty map[constants.Difficulty]GroupStat `json:"by_difficulty"`
	FieldAverage map[constants.Field]float64        `json:"field_average"`
	WeakAreas    []WeakArea                         `json:"weak_areas"`
}

// Aggregate rolls a recent window of accuracy samples into summaries,
// trends and diagnostics. An empty window yields an empty report with a
// stable trend.
func Aggregate(samples []entity.AccuracySample) Report {
	report := Report{
		ByProvider:   make(map[string]GroupStat),
		ByDifficulty: make(map[constants.Difficulty]GroupStat),
		FieldAverage: make(map[constants.Field]float64),
	}
	report.Summary.Trend = TrendStable
	if len(samples) == 0 {
		return report
	}

	ordered := make([]entity.AccuracySample, len(samples))
	copy(ordered, samples)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	var accSum float64
	for _, s := range ordered {
		accSum += s.Accuracy
		report.Summary.TotalParts += s.TotalParts
	}
	report.Summary.TotalSamples = len(ordered)
	report.Summary.MeanAccuracy = accSum / float64(len(ordered))
	report.Summary.Trend = classifyTrend(ordered)
	report.Summary.FewShot = fewShotEffect(ordered)

	report.FieldAverage = fieldAverages(ordered)
	report.Summary.WeakestField, report.Summary.StrongestField = extremes(report.FieldAverage)

	report.TrendSeries = daySeries(ordered)
	report.ByProvider = groupBy(ordered, func(s entity.AccuracySample) string { return s.Provider })
	for k, v := range groupBy(ordered, func(s entity.AccuracySample) string { return string(s.DocumentDifficulty) }) {
		if k == "" {
			continue
		}
		report.ByDifficulty[constants.Difficulty(k)] = v
	}

	for _, f := range constants.ScoredFields {
		if avg := report.FieldAverage[f]; avg < WeakFieldThreshold {
			report.WeakAreas = append(report.WeakAreas, WeakArea{
				Field:       f,
				Accuracy:    avg,
				Suggestions: SuggestionsFor(f),
			})
		}
	}

	return report
}

// classifyTrend compares the chronologically earlier half of the window
// against the later half with a deadband.
func classifyTrend(ordered []entity.AccuracySample) Trend {
	if len(ordered) < 2 {
		return TrendStable
	}
	half := len(ordered) / 2
	early := meanAccuracy(ordered[:half])
	late := meanAccuracy(ordered[half:])
	switch {
	case late-early > trendDeadband:
		return TrendImproving
	case early-late > trendDeadband:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func meanAccuracy(samples []entity.AccuracySample) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += s.Accuracy
	}
	return sum / float64(len(samples))
}

func fewShotEffect(samples []entity.AccuracySample) FewShotEffect {
	var effect FewShotEffect
	var withSum, withoutSum float64
	for _, s := range samples {
		if s.FewShotExamplesUsed > 0 {
			effect.WithCount++
			withSum += s.Accuracy
		} else {
			effect.WithoutCount++
			withoutSum += s.Accuracy
		}
	}
	if effect.WithCount > 0 {
		effect.WithMean = withSum / float64(effect.WithCount)
	}
	if effect.WithoutCount > 0 {
		effect.WithoutMean = withoutSum / float64(effect.WithoutCount)
	}
	if effect.WithCount > 0 && effect.WithoutCount > 0 {
		effect.Delta = effect.WithMean - effect.WithoutMean
	}
	return effect
}

func fieldAverages(samples []entity.AccuracySample) map[constants.Field]float64 {
	avgs := make(map[constants.Field]float64, len(constants.ScoredFields))
	for _, f := range constants.ScoredFields {
		var sum float64
		for i := range samples {
			sum += samples[i].FieldAccuracy(f)
		}
		avgs[f] = sum / float64(len(samples))
	}
	return avgs
}

func extremes(avgs map[constants.Field]float64) (weakest, strongest constants.Field) {
	first := true
	for _, f := range constants.ScoredFields {
		avg := avgs[f]
		if first {
			weakest, strongest = f, f
			first = false
			continue
		}
		if avg < avgs[weakest] {
			weakest = f
		}
		if avg > avgs[strongest] {
			strongest = f
		}
	}
	return weakest, strongest
}

func daySeries(ordered []entity.AccuracySample) []DayPoint {
	type bucket struct {
		sum   float64
		count int
	}
	buckets := make(map[string]*bucket)
	var days []string
	for _, s := range ordered {
		day := s.CreatedAt.UTC().Format(time.DateOnly)
		b, ok := buckets[day]
		if !ok {
			b = &bucket{}
			buckets[day] = b
			days = append(days, day)
		}
		b.sum += s.Accuracy
		b.count++
	}
	sort.Strings(days)

	series := make([]DayPoint, 0, len(days))
	for _, day := range days {
		b := buckets[day]
		series = append(series, DayPoint{
			Day:          day,
			Samples:      b.count,
			MeanAccuracy: b.sum / float64(b.count),
		})
	}
	return series
}

func groupBy(samples []entity.AccuracySample, key func(entity.AccuracySample) string) map[string]GroupStat {
	type agg struct {
		sum   float64
		count int
	}
	groups := make(map[string]*agg)
	for _, s := range samples {
		k := key(s)
		g, ok := groups[k]
		if !ok {
			g = &agg{}
			groups[k] = g
		}
		g.sum += s.Accuracy
		g.count++
	}
	out := make(map[string]GroupStat, len(groups))
	for k, g := range groups {
		out[k] = GroupStat{Samples: g.count, MeanAccuracy: g.sum / float64(g.count)}
	}
	return out
}
