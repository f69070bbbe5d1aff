package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cutplan/constants"
	"cutplan/internal/entity"
)

func TestComputeMetricsPerfectMatch(t *testing.T) {
	parts := []entity.CutPart{
		mkPart("Side", 720, 560, 2),
		mkPart("Top", 900, 600, 1),
	}

	result := New(DefaultConfig()).Match(parts, parts)
	metrics := ComputeMetrics(result, len(parts))

	assert.Equal(t, 2, metrics.TotalParts)
	assert.Equal(t, 2, metrics.CorrectParts)
	assert.Equal(t, 1.0, metrics.Accuracy)
	for _, f := range constants.ScoredFields {
		stat := metrics.Fields[f]
		assert.True(t, stat.HasData(), "field %s", f)
		assert.Equal(t, 1.0, stat.Value(), "field %s", f)
	}
}

func TestComputeMetricsMissesCountAsIncorrect(t *testing.T) {
	truth := []entity.CutPart{
		mkPart("Side", 720, 560, 2),
		mkPart("Plinth", 2400, 150, 1),
	}
	candidate := []entity.CutPart{mkPart("Side", 720, 560, 2)}

	result := New(DefaultConfig()).Match(candidate, truth)
	metrics := ComputeMetrics(result, len(truth))

	assert.Equal(t, 1, metrics.CorrectParts)
	assert.Equal(t, 0.5, metrics.Accuracy, "the unmatched truth part counts against overall accuracy")

	// but per-field denominators only cover matched pairs
	stat := metrics.Fields[constants.FieldDimensions]
	assert.Equal(t, 1, stat.Total)
	assert.Equal(t, 1.0, stat.Value())
}

func TestComputeMetricsEmptyTruth(t *testing.T) {
	result := New(DefaultConfig()).Match(nil, nil)
	metrics := ComputeMetrics(result, 0)

	assert.Equal(t, 1.0, metrics.Accuracy, "nothing to get wrong")
	assert.Equal(t, 0, metrics.CorrectParts)
	for _, f := range constants.ScoredFields {
		stat := metrics.Fields[f]
		assert.False(t, stat.HasData(), "field %s has no data", f)
		assert.Equal(t, 1.0, stat.Value(), "no-data fields report 1.0, not 0")
	}
}

func TestComputeMetricsFieldDisagreement(t *testing.T) {
	truth := []entity.CutPart{mkPart("Side", 720, 560, 2)}
	cand := mkPart("Side", 720, 560, 3) // wrong quantity only

	result := New(DefaultConfig()).Match([]entity.CutPart{cand}, truth)
	metrics := ComputeMetrics(result, 1)

	require.Len(t, result.Matched, 1)
	assert.Equal(t, 0, metrics.CorrectParts)
	assert.Equal(t, 0.0, metrics.Accuracy)
	assert.Equal(t, 0.0, metrics.Fields[constants.FieldQuantity].Value())
	assert.Equal(t, 1.0, metrics.Fields[constants.FieldDimensions].Value())
	assert.Equal(t, 1.0, metrics.Fields[constants.FieldLabel].Value())
}
