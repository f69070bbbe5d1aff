package confidence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cutplan/constants"
	"cutplan/internal/entity"
)

func basePart() *entity.CutPart {
	return &entity.CutPart{
		PartID:      entity.NewPartID(),
		Label:       "Side panel",
		Qty:         2,
		Size:        entity.Size{L: 720, W: 560},
		ThicknessMM: 18,
		MaterialID:  "mfc-white-18",
		Grain:       constants.GrainNone,
		Audit:       entity.Audit{SourceMethod: constants.SourceAI, Confidence: 0.8},
	}
}

func TestEstimateScoresStayInRange(t *testing.T) {
	e := NewEstimator("mdf-18")
	parts := []*entity.CutPart{
		basePart(),
		{Size: entity.Size{L: -5, W: 0}},
		{Size: entity.Size{L: 99999, W: 99999}, Qty: -4},
		nil,
	}
	for _, p := range parts {
		report := e.Estimate(p, "some text 720x560 2pcs mdf")
		require.Len(t, report, len(constants.ScoredFields))
		for f, fc := range report {
			assert.GreaterOrEqual(t, fc.Score, 0.0, "field %s", f)
			assert.LessOrEqual(t, fc.Score, 1.0, "field %s", f)
			assert.NotEqual(t, constants.ConfidenceLevel(""), fc.Level, "field %s", f)
		}
	}
}

func TestEstimateManualPartsTrustedFully(t *testing.T) {
	e := NewEstimator("mdf-18")
	p := basePart()
	p.Audit.SourceMethod = constants.SourceManual

	report := e.Estimate(p, "")
	for f, fc := range report {
		assert.Equal(t, 1.0, fc.Score, "field %s", f)
		assert.Equal(t, constants.ConfidenceHigh, fc.Level, "field %s", f)
	}
}

func TestEstimateSwappedDimensionsFlagged(t *testing.T) {
	e := NewEstimator("mdf-18")
	p := basePart()
	p.Size = entity.Size{L: 400, W: 900}

	fc := e.Estimate(p, "400x900")[constants.FieldDimensions]
	assert.LessOrEqual(t, fc.Score, 0.7)
	assert.NotEqual(t, constants.ConfidenceHigh, fc.Level)
	assert.Contains(t, fc.Reason, "swapped")
}

func TestEstimateSwapHintSurvivesOversizeDimension(t *testing.T) {
	e := NewEstimator("mdf-18")
	p := basePart()
	p.Size = entity.Size{L: 600, W: 6200}

	fc := e.Estimate(p, "600x6200")[constants.FieldDimensions]
	assert.Equal(t, 0.7, fc.Score)
	assert.Contains(t, fc.Reason, "swapped")
	assert.Contains(t, fc.Reason, "5000")
}

func TestEstimateMalformedDimensionsDegradeNotThrow(t *testing.T) {
	e := NewEstimator("mdf-18")
	p := basePart()
	p.Size = entity.Size{L: -720, W: 560}

	fc := e.Estimate(p, "")[constants.FieldDimensions]
	assert.Equal(t, constants.ConfidenceLow, fc.Level)
	assert.Equal(t, 0.3, fc.Score)
}

func TestEstimateQuantityMarkerDetection(t *testing.T) {
	e := NewEstimator("mdf-18")
	p := basePart()

	withMarker := e.Estimate(p, "720 560 2pcs")[constants.FieldQuantity]
	assert.Equal(t, 0.95, withMarker.Score)

	p.Qty = 1
	without := e.Estimate(p, "720 560 side panel")[constants.FieldQuantity]
	assert.Equal(t, 0.6, without.Score)
	assert.Contains(t, without.Reason, "inferred as 1")
}

func TestEstimateMaterialScoring(t *testing.T) {
	e := NewEstimator("mdf-18")
	p := basePart()

	mentioned := e.Estimate(p, "720x560 white melamine")[constants.FieldMaterial]
	assert.Equal(t, 0.9, mentioned.Score)

	assigned := e.Estimate(p, "720x560")[constants.FieldMaterial]
	assert.Equal(t, 0.6, assigned.Score)

	p.MaterialID = "mdf-18" // the catalog default, silently applied
	defaulted := e.Estimate(p, "720x560")[constants.FieldMaterial]
	assert.Equal(t, 0.4, defaulted.Score)
}

func TestEstimateEdgingFalsePositiveSuspicion(t *testing.T) {
	e := NewEstimator("mdf-18")
	p := basePart()
	p.EnsureOps().Edging = map[constants.EdgeID]entity.EdgeBanding{
		constants.EdgeL1: {Apply: true, EdgebandID: "abs-2mm"},
	}

	unmarked := e.Estimate(p, "720x560 shelf")[constants.FieldEdging]
	assert.Equal(t, 0.5, unmarked.Score)
	assert.Contains(t, unmarked.Reason, "not explicitly marked")

	marked := e.Estimate(p, "720x560 edge banding L1")[constants.FieldEdging]
	assert.Equal(t, 0.9, marked.Score)

	p.Ops = nil
	absent := e.Estimate(p, "720x560")[constants.FieldEdging]
	assert.Equal(t, 0.85, absent.Score)
}

func TestEstimateGroovingAbsenceIsSafeDefault(t *testing.T) {
	e := NewEstimator("mdf-18")
	p := basePart()

	absent := e.Estimate(p, "720x560")[constants.FieldGrooving]
	assert.Equal(t, 0.8, absent.Score)

	p.EnsureOps().Grooves = []entity.Groove{{Side: constants.EdgeW1, DepthMM: 8, WidthMM: 8, OffsetMM: 10}}
	unmarked := e.Estimate(p, "720x560")[constants.FieldGrooving]
	assert.Equal(t, 0.5, unmarked.Score)
}

func TestEstimateLabelPresence(t *testing.T) {
	e := NewEstimator("mdf-18")
	p := basePart()

	present := e.Estimate(p, "")[constants.FieldLabel]
	assert.Equal(t, 0.9, present.Score)

	p.Label = ""
	missing := e.Estimate(p, "")[constants.FieldLabel]
	assert.Equal(t, 0.55, missing.Score)
	assert.Equal(t, constants.ConfidenceMedium, missing.Level)
}

func TestReportOverallAndLowest(t *testing.T) {
	e := NewEstimator("mdf-18")
	p := basePart()
	p.Label = ""

	report := e.Estimate(p, "720x560")
	overall := report.Overall()
	assert.Greater(t, overall, 0.0)
	assert.LessOrEqual(t, overall, 1.0)

	field, fc, ok := report.Lowest()
	require.True(t, ok)
	assert.NotEmpty(t, field)
	assert.LessOrEqual(t, fc.Score, overall)
}
