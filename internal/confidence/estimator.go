// Package confidence scores how much a canonical part should be trusted,
// field by field, given the raw text it was extracted from. Scores are
// advisory: they drive UI emphasis and the learning loop's choice of what a
// human should double-check, and they never block a save.
package confidence

import (
	"fmt"
	"regexp"
	"strings"

	"cutplan/constants"
	"cutplan/internal/entity"
)

var (
	reQtyMarker = regexp.MustCompile(`(?i)\b(qty\s*:?\s*\d+|\d+\s*(pcs?|pieces?|stk|szt|off)|x\s*\d+|\d+\s*x)\b`)
	reMaterial  = regexp.MustCompile(`(?i)\b(mdf|hdf|osb|mfc|plywood|ply|chipboard|particle\s*board|melamine|laminate|veneer|oak|birch|beech|pine|walnut)\b`)
	reEdging    = regexp.MustCompile(`(?i)\b(edge|edging|band(ing)?|abs|pvc|[234]e|all|2[lw]|[lw][12])\b`)
	reGroove    = regexp.MustCompile(`(?i)\b(groove|dado|rabbet|rebate|nut|g[lw][12]?)\b`)
)

// Estimator assigns per-field trust estimates. It needs to know the catalog
// default material to tell "material assigned" apart from "default silently
// used".
type Estimator struct {
	DefaultMaterialID string
}

// NewEstimator returns an estimator aware of the shop's default material.
func NewEstimator(defaultMaterialID string) *Estimator {
	return &Estimator{DefaultMaterialID: defaultMaterialID}
}

// Estimate scores every logical field of the part against its source text.
// Manually entered parts are trusted outright. Malformed values degrade to
// the low band; estimation never fails.
func (e *Estimator) Estimate(part *entity.CutPart, sourceText string) entity.ConfidenceReport {
	report := make(entity.ConfidenceReport, len(constants.ScoredFields))
	if part == nil {
		for _, f := range constants.ScoredFields {
			report[f] = estimate(0, "no part to score")
		}
		return report
	}

	if part.Audit.SourceMethod == constants.SourceManual {
		for _, f := range constants.ScoredFields {
			report[f] = estimate(1.0, "entered manually")
		}
		return report
	}

	text := strings.ToLower(sourceText)
	report[constants.FieldDimensions] = e.scoreDimensions(part)
	report[constants.FieldQuantity] = e.scoreQuantity(part, text)
	report[constants.FieldMaterial] = e.scoreMaterial(part, text)
	report[constants.FieldEdging] = e.scoreEdging(part, text)
	report[constants.FieldGrooving] = e.scoreGrooving(part, text)
	report[constants.FieldLabel] = e.scoreLabel(part)
	return report
}

func (e *Estimator) scoreDimensions(part *entity.CutPart) entity.FieldConfidence {
	l, w := part.Size.L, part.Size.W
	oversize := l > constants.MaxPanelDimensionMM || w > constants.MaxPanelDimensionMM
	switch {
	case l <= 0 || w <= 0 || part.ThicknessMM <= 0:
		return estimate(0.3, "non-positive dimension")
	case l < w:
		// the swap hint always survives; an oversize value on top of it is
		// extra evidence, not a replacement reason
		reason := "L < W; length and width may be swapped"
		if oversize {
			reason += fmt.Sprintf("; dimension exceeds %.0fmm", constants.MaxPanelDimensionMM)
		}
		return estimate(0.7, reason)
	case oversize:
		return estimate(0.7, fmt.Sprintf("dimension exceeds %.0fmm", constants.MaxPanelDimensionMM))
	default:
		return estimate(0.95, "")
	}
}

func (e *Estimator) scoreQuantity(part *entity.CutPart, text string) entity.FieldConfidence {
	if reQtyMarker.MatchString(text) {
		return estimate(0.95, "")
	}
	if part.Qty == 1 {
		return estimate(0.6, "quantity inferred as 1")
	}
	return estimate(0.6, "quantity not explicitly marked in source")
}

func (e *Estimator) scoreMaterial(part *entity.CutPart, text string) entity.FieldConfidence {
	if reMaterial.MatchString(text) {
		return estimate(0.9, "")
	}
	if part.MaterialID == "" || part.MaterialID == e.DefaultMaterialID {
		return estimate(0.4, "default material used; not mentioned in source")
	}
	return estimate(0.6, "material not mentioned in source")
}

func (e *Estimator) scoreEdging(part *entity.CutPart, text string) entity.FieldConfidence {
	if !part.HasEdging() {
		return estimate(0.85, "")
	}
	if reEdging.MatchString(text) {
		return estimate(0.9, "")
	}
	// edging is one of the two fields most prone to AI false positives
	return estimate(0.5, "edging detected but not explicitly marked in source")
}

func (e *Estimator) scoreGrooving(part *entity.CutPart, text string) entity.FieldConfidence {
	if !part.HasGrooves() {
		return estimate(0.8, "")
	}
	if reGroove.MatchString(text) {
		return estimate(0.9, "")
	}
	return estimate(0.5, "grooves detected but not explicitly marked in source")
}

func (e *Estimator) scoreLabel(part *entity.CutPart) entity.FieldConfidence {
	label := strings.TrimSpace(part.Label)
	switch {
	case label == "":
		return estimate(0.55, "no label provided")
	case len(label) < 3:
		return estimate(0.7, "label very short")
	default:
		return estimate(0.9, "")
	}
}

// estimate clamps the score into [0,1] and derives the band.
func estimate(score float64, reason string) entity.FieldConfidence {
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return entity.FieldConfidence{
		Level:  constants.LevelForScore(score),
		Score:  score,
		Reason: reason,
	}
}
