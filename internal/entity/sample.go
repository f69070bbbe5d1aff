package entity

import (
	"time"

	"github.com/google/uuid"

	"cutplan/constants"
)

// AccuracySample is the result of measuring one finalized parse-and-correct
// session against its human-corrected parts. Samples are append-only; once
// created they are never mutated.
type AccuracySample struct {
	ID                  uuid.UUID            `json:"id"`
	TotalParts          int                  `json:"total_parts"`
	CorrectParts        int                  `json:"correct_parts"`
	Accuracy            float64              `json:"accuracy"`
	DimensionAccuracy   float64              `json:"dimension_accuracy"`
	MaterialAccuracy    float64              `json:"material_accuracy"`
	EdgingAccuracy      float64              `json:"edging_accuracy"`
	GroovingAccuracy    float64              `json:"grooving_accuracy"`
	QuantityAccuracy    float64              `json:"quantity_accuracy"`
	LabelAccuracy       float64              `json:"label_accuracy"`
	FewShotExamplesUsed int                  `json:"few_shot_examples_used"`
	PatternsApplied     int                  `json:"patterns_applied"`
	ClientTemplateUsed  bool                 `json:"client_template_used"`
	Provider            string               `json:"provider"`
	DocumentDifficulty  constants.Difficulty `json:"document_difficulty,omitempty"`
	CreatedAt           time.Time            `json:"created_at"`
}

// FieldAccuracy returns the sample's stored accuracy for a scored field.
// Unknown fields return the overall accuracy so callers degrade gracefully.
func (s *AccuracySample) FieldAccuracy(f constants.Field) float64 {
	switch f {
	case constants.FieldDimensions:
		return s.DimensionAccuracy
	case constants.FieldQuantity:
		return s.QuantityAccuracy
	case constants.FieldMaterial:
		return s.MaterialAccuracy
	case constants.FieldEdging:
		return s.EdgingAccuracy
	case constants.FieldGrooving:
		return s.GroovingAccuracy
	case constants.FieldLabel:
		return s.LabelAccuracy
	default:
		return s.Accuracy
	}
}
