package llm

import (
	"encoding/json"
	"fmt"

	"cutplan/constants"
	"cutplan/internal/entity"
)

// wire shapes mirror BuildCutlistJSONSchema.
type wireDoc struct {
	Parts      []wirePart `json:"parts"`
	Confidence float64    `json:"confidence,omitempty"`
}

type wirePart struct {
	Label       string          `json:"label,omitempty"`
	Qty         int             `json:"qty"`
	Size        entity.Size     `json:"size"`
	ThicknessMM float64         `json:"thickness_mm,omitempty"`
	MaterialID  string          `json:"material_id,omitempty"`
	Grain       string          `json:"grain,omitempty"`
	GroupID     string          `json:"group_id,omitempty"`
	Ops         *entity.PartOps `json:"ops,omitempty"`
	Confidence  float64         `json:"confidence,omitempty"`
}

// DecodeParts turns a validated provider response into canonical parts.
// Missing material and thickness fall back to the request defaults; each
// part gets a fresh id and an AI audit record carrying the provider's own
// confidence number (document-level when the part has none).
func DecodeParts(raw []byte, req ExtractRequest) ([]entity.CutPart, error) {
	var doc wireDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode provider response: %w", err)
	}

	parts := make([]entity.CutPart, 0, len(doc.Parts))
	for _, wp := range doc.Parts {
		confidence := wp.Confidence
		if confidence == 0 {
			confidence = doc.Confidence
		}

		grain := constants.Grain(wp.Grain)
		if wp.Grain == "" {
			grain = constants.GrainNone
		}

		thickness := wp.ThicknessMM
		if thickness <= 0 {
			thickness = req.DefaultThickMM
		}
		material := wp.MaterialID
		if material == "" {
			material = req.DefaultMaterial
		}

		parts = append(parts, entity.CutPart{
			PartID:        entity.NewPartID(),
			Label:         wp.Label,
			Qty:           wp.Qty,
			Size:          wp.Size,
			ThicknessMM:   thickness,
			MaterialID:    material,
			Grain:         grain,
			AllowRotation: grain == constants.GrainNone,
			GroupID:       wp.GroupID,
			Ops:           wp.Ops,
			Audit: entity.Audit{
				SourceMethod: constants.SourceAI,
				Confidence:   confidence,
			},
		})
	}
	return parts, nil
}
