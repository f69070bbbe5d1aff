package entity

import (
	"github.com/google/uuid"

	"cutplan/constants"
)

// Size is the cut size of a panel in millimeters. L is always the grain /
// length axis and W the width axis; the engine never swaps them on the
// caller's behalf, it only flags suspicious ordering via confidence.
type Size struct {
	L float64 `json:"l"`
	W float64 `json:"w"`
}

// EdgeBanding describes banding applied to a single edge.
type EdgeBanding struct {
	Apply      bool   `json:"apply"`
	EdgebandID string `json:"edgeband_id,omitempty"`
}

// Groove is a straight groove parallel to one edge.
type Groove struct {
	Side     constants.EdgeID `json:"side"`
	OffsetMM float64          `json:"offset_mm"`
	DepthMM  float64          `json:"depth_mm"`
	WidthMM  float64          `json:"width_mm"`
}

// HolePattern references a drilling pattern in the host CNC catalog.
type HolePattern struct {
	PatternID string `json:"pattern_id"`
	Face      string `json:"face,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// CNCOp references a custom CNC program.
type CNCOp struct {
	OpType  string `json:"op_type"`
	Payload string `json:"payload,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// PartOps groups the machining operations attached to a part. All members
// are optional; a plain rectangle carries none.
type PartOps struct {
	Edging       map[constants.EdgeID]EdgeBanding `json:"edging,omitempty"`
	Grooves      []Groove                         `json:"grooves,omitempty"`
	Holes        []HolePattern                    `json:"holes,omitempty"`
	CustomCNCOps []CNCOp                          `json:"custom_cnc_ops,omitempty"`
}

// Audit is the provenance and trust record of a part. It is rewritten
// whenever the part is recomputed or confirmed by a person.
type Audit struct {
	SourceMethod  constants.SourceMethod `json:"source_method"`
	Confidence    float64                `json:"confidence"`
	HumanVerified bool                   `json:"human_verified"`
}

// CutPart is the canonical representation of one cut panel, regardless of
// the input source it was extracted from.
type CutPart struct {
	PartID        string          `json:"part_id"`
	Label         string          `json:"label,omitempty"`
	Qty           int             `json:"qty"`
	Size          Size            `json:"size"`
	ThicknessMM   float64         `json:"thickness_mm"`
	MaterialID    string          `json:"material_id"`
	Grain         constants.Grain `json:"grain"`
	AllowRotation bool            `json:"allow_rotation"`
	GroupID       string          `json:"group_id,omitempty"`
	Ops           *PartOps        `json:"ops,omitempty"`
	Audit         Audit           `json:"audit"`
}

// NewPartID returns a fresh opaque part identifier.
func NewPartID() string {
	return uuid.NewString()
}

// HasEdging reports whether any edge of the part is banded.
func (p *CutPart) HasEdging() bool {
	if p.Ops == nil {
		return false
	}
	for _, eb := range p.Ops.Edging {
		if eb.Apply {
			return true
		}
	}
	return false
}

// HasGrooves reports whether the part carries at least one groove.
func (p *CutPart) HasGrooves() bool {
	return p.Ops != nil && len(p.Ops.Grooves) > 0
}

// EdgeSet returns the banded edges as sorted strings, the shape the matcher
// compares edging with.
func (p *CutPart) EdgeSet() []string {
	if p.Ops == nil {
		return nil
	}
	var edges []string
	for _, e := range constants.AllEdges {
		if eb, ok := p.Ops.Edging[e]; ok && eb.Apply {
			edges = append(edges, string(e))
		}
	}
	return edges
}

// EnsureOps lazily allocates the operations block.
func (p *CutPart) EnsureOps() *PartOps {
	if p.Ops == nil {
		p.Ops = &PartOps{}
	}
	return p.Ops
}
