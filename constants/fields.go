package constants

// Field names the logical part fields that confidence estimation and
// accuracy measurement reason about. These are coarser than struct fields:
// "dimensions" covers L, W and thickness together.
type Field string

const (
	FieldDimensions Field = "dimensions"
	FieldQuantity   Field = "quantity"
	FieldMaterial   Field = "material"
	FieldEdging     Field = "edging"
	FieldGrooving   Field = "grooving"
	FieldLabel      Field = "label"
)

// ScoredFields lists every field in stable order.
var ScoredFields = []Field{
	FieldDimensions,
	FieldQuantity,
	FieldMaterial,
	FieldEdging,
	FieldGrooving,
	FieldLabel,
}

// ConfidenceLevel is the coarse trust band attached to a field estimate.
type ConfidenceLevel string

const (
	ConfidenceHigh    ConfidenceLevel = "high"
	ConfidenceMedium  ConfidenceLevel = "medium"
	ConfidenceLow     ConfidenceLevel = "low"
	ConfidenceUnknown ConfidenceLevel = "unknown"
)

// LevelForScore maps a numeric score onto its band. Bands are advisory;
// scores are what the learning loop aggregates.
func LevelForScore(score float64) ConfidenceLevel {
	switch {
	case score >= 0.85:
		return ConfidenceHigh
	case score >= 0.5:
		return ConfidenceMedium
	case score > 0:
		return ConfidenceLow
	default:
		return ConfidenceUnknown
	}
}

// MaxPanelDimensionMM bounds plausible panel sizes; anything above it is
// treated as suspect input (a 5m panel does not come off a beam saw).
const MaxPanelDimensionMM = 5000.0

// ReviewConfidenceThreshold mirrors the processor's needs_review heuristic:
// parts whose overall confidence falls below this are flagged for a human.
const ReviewConfidenceThreshold = 0.60
