package match

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"cutplan/constants"
	"cutplan/internal/entity"
)

// FieldDiff is one human-readable disagreement between a matched candidate
// and its truth part.
type FieldDiff struct {
	Field       constants.Field `json:"field"`
	Description string          `json:"description"`
}

// diff compares a matched pair field by field. Dimensions (including
// thickness) use the configured millimeter tolerance; quantity and material
// are exact; edge and groove sets compare as sorted string sets; labels
// compare case-insensitively.
func (m *Matcher) diff(c, t entity.CutPart) []FieldDiff {
	var diffs []FieldDiff

	tol := m.cfg.DimensionTolMM
	if math.Abs(c.Size.L-t.Size.L) > tol || math.Abs(c.Size.W-t.Size.W) > tol ||
		math.Abs(c.ThicknessMM-t.ThicknessMM) > tol {
		diffs = append(diffs, FieldDiff{
			Field: constants.FieldDimensions,
			Description: fmt.Sprintf("dimensions %sx%s/%smm vs %sx%s/%smm",
				fmtMM(c.Size.L), fmtMM(c.Size.W), fmtMM(c.ThicknessMM),
				fmtMM(t.Size.L), fmtMM(t.Size.W), fmtMM(t.ThicknessMM)),
		})
	}

	if c.Qty != t.Qty {
		diffs = append(diffs, FieldDiff{
			Field:       constants.FieldQuantity,
			Description: fmt.Sprintf("quantity %d vs %d", c.Qty, t.Qty),
		})
	}

	if c.MaterialID != t.MaterialID {
		diffs = append(diffs, FieldDiff{
			Field:       constants.FieldMaterial,
			Description: fmt.Sprintf("material %q vs %q", c.MaterialID, t.MaterialID),
		})
	}

	if ce, te := edgeSetKey(&c), edgeSetKey(&t); ce != te {
		diffs = append(diffs, FieldDiff{
			Field:       constants.FieldEdging,
			Description: fmt.Sprintf("edging [%s] vs [%s]", ce, te),
		})
	}

	if cg, tg := grooveSetKey(&c), grooveSetKey(&t); cg != tg {
		diffs = append(diffs, FieldDiff{
			Field:       constants.FieldGrooving,
			Description: fmt.Sprintf("grooves [%s] vs [%s]", cg, tg),
		})
	}

	if !strings.EqualFold(strings.TrimSpace(c.Label), strings.TrimSpace(t.Label)) {
		diffs = append(diffs, FieldDiff{
			Field:       constants.FieldLabel,
			Description: fmt.Sprintf("label %q vs %q", c.Label, t.Label),
		})
	}

	return diffs
}

func fmtMM(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	return strings.TrimSuffix(s, ".0")
}

func edgeSetKey(p *entity.CutPart) string {
	edges := p.EdgeSet()
	sort.Strings(edges)
	return strings.Join(edges, ",")
}

func grooveSetKey(p *entity.CutPart) string {
	if p.Ops == nil || len(p.Ops.Grooves) == 0 {
		return ""
	}
	sides := make([]string, 0, len(p.Ops.Grooves))
	for _, g := range p.Ops.Grooves {
		sides = append(sides, string(g.Side))
	}
	sort.Strings(sides)
	return strings.Join(sides, ",")
}
