// Package shorthand implements the deterministic cutlist entry grammar:
//
//	L W [qty] [edge ops] [gSIDE] [h...] [c...] ["label"]
//
// It exists so operators can type "720 560 2 4e gW \"Side panel\"" instead of
// filling a form. Parsing is pure and never produces partial parts: a line
// either satisfies the minimum grammar (two leading positive numbers) or the
// parser reports it as not parseable and the caller falls back to AI or
// manual entry.
package shorthand

import (
	"strconv"
	"strings"

	"cutplan/constants"
	"cutplan/internal/entity"
)

// Capabilities gates which machining operations the grammar may attach.
// Simple-tier shops run with everything off and still get dimensions,
// quantity and label out of the same grammar.
type Capabilities struct {
	Edging   bool
	Grooving bool
	Holes    bool
	CNC      bool
}

// Config supplies the catalog defaults a parsed part inherits.
type Config struct {
	MaterialID   string
	ThicknessMM  float64
	EdgebandID   string
	Capabilities Capabilities
}

// Parse turns one shorthand line into a canonical part. It returns nil when
// the line cannot satisfy the minimum grammar; nil is not an error, it means
// "not shorthand, try something else".
func Parse(line string, cfg Config) *entity.CutPart {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	rest, label := stripLabel(line)
	rest = normalizeDimensionRuns(rest)

	tokens := strings.Fields(rest)
	if len(tokens) < 2 {
		return nil
	}

	l, ok := parsePositiveNumber(tokens[0])
	if !ok {
		return nil
	}
	w, ok := parsePositiveNumber(tokens[1])
	if !ok {
		return nil
	}

	part := &entity.CutPart{
		PartID:        entity.NewPartID(),
		Label:         label,
		Qty:           1,
		Size:          entity.Size{L: l, W: w}, // literal input order, even when L < W
		ThicknessMM:   cfg.ThicknessMM,
		MaterialID:    cfg.MaterialID,
		Grain:         constants.GrainNone,
		AllowRotation: true,
		Audit: entity.Audit{
			SourceMethod: constants.SourceShorthand,
			Confidence:   1.0,
		},
	}

	qtySet := false
	rem := tokens[2:]
	for i, token := range rem {
		// bare integer 1..9999 wins over every keyword
		if n, err := strconv.Atoi(token); err == nil {
			if !qtySet && n >= 1 && n <= 9999 {
				part.Qty = n
				qtySet = true
			}
			continue
		}

		if edges, ok := constants.LookupEdgePattern(token); ok {
			if cfg.Capabilities.Edging {
				applyEdges(part, edges, cfg.EdgebandID)
			}
			continue
		}

		if side, ok := parseGrooveToken(token); ok {
			if cfg.Capabilities.Grooving {
				part.EnsureOps().Grooves = append(part.EnsureOps().Grooves, entity.Groove{
					Side:     side,
					OffsetMM: constants.DefaultGrooveOffsetMM,
					DepthMM:  constants.DefaultGrooveDepthMM,
					WidthMM:  constants.DefaultGrooveWidthMM,
				})
			}
			continue
		}

		if patternID, ok := parseHoleToken(token); ok {
			if cfg.Capabilities.Holes {
				part.EnsureOps().Holes = append(part.EnsureOps().Holes, entity.HolePattern{
					PatternID: patternID,
				})
			}
			continue
		}

		if program, ok := parseCNCToken(token); ok {
			if cfg.Capabilities.CNC {
				part.EnsureOps().CustomCNCOps = append(part.EnsureOps().CustomCNCOps, entity.CNCOp{
					OpType:  "program",
					Payload: program,
				})
			}
			continue
		}

		// last unclassified non-numeric token becomes the label when none
		// was quoted
		if i == len(rem)-1 && part.Label == "" && !isNumeric(token) {
			part.Label = token
		}
	}

	return part
}

func applyEdges(part *entity.CutPart, edges []constants.EdgeID, edgebandID string) {
	ops := part.EnsureOps()
	if ops.Edging == nil {
		ops.Edging = make(map[constants.EdgeID]entity.EdgeBanding, len(edges))
	}
	for _, e := range edges {
		ops.Edging[e] = entity.EdgeBanding{Apply: true, EdgebandID: edgebandID}
	}
}
