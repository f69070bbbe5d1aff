package constants

import "strings"

// EdgeID identifies one of the four edges of a rectangular panel.
// L1/L2 run along the length (grain) axis, W1/W2 along the width axis.
type EdgeID string

const (
	EdgeL1 EdgeID = "L1"
	EdgeL2 EdgeID = "L2"
	EdgeW1 EdgeID = "W1"
	EdgeW2 EdgeID = "W2"
)

// AllEdges lists the edges in stable display order.
var AllEdges = []EdgeID{EdgeL1, EdgeL2, EdgeW1, EdgeW2}

// edgePatterns maps a shorthand keyword (lowercase) to the set of edges it
// selects. Table data, not branching logic, so shops can be given new
// combinations without touching the tokenizer.
var edgePatterns = map[string][]EdgeID{
	"4e":  {EdgeL1, EdgeL2, EdgeW1, EdgeW2},
	"all": {EdgeL1, EdgeL2, EdgeW1, EdgeW2},
	"3e":  {EdgeL1, EdgeL2, EdgeW1},
	"2l":  {EdgeL1, EdgeL2},
	"2w":  {EdgeW1, EdgeW2},
	"2e":  {EdgeL1, EdgeW1},
	"l1":  {EdgeL1},
	"l2":  {EdgeL2},
	"w1":  {EdgeW1},
	"w2":  {EdgeW2},
	"l":   {EdgeL1},
	"w":   {EdgeW1},
}

// LookupEdgePattern resolves a shorthand edging keyword (case-insensitive)
// to the edges it selects. The second return is false for unknown keywords.
func LookupEdgePattern(token string) ([]EdgeID, bool) {
	edges, ok := edgePatterns[strings.ToLower(strings.TrimSpace(token))]
	return edges, ok
}

// grooveSides normalizes the side suffix of a groove token ("gL", "gW2", ...)
// to a canonical edge. A bare axis letter means the first edge on that axis.
var grooveSides = map[string]EdgeID{
	"l":  EdgeL1,
	"l1": EdgeL1,
	"l2": EdgeL2,
	"w":  EdgeW1,
	"w1": EdgeW1,
	"w2": EdgeW2,
}

// LookupGrooveSide resolves the suffix of a groove token to the edge the
// groove runs parallel to.
func LookupGrooveSide(suffix string) (EdgeID, bool) {
	side, ok := grooveSides[strings.ToLower(strings.TrimSpace(suffix))]
	return side, ok
}
