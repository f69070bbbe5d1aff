package constants

// Hole pattern references known to the shorthand grammar. Patterns themselves
// (coordinates, diameters) live in the host system's CNC catalog; the engine
// only carries the reference.
const (
	// DefaultHolePattern is the 32mm system line boring a bare "h" token
	// resolves to.
	DefaultHolePattern = "system32"

	// HolePatternPrefix builds explicit pattern ids from "h5"-style tokens.
	HolePatternPrefix = "pattern-"
)

// Groove defaults applied when the shorthand names a groove without
// dimensions. Values are millimeters, matching the common 8mm back-panel
// groove at 10mm from the edge.
const (
	DefaultGrooveOffsetMM = 10.0
	DefaultGrooveDepthMM  = 8.0
	DefaultGrooveWidthMM  = 8.0
)
