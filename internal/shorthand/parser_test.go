package shorthand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cutplan/constants"
)

func testConfig() Config {
	return Config{
		MaterialID:  "mdf-18",
		ThicknessMM: 18,
		EdgebandID:  "abs-2mm",
		Capabilities: Capabilities{
			Edging:   true,
			Grooving: true,
			Holes:    true,
			CNC:      true,
		},
	}
}

func TestParseMinimalLine(t *testing.T) {
	part := Parse("720 560", testConfig())
	require.NotNil(t, part)
	assert.Equal(t, 720.0, part.Size.L)
	assert.Equal(t, 560.0, part.Size.W)
	assert.Equal(t, 1, part.Qty)
	assert.Equal(t, "mdf-18", part.MaterialID)
	assert.Equal(t, 18.0, part.ThicknessMM)
	assert.Equal(t, constants.SourceShorthand, part.Audit.SourceMethod)
	assert.True(t, part.AllowRotation)
	assert.NotEmpty(t, part.PartID)
}

func TestParseKeepsLiteralDimensionOrder(t *testing.T) {
	// L < W is the operator's call; the grammar never swaps.
	part := Parse("400 900", testConfig())
	require.NotNil(t, part)
	assert.Equal(t, 400.0, part.Size.L)
	assert.Equal(t, 900.0, part.Size.W)
}

func TestParseXJoinedEqualsSpaceSeparated(t *testing.T) {
	a := Parse("720x560x2", testConfig())
	b := Parse("720 560 2", testConfig())
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.Equal(t, a.Size, b.Size)
	assert.Equal(t, a.Qty, b.Qty)
	assert.Equal(t, 2, a.Qty)
}

func TestParseFullLine(t *testing.T) {
	part := Parse(`600 400 2 4e gW h "Shelf"`, testConfig())
	require.NotNil(t, part)

	assert.Equal(t, 2, part.Qty)
	assert.Equal(t, "Shelf", part.Label)

	require.NotNil(t, part.Ops)
	assert.Len(t, part.Ops.Edging, 4)
	for _, e := range constants.AllEdges {
		assert.True(t, part.Ops.Edging[e].Apply, "edge %s should be banded", e)
		assert.Equal(t, "abs-2mm", part.Ops.Edging[e].EdgebandID)
	}

	require.Len(t, part.Ops.Grooves, 1)
	assert.Equal(t, constants.EdgeW1, part.Ops.Grooves[0].Side)
	assert.Equal(t, constants.DefaultGrooveDepthMM, part.Ops.Grooves[0].DepthMM)

	require.Len(t, part.Ops.Holes, 1)
	assert.Equal(t, constants.DefaultHolePattern, part.Ops.Holes[0].PatternID)
}

func TestParseTokenOrderIndependence(t *testing.T) {
	a := Parse(`600 400 4e 2 gW`, testConfig())
	b := Parse(`600 400 gW 4e 2`, testConfig())
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.Equal(t, a.Qty, b.Qty)
	assert.Equal(t, a.EdgeSet(), b.EdgeSet())
	assert.Len(t, a.Ops.Grooves, 1)
	assert.Len(t, b.Ops.Grooves, 1)
}

func TestParseUnparseableLines(t *testing.T) {
	cfg := testConfig()
	for _, line := range []string{
		"",
		"   ",
		"720",
		"abc def",
		"0 560",
		"-720 560",
		"720 x",
		`"just a label"`,
	} {
		assert.Nil(t, Parse(line, cfg), "line %q should not parse", line)
	}
}

func TestParseEdgePatternKeywords(t *testing.T) {
	cases := map[string][]string{
		"4e":  {"L1", "L2", "W1", "W2"},
		"all": {"L1", "L2", "W1", "W2"},
		"2L":  {"L1", "L2"},
		"2w":  {"W1", "W2"},
		"L1":  {"L1"},
		"w2":  {"W2"},
	}
	for token, want := range cases {
		part := Parse("600 400 "+token, testConfig())
		require.NotNil(t, part, "token %q", token)
		assert.Equal(t, want, part.EdgeSet(), "token %q", token)
	}
}

func TestParseGrooveSides(t *testing.T) {
	cases := map[string]constants.EdgeID{
		"gL":  constants.EdgeL1,
		"gL2": constants.EdgeL2,
		"gW":  constants.EdgeW1,
		"gW2": constants.EdgeW2,
	}
	for token, want := range cases {
		part := Parse("600 400 "+token, testConfig())
		require.NotNil(t, part, "token %q", token)
		require.Len(t, part.Ops.Grooves, 1, "token %q", token)
		assert.Equal(t, want, part.Ops.Grooves[0].Side, "token %q", token)
	}
}

func TestParseHoleTokens(t *testing.T) {
	part := Parse("600 400 h5", testConfig())
	require.NotNil(t, part)
	require.Len(t, part.Ops.Holes, 1)
	assert.Equal(t, "pattern-5", part.Ops.Holes[0].PatternID)

	part = Parse("600 400 h:hinge-35", testConfig())
	require.NotNil(t, part)
	require.Len(t, part.Ops.Holes, 1)
	assert.Equal(t, "hinge-35", part.Ops.Holes[0].PatternID)
}

func TestParseCNCToken(t *testing.T) {
	part := Parse("600 400 c:sink-cutout", testConfig())
	require.NotNil(t, part)
	require.Len(t, part.Ops.CustomCNCOps, 1)
	assert.Equal(t, "program", part.Ops.CustomCNCOps[0].OpType)
	assert.Equal(t, "sink-cutout", part.Ops.CustomCNCOps[0].Payload)
}

func TestParseCapabilityGating(t *testing.T) {
	cfg := testConfig()
	cfg.Capabilities = Capabilities{} // simple tier: everything off

	part := Parse(`600 400 2 4e gW h c:prog "Shelf"`, cfg)
	require.NotNil(t, part)
	assert.Equal(t, 2, part.Qty)
	assert.Equal(t, "Shelf", part.Label)
	assert.Nil(t, part.Ops, "no operations should attach when capabilities are off")
}

func TestParseBareTrailingLabel(t *testing.T) {
	part := Parse("600 400 2 Side", testConfig())
	require.NotNil(t, part)
	assert.Equal(t, "Side", part.Label)

	// quoted label wins over a trailing word
	part = Parse(`600 400 Side "Back panel"`, testConfig())
	require.NotNil(t, part)
	assert.Equal(t, "Back panel", part.Label)
}

func TestParseDecimalDimensions(t *testing.T) {
	part := Parse("720.5 560.25", testConfig())
	require.NotNil(t, part)
	assert.Equal(t, 720.5, part.Size.L)
	assert.Equal(t, 560.25, part.Size.W)
}
