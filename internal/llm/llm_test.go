package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cutplan/constants"
	"cutplan/internal/entity"
)

const goodDoc = `{
	"parts": [
		{
			"label": "Side panel",
			"qty": 2,
			"size": {"l": 720, "w": 560},
			"thickness_mm": 18,
			"material_id": "mfc-white-18",
			"grain": "along_L",
			"ops": {
				"edging": {"L1": {"apply": true, "edgeband_id": "abs-2mm"}},
				"grooves": [{"side": "W1", "offset_mm": 10, "depth_mm": 8, "width_mm": 8}]
			},
			"confidence": 0.87
		},
		{"qty": 1, "size": {"l": 900, "w": 600}}
	],
	"confidence": 0.9
}`

func TestValidateAcceptsGoodDocument(t *testing.T) {
	err := ValidateJSONAgainstSchema(BuildCutlistJSONSchema(), []byte(goodDoc))
	assert.NoError(t, err)
}

func TestValidateRejectsBadDocuments(t *testing.T) {
	schema := BuildCutlistJSONSchema()
	bad := []string{
		`{}`,                                              // no parts
		`{"parts":[{"qty":0,"size":{"l":720,"w":560}}]}`,  // qty below 1
		`{"parts":[{"qty":1,"size":{"l":-720,"w":560}}]}`, // negative dimension
		`{"parts":[{"qty":1,"size":{"l":720}}]}`,          // missing width
		`{"parts":[{"qty":1,"size":{"l":720,"w":560},"grain":"diagonal"}]}`,
	}
	for _, doc := range bad {
		assert.Error(t, ValidateJSONAgainstSchema(schema, []byte(doc)), "doc %s", doc)
	}
}

func TestSanitizeDropsMalformedOptionals(t *testing.T) {
	doc := `{
		"parts": [{
			"qty": 2,
			"size": {"l": 720, "w": 560},
			"label": 42,
			"grain": "diagonal",
			"confidence": 1.7,
			"ops": {
				"grooves": [{"side": "", "depth_mm": 8}, {"side": "W1", "offset_mm": -3}],
				"holes": [{"pattern_id": ""}]
			}
		}],
		"confidence": "high"
	}`

	cleaned, dropped, err := SanitizeParsedParts([]byte(doc))
	require.NoError(t, err)

	assert.Contains(t, dropped, "confidence")
	assert.Contains(t, dropped, "parts[0].label")
	assert.Contains(t, dropped, "parts[0].grain")
	assert.Contains(t, dropped, "parts[0].ops.grooves[]")
	assert.Contains(t, dropped, "parts[0].ops.holes[]")

	// the cleaned document now passes schema validation
	require.NoError(t, ValidateJSONAgainstSchema(BuildCutlistJSONSchema(), cleaned))

	parts, err := DecodeParts(cleaned, ExtractRequest{DefaultMaterial: "mdf-18", DefaultThickMM: 18})
	require.NoError(t, err)
	require.Len(t, parts, 1)
	require.NotNil(t, parts[0].Ops)
	require.Len(t, parts[0].Ops.Grooves, 1, "the groove with a side survives")
	assert.Equal(t, constants.EdgeW1, parts[0].Ops.Grooves[0].Side)
	assert.LessOrEqual(t, parts[0].Audit.Confidence, 1.0)
}

func TestCNCOpsValidateSanitizeAndDecode(t *testing.T) {
	doc := `{
		"parts": [{
			"qty": 1,
			"size": {"l": 720, "w": 560},
			"ops": {
				"custom_cnc_ops": [
					{"op_type": "program", "payload": "hinge-35"},
					{"payload": "orphaned"}
				]
			}
		}]
	}`

	cleaned, dropped, err := SanitizeParsedParts([]byte(doc))
	require.NoError(t, err)
	assert.Contains(t, dropped, "parts[0].ops.custom_cnc_ops[]")
	require.NoError(t, ValidateJSONAgainstSchema(BuildCutlistJSONSchema(), cleaned))

	parts, err := DecodeParts(cleaned, ExtractRequest{DefaultMaterial: "mdf-18", DefaultThickMM: 18})
	require.NoError(t, err)
	require.Len(t, parts, 1)
	require.NotNil(t, parts[0].Ops)
	require.Len(t, parts[0].Ops.CustomCNCOps, 1, "the op with an op_type survives")
	assert.Equal(t, "program", parts[0].Ops.CustomCNCOps[0].OpType)
	assert.Equal(t, "hinge-35", parts[0].Ops.CustomCNCOps[0].Payload)
}

func TestDecodePartsAppliesDefaults(t *testing.T) {
	parts, err := DecodeParts([]byte(goodDoc), ExtractRequest{
		DefaultMaterial: "mdf-18",
		DefaultThickMM:  16,
	})
	require.NoError(t, err)
	require.Len(t, parts, 2)

	first := parts[0]
	assert.Equal(t, "Side panel", first.Label)
	assert.Equal(t, constants.GrainAlongL, first.Grain)
	assert.False(t, first.AllowRotation, "grain constrains rotation")
	assert.Equal(t, 0.87, first.Audit.Confidence)
	assert.Equal(t, constants.SourceAI, first.Audit.SourceMethod)

	second := parts[1]
	assert.Equal(t, "mdf-18", second.MaterialID, "default material applied")
	assert.Equal(t, 16.0, second.ThicknessMM, "default thickness applied")
	assert.Equal(t, constants.GrainNone, second.Grain)
	assert.True(t, second.AllowRotation)
	assert.Equal(t, 0.9, second.Audit.Confidence, "document confidence fallback")
	assert.NotEqual(t, first.PartID, second.PartID)
}

func TestBuildSystemPromptMentionsDefaults(t *testing.T) {
	prompt := BuildSystemPrompt(ExtractRequest{
		DefaultMaterial: "mfc-white-18",
		DefaultThickMM:  18,
		Client:          ClientContext{ClientName: "Oak & Co", NamingNotes: "labels are German"},
	})
	assert.Contains(t, prompt, "mfc-white-18")
	assert.Contains(t, prompt, "18mm")
	assert.Contains(t, prompt, "Oak & Co")
	assert.Contains(t, prompt, "NEVER swap length and width")
}

func TestBuildUserPromptInjectsFewShotExamples(t *testing.T) {
	req := ExtractRequest{
		RawText:      "720x560 2 Seiten",
		FilenameHint: "kitchen.pdf",
		FewShotExamples: []FewShotExample{
			{
				SourceText: "600x400 Boden",
				Parts: []entity.CutPart{{
					Qty:  1,
					Size: entity.Size{L: 600, W: 400},
				}},
			},
		},
	}

	prompt := BuildUserPrompt(req)
	assert.Contains(t, prompt, "kitchen.pdf")
	assert.Contains(t, prompt, "Example 1 input:")
	assert.Contains(t, prompt, "600x400 Boden")
	assert.Contains(t, prompt, "Example 1 output:")
	assert.Contains(t, prompt, "720x560 2 Seiten")
	assert.Equal(t, 1, strings.Count(prompt, "Document text"))
}
