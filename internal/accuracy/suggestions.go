package accuracy

import "cutplan/constants"

// WeakFieldThreshold is the rolling average below which a field is surfaced
// as a weak area.
const WeakFieldThreshold = 0.90

// fieldSuggestions is the static remediation lookup for weak fields. It is
// table data, not learned: the learning loop decides WHAT is weak, people
// decide what to do about it.
var fieldSuggestions = map[constants.Field][]string{
	constants.FieldDimensions: {
		"Check for swapped length/width values; grain direction follows L",
		"Add few-shot examples with unusual dimension formats (decimal comma, x-joined runs)",
		"Verify unit handling for documents that mix centimeters and millimeters",
	},
	constants.FieldQuantity: {
		"Add few-shot examples with explicit quantity markers (x2, 2pcs, qty 2)",
		"Check documents where quantity appears in a separate column",
	},
	constants.FieldMaterial: {
		"Extend the material alias list for this client's naming",
		"Use a client template carrying the default material",
	},
	constants.FieldEdging: {
		"Review edge-code conventions with the client (4e, 2L, L1...)",
		"Add few-shot examples that show banded and unbanded parts side by side",
	},
	constants.FieldGrooving: {
		"Check groove notation (gL, gW2) against the client's drawings",
		"Confirm groove defaults (offset/depth/width) match the shop standard",
	},
	constants.FieldLabel: {
		"Encourage quoted labels in shorthand entry",
		"Check whether labels live in a separate column the extractor misses",
	},
}

// SuggestionsFor returns the remediation hints for a weak field.
func SuggestionsFor(field constants.Field) []string {
	return fieldSuggestions[field]
}
