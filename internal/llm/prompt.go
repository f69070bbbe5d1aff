package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// BuildSystemPrompt composes the system message with catalog defaults,
// client conventions, and strict-but-practical formatting rules.
func BuildSystemPrompt(req ExtractRequest) string {
	material := strings.TrimSpace(req.DefaultMaterial)
	if material == "" {
		material = "mdf-18"
	}

	parts := []string{
		"You are a cutlist parser for panel furniture. Return ONLY JSON that matches the provided JSON Schema.",
		"All dimensions are millimeters. 'l' is the grain/length axis, 'w' the width axis.",
		"NEVER swap length and width to make L the larger value; keep the document's order exactly.",
		fmt.Sprintf("If the material is not stated, use '%s'.", material),
	}
	if req.DefaultThickMM > 0 {
		parts = append(parts, fmt.Sprintf("If the thickness is not stated, use %.0fmm.", req.DefaultThickMM))
	}

	parts = append(parts,
		"Edge banding: only report edges the document explicitly marks; do not infer banding from part names.",
		"Grooves and holes: only report operations the document explicitly shows.",
		"Quantity defaults to 1 only when no count is visible anywhere on the line.",
		"Never output null. If a field is not present, omit it.",
	)

	if n := strings.TrimSpace(req.Client.ClientName); n != "" {
		parts = append(parts, "Client: "+n+".")
	}
	if notes := strings.TrimSpace(req.Client.NamingNotes); notes != "" {
		parts = append(parts, "Client naming conventions: "+notes)
	}
	if g := strings.TrimSpace(req.Client.DefaultGrain); g != "" {
		parts = append(parts, "Default grain direction for this client: "+g+".")
	}

	return strings.Join(parts, " ")
}

// BuildUserPrompt packages the document text, filename hints, and the
// few-shot examples of previously corrected documents.
func BuildUserPrompt(req ExtractRequest) string {
	var b strings.Builder

	if filename := strings.TrimSpace(req.FilenameHint); filename != "" {
		b.WriteString("Filename: ")
		b.WriteString(filename)
		b.WriteString("\n")
	}
	if folder := strings.TrimSpace(req.FolderHint); folder != "" {
		b.WriteString("Folder path: ")
		b.WriteString(folder)
		b.WriteString("\n")
	}

	for i, ex := range req.FewShotExamples {
		b.WriteString(fmt.Sprintf("\nExample %d input:\n%s\n", i+1, strings.TrimSpace(ex.SourceText)))
		if enc, err := json.Marshal(map[string]any{"parts": ex.Parts}); err == nil {
			b.WriteString(fmt.Sprintf("Example %d output:\n%s\n", i+1, enc))
		}
	}

	text := strings.TrimSpace(req.RawText)
	b.WriteString("\nDocument text (first ~6k chars):\n")
	if len(text) > 6000 {
		b.WriteString(text[:6000])
		b.WriteString("\n…(truncated)")
	} else {
		b.WriteString(text)
	}

	return b.String()
}
