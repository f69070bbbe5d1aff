package shorthand

import (
	"regexp"
	"strconv"
	"strings"

	"cutplan/constants"
)

var (
	// reXJoined splits "720x560x2" style runs into space-separated tokens.
	reXJoined = regexp.MustCompile(`(?i)(\d)\s*x\s*(\d)`)

	// reTrailingLabel captures a trailing quoted label.
	reTrailingLabel = regexp.MustCompile(`"([^"]*)"\s*$`)

	reHoleDigits = regexp.MustCompile(`^h(\d+)$`)
)

// normalizeDimensionRuns rewrites x-joined numeric runs so that the
// tokenizer sees plain numbers. Applied repeatedly because matches share
// boundary digits ("720x560x2").
func normalizeDimensionRuns(line string) string {
	for {
		next := reXJoined.ReplaceAllString(line, "$1 $2")
		if next == line {
			return next
		}
		line = next
	}
}

// stripLabel removes a trailing quoted label and returns the remainder plus
// the label text. The label may be empty quotes, which counts as no label.
func stripLabel(line string) (string, string) {
	m := reTrailingLabel.FindStringSubmatch(line)
	if m == nil {
		return line, ""
	}
	rest := strings.TrimSpace(line[:len(line)-len(m[0])])
	return rest, strings.TrimSpace(m[1])
}

// parseGrooveToken recognizes "g" + side suffix tokens ("gL", "gW2").
func parseGrooveToken(token string) (constants.EdgeID, bool) {
	lower := strings.ToLower(token)
	if !strings.HasPrefix(lower, "g") || len(lower) < 2 {
		return "", false
	}
	return constants.LookupGrooveSide(lower[1:])
}

// parseHoleToken recognizes "h", "h<digits>" and "h:<pattern>" tokens and
// resolves them to a hole pattern id.
func parseHoleToken(token string) (string, bool) {
	lower := strings.ToLower(token)
	if lower == "h" {
		return constants.DefaultHolePattern, true
	}
	if m := reHoleDigits.FindStringSubmatch(lower); m != nil {
		return constants.HolePatternPrefix + m[1], true
	}
	if strings.HasPrefix(lower, "h:") && len(token) > 2 {
		return strings.TrimSpace(token[2:]), true
	}
	return "", false
}

// parseCNCToken recognizes "c" and "c:<program>" tokens.
func parseCNCToken(token string) (string, bool) {
	lower := strings.ToLower(token)
	if lower == "c" {
		return "", true
	}
	if strings.HasPrefix(lower, "c:") && len(token) > 2 {
		return strings.TrimSpace(token[2:]), true
	}
	return "", false
}

// parsePositiveNumber parses a strictly positive float token.
func parsePositiveNumber(token string) (float64, bool) {
	f, err := strconv.ParseFloat(token, 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	return f, true
}

// isNumeric reports whether the token parses as any number.
func isNumeric(token string) bool {
	_, err := strconv.ParseFloat(token, 64)
	return err == nil
}
