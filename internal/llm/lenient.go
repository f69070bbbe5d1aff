package llm

import (
	"encoding/json"
	"fmt"
)

var validGrains = map[string]bool{"none": true, "along_L": true, "along_W": true}

// SanitizeParsedParts removes or normalizes optional fields that don't meet
// our stricter schema, so the overall document can still validate. We only
// touch OPTIONALS — a part with no usable size is the provider's problem,
// not ours to invent.
func SanitizeParsedParts(doc []byte) ([]byte, []string, error) {
	var m map[string]any
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, nil, err
	}

	var dropped []string

	// document-level confidence: clamp into [0,1], drop non-numbers
	if v, ok := m["confidence"]; ok {
		if f, ok := v.(float64); ok {
			m["confidence"] = clamp01(f)
		} else {
			delete(m, "confidence")
			dropped = append(dropped, "confidence")
		}
	}

	rawParts, ok := m["parts"].([]any)
	if !ok {
		// nothing else to sanitize; validation will reject the document
		b, err := json.Marshal(m)
		return b, dropped, err
	}

	for i, rp := range rawParts {
		part, ok := rp.(map[string]any)
		if !ok {
			continue
		}
		prefix := fmt.Sprintf("parts[%d].", i)

		if v, ok := part["label"]; ok {
			if _, isStr := v.(string); !isStr {
				delete(part, "label")
				dropped = append(dropped, prefix+"label")
			}
		}

		if v, ok := part["grain"].(string); ok {
			if !validGrains[v] {
				delete(part, "grain")
				dropped = append(dropped, prefix+"grain")
			}
		} else if _, present := part["grain"]; present {
			delete(part, "grain")
			dropped = append(dropped, prefix+"grain")
		}

		if v, ok := part["confidence"]; ok {
			if f, isNum := v.(float64); isNum {
				part["confidence"] = clamp01(f)
			} else {
				delete(part, "confidence")
				dropped = append(dropped, prefix+"confidence")
			}
		}

		if ops, ok := part["ops"].(map[string]any); ok {
			dropped = append(dropped, sanitizeOps(ops, prefix)...)
			if len(ops) == 0 {
				delete(part, "ops")
			}
		} else if _, present := part["ops"]; present {
			delete(part, "ops")
			dropped = append(dropped, prefix+"ops")
		}
	}

	b, err := json.Marshal(m)
	if err != nil {
		return nil, nil, err
	}
	return b, dropped, nil
}

// sanitizeOps drops groove entries without a side, hole entries without a
// pattern id, and CNC entries without an op type; the provider hallucinates
// machining ops more than anything else.
func sanitizeOps(ops map[string]any, prefix string) []string {
	var dropped []string

	if grooves, ok := ops["grooves"].([]any); ok {
		kept := grooves[:0]
		for _, g := range grooves {
			gm, ok := g.(map[string]any)
			if !ok {
				continue
			}
			if s, ok := gm["side"].(string); !ok || s == "" {
				dropped = append(dropped, prefix+"ops.grooves[]")
				continue
			}
			dropNonPositive(gm, "offset_mm", "depth_mm", "width_mm")
			kept = append(kept, gm)
		}
		if len(kept) == 0 {
			delete(ops, "grooves")
		} else {
			ops["grooves"] = kept
		}
	}

	if holes, ok := ops["holes"].([]any); ok {
		kept := holes[:0]
		for _, h := range holes {
			hm, ok := h.(map[string]any)
			if !ok {
				continue
			}
			if p, ok := hm["pattern_id"].(string); !ok || p == "" {
				dropped = append(dropped, prefix+"ops.holes[]")
				continue
			}
			kept = append(kept, hm)
		}
		if len(kept) == 0 {
			delete(ops, "holes")
		} else {
			ops["holes"] = kept
		}
	}

	if cncOps, ok := ops["custom_cnc_ops"].([]any); ok {
		kept := cncOps[:0]
		for _, c := range cncOps {
			cm, ok := c.(map[string]any)
			if !ok {
				continue
			}
			if op, ok := cm["op_type"].(string); !ok || op == "" {
				dropped = append(dropped, prefix+"ops.custom_cnc_ops[]")
				continue
			}
			kept = append(kept, cm)
		}
		if len(kept) == 0 {
			delete(ops, "custom_cnc_ops")
		} else {
			ops["custom_cnc_ops"] = kept
		}
	}

	return dropped
}

func dropNonPositive(m map[string]any, keys ...string) {
	for _, k := range keys {
		if f, ok := m[k].(float64); ok && f <= 0 {
			delete(m, k)
		}
	}
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
