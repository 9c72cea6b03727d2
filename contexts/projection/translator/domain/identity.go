// Package domain holds the translator's pure inference rules, grounded in
// the original Python shim's content/title heuristics. EMO id derivation
// needs UUIDv5, a third-party-backed concern, so it lives behind
// ports.EMOIDDeriver instead of here.
package domain

import "strings"

// InferEMOType applies the original shim's content/title heuristics when the
// memory payload doesn't carry an explicit type.
func InferEMOType(content, title string) string {
	lowerTitle := strings.ToLower(title)
	if len(content) > 1000 || strings.Contains(content, "# ") || strings.Contains(content, "## ") {
		return "doc"
	}
	for _, word := range []string{"fact", "definition", "rule"} {
		if strings.Contains(lowerTitle, word) {
			return "fact"
		}
	}
	for _, word := range []string{"profile", "person", "contact"} {
		if strings.Contains(lowerTitle, word) {
			return "profile"
		}
	}
	return "note"
}

// InferSourceKind classifies the actor behind a memory event the way the
// original shim does from the `by.agent` free-text field.
func InferSourceKind(agent string) string {
	lower := strings.ToLower(agent)
	switch {
	case lower == "" || lower == "unknown":
		return "agent"
	case strings.Contains(lower, "user"):
		return "user"
	case strings.Contains(lower, "ingest"), strings.Contains(lower, "import"):
		return "ingest"
	default:
		return "agent"
	}
}
