package translation

import (
	"encoding/json"
	"strings"
)

// extractOutputText pulls translated text out of a completion API response
// whose shape drifts across provider versions. Candidate locations are
// tried in fixed priority order and every value found is collected:
//
//  1. top-level "output_text" string
//  2. top-level "text" string
//  3. output[].content[] items whose "text" is a string
//  4. output[].content[] items whose "text" is an object with a string "value"
//
// The collected values are newline-joined. An empty result means the
// response carried no recognizable output.
func extractOutputText(body []byte) string {
	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return ""
	}

	var parts []string
	collect := func(v any) {
		if s, ok := v.(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
	}

	collect(decoded["output_text"])
	collect(decoded["text"])

	if outputs, ok := decoded["output"].([]any); ok {
		for _, output := range outputs {
			item, ok := output.(map[string]any)
			if !ok {
				continue
			}
			contents, ok := item["content"].([]any)
			if !ok {
				continue
			}
			for _, content := range contents {
				entry, ok := content.(map[string]any)
				if !ok {
					continue
				}
				switch text := entry["text"].(type) {
				case string:
					collect(text)
				case map[string]any:
					collect(text["value"])
				}
			}
		}
	}

	return strings.Join(parts, "\n")
}

// parseErrorMessage digs a human-readable message out of an error response
// body, falling back to the raw body.
func parseErrorMessage(body []byte) string {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if msg := strings.TrimSpace(payload.Error.Message); msg != "" {
			return msg
		}
		if msg := strings.TrimSpace(payload.Message); msg != "" {
			return msg
		}
	}
	return strings.TrimSpace(string(body))
}
