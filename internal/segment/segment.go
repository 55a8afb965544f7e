// Package segment splits long message text into bounded chunks that can be
// translated independently and reassembled in order.
package segment

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaxRunes is the default chunk budget. Larger chunks mean fewer
// round trips but raise the all-or-nothing failure cost on long input.
const DefaultMaxRunes = 1400

// Split returns ordered non-empty chunks of at most maxRunes runes each.
// Line boundaries are preferred; a single line longer than the budget is
// hard-sliced into fixed-size rune windows. Purely blank lines at chunk
// boundaries are dropped.
func Split(text string, maxRunes int) []string {
	if maxRunes <= 0 {
		maxRunes = DefaultMaxRunes
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	if utf8.RuneCountInString(trimmed) <= maxRunes {
		return []string{trimmed}
	}

	var chunks []string
	var buf []string
	bufRunes := 0

	flush := func() {
		if len(buf) == 0 {
			return
		}
		chunk := strings.TrimRight(strings.Join(buf, "\n"), " \t\r\n")
		if strings.TrimSpace(chunk) != "" {
			chunks = append(chunks, chunk)
		}
		buf = nil
		bufRunes = 0
	}

	for _, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimRight(line, " \t\r")
		lineRunes := utf8.RuneCountInString(line)

		if lineRunes > maxRunes {
			flush()
			chunks = append(chunks, sliceRunes(line, maxRunes)...)
			continue
		}

		joined := lineRunes
		if len(buf) > 0 {
			joined++ // newline between lines counts against the budget
		}
		if bufRunes+joined > maxRunes {
			flush()
			joined = lineRunes
		}

		buf = append(buf, line)
		bufRunes += joined
	}
	flush()

	return chunks
}

// sliceRunes hard-slices one oversized line into windows of at most
// maxRunes runes, with no word-boundary awareness.
func sliceRunes(line string, maxRunes int) []string {
	runes := []rune(line)
	out := make([]string, 0, (len(runes)+maxRunes-1)/maxRunes)
	for start := 0; start < len(runes); start += maxRunes {
		end := start + maxRunes
		if end > len(runes) {
			end = len(runes)
		}
		window := strings.TrimSpace(string(runes[start:end]))
		if window != "" {
			out = append(out, window)
		}
	}
	return out
}
