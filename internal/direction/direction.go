// Package direction classifies message text into a translation direction
// using script-range heuristics. Detection is deterministic and total:
// every input maps to exactly one direction.
package direction

import "unicode"

// Direction is one source→target language pair.
type Direction int

const (
	// JAToTH translates Japanese into Thai. Default when no script matches.
	JAToTH Direction = iota
	// THToJA translates Thai into Japanese.
	THToJA
	// ENToJA translates English into Japanese.
	ENToJA
)

// Detect classifies text in a single pass over its runes.
// Priority when scripts mix: Thai, then Japanese, then Latin.
func Detect(text string) Direction {
	var hasThai, hasJapanese, hasLatin bool
	for _, r := range text {
		switch {
		case isThai(r):
			hasThai = true
		case isJapanese(r):
			hasJapanese = true
		case isLatinLetter(r):
			hasLatin = true
		}
	}

	switch {
	case hasThai:
		return THToJA
	case hasJapanese:
		return JAToTH
	case hasLatin:
		return ENToJA
	default:
		return JAToTH
	}
}

func (d Direction) String() string {
	switch d {
	case THToJA:
		return "TH→JA"
	case ENToJA:
		return "EN→JA"
	default:
		return "JA→TH"
	}
}

// Source returns the source language name in English.
func (d Direction) Source() string {
	switch d {
	case THToJA:
		return "Thai"
	case ENToJA:
		return "English"
	default:
		return "Japanese"
	}
}

// Target returns the target language name in English, suitable for
// prompt construction.
func (d Direction) Target() string {
	switch d {
	case THToJA:
		return "Japanese"
	case ENToJA:
		return "Japanese"
	default:
		return "Thai"
	}
}

// Label returns the bracketed prefix attached to outbound replies.
func (d Direction) Label() string {
	return "[" + d.String() + "]"
}

func isThai(r rune) bool {
	return r >= 0x0E00 && r <= 0x0E7F
}

func isJapanese(r rune) bool {
	switch {
	case r >= 0x3040 && r <= 0x309F: // hiragana
		return true
	case r >= 0x30A0 && r <= 0x30FF: // katakana
		return true
	case r >= 0xFF66 && r <= 0xFF9D: // halfwidth katakana
		return true
	case r >= 0x4E00 && r <= 0x9FFF: // CJK ideographs
		return true
	default:
		return false
	}
}

func isLatinLetter(r rune) bool {
	return unicode.IsLetter(r) && unicode.Is(unicode.Latin, r)
}
