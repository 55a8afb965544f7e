package segment

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitShortTextReturnsSingleTrimmedChunk(t *testing.T) {
	t.Parallel()

	got := Split("  hello world \n", 100)
	if len(got) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(got))
	}
	if got[0] != "hello world" {
		t.Fatalf("unexpected chunk: %q", got[0])
	}
}

func TestSplitBlankInputReturnsNothing(t *testing.T) {
	t.Parallel()

	if got := Split("   \n\t ", 100); len(got) != 0 {
		t.Fatalf("expected no chunks, got %v", got)
	}
}

func TestSplitPrefersLineBoundaries(t *testing.T) {
	t.Parallel()

	lines := []string{
		strings.Repeat("a", 40),
		strings.Repeat("b", 40),
		strings.Repeat("c", 40),
	}
	got := Split(strings.Join(lines, "\n"), 85)
	if len(got) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %v", len(got), got)
	}
	if got[0] != lines[0]+"\n"+lines[1] {
		t.Fatalf("unexpected first chunk: %q", got[0])
	}
	if got[1] != lines[2] {
		t.Fatalf("unexpected second chunk: %q", got[1])
	}
}

func TestSplitHardSlicesSingleOversizedLine(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("x", 3000)
	got := Split(text, 1400)
	if len(got) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(got))
	}
	for i, chunk := range got {
		if n := utf8.RuneCountInString(chunk); n > 1400 {
			t.Fatalf("chunk %d has %d runes, want <= 1400", i, n)
		}
	}
	if rejoined := strings.Join(got, ""); rejoined != text {
		t.Fatalf("hard-sliced chunks do not reassemble the input")
	}
}

func TestSplitCountsRunesNotBytes(t *testing.T) {
	t.Parallel()

	// Thai runes are 3 bytes each; a byte-based splitter would cut early.
	text := strings.Repeat("ส", 30)
	got := Split(text, 10)
	if len(got) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %v", len(got), got)
	}
	for _, chunk := range got {
		if utf8.RuneCountInString(chunk) != 10 {
			t.Fatalf("unexpected chunk length: %q", chunk)
		}
	}
}

func TestSplitNoChunkExceedsBudget(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	for i := 0; i < 50; i++ {
		b.WriteString(strings.Repeat("word ", i%13+1))
		b.WriteString("\n")
	}
	for _, max := range []int{10, 40, 120, 1400} {
		for i, chunk := range Split(b.String(), max) {
			if n := utf8.RuneCountInString(chunk); n > max {
				t.Fatalf("max %d: chunk %d has %d runes", max, i, n)
			}
			if strings.TrimSpace(chunk) == "" {
				t.Fatalf("max %d: chunk %d is blank", max, i)
			}
		}
	}
}

func TestSplitRejoinPreservesNonBlankContent(t *testing.T) {
	t.Parallel()

	text := "first line\n\nsecond line\nthird line"
	got := Split(text, 15)
	rejoined := strings.Join(got, "\n")
	for _, want := range []string{"first line", "second line", "third line"} {
		if !strings.Contains(rejoined, want) {
			t.Fatalf("rejoined output missing %q: %q", want, rejoined)
		}
	}
}

func TestSplitDropsBlankOnlyBoundaryLines(t *testing.T) {
	t.Parallel()

	// A buffer holding only whitespace is never flushed.
	text := strings.Repeat("a", 8) + "\n   \n" + strings.Repeat("b", 8)
	got := Split(text, 9)
	if len(got) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %v", len(got), got)
	}
	if got[0] != strings.Repeat("a", 8) || got[1] != strings.Repeat("b", 8) {
		t.Fatalf("unexpected chunks: %v", got)
	}
}
