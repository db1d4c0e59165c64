package chunker

import (
	"strings"
	"testing"
)

func TestSplit_EmptyInput(t *testing.T) {
	if got := Split("", 100); len(got) != 0 {
		t.Fatalf("expected 0 chunks for empty input, got %d", len(got))
	}
	if got := Split("\n", 100); len(got) != 0 {
		t.Fatalf("expected 0 chunks for lone newline, got %d", len(got))
	}
}

func TestSplit_SingleChunk(t *testing.T) {
	chunks := Split("line1\nline2\n", 500)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "line1\nline2" {
		t.Fatalf("unexpected chunk content: %q", chunks[0])
	}
}

func TestSplit_FlushesAtBound(t *testing.T) {
	text := "aaaa\nbbbb\ncccc"
	chunks := Split(text, 9)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %q", len(chunks), chunks)
	}
	if chunks[0] != "aaaa\nbbbb" || chunks[1] != "cccc" {
		t.Fatalf("unexpected chunks: %q", chunks)
	}
}

func TestSplit_OversizedLineKeptWhole(t *testing.T) {
	long := strings.Repeat("x", 50)
	chunks := Split("short\n"+long+"\nend", 10)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %q", len(chunks), chunks)
	}
	if chunks[1] != long {
		t.Fatalf("oversized line was split: %q", chunks[1])
	}
}

func TestSplit_NoEmptyChunks(t *testing.T) {
	texts := []string{
		"a\n\nb\n\n\nc",
		"\n\nleading blanks",
		strings.Repeat("line\n", 40),
		"line\n\n",
		"aaaa\n\n\n",
		"aaaa\nbbbb\n\n\n",
	}
	for _, text := range texts {
		for _, chunk := range Split(text, 4) {
			if chunk == "" {
				t.Fatalf("empty chunk produced for %q", text)
			}
		}
	}
}

func TestSplit_TrailingBlankLines(t *testing.T) {
	// A flush right before trailing blank lines must not leave an empty
	// final chunk behind.
	chunks := Split("line\n\n", 4)
	if len(chunks) != 1 || chunks[0] != "line" {
		t.Fatalf("unexpected chunks: %q", chunks)
	}

	chunks = Split("aaaa\n\n\n", 4)
	if len(chunks) != 1 || chunks[0] != "aaaa" {
		t.Fatalf("unexpected chunks: %q", chunks)
	}

	chunks = Split("aaaa\nbbbb\n\n\n", 4)
	if len(chunks) != 2 || chunks[0] != "aaaa" || chunks[1] != "bbbb" {
		t.Fatalf("unexpected chunks: %q", chunks)
	}
}

func TestSplit_Lossless(t *testing.T) {
	texts := []string{
		"line1\nline2\nline3",
		"a\n\nb\n\n\nc",
		"\n\nstarts with blank lines\nmore",
		"line\n\n",
		"aaaa\n\n\n",
		strings.Repeat("some source code line\n", 25),
		strings.Repeat("y", 100),
	}
	bounds := []int{1, 5, 10, 50, 1000}
	for _, text := range texts {
		for _, bound := range bounds {
			chunks := Split(text, bound)
			got := strings.Join(chunks, "\n")
			want := strings.TrimRight(text, "\n")
			if got != want {
				t.Fatalf("bound %d: join mismatch\n got: %q\nwant: %q", bound, got, want)
			}
		}
	}
}

func TestSplit_BlankLinesPreservedWithinChunks(t *testing.T) {
	chunks := Split("a\n\nb", 100)
	if len(chunks) != 1 || chunks[0] != "a\n\nb" {
		t.Fatalf("blank line not preserved: %q", chunks)
	}
}
