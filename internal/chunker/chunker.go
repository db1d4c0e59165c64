package chunker

import "strings"

// Split breaks text into chunks of at most bound characters, accumulating
// whole lines. The buffer is flushed when appending the next line would
// push it past the bound, so a single line longer than bound becomes its
// own oversized chunk rather than being split. Joining the returned
// chunks with "\n" reproduces the input content.
func Split(text string, bound int) []string {
	// Trailing newlines terminate lines rather than starting new ones, so
	// they can never form a chunk; dropping them up front keeps the final
	// flush from emitting an empty chunk for input ending in blank lines.
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")

	var chunks []string
	var cur []string
	curLen := 0

	for _, line := range lines {
		if curLen > 0 && curLen+1+len(line) > bound {
			chunks = append(chunks, strings.Join(cur, "\n"))
			cur = nil
			curLen = 0
		}
		if len(cur) > 0 {
			curLen++ // the separator between lines
		}
		cur = append(cur, line)
		curLen += len(line)
	}
	if len(cur) > 0 {
		chunks = append(chunks, strings.Join(cur, "\n"))
	}
	return chunks
}
