package utils

import "strings"

// SplitByLength cuts text into consecutive pieces of at most limit characters.
// It does not look for word boundaries; joining the pieces gives back text.
func SplitByLength(text string, limit int) []string {
	if text == "" {
		return nil
	}
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return []string{text}
	}

	chunks := make([]string, 0, (len(runes)+limit-1)/limit)
	for i := 0; i < len(runes); i += limit {
		end := i + limit
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}

// SplitParagraphs splits text on newlines and greedily merges consecutive
// paragraphs into chunks of at most chunkSize characters, without overlap.
// A single paragraph longer than chunkSize becomes a chunk of its own.
func SplitParagraphs(text string, chunkSize int) []string {
	var (
		chunks  []string
		current []string
		size    int
	)

	flush := func() {
		if len(current) == 0 {
			return
		}
		if chunk := strings.TrimSpace(strings.Join(current, "\n")); chunk != "" {
			chunks = append(chunks, chunk)
		}
		current = current[:0]
		size = 0
	}

	for _, piece := range strings.Split(text, "\n") {
		if strings.TrimSpace(piece) == "" {
			continue
		}
		n := len([]rune(piece))

		extra := n
		if len(current) > 0 {
			extra++ // separator
		}
		if size+extra > chunkSize && len(current) > 0 {
			flush()
			extra = n
		}
		current = append(current, piece)
		size += extra
	}
	flush()

	return chunks
}
