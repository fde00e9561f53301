package captions

import "strings"

const (
	// wrapTrigger is the cue length above which wrapping kicks in at all.
	wrapTrigger = 40
	// wrapThreshold is the per-line length budget once wrapping is active.
	wrapThreshold = 35
)

// wrapText splits long caption text into display lines with a greedy single
// pass: a line closes at the word boundary before the word that pushed it
// over wrapThreshold. Short cues pass through as a single line.
func wrapText(text string) []string {
	if len([]rune(text)) <= wrapTrigger {
		return []string{text}
	}
	var lines []string
	var current []string
	for _, word := range strings.Fields(text) {
		current = append(current, word)
		if len([]rune(strings.Join(current, " "))) > wrapThreshold {
			lines = append(lines, strings.Join(current[:len(current)-1], " "))
			current = []string{word}
		}
	}
	if len(current) > 0 {
		lines = append(lines, strings.Join(current, " "))
	}
	return lines
}
