package captions

import (
	"fmt"
	"strconv"
	"strings"

	"capburn/internal/types"
)

// srtAnimations maps theme names to the markup prefix embedded before each
// plain-dialect cue. Values intentionally differ from assAnimations.
var srtAnimations = map[string]string{
	"pop":       `{\fad(120,120)\fscx110\fscy110}`,
	"fade":      `{\fad(200,200)}`,
	"default":   `{\fad(150,150)}`,
	"bold":      `{\fad(100,100)\b1}`,
	"cinematic": `{\fad(300,300)}`,
	"minimal":   `{}`,
}

// BuildSRT compiles transcript segments into the plain time-coded dialect:
// one block per non-empty segment with contiguous 1-based indices. No
// word-wrap is applied in this dialect.
func BuildSRT(segments []types.Segment, theme string) string {
	anim, ok := srtAnimations[theme]
	if !ok {
		anim = srtAnimations["default"]
	}

	var lines []string
	idx := 1
	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		lines = append(lines,
			strconv.Itoa(idx),
			fmt.Sprintf("%s --> %s", srtTime(seg.Start), srtTime(seg.End)),
			anim+text,
			"",
		)
		idx++
	}
	return strings.Join(lines, "\n")
}
