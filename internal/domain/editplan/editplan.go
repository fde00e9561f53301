package editplan

import (
	"strings"

	"capburn/internal/types"
)

// Apply interprets a free-form chat command as theme-setting edits. The
// command language is keyword matching only; unknown phrasing is a no-op.
func Apply(command string, s types.ThemeSettings) types.ThemeSettings {
	cmd := strings.ToLower(command)

	if strings.Contains(cmd, "bold") {
		on := true
		s.Captions.Bold = &on
	}
	if strings.Contains(cmd, "italic") {
		s.Captions.Italic = true
	}
	if strings.Contains(cmd, "yellow") {
		s.Captions.FontColor = "#FFFF00"
	}
	if strings.Contains(cmd, "remove animation") {
		s.Theme = "minimal"
	}
	return s
}
