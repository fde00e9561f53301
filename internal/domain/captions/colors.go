package captions

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// ToASSColor converts a web hex color to the ASS &HAABBGGRR& encoding.
// Accepted forms: "#RRGGBB", "#AARRGGBB" (alpha leads), "transparent" and "".
// The function is total: malformed input degrades to opaque white so a bad
// theme payload can never block a render.
func ToASSColor(color string) string {
	if color == "" || color == "transparent" {
		return "&H00000000&"
	}
	raw, err := hex.DecodeString(strings.TrimPrefix(color, "#"))
	if err != nil {
		return "&H00FFFFFF&"
	}
	switch len(raw) {
	case 4:
		return fmt.Sprintf("&H%02X%02X%02X%02X&", raw[0], raw[3], raw[2], raw[1])
	case 3:
		return fmt.Sprintf("&H00%02X%02X%02X&", raw[2], raw[1], raw[0])
	}
	return "&H00FFFFFF&"
}

// ThemeFilter maps a theme name to its color-grade filter expression, or ""
// for themes that render ungraded. Unknown themes get no grade.
func ThemeFilter(theme string) string {
	switch theme {
	case "contrast":
		return "eq=contrast=1.4:saturation=1.4"
	case "cinematic":
		return "eq=brightness=-0.05:contrast=1.2:saturation=0.9"
	case "bw":
		return "hue=s=0"
	case "painting":
		return "boxblur=2:1,eq=saturation=1.8"
	}
	return ""
}
