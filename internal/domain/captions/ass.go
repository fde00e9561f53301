package captions

import (
	"fmt"
	"strings"

	"capburn/internal/types"
)

// Default canvas the style header declares; the burn filter scales subtitle
// coordinates against it regardless of the actual input resolution.
const (
	playResX = 1280
	playResY = 720
)

// assAnimations maps theme names to the control-code prefix of every styled
// cue. This table differs from srtAnimations; the two dialects are not meant
// to be unified (see DESIGN.md).
var assAnimations = map[string]string{
	"default":   `{\fscx100\fscy100\fad(150,150)}`,
	"pop":       `{\fscx120\fscy120\t(0,200,\fscx100\fscy100)\fad(120,120)}`,
	"fade":      `{\fad(300,300)}`,
	"bold":      `{\fad(100,100)\b1}`,
	"cinematic": `{\fad(300,300)}`,
}

// resolvedOptions is CaptionOptions with every absent field replaced by its
// documented default.
type resolvedOptions struct {
	FontSize        int
	Bold            bool
	Italic          bool
	FontColor       string
	BackgroundColor string
	Position        string
}

func resolveOptions(o types.CaptionOptions) resolvedOptions {
	r := resolvedOptions{
		FontSize:        32,
		Bold:            true,
		FontColor:       "#FFFFFF",
		BackgroundColor: "#00000080",
		Position:        "bottom",
	}
	if o.FontSize > 0 {
		r.FontSize = o.FontSize
	}
	if o.Bold != nil {
		r.Bold = *o.Bold
	}
	r.Italic = o.Italic
	if o.FontColor != "" {
		r.FontColor = o.FontColor
	}
	if o.BackgroundColor != "" {
		r.BackgroundColor = o.BackgroundColor
	}
	if o.Position != "" {
		r.Position = o.Position
	}
	return r
}

// positionLayout maps a caption position to the ASS alignment code and
// vertical margin. Unrecognized positions keep the bottom alignment but the
// middle margin.
func positionLayout(pos string) (alignment, marginV int) {
	alignment = 2
	switch pos {
	case "top":
		alignment = 8
	case "middle":
		alignment = 5
	}
	marginV = 360
	switch pos {
	case "top":
		marginV = 30
	case "bottom":
		marginV = 80
	}
	return alignment, marginV
}

func assFlag(on bool) int {
	if on {
		return -1
	}
	return 0
}

// BuildASS compiles transcript segments into a styled ASS document: a header
// with one style record synthesized from the theme settings, then one
// animated Dialogue event per non-empty segment.
func BuildASS(segments []types.Segment, settings types.ThemeSettings) string {
	opts := resolveOptions(settings.Captions)
	alignment, marginV := positionLayout(opts.Position)

	anim, ok := assAnimations[settings.Theme]
	if !ok {
		anim = assAnimations["default"]
	}

	var b strings.Builder
	fmt.Fprintf(&b, `[Script Info]
ScriptType: v4.00+
PlayResX: %d
PlayResY: %d
ScaledBorderAndShadow: yes

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Default,Arial,%d,%s,%s,%s,&H00000000,%d,%d,0,0,100,100,0,0,1,2,0,%d,60,60,%d,1

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
`,
		playResX, playResY,
		opts.FontSize,
		ToASSColor(opts.FontColor), ToASSColor(opts.FontColor), ToASSColor(opts.BackgroundColor),
		assFlag(opts.Bold), assFlag(opts.Italic),
		alignment, marginV,
	)

	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		text = strings.Join(wrapText(text), `\N`)
		fmt.Fprintf(&b, "\nDialogue: 0,%s,%s,Default,,0,0,0,,%s%s",
			assTime(seg.Start), assTime(seg.End), anim, text)
	}
	return b.String()
}
