package types

// Transcript is the output of a transcription collaborator: ordered,
// non-overlapping segments in seconds.
type Transcript struct {
	Segments []Segment `json:"segments"`
}

type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// ThemeSettings is the per-request styling payload. Every field is optional;
// missing or malformed values fall back to defaults instead of failing the
// request.
type ThemeSettings struct {
	Theme    string         `json:"theme"`
	Captions CaptionOptions `json:"captions"`
}

// CaptionOptions configures the synthesized subtitle style. Bold is a pointer
// because its default is true and a plain bool could not distinguish "absent"
// from an explicit false.
type CaptionOptions struct {
	FontSize        int    `json:"fontSize,omitempty"`
	Bold            *bool  `json:"bold,omitempty"`
	Italic          bool   `json:"italic,omitempty"`
	FontColor       string `json:"fontColor,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
	Position        string `json:"position,omitempty"`
}

// MediaInfo holds probed stream properties. Dimensions are informational for
// the render pipeline; probing failures are non-fatal.
type MediaInfo struct {
	Width  int
	Height int
}
