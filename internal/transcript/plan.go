package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"capburn/internal/types"
)

// Plan is the persisted intermediate between transcription and rendering:
// the timed segments plus the styling payload for one run.
type Plan struct {
	Segments      []types.Segment     `json:"segments"`
	ThemeSettings types.ThemeSettings `json:"theme_settings"`
	Language      string              `json:"language,omitempty"`
	VideoDuration float64             `json:"video_duration,omitempty"`
}

func Load(path string) (Plan, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, err
	}
	var p Plan
	if err := json.Unmarshal(b, &p); err != nil {
		return Plan{}, fmt.Errorf("parse plan %s: %w", path, err)
	}
	return p, nil
}

func (p Plan) Save(path string) error {
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}
	return os.WriteFile(path, b, 0o644)
}

// Annotate fills derived metadata. Currently that is the detected language of
// the joined transcript text; detection never fails the plan.
func (p *Plan) Annotate() {
	var b strings.Builder
	for _, s := range p.Segments {
		b.WriteString(s.Text)
		b.WriteString(" ")
	}
	p.Language = DetectLanguage(b.String())
}
