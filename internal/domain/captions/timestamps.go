package captions

import "fmt"

// srtTime renders seconds as the SRT HH:MM:SS,mmm timestamp. Components are
// floor-truncated, never rounded: a cue must not start after its nominal time.
func srtTime(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	t := int(sec)
	ms := int(sec*1000) - t*1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", t/3600, t%3600/60, t%60, ms)
}

// assTime renders seconds as the ASS H:MM:SS.cc timestamp (centiseconds,
// truncated like srtTime).
func assTime(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	t := int(sec)
	cs := int(sec*100) - t*100
	return fmt.Sprintf("%d:%02d:%02d.%02d", t/3600, t%3600/60, t%60, cs)
}

// parseAssTime inverts assTime.
func parseAssTime(s string) (float64, error) {
	var h, m, sec, cs int
	if _, err := fmt.Sscanf(s, "%d:%d:%d.%d", &h, &m, &sec, &cs); err != nil {
		return 0, fmt.Errorf("parse ass time %q: %w", s, err)
	}
	return float64(h*3600+m*60+sec) + float64(cs)/100, nil
}
