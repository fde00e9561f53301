package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"capburn/internal/types"
)

// Adapter drives the ffmpeg and ffprobe binaries through one-shot subprocess
// invocations. It is the only place that talks to the external processor.
type Adapter struct {
	ffmpeg  string
	ffprobe string
}

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

func (a *Adapter) Probe(ctx context.Context, path string) (types.MediaInfo, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "csv=s=x:p=0",
		path,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return types.MediaInfo{}, fmt.Errorf("ffprobe dimensions: %w\n%s", err, string(b))
	}
	parts := strings.Split(strings.TrimSpace(string(b)), "x")
	if len(parts) < 2 {
		return types.MediaInfo{}, fmt.Errorf("ffprobe dimensions: unexpected output %q", string(b))
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil {
		return types.MediaInfo{}, fmt.Errorf("parse width %q: %w", parts[0], err)
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil {
		return types.MediaInfo{}, fmt.Errorf("parse height %q: %w", parts[1], err)
	}
	return types.MediaInfo{Width: w, Height: h}, nil
}

func (a *Adapter) ProbeDuration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, string(b))
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return sec, nil
}

// ExtractAudioWAV produces the mono 16kHz WAV the transcriber consumes.
func (a *Adapter) ExtractAudioWAV(ctx context.Context, inPath, outWav string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-i", inPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		outWav,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg extract wav: %w\n%s", err, string(b))
	}
	return nil
}

// BurnSubtitles runs the video-only caption pass: the filter chain is applied
// and the audio track is dropped (-an); audio comes back in at the merge.
func (a *Adapter) BurnSubtitles(ctx context.Context, inPath, filterChain, outPath string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-i", inPath,
		"-vf", filterChain,
		"-an",
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-pix_fmt", "yuv420p",
		outPath,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg burn subtitles: %w\n%s", err, string(b))
	}
	return nil
}

func (a *Adapter) ExtractAudio(ctx context.Context, inPath, outPath string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-i", inPath,
		"-vn",
		"-c:a", "aac",
		"-b:a", "192k",
		outPath,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg extract audio: %w\n%s", err, string(b))
	}
	return nil
}

// ExtractAudioCopy is the simpler fallback invocation: no re-encode, just the
// source audio stream copied out.
func (a *Adapter) ExtractAudioCopy(ctx context.Context, inPath, outPath string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-i", inPath,
		"-vn",
		"-c:a", "copy",
		outPath,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg extract audio (copy): %w\n%s", err, string(b))
	}
	return nil
}

func (a *Adapter) EnhanceAudio(ctx context.Context, inPath, outPath string, gain float64) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-i", inPath,
		"-af", "volume="+strconv.FormatFloat(gain, 'f', -1, 64),
		"-c:a", "aac",
		"-b:a", "192k",
		outPath,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg enhance audio: %w\n%s", err, string(b))
	}
	return nil
}

// Merge remuxes the burned video with the processed audio. Stream mapping is
// explicit so extra streams on either input are ignored, and the audio gets
// loudness normalization to a fixed reference.
func (a *Adapter) Merge(ctx context.Context, videoPath, audioPath, outPath string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-i", videoPath,
		"-i", audioPath,
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-c:v", "copy",
		"-af", "loudnorm=I=-16:LRA=11:TP=-1.5",
		"-c:a", "aac",
		"-b:a", "192k",
		outPath,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg merge: %w\n%s", err, string(b))
	}
	return nil
}
