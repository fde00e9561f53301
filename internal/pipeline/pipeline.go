package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"capburn/internal/ports"
	"capburn/internal/ports/adapters/ffmpeg"
	"capburn/internal/ports/adapters/openaiasr"
	"capburn/internal/ports/adapters/whisper"
	"capburn/internal/types"
	"capburn/internal/usecase"
)

type Config struct {
	FFmpegPath  string
	FFprobePath string

	// Transcriber selects the ASR backend: "whisper" (local CLI, default) or
	// "openai" (hosted API).
	Transcriber  string
	WhisperBin   string
	WhisperModel string
	OpenAIAPIKey string

	// CaptionFormat is the subtitle dialect burned into the video: "ass"
	// (default) or "srt".
	CaptionFormat string
	AudioGain     float64

	Logf func(format string, args ...any)
}

func (c Config) Validate() error {
	switch c.CaptionFormat {
	case "", "ass", "srt":
	default:
		return fmt.Errorf("caption format must be ass or srt, got %q", c.CaptionFormat)
	}
	switch c.Transcriber {
	case "", "whisper":
	case "openai":
		if c.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY is required for the openai transcriber")
		}
	default:
		return fmt.Errorf("unknown transcriber %q", c.Transcriber)
	}
	if c.AudioGain < 0 {
		return errors.New("audio gain must be >= 0")
	}
	return nil
}

// New wires the adapters into a ready usecase.
func New(cfg Config) usecase.Usecase {
	media := ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath)

	var asr ports.Transcriber
	if cfg.Transcriber == "openai" {
		asr = openaiasr.New(cfg.OpenAIAPIKey)
	} else {
		asr = whisper.New(cfg.WhisperBin, cfg.WhisperModel)
	}

	return usecase.New(usecase.Deps{Media: media, ASR: asr, Logf: cfg.Logf})
}

// RunInput is a one-shot local render request (CLI path).
type RunInput struct {
	InputPath string
	OutPath   string
	DataDir   string
	Settings  types.ThemeSettings
}

// Run performs transcription plus render for a single local file, using a
// fresh job directory for all scratch artifacts.
func Run(ctx context.Context, cfg Config, in RunInput) error {
	logf := cfg.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	dataDir := in.DataDir
	if dataDir == "" {
		dataDir = "data"
	}
	jobDir := filepath.Join(dataDir, "jobs", jobDirName(in.InputPath, time.Now()))
	if err := os.MkdirAll(jobDir, 0o755); err != nil {
		return err
	}
	logf("job dir: %s", jobDir)

	outPath := in.OutPath
	if outPath == "" {
		ext := filepath.Ext(in.InputPath)
		outPath = strings.TrimSuffix(in.InputPath, ext) + ".captioned.mp4"
	}

	uc := New(cfg)
	res, err := uc.Process(ctx, usecase.ProcessInput{
		VideoPath:  in.InputPath,
		Settings:   in.Settings,
		WorkDir:    jobDir,
		OutputPath: outPath,
		Format:     cfg.CaptionFormat,
		AudioGain:  cfg.AudioGain,
	})
	if err != nil {
		return err
	}
	logf("done: %s (%dx%d)", res.OutputPath, res.Width, res.Height)
	return nil
}

// jobDirName builds a unique, filesystem-safe directory name for one run:
// normalized input name, UTC timestamp, short random suffix.
func jobDirName(inputPath string, now time.Time) string {
	name := normalizePathSegment(strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath)))
	if name == "" {
		name = "input"
	}
	ts := now.UTC().Format("20060102-150405Z")
	return fmt.Sprintf("%s-%s-%s", name, ts, uuid.NewString()[:8])
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// ensure adapters implement ports
var _ ports.MediaProcessor = (*ffmpeg.Adapter)(nil)
var _ ports.Transcriber = (*whisper.Adapter)(nil)
var _ ports.Transcriber = (*openaiasr.Adapter)(nil)
