package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"capburn/internal/pipeline"
	"capburn/internal/types"
)

func renderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <input>",
		Short: "Caption a local video file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0])
		},
	}

	// Visible flags
	cmd.Flags().String("out", "", "Output file (defaults next to the input)")
	cmd.Flags().String("theme", "default", "Caption theme")
	cmd.Flags().String("position", "", "Caption position: top, middle or bottom")
	cmd.Flags().String("format", "ass", "Caption dialect: ass or srt")
	cmd.Flags().String("transcriber", "whisper", "Transcriber backend: whisper or openai")
	cmd.Flags().String("data", "data", "Scratch directory")

	// Hidden tuning flags (internal)
	cmd.Flags().Float64("gain", 1.5, "Audio gain applied before the merge")
	_ = cmd.Flags().MarkHidden("gain")
	cmd.Flags().Int("timeout", 60, "Overall timeout in minutes")
	_ = cmd.Flags().MarkHidden("timeout")

	return cmd
}

func runRender(cmd *cobra.Command, input string) error {
	outPath, _ := cmd.Flags().GetString("out")
	theme, _ := cmd.Flags().GetString("theme")
	position, _ := cmd.Flags().GetString("position")
	format, _ := cmd.Flags().GetString("format")
	transcriber, _ := cmd.Flags().GetString("transcriber")
	dataDir, _ := cmd.Flags().GetString("data")
	gain, _ := cmd.Flags().GetFloat64("gain")
	timeoutMin, _ := cmd.Flags().GetInt("timeout")

	absIn, err := filepath.Abs(input)
	if err != nil {
		return err
	}
	if _, err := os.Stat(absIn); err != nil {
		return fmt.Errorf("stat input: %w", err)
	}

	cfg := pipeline.Config{
		FFmpegPath:    getenvDefault("FFMPEG_PATH", "ffmpeg"),
		FFprobePath:   getenvDefault("FFPROBE_PATH", "ffprobe"),
		Transcriber:   transcriber,
		WhisperBin:    getenvDefault("WHISPER_BIN", "whisper"),
		WhisperModel:  getenvDefault("WHISPER_MODEL", "base"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		CaptionFormat: format,
		AudioGain:     gain,
		Logf:          log.Printf,
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutMin)*time.Minute)
	defer cancel()

	return pipeline.Run(ctx, cfg, pipeline.RunInput{
		InputPath: absIn,
		OutPath:   outPath,
		DataDir:   dataDir,
		Settings: types.ThemeSettings{
			Theme:    theme,
			Captions: types.CaptionOptions{Position: position},
		},
	})
}
