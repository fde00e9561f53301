package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"capburn/internal/pipeline"
	"capburn/internal/server"
)

func serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP rendering service",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().String("addr", "", "Listen address (defaults to :$PORT or :8000)")
	cmd.Flags().String("data", "data", "Directory for uploads and scratch artifacts")
	cmd.Flags().String("format", "ass", "Caption dialect: ass or srt")
	cmd.Flags().String("transcriber", "whisper", "Transcriber backend: whisper or openai")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	dataDir, _ := cmd.Flags().GetString("data")
	format, _ := cmd.Flags().GetString("format")
	transcriber, _ := cmd.Flags().GetString("transcriber")

	cfg := pipeline.Config{
		FFmpegPath:    getenvDefault("FFMPEG_PATH", "ffmpeg"),
		FFprobePath:   getenvDefault("FFPROBE_PATH", "ffprobe"),
		Transcriber:   transcriber,
		WhisperBin:    getenvDefault("WHISPER_BIN", "whisper"),
		WhisperModel:  getenvDefault("WHISPER_MODEL", "base"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		CaptionFormat: format,
		Logf:          log.Printf,
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	srv := server.New(pipeline.New(cfg), dataDir, format)
	if addr == "" {
		addr = ":" + getenvDefault("PORT", "8000")
	}
	log.Printf("listening on %s", addr)
	return srv.Router().Run(addr)
}
