package ports

import (
	"context"

	"capburn/internal/types"
)

// MediaProcessor is the capability surface of the external frame/audio
// processor. Every call is one synchronous subprocess invocation; errors
// carry the processor's diagnostic output.
type MediaProcessor interface {
	Probe(ctx context.Context, path string) (types.MediaInfo, error)
	ProbeDuration(ctx context.Context, path string) (float64, error)
	ExtractAudioWAV(ctx context.Context, inPath, outWav string) error
	BurnSubtitles(ctx context.Context, inPath, filterChain, outPath string) error
	ExtractAudio(ctx context.Context, inPath, outPath string) error
	ExtractAudioCopy(ctx context.Context, inPath, outPath string) error
	EnhanceAudio(ctx context.Context, inPath, outPath string, gain float64) error
	Merge(ctx context.Context, videoPath, audioPath, outPath string) error
}

// Transcriber produces ordered transcript segments for an audio file.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, workDir string) (types.Transcript, error)
}
