package openaiasr

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"capburn/internal/types"
)

// Adapter transcribes through the OpenAI audio API instead of a local
// whisper binary. Verbose JSON is required to get timed segments back.
type Adapter struct {
	client *openai.Client
}

func New(apiKey string) *Adapter {
	return &Adapter{client: openai.NewClient(apiKey)}
}

func (a *Adapter) Transcribe(ctx context.Context, audioPath, workDir string) (types.Transcript, error) {
	_ = workDir // the API adapter keeps nothing on disk

	resp, err := a.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return types.Transcript{}, fmt.Errorf("transcription error: %w", err)
	}

	var tr types.Transcript
	for _, seg := range resp.Segments {
		tr.Segments = append(tr.Segments, types.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  strings.TrimSpace(seg.Text),
		})
	}
	return tr, nil
}
