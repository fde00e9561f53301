package whisper

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"capburn/internal/types"
)

// Adapter runs the whisper CLI and reads its JSON output. The binary writes
// <basename>.json into the output directory; naming is not fully stable
// across whisper versions, so discovery checks a couple of candidates.
type Adapter struct {
	bin   string
	model string
}

func New(binPath, model string) *Adapter {
	if binPath == "" {
		binPath = "whisper"
	}
	if model == "" {
		model = "base"
	}
	return &Adapter{bin: binPath, model: model}
}

func (a *Adapter) Transcribe(ctx context.Context, audioPath, workDir string) (types.Transcript, error) {
	cmd := exec.CommandContext(ctx, a.bin,
		audioPath,
		"--model", a.model,
		"--output_format", "json",
		"--output_dir", workDir,
		"--task", "transcribe",
		"--fp16", "False",
		"--verbose", "False",
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return types.Transcript{}, fmt.Errorf("whisper failed: %w\n%s", err, string(b))
	}

	jsonPath, err := findOutput(workDir, audioPath)
	if err != nil {
		return types.Transcript{}, err
	}
	jb, err := os.ReadFile(jsonPath)
	if err != nil {
		return types.Transcript{}, err
	}

	var tr types.Transcript
	if err := json.Unmarshal(jb, &tr); err != nil {
		return types.Transcript{}, fmt.Errorf("parse whisper output %s: %w", jsonPath, err)
	}
	for i := range tr.Segments {
		tr.Segments[i].Text = strings.TrimSpace(tr.Segments[i].Text)
	}
	return tr, nil
}

func findOutput(workDir, audioPath string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	candidates := []string{
		filepath.Join(workDir, base+".json"),
		filepath.Join(workDir, "audio.json"),
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}
	return "", fmt.Errorf("whisper output not found, checked %s", strings.Join(candidates, ", "))
}
