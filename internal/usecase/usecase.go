package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"capburn/internal/domain/captions"
	"capburn/internal/domain/filtergraph"
	"capburn/internal/ports"
	"capburn/internal/transcript"
	"capburn/internal/types"
)

// Pipeline stage names, in execution order. They appear in StageError and in
// log output.
const (
	StageTranscribe   = "transcribe"
	StageSubtitles    = "subtitles"
	StageBurn         = "burn"
	StageExtractAudio = "extract_audio"
	StageEnhanceAudio = "enhance_audio"
	StageMerge        = "merge"
)

const defaultAudioGain = 1.5

// StageError reports which pipeline stage failed; the wrapped error carries
// the processor's diagnostic output verbatim.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("stage %s: %v", e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

type Deps struct {
	Media ports.MediaProcessor
	ASR   ports.Transcriber
	Logf  func(format string, args ...any)
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase {
	if d.Logf == nil {
		d.Logf = func(string, ...any) {}
	}
	return Usecase{d: d}
}

// RenderInput describes one captioning run. WorkDir must be unique per run;
// every scratch artifact lives under it and is removed when the run ends.
type RenderInput struct {
	VideoPath  string
	Segments   []types.Segment
	Settings   types.ThemeSettings
	WorkDir    string
	OutputPath string
	Format     string  // "ass" (default) or "srt"
	AudioGain  float64 // 0 means the default gain
}

type RenderResult struct {
	OutputPath    string
	Width, Height int
	EnhancedAudio bool // false when the merge fell back to the raw extraction
}

// Render drives the caption pipeline: probe, compile subtitles, burn a
// video-only pass, extract and enhance audio, then remux. Audio extraction
// and enhancement are recoverable; everything else aborts the run.
func (u Usecase) Render(ctx context.Context, in RenderInput) (RenderResult, error) {
	logf := u.d.Logf
	format := in.Format
	if format == "" {
		format = "ass"
	}
	gain := in.AudioGain
	if gain <= 0 {
		gain = defaultAudioGain
	}

	width, height := 1280, 720
	if info, perr := u.d.Media.Probe(ctx, in.VideoPath); perr != nil {
		logf("probe failed, assuming %dx%d: %v", width, height, perr)
	} else if info.Width > 0 && info.Height > 0 {
		width, height = info.Width, info.Height
		logf("input video %dx%d", width, height)
	}

	// Scratch artifacts are registered on creation and removed on every exit
	// path; a failed removal never changes the run's outcome.
	var artifacts []string
	defer func() {
		for _, p := range artifacts {
			if rmErr := os.Remove(p); rmErr != nil && !os.IsNotExist(rmErr) {
				logf("cleanup %s: %v", p, rmErr)
			}
		}
	}()

	subPath := filepath.Join(in.WorkDir, "captions."+format)
	var doc string
	if format == "srt" {
		doc = captions.BuildSRT(in.Segments, in.Settings.Theme)
	} else {
		doc = captions.BuildASS(in.Segments, in.Settings)
	}
	if werr := os.WriteFile(subPath, []byte(doc), 0o644); werr != nil {
		return RenderResult{}, &StageError{Stage: StageSubtitles, Err: werr}
	}
	if ferr := requireFile(subPath); ferr != nil {
		return RenderResult{}, &StageError{Stage: StageSubtitles, Err: ferr}
	}
	artifacts = append(artifacts, subPath)
	logf("subtitle document written: %s", subPath)

	silentPath := filepath.Join(in.WorkDir, "video_noaudio.mp4")
	chain := filtergraph.Chain(subPath, captions.ThemeFilter(in.Settings.Theme))
	if berr := u.d.Media.BurnSubtitles(ctx, in.VideoPath, chain, silentPath); berr != nil {
		return RenderResult{}, &StageError{Stage: StageBurn, Err: berr}
	}
	artifacts = append(artifacts, silentPath)
	logf("captions burned: %s", silentPath)

	audioPath := filepath.Join(in.WorkDir, "audio.m4a")
	if xerr := u.d.Media.ExtractAudio(ctx, in.VideoPath, audioPath); xerr != nil {
		logf("audio extraction failed, retrying with codec copy: %v", xerr)
		if cerr := u.d.Media.ExtractAudioCopy(ctx, in.VideoPath, audioPath); cerr != nil {
			logf("codec-copy extraction failed: %v", cerr)
		}
	}
	// A pre-existing file at audioPath also satisfies this check; the run
	// proceeds with whatever audio is on disk.
	if ferr := requireFile(audioPath); ferr != nil {
		return RenderResult{}, &StageError{Stage: StageExtractAudio, Err: ferr}
	}
	artifacts = append(artifacts, audioPath)

	mergeAudio := audioPath
	enhanced := false
	enhancedPath := filepath.Join(in.WorkDir, "audio_enhanced.m4a")
	if eerr := u.d.Media.EnhanceAudio(ctx, audioPath, enhancedPath, gain); eerr != nil {
		logf("audio enhancement failed, merging raw audio: %v", eerr)
	} else if ferr := requireFile(enhancedPath); ferr != nil {
		logf("enhanced audio unusable, merging raw audio: %v", ferr)
	} else {
		mergeAudio = enhancedPath
		enhanced = true
		artifacts = append(artifacts, enhancedPath)
	}

	if merr := u.d.Media.Merge(ctx, silentPath, mergeAudio, in.OutputPath); merr != nil {
		return RenderResult{}, &StageError{Stage: StageMerge, Err: merr}
	}
	if ferr := requireFile(in.OutputPath); ferr != nil {
		return RenderResult{}, &StageError{Stage: StageMerge, Err: ferr}
	}
	logf("output written: %s", in.OutputPath)

	return RenderResult{
		OutputPath:    in.OutputPath,
		Width:         width,
		Height:        height,
		EnhancedAudio: enhanced,
	}, nil
}

// ProcessInput describes a full request: transcription followed by a render.
type ProcessInput struct {
	VideoPath  string
	Settings   types.ThemeSettings
	WorkDir    string
	OutputPath string
	Format     string
	AudioGain  float64
}

// Process transcribes the video, persists the plan, then renders. The plan
// file stays in the work dir for inspection and chat edits.
func (u Usecase) Process(ctx context.Context, in ProcessInput) (RenderResult, error) {
	logf := u.d.Logf

	wavPath := filepath.Join(in.WorkDir, "audio.wav")
	if err := u.d.Media.ExtractAudioWAV(ctx, in.VideoPath, wavPath); err != nil {
		return RenderResult{}, &StageError{Stage: StageTranscribe, Err: err}
	}
	tr, err := u.d.ASR.Transcribe(ctx, wavPath, in.WorkDir)
	_ = os.Remove(wavPath)
	if err != nil {
		return RenderResult{}, &StageError{Stage: StageTranscribe, Err: err}
	}
	logf("transcribed %d segments", len(tr.Segments))

	plan := transcript.Plan{Segments: tr.Segments, ThemeSettings: in.Settings}
	if dur, derr := u.d.Media.ProbeDuration(ctx, in.VideoPath); derr == nil {
		plan.VideoDuration = dur
	}
	plan.Annotate()
	if plan.Language != "" {
		logf("detected transcript language: %s", plan.Language)
	}
	if err := plan.Save(filepath.Join(in.WorkDir, "plan.json")); err != nil {
		return RenderResult{}, &StageError{Stage: StageTranscribe, Err: err}
	}

	return u.Render(ctx, RenderInput{
		VideoPath:  in.VideoPath,
		Segments:   plan.Segments,
		Settings:   in.Settings,
		WorkDir:    in.WorkDir,
		OutputPath: in.OutputPath,
		Format:     in.Format,
		AudioGain:  in.AudioGain,
	})
}

func requireFile(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	if fi.Size() == 0 {
		return fmt.Errorf("%s is empty", path)
	}
	return nil
}
