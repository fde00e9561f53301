package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"capburn/internal/transcript"
	"capburn/internal/types"
)

type fakeMedia struct {
	calls []string

	failProbe       bool
	failBurn        bool
	failExtract     bool
	failExtractCopy bool
	failEnhance     bool
	failMerge       bool
	emptyMergeOut   bool

	burnChains []string
	mergeAudio []string
}

func (f *fakeMedia) Probe(ctx context.Context, path string) (types.MediaInfo, error) {
	f.calls = append(f.calls, "probe")
	if f.failProbe {
		return types.MediaInfo{}, errors.New("probe boom")
	}
	return types.MediaInfo{Width: 1920, Height: 1080}, nil
}

func (f *fakeMedia) ProbeDuration(ctx context.Context, path string) (float64, error) {
	f.calls = append(f.calls, "probe_duration")
	return 12.5, nil
}

func (f *fakeMedia) ExtractAudioWAV(ctx context.Context, inPath, outWav string) error {
	f.calls = append(f.calls, "extract_wav")
	return os.WriteFile(outWav, []byte("wav"), 0o644)
}

func (f *fakeMedia) BurnSubtitles(ctx context.Context, inPath, filterChain, outPath string) error {
	f.calls = append(f.calls, "burn")
	f.burnChains = append(f.burnChains, filterChain)
	if f.failBurn {
		return errors.New("burn boom")
	}
	return os.WriteFile(outPath, []byte("silent video"), 0o644)
}

func (f *fakeMedia) ExtractAudio(ctx context.Context, inPath, outPath string) error {
	f.calls = append(f.calls, "extract")
	if f.failExtract {
		return errors.New("extract boom")
	}
	return os.WriteFile(outPath, []byte("audio"), 0o644)
}

func (f *fakeMedia) ExtractAudioCopy(ctx context.Context, inPath, outPath string) error {
	f.calls = append(f.calls, "extract_copy")
	if f.failExtractCopy {
		return errors.New("extract copy boom")
	}
	return os.WriteFile(outPath, []byte("audio copy"), 0o644)
}

func (f *fakeMedia) EnhanceAudio(ctx context.Context, inPath, outPath string, gain float64) error {
	f.calls = append(f.calls, "enhance")
	if f.failEnhance {
		return errors.New("enhance boom")
	}
	return os.WriteFile(outPath, []byte("enhanced audio"), 0o644)
}

func (f *fakeMedia) Merge(ctx context.Context, videoPath, audioPath, outPath string) error {
	f.calls = append(f.calls, "merge")
	f.mergeAudio = append(f.mergeAudio, audioPath)
	if f.failMerge {
		return errors.New("merge boom")
	}
	if f.emptyMergeOut {
		return os.WriteFile(outPath, nil, 0o644)
	}
	return os.WriteFile(outPath, []byte("final video"), 0o644)
}

// transforms filters the fake's call log down to processor transform passes.
func (f *fakeMedia) transforms() []string {
	var out []string
	for _, c := range f.calls {
		switch c {
		case "probe", "probe_duration":
		default:
			out = append(out, c)
		}
	}
	return out
}

type fakeASR struct {
	tr  types.Transcript
	err error
}

func (f fakeASR) Transcribe(ctx context.Context, audioPath, workDir string) (types.Transcript, error) {
	return f.tr, f.err
}

func renderInput(t *testing.T) (RenderInput, string) {
	t.Helper()
	tmp := t.TempDir()
	return RenderInput{
		VideoPath: filepath.Join(tmp, "input.mp4"),
		Segments: []types.Segment{
			{Start: 0, End: 2.5, Text: "Hello world"},
			{Start: 2.5, End: 5, Text: "Second line"},
		},
		Settings:   types.ThemeSettings{Theme: "fade"},
		WorkDir:    tmp,
		OutputPath: filepath.Join(tmp, "output.mp4"),
	}, tmp
}

func TestRender_HappyPath(t *testing.T) {
	t.Parallel()

	media := &fakeMedia{}
	uc := New(Deps{Media: media})
	in, tmp := renderInput(t)

	res, err := uc.Render(context.Background(), in)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !res.EnhancedAudio {
		t.Fatalf("expected enhanced audio on the happy path")
	}
	if res.Width != 1920 || res.Height != 1080 {
		t.Fatalf("expected probed dimensions, got %dx%d", res.Width, res.Height)
	}

	want := []string{"burn", "extract", "enhance", "merge"}
	got := media.transforms()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("transform sequence = %v, want %v", got, want)
	}

	// Output survives; scratch artifacts do not.
	if _, err := os.Stat(in.OutputPath); err != nil {
		t.Fatalf("missing output: %v", err)
	}
	for _, scratch := range []string{"captions.ass", "video_noaudio.mp4", "audio.m4a", "audio_enhanced.m4a"} {
		if _, err := os.Stat(filepath.Join(tmp, scratch)); !os.IsNotExist(err) {
			t.Fatalf("scratch artifact %s not cleaned up (err=%v)", scratch, err)
		}
	}
}

func TestRender_SubtitleWriteFailureIsFatalBeforeAnyTransform(t *testing.T) {
	t.Parallel()

	media := &fakeMedia{}
	uc := New(Deps{Media: media})
	in, _ := renderInput(t)
	in.WorkDir = filepath.Join(in.WorkDir, "missing", "nested") // write must fail

	_, err := uc.Render(context.Background(), in)
	var se *StageError
	if !errors.As(err, &se) || se.Stage != StageSubtitles {
		t.Fatalf("expected subtitles stage error, got %v", err)
	}
	if len(media.transforms()) != 0 {
		t.Fatalf("expected no transform invocations, got %v", media.calls)
	}
}

func TestRender_BurnFailureIsFatal(t *testing.T) {
	t.Parallel()

	media := &fakeMedia{failBurn: true}
	uc := New(Deps{Media: media})
	in, _ := renderInput(t)

	_, err := uc.Render(context.Background(), in)
	var se *StageError
	if !errors.As(err, &se) || se.Stage != StageBurn {
		t.Fatalf("expected burn stage error, got %v", err)
	}
	if got := media.transforms(); len(got) != 1 {
		t.Fatalf("expected pipeline to stop after burn, got %v", got)
	}
	if !strings.Contains(err.Error(), "burn boom") {
		t.Fatalf("diagnostic text not surfaced: %v", err)
	}
}

func TestRender_ExtractionRetriesWithCodecCopy(t *testing.T) {
	t.Parallel()

	media := &fakeMedia{failExtract: true}
	uc := New(Deps{Media: media})
	in, _ := renderInput(t)

	res, err := uc.Render(context.Background(), in)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !res.EnhancedAudio {
		t.Fatalf("copy fallback should still feed enhancement")
	}
	want := []string{"burn", "extract", "extract_copy", "enhance", "merge"}
	if got := media.transforms(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("transform sequence = %v, want %v", got, want)
	}
}

func TestRender_ExtractionFailureWithPreexistingAudioSucceeds(t *testing.T) {
	t.Parallel()

	media := &fakeMedia{failExtract: true, failExtractCopy: true}
	uc := New(Deps{Media: media})
	in, tmp := renderInput(t)

	// A fallback audio file is already on disk at the extraction target.
	if err := os.WriteFile(filepath.Join(tmp, "audio.m4a"), []byte("fallback"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := uc.Render(context.Background(), in); err != nil {
		t.Fatalf("expected success with pre-existing fallback audio, got %v", err)
	}
}

func TestRender_ExtractionFailureWithoutFallbackIsFatal(t *testing.T) {
	t.Parallel()

	media := &fakeMedia{failExtract: true, failExtractCopy: true}
	uc := New(Deps{Media: media})
	in, _ := renderInput(t)

	_, err := uc.Render(context.Background(), in)
	var se *StageError
	if !errors.As(err, &se) || se.Stage != StageExtractAudio {
		t.Fatalf("expected extract_audio stage error, got %v", err)
	}
	for _, c := range media.transforms() {
		if c == "merge" {
			t.Fatalf("merge must not run after fatal extraction: %v", media.calls)
		}
	}
}

func TestRender_EnhancementFailureFallsBackToRawAudio(t *testing.T) {
	t.Parallel()

	media := &fakeMedia{failEnhance: true}
	uc := New(Deps{Media: media})
	in, tmp := renderInput(t)

	res, err := uc.Render(context.Background(), in)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if res.EnhancedAudio {
		t.Fatalf("expected raw-audio fallback")
	}
	if len(media.mergeAudio) != 1 || media.mergeAudio[0] != filepath.Join(tmp, "audio.m4a") {
		t.Fatalf("merge fed %v, want the raw extraction", media.mergeAudio)
	}
}

func TestRender_EmptyMergeOutputIsFatal(t *testing.T) {
	t.Parallel()

	media := &fakeMedia{emptyMergeOut: true}
	uc := New(Deps{Media: media})
	in, _ := renderInput(t)

	_, err := uc.Render(context.Background(), in)
	var se *StageError
	if !errors.As(err, &se) || se.Stage != StageMerge {
		t.Fatalf("expected merge stage error for empty output, got %v", err)
	}
}

func TestRender_ProbeFailureIsNonFatal(t *testing.T) {
	t.Parallel()

	media := &fakeMedia{failProbe: true}
	uc := New(Deps{Media: media})
	in, _ := renderInput(t)

	res, err := uc.Render(context.Background(), in)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if res.Width != 1280 || res.Height != 720 {
		t.Fatalf("expected default dimensions, got %dx%d", res.Width, res.Height)
	}
}

func TestRender_ThemeGradeJoinsFilterChain(t *testing.T) {
	t.Parallel()

	media := &fakeMedia{}
	uc := New(Deps{Media: media})
	in, _ := renderInput(t)
	in.Settings.Theme = "bw"

	if _, err := uc.Render(context.Background(), in); err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(media.burnChains) != 1 {
		t.Fatalf("expected one burn, got %v", media.burnChains)
	}
	chain := media.burnChains[0]
	if !strings.HasPrefix(chain, "subtitles=") || !strings.HasSuffix(chain, ",hue=s=0") {
		t.Fatalf("unexpected filter chain %q", chain)
	}
}

func TestRender_SRTDialect(t *testing.T) {
	t.Parallel()

	media := &fakeMedia{}
	uc := New(Deps{Media: media})
	in, _ := renderInput(t)
	in.Format = "srt"

	if _, err := uc.Render(context.Background(), in); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(media.burnChains[0], "captions.srt") {
		t.Fatalf("expected srt document in chain, got %q", media.burnChains[0])
	}
}

func TestProcess_WritesPlanAndRenders(t *testing.T) {
	t.Parallel()

	media := &fakeMedia{}
	uc := New(Deps{
		Media: media,
		ASR: fakeASR{tr: types.Transcript{Segments: []types.Segment{
			{Start: 0, End: 2, Text: "The quick brown fox jumps over the lazy dog"},
		}}},
	})
	in, tmp := renderInput(t)

	res, err := uc.Process(context.Background(), ProcessInput{
		VideoPath:  in.VideoPath,
		Settings:   types.ThemeSettings{Theme: "pop"},
		WorkDir:    tmp,
		OutputPath: in.OutputPath,
	})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if res.OutputPath != in.OutputPath {
		t.Fatalf("unexpected output path %q", res.OutputPath)
	}

	plan, err := transcript.Load(filepath.Join(tmp, "plan.json"))
	if err != nil {
		t.Fatalf("load plan: %v", err)
	}
	if len(plan.Segments) != 1 || plan.ThemeSettings.Theme != "pop" {
		t.Fatalf("unexpected plan: %+v", plan)
	}
	if plan.VideoDuration != 12.5 {
		t.Fatalf("expected probed duration in plan, got %v", plan.VideoDuration)
	}
	if plan.Language != "English" {
		t.Fatalf("expected English annotation, got %q", plan.Language)
	}
}

func TestProcess_TranscriberFailureStopsBeforeRender(t *testing.T) {
	t.Parallel()

	media := &fakeMedia{}
	uc := New(Deps{Media: media, ASR: fakeASR{err: errors.New("asr boom")}})
	in, tmp := renderInput(t)

	_, err := uc.Process(context.Background(), ProcessInput{
		VideoPath:  in.VideoPath,
		WorkDir:    tmp,
		OutputPath: in.OutputPath,
	})
	var se *StageError
	if !errors.As(err, &se) || se.Stage != StageTranscribe {
		t.Fatalf("expected transcribe stage error, got %v", err)
	}
	for _, c := range media.transforms() {
		if c == "burn" {
			t.Fatalf("burn must not run after transcription failure: %v", media.calls)
		}
	}
}
