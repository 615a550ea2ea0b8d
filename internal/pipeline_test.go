package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

// fakeRunner simulates the external tools: "ffmpeg" writes the WAV given
// as its last argument, "whisper" drops same-stem artifacts into workDir.
type fakeRunner struct {
	calls       []string
	workDir     string
	stem        string
	failFFmpeg  bool
	failWhisper bool
}

func (r *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	r.calls = append(r.calls, name)
	switch name {
	case FFmpegTool:
		if r.failFFmpeg {
			return []byte("demux error"), errors.New("exit status 1")
		}
		wav := args[len(args)-1]
		if err := os.WriteFile(wav, []byte("RIFF"), 0o644); err != nil {
			return nil, err
		}
	case WhisperTool:
		if r.failWhisper {
			return []byte("model load failed"), errors.New("exit status 1")
		}
		outputs := map[string]string{
			".srt":  "1\n00:00:00,000 --> 00:00:01,000\nhello\n",
			".json": `{"language": "fr"}`,
			".txt":  "hello\n",
		}
		for ext, content := range outputs {
			path := filepath.Join(r.workDir, r.stem+ext)
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				return nil, err
			}
		}
	}
	return nil, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testRun struct {
	cfg     *RunConfig
	runner  *fakeRunner
	workDir string
}

func newTestRun(t *testing.T) *testRun {
	t.Helper()

	videoDir := t.TempDir()
	video := filepath.Join(videoDir, "demo.mp4")
	if err := os.WriteFile(video, []byte("video"), 0o644); err != nil {
		t.Fatalf("write video: %v", err)
	}

	workDir := t.TempDir()
	cfg := &RunConfig{
		Video:        video,
		Model:        "small",
		CleanWAV:     true,
		Overwrite:    true,
		SkipIfExists: true,
		OutputDir:    filepath.Join(t.TempDir(), "demo"),
	}
	return &testRun{
		cfg:     cfg,
		runner:  &fakeRunner{workDir: workDir, stem: "demo"},
		workDir: workDir,
	}
}

func (tr *testRun) run(t *testing.T) (*RunResult, error) {
	t.Helper()
	p := NewPipeline(tr.cfg,
		WithRunner(tr.runner),
		WithLogger(quietLogger()),
		WithWorkDir(tr.workDir),
	)
	return p.Run(context.Background())
}

func TestPipelineRun(t *testing.T) {
	tr := newTestRun(t)

	result, err := tr.run(t)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(tr.runner.calls) != 2 || tr.runner.calls[0] != FFmpegTool || tr.runner.calls[1] != WhisperTool {
		t.Fatalf("unexpected tool invocations: %v", tr.runner.calls)
	}
	if !result.WhisperSucceeded {
		t.Fatalf("expected whisper success")
	}
	if result.Skipped {
		t.Fatalf("fresh run must not be skipped")
	}
	if !FileExists(filepath.Join(tr.cfg.OutputDir, "demo.srt")) {
		t.Fatalf("expected relocated .srt in output dir")
	}
	if !FileExists(filepath.Join(tr.cfg.OutputDir, "demo.json")) {
		t.Fatalf("expected relocated .json in output dir")
	}
	if FileExists(result.WAV) {
		t.Fatalf("intermediate wav should be cleaned up")
	}
	if result.DetectedLanguage != "fr" {
		t.Fatalf("detected language = %q, want fr", result.DetectedLanguage)
	}

	// Finalize moved the video into the output directory.
	want := filepath.Join(tr.cfg.OutputDir, "demo.mp4")
	if result.Video != want {
		t.Fatalf("video location = %q, want %q", result.Video, want)
	}
	if FileExists(tr.cfg.Video) {
		t.Fatalf("original video should have been moved away")
	}
}

func TestPipelineSkipIfExists(t *testing.T) {
	tr := newTestRun(t)
	if err := os.MkdirAll(tr.cfg.OutputDir, 0o755); err != nil {
		t.Fatalf("mk output dir: %v", err)
	}
	srt := filepath.Join(tr.cfg.OutputDir, "demo.srt")
	if err := os.WriteFile(srt, []byte("existing"), 0o644); err != nil {
		t.Fatalf("write srt: %v", err)
	}
	jsonPath := filepath.Join(tr.cfg.OutputDir, "demo.json")
	if err := os.WriteFile(jsonPath, []byte(`{"language": "de"}`), 0o644); err != nil {
		t.Fatalf("write json: %v", err)
	}

	result, err := tr.run(t)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(tr.runner.calls) != 0 {
		t.Fatalf("skip run must not invoke external tools, got %v", tr.runner.calls)
	}
	if !result.Skipped {
		t.Fatalf("expected skipped result")
	}
	if result.DetectedLanguage != "de" {
		t.Fatalf("detected language = %q, want de (from existing json)", result.DetectedLanguage)
	}
}

func TestPipelineSkipStillRelocatesVideo(t *testing.T) {
	tr := newTestRun(t)
	if err := os.MkdirAll(tr.cfg.OutputDir, 0o755); err != nil {
		t.Fatalf("mk output dir: %v", err)
	}
	srt := filepath.Join(tr.cfg.OutputDir, "demo.srt")
	if err := os.WriteFile(srt, []byte("existing"), 0o644); err != nil {
		t.Fatalf("write srt: %v", err)
	}

	result, err := tr.run(t)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !result.Skipped {
		t.Fatalf("expected skipped result")
	}
	if len(tr.runner.calls) != 0 {
		t.Fatalf("skip run must not invoke external tools, got %v", tr.runner.calls)
	}

	// Finalize still runs on the skipped path.
	want := filepath.Join(tr.cfg.OutputDir, "demo.mp4")
	if result.Video != want {
		t.Fatalf("video location = %q, want %q", result.Video, want)
	}
	if FileExists(tr.cfg.Video) {
		t.Fatalf("skipped run must still move the video into the output dir")
	}
}

func TestPipelineOverwriteRerun(t *testing.T) {
	tr := newTestRun(t)
	tr.cfg.SkipIfExists = false
	if err := os.MkdirAll(tr.cfg.OutputDir, 0o755); err != nil {
		t.Fatalf("mk output dir: %v", err)
	}
	srt := filepath.Join(tr.cfg.OutputDir, "demo.srt")
	if err := os.WriteFile(srt, []byte("stale"), 0o644); err != nil {
		t.Fatalf("write srt: %v", err)
	}

	if _, err := tr.run(t); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(tr.runner.calls) != 2 {
		t.Fatalf("overwrite run must invoke both tools, got %v", tr.runner.calls)
	}

	data, err := os.ReadFile(srt)
	if err != nil {
		t.Fatalf("read srt: %v", err)
	}
	if string(data) == "stale" {
		t.Fatalf("expected .srt to be replaced")
	}
}

func TestPipelineNoOverwrite(t *testing.T) {
	tr := newTestRun(t)
	tr.cfg.SkipIfExists = false
	tr.cfg.Overwrite = false
	if err := os.MkdirAll(tr.cfg.OutputDir, 0o755); err != nil {
		t.Fatalf("mk output dir: %v", err)
	}
	srt := filepath.Join(tr.cfg.OutputDir, "demo.srt")
	if err := os.WriteFile(srt, []byte("existing"), 0o644); err != nil {
		t.Fatalf("write srt: %v", err)
	}

	result, err := tr.run(t)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(tr.runner.calls) != 0 {
		t.Fatalf("disabled overwrite must not invoke tools, got %v", tr.runner.calls)
	}
	if !result.Skipped {
		t.Fatalf("expected skipped result")
	}
}

func TestPipelineKeepWAV(t *testing.T) {
	tr := newTestRun(t)
	tr.cfg.CleanWAV = false

	result, err := tr.run(t)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !FileExists(result.WAV) {
		t.Fatalf("wav must persist when cleaning is disabled")
	}
}

func TestPipelineExtractFailureIsFatal(t *testing.T) {
	tr := newTestRun(t)
	tr.runner.failFFmpeg = true

	_, err := tr.run(t)
	if err == nil {
		t.Fatalf("expected extraction error")
	}
	for _, call := range tr.runner.calls {
		if call == WhisperTool {
			t.Fatalf("whisper must not run after extraction failure")
		}
	}
}

func TestPipelineWhisperFailureIsRecoverable(t *testing.T) {
	tr := newTestRun(t)
	tr.runner.failWhisper = true

	result, err := tr.run(t)
	if err != nil {
		t.Fatalf("non-strict whisper failure must not fail the run: %v", err)
	}
	if result.WhisperSucceeded {
		t.Fatalf("expected whisper_succeeded = false")
	}
	// Cleanup still happened.
	if FileExists(result.WAV) {
		t.Fatalf("wav should be cleaned up even after whisper failure")
	}
	// Video still relocated.
	if result.Video == tr.cfg.Video {
		t.Fatalf("video should still be moved into the output dir")
	}
}

func TestPipelineStrictWhisperFailure(t *testing.T) {
	tr := newTestRun(t)
	tr.runner.failWhisper = true
	tr.cfg.Strict = true

	result, err := tr.run(t)
	if !errors.Is(err, ErrTranscriptionFailed) {
		t.Fatalf("strict run error = %v, want ErrTranscriptionFailed", err)
	}
	if result == nil || result.WhisperSucceeded {
		t.Fatalf("strict failure must still return the degraded result")
	}
}

func TestPipelineFinalizeCollision(t *testing.T) {
	tr := newTestRun(t)
	if err := os.MkdirAll(tr.cfg.OutputDir, 0o755); err != nil {
		t.Fatalf("mk output dir: %v", err)
	}
	occupied := filepath.Join(tr.cfg.OutputDir, "demo.mp4")
	if err := os.WriteFile(occupied, []byte("unrelated"), 0o644); err != nil {
		t.Fatalf("write occupied: %v", err)
	}

	result, err := tr.run(t)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	want := filepath.Join(tr.cfg.OutputDir, "demo_1.mp4")
	if result.Video != want {
		t.Fatalf("video location = %q, want %q", result.Video, want)
	}
	data, err := os.ReadFile(occupied)
	if err != nil {
		t.Fatalf("read occupied: %v", err)
	}
	if string(data) != "unrelated" {
		t.Fatalf("pre-existing file must not be overwritten")
	}
}

func TestPipelineMissingVideo(t *testing.T) {
	cfg := &RunConfig{
		Video:     filepath.Join(t.TempDir(), "nope.mp4"),
		Model:     "small",
		OutputDir: t.TempDir(),
	}
	p := NewPipeline(cfg, WithRunner(&fakeRunner{}), WithLogger(quietLogger()))

	_, err := p.Run(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestPipelineWhisperArgs(t *testing.T) {
	recorder := &argRecorder{}
	videoDir := t.TempDir()
	video := filepath.Join(videoDir, "demo.mp4")
	if err := os.WriteFile(video, []byte("video"), 0o644); err != nil {
		t.Fatalf("write video: %v", err)
	}

	cfg := &RunConfig{
		Video:     video,
		Model:     "medium",
		Language:  "fr",
		Translate: true,
		OutputDir: filepath.Join(t.TempDir(), "demo"),
	}
	p := NewPipeline(cfg, WithRunner(recorder), WithLogger(quietLogger()), WithWorkDir(t.TempDir()))
	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(recorder.invocations) != 2 {
		t.Fatalf("expected 2 invocations, got %d", len(recorder.invocations))
	}

	ffmpeg := recorder.invocations[0]
	wantFFmpeg := []string{
		"-hide_banner", "-loglevel", "error",
		"-i", video,
		"-ar", "16000", "-ac", "1",
		"-c:a", "pcm_s16le",
		filepath.Join(cfg.OutputDir, "demo.wav"),
	}
	if fmt.Sprint(ffmpeg.args) != fmt.Sprint(wantFFmpeg) {
		t.Fatalf("ffmpeg args = %v, want %v", ffmpeg.args, wantFFmpeg)
	}

	whisper := recorder.invocations[1]
	wantWhisper := []string{
		filepath.Join(cfg.OutputDir, "demo.wav"),
		"--model", "medium",
		"--task", "translate",
		"--language", "fr",
	}
	if fmt.Sprint(whisper.args) != fmt.Sprint(wantWhisper) {
		t.Fatalf("whisper args = %v, want %v", whisper.args, wantWhisper)
	}
}

func TestPipelineWhisperArgsAutoDetect(t *testing.T) {
	recorder := &argRecorder{}
	video := filepath.Join(t.TempDir(), "demo.mp4")
	if err := os.WriteFile(video, []byte("video"), 0o644); err != nil {
		t.Fatalf("write video: %v", err)
	}

	cfg := &RunConfig{
		Video:     video,
		Model:     "small",
		OutputDir: filepath.Join(t.TempDir(), "demo"),
	}
	p := NewPipeline(cfg, WithRunner(recorder), WithLogger(quietLogger()), WithWorkDir(t.TempDir()))
	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	whisper := recorder.invocations[1]
	for i, arg := range whisper.args {
		if arg == "--language" {
			t.Fatalf("auto-detect run must not pass --language (arg %d)", i)
		}
	}
	want := []string{filepath.Join(cfg.OutputDir, "demo.wav"), "--model", "small", "--task", "transcribe"}
	if fmt.Sprint(whisper.args) != fmt.Sprint(want) {
		t.Fatalf("whisper args = %v, want %v", whisper.args, want)
	}
}

type invocation struct {
	name string
	args []string
}

// argRecorder records full invocations and simulates only the WAV side
// effect so the pipeline can proceed.
type argRecorder struct {
	invocations []invocation
}

func (r *argRecorder) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	r.invocations = append(r.invocations, invocation{name: name, args: args})
	if name == FFmpegTool {
		return nil, os.WriteFile(args[len(args)-1], []byte("RIFF"), 0o644)
	}
	return nil, nil
}
