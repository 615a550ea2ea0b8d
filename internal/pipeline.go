package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// ErrTranscriptionFailed is returned from Run in strict mode when whisper
// exited non-zero. Without strict mode the failure is only recorded on the
// result so cleanup and reporting still happen.
var ErrTranscriptionFailed = errors.New("transcription failed")

// RunResult records the outcome of one pipeline run, used only for
// reporting.
type RunResult struct {
	Video            string // possibly relocated into the output directory
	WAV              string
	SRT              string
	DetectedLanguage string // empty means unknown
	Duration         time.Duration
	WhisperSucceeded bool
	Skipped          bool
}

// Pipeline runs the extract → transcribe → relocate → cleanup → finalize
// sequence for a single video. Entirely synchronous; each external tool
// invocation blocks until the subprocess exits.
type Pipeline struct {
	cfg       *RunConfig
	runner    CommandRunner
	logger    *slog.Logger
	presenter Presenter
	workDir   string
}

// NewPipeline creates a pipeline for the given run configuration
func NewPipeline(cfg *RunConfig, options ...PipelineOption) *Pipeline {
	p := &Pipeline{
		cfg:       cfg,
		runner:    &DefaultCommandRunner{},
		logger:    slog.Default(),
		presenter: NewPresenter(true),
		workDir:   ".",
	}
	for _, option := range options {
		option(p)
	}
	return p
}

// PipelineOption customizes Pipeline creation
type PipelineOption func(*Pipeline)

// WithRunner sets a custom command runner
func WithRunner(runner CommandRunner) PipelineOption {
	return func(p *Pipeline) {
		p.runner = runner
	}
}

// WithLogger sets a custom logger
func WithLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithPresenter sets a custom presenter
func WithPresenter(presenter Presenter) PipelineOption {
	return func(p *Pipeline) {
		p.presenter = presenter
	}
}

// WithWorkDir sets the directory whisper drops its outputs in
func WithWorkDir(dir string) PipelineOption {
	return func(p *Pipeline) {
		p.workDir = dir
	}
}

// Run executes the pipeline. Extraction failure is fatal; transcription
// failure is recorded and the remaining best-effort stages still run.
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	start := time.Now()

	art, err := ResolveInput(p.cfg.Video, p.cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := EnsureDirs(art.OutputDir); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	result := &RunResult{Video: art.Video, WAV: art.WAV, SRT: art.SRT}

	// Skip gate: an existing .srt bypasses extraction and transcription
	// unless the overwrite policy says otherwise. The video is still moved
	// into the output directory.
	if FileExists(art.SRT) && (p.cfg.SkipIfExists || !p.cfg.Overwrite) {
		p.logger.Info("subtitles already exist, skipping extraction and transcription", "srt", art.SRT)
		result.Skipped = true
		result.WhisperSucceeded = true
		result.Video = p.finalizeVideo(art)
		result.DetectedLanguage = DetectedLanguage(art.JSON)
		result.Duration = time.Since(start)
		return result, nil
	}

	done := p.presenter.StageStart("Extracting audio")
	extractor := NewExtractor(p.runner, p.logger)
	if err := extractor.Extract(ctx, art.Video, art.WAV); err != nil {
		done(false)
		return nil, fmt.Errorf("extracting audio: %w", err)
	}
	done(true)
	p.logger.Debug("audio extracted", "wav", art.WAV)

	done = p.presenter.StageStart("Transcribing with whisper")
	whisper := NewWhisper(p.runner, p.logger)
	if err := whisper.Transcribe(ctx, art.WAV, p.cfg.Model, p.cfg.Language, p.cfg.Translate); err != nil {
		done(false)
		p.logger.Error("whisper failed", "error", err)
		result.WhisperSucceeded = false
	} else {
		done(true)
		result.WhisperSucceeded = true
	}

	p.relocateOutputs(art)

	if p.cfg.CleanWAV && FileExists(art.WAV) {
		if err := os.Remove(art.WAV); err != nil {
			p.logger.Warn("failed to remove intermediate wav", "wav", art.WAV, "error", err)
		} else {
			p.logger.Debug("intermediate wav removed", "wav", art.WAV)
		}
	}

	result.Video = p.finalizeVideo(art)
	result.DetectedLanguage = DetectedLanguage(art.JSON)
	result.Duration = time.Since(start)

	if p.cfg.Strict && !result.WhisperSucceeded {
		return result, ErrTranscriptionFailed
	}
	return result, nil
}

// relocateOutputs moves whisper's same-stem artifacts from the working
// directory into the output directory. Move failures are warnings only.
func (p *Pipeline) relocateOutputs(art *Artifacts) {
	for _, ext := range WhisperExts {
		src := filepath.Join(p.workDir, art.Stem+ext)
		if !FileExists(src) {
			continue
		}
		dst := filepath.Join(art.OutputDir, art.Stem+ext)
		if err := MoveFile(src, dst); err != nil {
			p.logger.Warn("could not move whisper output", "src", src, "dst", dst, "error", err)
			continue
		}
		p.logger.Debug("moved whisper output", "src", src, "dst", dst)
	}
}

// finalizeVideo moves the source video into the output directory, picking a
// numerically suffixed name on collision. On failure the video stays where
// it was and the original path is returned.
func (p *Pipeline) finalizeVideo(art *Artifacts) string {
	dst := UniqueDestination(art.OutputDir, filepath.Base(art.Video))
	if err := MoveFile(art.Video, dst); err != nil {
		p.logger.Warn("failed to move video into output directory", "video", art.Video, "dst", dst, "error", err)
		return art.Video
	}
	p.logger.Debug("moved video", "src", art.Video, "dst", dst)
	return dst
}
