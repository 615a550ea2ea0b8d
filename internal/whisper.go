package internal

import (
	"context"
	"log/slog"
)

// Whisper invokes the whisper CLI against an extracted audio file. Whisper
// drops its output artifacts (.srt, .json, ...) in the process's working
// directory as a side effect; the pipeline relocates them afterwards.
type Whisper struct {
	cmdRunner CommandRunner
	logger    *slog.Logger
}

// NewWhisper creates a new whisper invoker
func NewWhisper(cmdRunner CommandRunner, logger *slog.Logger) *Whisper {
	return &Whisper{
		cmdRunner: cmdRunner,
		logger:    logger,
	}
}

// Transcribe runs whisper on the audio file. An empty language means
// auto-detection; translate switches the task from transcription to
// translation into English.
func (w *Whisper) Transcribe(ctx context.Context, wav, model, language string, translate bool) error {
	task := "transcribe"
	if translate {
		task = "translate"
	}

	args := []string{wav, "--model", model, "--task", task}
	if language != "" {
		args = append(args, "--language", language)
	}

	w.logger.Debug("running whisper", "wav", wav, "model", model, "task", task)

	output, err := w.cmdRunner.Run(ctx, WhisperTool, args...)
	if err != nil {
		return commandError(WhisperTool, output, err)
	}
	return nil
}
