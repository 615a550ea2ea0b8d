package internal

import (
	"context"
	"log/slog"
)

// Extractor produces the normalized audio track whisper expects using FFmpeg
type Extractor struct {
	cmdRunner CommandRunner
	logger    *slog.Logger
}

// NewExtractor creates a new audio extractor
func NewExtractor(cmdRunner CommandRunner, logger *slog.Logger) *Extractor {
	return &Extractor{
		cmdRunner: cmdRunner,
		logger:    logger,
	}
}

// Extract decodes the video's audio into a mono 16 kHz signed 16-bit PCM
// WAV file. Whisper's accuracy depends on receiving exactly this profile.
func (e *Extractor) Extract(ctx context.Context, video, wav string) error {
	e.logger.Debug("extracting audio", "video", video, "wav", wav)

	output, err := e.cmdRunner.Run(ctx, FFmpegTool,
		"-hide_banner",
		"-loglevel", "error",
		"-i", video,
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		wav)

	if err != nil {
		return commandError(FFmpegTool, output, err)
	}
	return nil
}
