package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound marks a missing input file.
var ErrNotFound = errors.New("not found")

// WhisperExts are the output files whisper writes next to its working
// directory, named after the input's stem.
var WhisperExts = []string{".srt", ".json", ".tsv", ".txt", ".vtt"}

// Artifacts holds the stem-derived paths for one run. The intermediate WAV
// and the expected outputs all live in the output directory.
type Artifacts struct {
	Video     string
	Stem      string
	OutputDir string
	WAV       string
	SRT       string
	JSON      string
}

// Stem returns a file's base name without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ResolveInput validates the source video and derives the artifact paths.
// No side effects.
func ResolveInput(video, outputDir string) (*Artifacts, error) {
	if _, err := os.Stat(video); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("video %s: %w", video, ErrNotFound)
		}
		return nil, fmt.Errorf("stat video %s: %w", video, err)
	}

	stem := Stem(video)
	return &Artifacts{
		Video:     video,
		Stem:      stem,
		OutputDir: outputDir,
		WAV:       filepath.Join(outputDir, stem+".wav"),
		SRT:       filepath.Join(outputDir, stem+".srt"),
		JSON:      filepath.Join(outputDir, stem+".json"),
	}, nil
}
