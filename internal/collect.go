package internal

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RunConfig is the immutable record of one pipeline invocation. It is
// assembled once, before the pipeline starts, and never mutated afterwards.
type RunConfig struct {
	Video        string
	Model        string
	Language     string // empty means auto-detect
	Translate    bool
	CleanWAV     bool
	Overwrite    bool
	SkipIfExists bool
	Strict       bool
	OutputDir    string
	LogFile      string
}

// CollectRunConfig resolves every run setting in a single pass. For each
// field an explicit flag wins, then a value pinned via config file or
// environment, then an interactive prompt (tty only), then the default.
func CollectRunConfig(cmd *cobra.Command, cfg *Config, video string, prompter *Prompter) (*RunConfig, error) {
	flags := cmd.Flags()

	model := cfg.Model
	if flags.Changed("model") {
		model, _ = flags.GetString("model")
	} else if !cfg.Explicit("model") {
		model = prompter.Choice("Choose whisper model size", Models, cfg.Model)
	}
	if err := ValidateModel(model); err != nil {
		return nil, err
	}

	language := cfg.Language
	if flags.Changed("language") {
		language, _ = flags.GetString("language")
	} else if !cfg.Explicit("language") {
		language = prompter.Text("Source audio language (e.g. en, fr, es) [auto-detect]", cfg.Language)
	}

	translate := cfg.Translate
	if flags.Changed("translate-to-en") {
		translate, _ = flags.GetBool("translate-to-en")
	} else if !cfg.Explicit("translate") {
		translate = prompter.YesNo("Translate to English?", cfg.Translate)
	}

	clean := cfg.CleanWAV
	if flags.Changed("no-clean") {
		noClean, _ := flags.GetBool("no-clean")
		clean = !noClean
	} else if !cfg.Explicit("clean") {
		clean = prompter.YesNo("Remove the intermediate .wav after the run?", cfg.CleanWAV)
	}

	overwrite := cfg.Overwrite
	if flags.Changed("no-overwrite") {
		noOverwrite, _ := flags.GetBool("no-overwrite")
		overwrite = !noOverwrite
	}

	skip := cfg.SkipIfExists
	if flags.Changed("no-skip") {
		noSkip, _ := flags.GetBool("no-skip")
		skip = !noSkip
	}

	strict := cfg.Strict
	if flags.Changed("strict") {
		strict, _ = flags.GetBool("strict")
	}

	outputDir := ""
	if flags.Changed("output-dir") {
		outputDir, _ = flags.GetString("output-dir")
	} else {
		outputDir = prompter.Text(fmt.Sprintf("Output folder name (default: %q)", Stem(video)), Stem(video))
	}
	if outputDir == "" {
		outputDir = Stem(video)
	}

	logFile := cfg.LogFile
	if flags.Changed("log") {
		logFile, _ = flags.GetString("log")
	}

	return &RunConfig{
		Video:        video,
		Model:        model,
		Language:     language,
		Translate:    translate,
		CleanWAV:     clean,
		Overwrite:    overwrite,
		SkipIfExists: skip,
		Strict:       strict,
		OutputDir:    outputDir,
		LogFile:      logFile,
	}, nil
}
