package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/mreynaud/gensubs/internal"
)

var (
	config *internal.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gensubs [video file]",
	Short: "Generate subtitles from a video with FFmpeg and Whisper",
	Long: `GenSubs produces subtitle files from a video.

It extracts a Whisper-friendly audio track with FFmpeg (mono, 16 kHz,
16-bit PCM), runs the whisper CLI to transcribe or translate it, and
collects the resulting subtitle files into an output directory named
after the video.

Both ffmpeg and whisper must be available in PATH.`,
	Example: `  # Generate subtitles, answering prompts interactively
  gensubs demo.mp4

  # Fully scripted: small model, French audio, no prompts
  gensubs demo.mp4 --model small --language fr --yes

  # Translate to English and keep the intermediate .wav
  gensubs demo.mp4 --translate-to-en --no-clean --yes

  # Re-run even though demo/demo.srt already exists
  gensubs demo.mp4 --no-skip --yes`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		video := args[0]

		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			config.Verbose = true
		}

		presenter := internal.NewPresenter(plainOutput(cmd))
		presenter.Banner("GenSubs", "v"+version)

		if !internal.FileExists(video) {
			return fmt.Errorf("video %s: %w", video, internal.ErrNotFound)
		}

		statuses := internal.CheckTools()
		presenter.ToolStatus(statuses)
		if err := internal.RequireTools(statuses); err != nil {
			return err
		}

		prompter := internal.NewPrompter()
		runCfg, err := internal.CollectRunConfig(cmd, config, video, prompter)
		if err != nil {
			return err
		}

		presenter.RunConfigSummary(runCfg)

		if yes, _ := cmd.Flags().GetBool("yes"); !yes && prompter.Interactive() {
			if !prompter.YesNo("Start processing?", true) {
				presenter.Printf("Cancelled.\n")
				return nil
			}
		}

		logger, closeLogger, err := internal.NewLogger(runCfg.LogFile, config.Verbose)
		if err != nil {
			return err
		}
		defer closeLogger()

		logger.Info("starting run",
			"video", runCfg.Video,
			"model", runCfg.Model,
			"language", runCfg.Language,
			"translate", runCfg.Translate,
			"output_dir", runCfg.OutputDir)

		pipeline := internal.NewPipeline(runCfg,
			internal.WithRunner(&internal.StreamedCommandRunner{Logger: logger}),
			internal.WithLogger(logger),
			internal.WithPresenter(presenter),
		)

		result, err := pipeline.Run(cmd.Context())
		if result != nil {
			presenter.Summary(result)
			logger.Info("run finished",
				"srt_exists", internal.FileExists(result.SRT),
				"detected_language", result.DetectedLanguage,
				"whisper_succeeded", result.WhisperSucceeded,
				"elapsed", result.Duration.Truncate(time.Second).String())
		}
		return err
	},
}

// plainOutput decides whether rich presentation is off for this run
func plainOutput(cmd *cobra.Command) bool {
	if plain, _ := cmd.Flags().GetBool("plain"); plain {
		return true
	}
	if config.Plain || os.Getenv("NO_COLOR") != "" {
		return true
	}
	fd := os.Stdout.Fd()
	return !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	config = internal.InitConfig()

	if err := internal.EnsureDirs(config.ConfigDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating config directory: %v\n", err)
		os.Exit(1)
	}

	if err := internal.EnsureDefaultConfig(config.ConfigDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to ensure default config: %v\n", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nInterrupted.")

		// Cancelling the context kills in-flight subprocesses; the run then
		// unwinds with an error and a non-zero exit. Prompts block on stdin
		// and never observe the cancellation, so force the exit after a
		// short grace period.
		cancel()
		time.Sleep(2 * time.Second)
		os.Exit(1)
	}()

	rootCmd.SetContext(ctx)

	return rootCmd.Execute()
}

func init() {
	internal.AddPipelineFlags(rootCmd)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for debugging")
}
