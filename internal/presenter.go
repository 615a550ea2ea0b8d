package internal

import (
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/muesli/termenv"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// Presenter handles all user-facing output. The pipeline calls it
// unconditionally; whether that produces banners and tables or minimal
// line printing is decided once at startup.
type Presenter interface {
	Banner(title, subtitle string)
	ToolStatus(statuses []ToolStatus)
	RunConfigSummary(cfg *RunConfig)
	// StageStart announces a stage and returns the function to call when
	// the stage finished.
	StageStart(description string) func(ok bool)
	Summary(result *RunResult)
	Printf(format string, args ...any)
}

// NewPresenter selects the presentation backend. Plain output is used when
// requested, when stdout is not a terminal, or when NO_COLOR is set.
func NewPresenter(plain bool) Presenter {
	if plain {
		return &plainPresenter{}
	}
	return &richPresenter{color: bannerColors[rand.IntN(len(bannerColors))]}
}

var bannerColors = []termenv.ANSIColor{
	termenv.ANSIMagenta,
	termenv.ANSICyan,
	termenv.ANSIGreen,
	termenv.ANSIYellow,
	termenv.ANSIBlue,
	termenv.ANSIRed,
	termenv.ANSIBrightBlue,
	termenv.ANSIBrightMagenta,
}

func languageOrUnknown(language string) string {
	if language == "" {
		return "Unknown"
	}
	return language
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// getTerminalWidth gets terminal width with fallback
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80
	}

	if width > 10 {
		return width - 4
	}

	return width
}

// richPresenter renders banners, tables and spinners. One random banner
// color is picked per run.
type richPresenter struct {
	color termenv.ANSIColor
}

func (p *richPresenter) Banner(title, subtitle string) {
	fig := figure.NewFigure(title, "slant", true)
	fmt.Println(termenv.String(fig.String()).Foreground(p.color).Bold())
	if subtitle != "" {
		fmt.Println(termenv.String(subtitle).Foreground(p.color))
	}
}

func (p *richPresenter) renderTable(title string, rows [][2]string) {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	if title != "" {
		tw.SetTitle(title)
	}
	for _, row := range rows {
		tw.AppendRow(table.Row{row[0], row[1]})
	}
	tw.SetAllowedRowLength(getTerminalWidth())
	fmt.Println(tw.Render())
}

func (p *richPresenter) ToolStatus(statuses []ToolStatus) {
	rows := make([][2]string, 0, len(statuses))
	for _, status := range statuses {
		mark := termenv.String("✓").Foreground(termenv.ANSIGreen).String()
		if !status.Available {
			mark = termenv.String("✗ missing").Foreground(termenv.ANSIRed).String()
		}
		rows = append(rows, [2]string{status.Name, mark})
	}
	p.renderTable("Tool check", rows)
}

func (p *richPresenter) RunConfigSummary(cfg *RunConfig) {
	language := cfg.Language
	if language == "" {
		language = "Auto-detect"
	}
	logFile := cfg.LogFile
	if logFile == "" {
		logFile = "none"
	}
	p.renderTable("Configuration", [][2]string{
		{"Video", cfg.Video},
		{"Whisper model", cfg.Model},
		{"Source language", language},
		{"Translate to English", yesNo(cfg.Translate)},
		{"Clean .wav", yesNo(cfg.CleanWAV)},
		{"Overwrite .srt", yesNo(cfg.Overwrite)},
		{"Skip if .srt exists", yesNo(cfg.SkipIfExists)},
		{"Output directory", cfg.OutputDir},
		{"Log file", logFile},
	})
}

func (p *richPresenter) StageStart(description string) func(ok bool) {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()

	return func(ok bool) {
		close(stop)
		_ = bar.Finish()
		mark := termenv.String("✓").Foreground(termenv.ANSIGreen)
		if !ok {
			mark = termenv.String("✗").Foreground(termenv.ANSIRed)
		}
		fmt.Printf("%s %s\n", mark, description)
	}
}

func (p *richPresenter) Summary(result *RunResult) {
	srt := result.SRT
	if !FileExists(result.SRT) {
		srt = termenv.String(result.SRT + " (missing)").Foreground(termenv.ANSIRed).String()
	}
	p.renderTable("Result", [][2]string{
		{".srt", srt},
		{"Detected language", languageOrUnknown(result.DetectedLanguage)},
		{"Whisper succeeded", yesNo(result.WhisperSucceeded)},
		{"Video location", result.Video},
		{"Total duration", result.Duration.Truncate(time.Second).String()},
	})
}

func (p *richPresenter) Printf(format string, args ...any) {
	fmt.Printf(format, args...)
}

// plainPresenter prints minimal lines, for non-terminal output and --plain
type plainPresenter struct{}

func (p *plainPresenter) Banner(title, subtitle string) {
	if subtitle != "" {
		fmt.Printf("=== %s === %s\n", title, subtitle)
		return
	}
	fmt.Printf("=== %s ===\n", title)
}

func (p *plainPresenter) ToolStatus(statuses []ToolStatus) {
	for _, status := range statuses {
		state := "OK"
		if !status.Available {
			state = "MISSING"
		}
		fmt.Printf("%s: %s\n", status.Name, state)
	}
}

func (p *plainPresenter) RunConfigSummary(cfg *RunConfig) {
	language := cfg.Language
	if language == "" {
		language = "auto"
	}
	fmt.Printf("Video: %s\n", cfg.Video)
	fmt.Printf("Model: %s\n", cfg.Model)
	fmt.Printf("Language: %s\n", language)
	fmt.Printf("Translate to English: %s\n", yesNo(cfg.Translate))
	fmt.Printf("Clean .wav: %s\n", yesNo(cfg.CleanWAV))
	fmt.Printf("Overwrite .srt: %s\n", yesNo(cfg.Overwrite))
	fmt.Printf("Skip if .srt exists: %s\n", yesNo(cfg.SkipIfExists))
	fmt.Printf("Output directory: %s\n", cfg.OutputDir)
	if cfg.LogFile != "" {
		fmt.Printf("Log file: %s\n", cfg.LogFile)
	}
}

func (p *plainPresenter) StageStart(description string) func(ok bool) {
	fmt.Printf("%s...\n", description)
	return func(ok bool) {
		if ok {
			fmt.Printf("%s: done\n", description)
		} else {
			fmt.Printf("%s: failed\n", description)
		}
	}
}

func (p *plainPresenter) Summary(result *RunResult) {
	state := "(exists)"
	if !FileExists(result.SRT) {
		state = "(missing)"
	}
	fmt.Printf(".srt: %s %s\n", result.SRT, state)
	fmt.Printf("Detected language: %s\n", languageOrUnknown(result.DetectedLanguage))
	fmt.Printf("Whisper succeeded: %s\n", yesNo(result.WhisperSucceeded))
	fmt.Printf("Video location: %s\n", result.Video)
	fmt.Printf("Total duration: %s\n", result.Duration.Truncate(time.Second))
}

func (p *plainPresenter) Printf(format string, args ...any) {
	fmt.Printf(format, args...)
}
