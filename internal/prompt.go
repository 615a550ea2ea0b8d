package internal

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
)

// Prompter asks the user for configuration values. When the process is not
// attached to an interactive terminal every method returns its default
// without asking, so scripted runs never block on stdin.
type Prompter struct {
	// A single scanner for the prompter's lifetime: bufio reads ahead, so a
	// per-question scanner would swallow answers to later questions.
	in          *bufio.Scanner
	out         io.Writer
	interactive bool
}

// NewPrompter creates a prompter bound to stdin/stdout
func NewPrompter() *Prompter {
	fd := os.Stdin.Fd()
	return &Prompter{
		in:          bufio.NewScanner(os.Stdin),
		out:         os.Stdout,
		interactive: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
	}
}

// NewPrompterIO creates a prompter with explicit streams, used in tests
func NewPrompterIO(in io.Reader, out io.Writer, interactive bool) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out, interactive: interactive}
}

// Interactive reports whether prompts will actually be shown.
func (p *Prompter) Interactive() bool {
	return p.interactive
}

func (p *Prompter) readLine() string {
	if p.in.Scan() {
		return strings.TrimSpace(p.in.Text())
	}
	return ""
}

// Choice asks the user to pick one of options, accepting either the 1-based
// index or the literal value. Empty input selects the default.
func (p *Prompter) Choice(prompt string, options []string, def string) string {
	if !p.interactive {
		return def
	}

	for i, opt := range options {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, opt)
	}
	for {
		fmt.Fprintf(p.out, "%s (1-%d) [default %s]: ", prompt, len(options), def)
		resp := p.readLine()
		if resp == "" {
			return def
		}
		if idx, err := strconv.Atoi(resp); err == nil {
			if idx >= 1 && idx <= len(options) {
				return options[idx-1]
			}
		} else {
			for _, opt := range options {
				if resp == opt {
					return opt
				}
			}
		}
		fmt.Fprintln(p.out, "Invalid choice.")
	}
}

// Text asks for a free-form value; empty input selects the default.
func (p *Prompter) Text(prompt, def string) string {
	if !p.interactive {
		return def
	}

	if def != "" {
		fmt.Fprintf(p.out, "%s [default %s]: ", prompt, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", prompt)
	}
	if resp := p.readLine(); resp != "" {
		return resp
	}
	return def
}

// YesNo asks a yes/no question; empty input selects the default.
func (p *Prompter) YesNo(prompt string, def bool) bool {
	if !p.interactive {
		return def
	}

	suffix := "Y/n"
	if !def {
		suffix = "y/N"
	}
	for {
		fmt.Fprintf(p.out, "%s [%s]: ", prompt, suffix)
		switch strings.ToLower(p.readLine()) {
		case "":
			return def
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
		fmt.Fprintln(p.out, "Answer yes or no.")
	}
}
