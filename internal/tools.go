package internal

import (
	"fmt"
	"os/exec"
	"strings"
)

// Names of the external tools the pipeline depends on. There is no
// in-process fallback for either.
const (
	FFmpegTool  = "ffmpeg"
	WhisperTool = "whisper"
)

// ToolStatus reports the availability of one external tool.
type ToolStatus struct {
	Name      string
	Available bool
}

// CheckTools probes the search path for the required external tools.
// Pure query, no side effects.
func CheckTools() []ToolStatus {
	tools := []string{FFmpegTool, WhisperTool}
	statuses := make([]ToolStatus, 0, len(tools))
	for _, name := range tools {
		_, err := exec.LookPath(name)
		statuses = append(statuses, ToolStatus{Name: name, Available: err == nil})
	}
	return statuses
}

// MissingTools returns the names of unavailable tools, empty when all are
// present.
func MissingTools(statuses []ToolStatus) []string {
	var missing []string
	for _, status := range statuses {
		if !status.Available {
			missing = append(missing, status.Name)
		}
	}
	return missing
}

// RequireTools turns missing tools into the fatal error the pipeline
// aborts with.
func RequireTools(statuses []ToolStatus) error {
	if missing := MissingTools(statuses); len(missing) > 0 {
		return fmt.Errorf("required tool(s) not found in PATH: %s", strings.Join(missing, ", "))
	}
	return nil
}
