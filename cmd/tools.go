package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mreynaud/gensubs/internal"
)

// toolsCmd reports availability of the required external tools
var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Check availability of ffmpeg and whisper",
	Example: `  # Verify the required external tools are in PATH
  gensubs tools`,
	RunE: func(cmd *cobra.Command, args []string) error {
		statuses := internal.CheckTools()
		presenter := internal.NewPresenter(plainOutput(cmd))
		presenter.ToolStatus(statuses)
		return internal.RequireTools(statuses)
	},
}

func init() {
	toolsCmd.Flags().Bool("plain", false, "Disable rich output")
	rootCmd.AddCommand(toolsCmd)
}
