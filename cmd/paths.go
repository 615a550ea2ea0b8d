package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// pathsCmd represents the paths command
var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Show paths used by the application",
	Example: `  # Show all application paths
  gensubs paths`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Config directory: %s\n", config.ConfigDir)
		if used := config.ConfigFileUsed(); used != "" {
			fmt.Printf("Config file: %s\n", used)
		} else {
			fmt.Println("Config file: none")
		}
	},
}

func init() {
	rootCmd.AddCommand(pathsCmd)
}
