package internal

import (
	"strings"

	"github.com/spf13/cobra"
)

// AddPipelineFlags adds the flags controlling a subtitle run
func AddPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("model", "m", "", "Whisper model size ("+strings.Join(Models, ", ")+")")
	cmd.Flags().StringP("language", "l", "", "Source audio language (e.g. en, fr); empty = auto-detect")
	cmd.Flags().Bool("translate-to-en", false, "Translate to English instead of transcribing")
	cmd.Flags().Bool("no-clean", false, "Keep the intermediate .wav file")
	cmd.Flags().Bool("no-overwrite", false, "Do not re-run whisper when the .srt already exists")
	cmd.Flags().Bool("no-skip", false, "Do not skip processing when the .srt already exists")
	cmd.Flags().Bool("strict", false, "Treat a failed transcription as a fatal error")
	cmd.Flags().StringP("output-dir", "o", "", "Output directory (default: ./<video stem>)")
	cmd.Flags().String("log", "", "Append run logs to this file")
	cmd.Flags().Bool("plain", false, "Disable banners, tables and spinners")
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
