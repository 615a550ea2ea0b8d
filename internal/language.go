package internal

import (
	"encoding/json"
	"os"
)

// companionMetadata is the slice of whisper's JSON side-output we care
// about. Older whisper builds used "language_detected".
type companionMetadata struct {
	Language         string `json:"language"`
	LanguageDetected string `json:"language_detected"`
}

// DetectedLanguage reads the detected language code from whisper's
// companion JSON artifact. Absent or malformed content yields "" and is
// never an error: language detection is best effort and must not fail a
// run that already produced subtitles.
func DetectedLanguage(jsonPath string) string {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return ""
	}

	var meta companionMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return ""
	}

	if meta.Language != "" {
		return meta.Language
	}
	return meta.LanguageDetected
}
