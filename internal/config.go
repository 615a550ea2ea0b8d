package internal

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// Models lists the whisper model sizes the CLI accepts.
var Models = []string{"tiny", "base", "small", "medium", "large"}

// DefaultModel is used when neither flags, config, nor prompts choose one.
const DefaultModel = "small"

// Config holds application settings loaded from the config file and
// environment. Per-run values (video, output dir, prompt answers) are
// resolved later into a RunConfig.
type Config struct {
	Model        string
	Language     string
	Translate    bool
	CleanWAV     bool
	Overwrite    bool
	SkipIfExists bool
	Strict       bool
	Plain        bool
	Verbose      bool
	LogFile      string

	// Fixed XDG path (not configurable)
	ConfigDir string

	configFileUsed string
	explicit       map[string]bool
}

//go:embed config.toml
var defaultFS embed.FS

// ensureDefaultFile creates a file in configDir from the embedded default
// if it doesn't exist yet
func ensureDefaultFile(configDir, embedFilename, description string) error {
	filePath := filepath.Join(configDir, embedFilename)

	if FileExists(filePath) {
		return nil
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	defaultContent, err := defaultFS.ReadFile(embedFilename)
	if err != nil {
		return fmt.Errorf("reading embedded default %s: %w", description, err)
	}

	if err := os.WriteFile(filePath, defaultContent, 0644); err != nil {
		return fmt.Errorf("writing default %s: %w", description, err)
	}

	return nil
}

// EnsureDefaultConfig checks if a config file exists in the XDG config
// directory and creates it from the embedded default if it doesn't
func EnsureDefaultConfig(configDir string) error {
	return ensureDefaultFile(configDir, "config.toml", "configuration")
}

// promptableKeys are settings the interactive collector may ask about when
// neither a flag nor the config file/environment pins them down.
var promptableKeys = []string{"model", "language", "translate", "clean"}

// InitConfig initializes Viper and loads configuration
func InitConfig() *Config {
	configDir := filepath.Join(xdg.ConfigHome, "gensubs")

	v := viper.New()

	v.SetDefault("model", DefaultModel)
	v.SetDefault("language", "") // empty means auto-detect
	v.SetDefault("translate", false)
	v.SetDefault("clean", true)
	v.SetDefault("overwrite", true)
	v.SetDefault("skip", true)
	v.SetDefault("strict", false)
	v.SetDefault("plain", false)
	v.SetDefault("verbose", false)
	v.SetDefault("log", "")

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	v.SetEnvPrefix("GENSUBS")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: Error reading config file: %v\n", err)
		}
	}

	// Remember which promptable settings the user pinned via config file or
	// environment, so the collector knows not to ask about them.
	explicit := make(map[string]bool, len(promptableKeys))
	for _, key := range promptableKeys {
		envVar := "GENSUBS_" + strings.ToUpper(key)
		explicit[key] = v.InConfig(key) || os.Getenv(envVar) != ""
	}

	return &Config{
		Model:        v.GetString("model"),
		Language:     v.GetString("language"),
		Translate:    v.GetBool("translate"),
		CleanWAV:     v.GetBool("clean"),
		Overwrite:    v.GetBool("overwrite"),
		SkipIfExists: v.GetBool("skip"),
		Strict:       v.GetBool("strict"),
		Plain:        v.GetBool("plain"),
		Verbose:      v.GetBool("verbose"),
		LogFile:      v.GetString("log"),

		ConfigDir: configDir,

		configFileUsed: v.ConfigFileUsed(),
		explicit:       explicit,
	}
}

// Explicit reports whether the given setting was pinned by the config file
// or the environment, as opposed to carrying its built-in default.
func (c *Config) Explicit(key string) bool {
	return c.explicit[key]
}

// ConfigFileUsed returns the path of the loaded config file, if any.
func (c *Config) ConfigFileUsed() string {
	return c.configFileUsed
}

// ValidateModel checks if the whisper model size is supported
func ValidateModel(model string) error {
	if slices.Contains(Models, model) {
		return nil
	}
	return fmt.Errorf("unsupported model: %s (supported: %s)", model, strings.Join(Models, ", "))
}
