package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// ConfigIssue represents a validation finding.
type ConfigIssue struct {
	Key      string `json:"key"`
	Severity string `json:"severity"` // "error", "warning", "info"
	Message  string `json:"message"`
	Fix      string `json:"fix"`
}

// Validate checks config values and returns a list of issues.
func Validate() []ConfigIssue {
	var issues []ConfigIssue

	level := viper.GetString("log.level")
	if _, err := zerolog.ParseLevel(strings.ToLower(level)); err != nil {
		issues = append(issues, ConfigIssue{
			Key:      "log.level",
			Severity: "error",
			Message:  fmt.Sprintf("log level %q is not recognised", level),
			Fix:      "sheetkit config set log.level info",
		})
	}

	switch f := strings.ToLower(viper.GetString("log.format")); f {
	case "console", "json":
	default:
		issues = append(issues, ConfigIssue{
			Key:      "log.format",
			Severity: "error",
			Message:  fmt.Sprintf("log format %q is not recognised", f),
			Fix:      "sheetkit config set log.format console",
		})
	}

	if dir := viper.GetString("output.dir"); dir != "" {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			issues = append(issues, ConfigIssue{
				Key:      "output.dir",
				Severity: "warning",
				Message:  fmt.Sprintf("output directory %s does not exist", dir),
				Fix:      "mkdir -p " + dir,
			})
		}
	}

	if !viper.GetBool("output.overwrite") {
		issues = append(issues, ConfigIssue{
			Key:      "output.overwrite",
			Severity: "info",
			Message:  "builds fail when the output file already exists",
		})
	}

	return issues
}

// Set sets a config value and saves to disk.
func Set(key, value string) error {
	viper.Set(key, value)
	return SaveConfig()
}

// Get retrieves a config value.
func Get(key string) string {
	return viper.GetString(key)
}

// SaveConfig writes the current config to ~/.sheetkit/config.yaml.
func SaveConfig() error {
	dir := configDir()
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("could not create config directory: %w", err)
	}

	path := filepath.Join(dir, "config.yaml")
	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("could not write config: %w", err)
	}
	return nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// ShowConfig returns a formatted string of the current configuration.
func ShowConfig() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Config: %s\n\n", ConfigPath()))

	sb.WriteString("Output\n")
	sb.WriteString(fmt.Sprintf("  dir:        %s\n", viper.GetString("output.dir")))
	sb.WriteString(fmt.Sprintf("  overwrite:  %t\n", viper.GetBool("output.overwrite")))
	sb.WriteString("\n")

	sb.WriteString("Logging\n")
	sb.WriteString(fmt.Sprintf("  level:      %s\n", viper.GetString("log.level")))
	sb.WriteString(fmt.Sprintf("  format:     %s\n", viper.GetString("log.format")))
	sb.WriteString("\n")

	sb.WriteString("Header style\n")
	sb.WriteString(fmt.Sprintf("  bold:       %t\n", viper.GetBool("style.header.bold")))
	sb.WriteString(fmt.Sprintf("  font_size:  %g\n", viper.GetFloat64("style.header.font_size")))
	sb.WriteString(fmt.Sprintf("  font_color: %s\n", viper.GetString("style.header.font_color")))
	sb.WriteString(fmt.Sprintf("  fill_color: %s\n", viper.GetString("style.header.fill_color")))
	sb.WriteString("\n")

	sb.WriteString("Server\n")
	sb.WriteString(fmt.Sprintf("  addr:       %s\n", viper.GetString("server.addr")))

	return sb.String()
}
