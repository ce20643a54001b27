// Package config manages sheetkit configuration from files and environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/klytics/sheetkit/internal/formats/xlsx"
	"github.com/klytics/sheetkit/internal/workbook"
)

// Config holds the application configuration.
type Config struct {
	Output struct {
		Dir       string `mapstructure:"dir"`
		Overwrite bool   `mapstructure:"overwrite"`
	} `mapstructure:"output"`
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
	Server struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"server"`
	Style struct {
		Header xlsx.Style `mapstructure:"header"`
	} `mapstructure:"style"`
}

// Load reads ~/.sheetkit/config.yaml, a .env file in the working directory,
// and SHEETKIT_* environment variables.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file. An empty file uses the
// default location, where a missing file is not an error.
func LoadFile(file string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not read .env: %w", err)
	}

	if file != "" {
		viper.SetConfigFile(file)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(configDir())
	}

	setDefaults()

	// Environment variable overrides
	viper.SetEnvPrefix("SHEETKIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("could not read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	header := xlsx.DefaultHeaderStyle()

	viper.SetDefault("output.dir", "")
	viper.SetDefault("output.overwrite", true)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("style.header.bold", header.Bold)
	viper.SetDefault("style.header.font_size", header.FontSize)
	viper.SetDefault("style.header.font_color", header.FontColor)
	viper.SetDefault("style.header.fill_color", header.FillColor)
}

// OverwritePolicy maps output.overwrite onto the workbook policy.
func (c *Config) OverwritePolicy() workbook.OverwritePolicy {
	if c.Output.Overwrite {
		return workbook.Overwrite
	}
	return workbook.FailIfExists
}

// ResolveOutput joins a relative output path onto output.dir.
func (c *Config) ResolveOutput(path string) string {
	if c.Output.Dir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Output.Dir, path)
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sheetkit"
	}
	return filepath.Join(home, ".sheetkit")
}

// Current returns the settings already loaded into viper, falling back to
// defaults for anything unset.
func Current() (*Config, error) {
	setDefaults()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
