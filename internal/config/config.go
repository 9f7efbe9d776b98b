package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the application configuration.
type Config struct {
	Log struct {
		Level  string `koanf:"level"`
		Format string `koanf:"format"`
	} `koanf:"log"`

	GitHub struct {
		Token   string `koanf:"token"`
		BaseURL string `koanf:"base_url"`
	} `koanf:"github"`

	AIService struct {
		BaseURL string `koanf:"base_url"`
		APIKey  string `koanf:"api_key"`
	} `koanf:"aiservice"`

	Pipeline struct {
		MaxFilesToFetch     int  `koanf:"max_files_to_fetch"`
		ContextLines        int  `koanf:"context_lines"`
		IncludeCommits      bool `koanf:"include_commits"`
		IncludeFileContents bool `koanf:"include_file_contents"`
		SkipBinaryFiles     bool `koanf:"skip_binary_files"`
		SkipGeneratedFiles  bool `koanf:"skip_generated_files"`
	} `koanf:"pipeline"`
}

// Load reads configuration from defaults, an optional TOML file, and
// REVIEWLANE_-prefixed environment variables, in that order of precedence.
func Load(configPath string) (*Config, error) {
	var k = koanf.New(".")

	k.Load(confmap.Provider(map[string]interface{}{
		"log.level":                      "info",
		"log.format":                     "console",
		"github.base_url":                "https://api.github.com",
		"pipeline.max_files_to_fetch":    50,
		"pipeline.context_lines":         3,
		"pipeline.include_commits":       true,
		"pipeline.include_file_contents": true,
		"pipeline.skip_binary_files":     true,
		"pipeline.skip_generated_files":  true,
	}, "."), nil)

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
	} else {
		defaultPaths := []string{"./reviewlane.toml", "$HOME/.reviewlane.toml"}
		for _, path := range defaultPaths {
			path = os.ExpandEnv(path)
			if _, err := os.Stat(path); err == nil {
				if err := k.Load(file.Provider(path), toml.Parser()); err == nil {
					break
				}
			}
		}
	}

	k.Load(env.Provider("REVIEWLANE_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "REVIEWLANE_")), "_", ".", -1)
	}), nil)

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	return &config, nil
}
