package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// YAMLConfig represents the complete worldengine.yaml file structure. Any
// field left unset falls back to the built-in default for that world kind.
type YAMLConfig struct {
	Debate    *DebateConfig    `yaml:"debate"`
	Game      *GameConfig      `yaml:"game"`
	Society   *SocietyConfig   `yaml:"society"`
	Logic     *LogicConfig     `yaml:"logic"`
	Queue     *QueueConfig     `yaml:"queue"`
	Retention *RetentionConfig `yaml:"retention"`
}

// Initialize loads, merges, and validates configuration from configDir.
// This is the primary entry point for configuration loading.
//
// Steps performed:
//  1. Load worldengine.yaml from configDir (missing file is not an error —
//     built-in defaults apply)
//  2. Expand environment variables
//  3. Merge built-in defaults with user overrides (user wins)
//  4. Validate the merged configuration
//  5. Return Config ready for use
func Initialize(_ context.Context, configDir string) (*Config, error) {
	log := slog.With("config_dir", configDir)
	log.Info("Initializing configuration")

	yamlCfg, err := loadYAMLConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	cfg := Defaults()
	if yamlCfg.Debate != nil {
		if err := mergo.Merge(&cfg.Debate, *yamlCfg.Debate, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge debate config: %w", err)
		}
	}
	if yamlCfg.Game != nil {
		if err := mergo.Merge(&cfg.Game, *yamlCfg.Game, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge game config: %w", err)
		}
	}
	if yamlCfg.Society != nil {
		if err := mergo.Merge(&cfg.Society, *yamlCfg.Society, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge society config: %w", err)
		}
	}
	if yamlCfg.Logic != nil {
		if err := mergo.Merge(&cfg.Logic, *yamlCfg.Logic, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge logic config: %w", err)
		}
	}
	if yamlCfg.Queue != nil {
		if err := mergo.Merge(&cfg.Queue, *yamlCfg.Queue, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge queue config: %w", err)
		}
	}
	if yamlCfg.Retention != nil {
		if err := mergo.Merge(&cfg.Retention, *yamlCfg.Retention, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge retention config: %w", err)
		}
	}
	cfg.configDir = configDir

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	log.Info("Configuration initialized successfully")
	return &cfg, nil
}

func loadYAMLConfig(configDir string) (*YAMLConfig, error) {
	path := filepath.Join(configDir, "worldengine.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Built-in defaults alone are a valid configuration.
			return &YAMLConfig{}, nil
		}
		return nil, err
	}

	// Expand environment variables (e.g. ${REDIS_URL}) before parsing.
	data = ExpandEnv(data)

	var cfg YAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	return &cfg, nil
}

var structValidator = validator.New()

func validateConfig(cfg *Config) error {
	if err := structValidator.Struct(cfg.Game); err != nil {
		return NewValidationError("game", "", "", err)
	}
	if err := structValidator.Struct(cfg.Society); err != nil {
		return NewValidationError("society", "", "", err)
	}
	if err := structValidator.Struct(cfg.Logic); err != nil {
		return NewValidationError("logic", "", "", err)
	}
	if err := structValidator.Struct(cfg.Debate); err != nil {
		return NewValidationError("debate", "", "", err)
	}
	if err := structValidator.Struct(cfg.Retention); err != nil {
		return NewValidationError("retention", "", "", err)
	}
	return nil
}
