package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/a11ykraft/a11ykraft/internal/domain"
	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file looked up by Load.
const FileName = ".a11ykraft.yaml"

// Environment variables that override file values.
const (
	EnvLevel    = "A11YKRAFT_LEVEL"
	EnvLanguage = "A11YKRAFT_LANGUAGE"
	EnvProvider = "A11YKRAFT_FIX_PROVIDER"
)

// YAMLLoader implements domain.ConfigLoader by reading .a11ykraft.yaml.
type YAMLLoader struct {
	getenv func(string) string
}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{getenv: os.Getenv} }

// NewWithEnv creates a YAMLLoader that reads overrides through getenv.
func NewWithEnv(getenv func(string) string) *YAMLLoader { return &YAMLLoader{getenv: getenv} }

// Load reads .a11ykraft.yaml from dir.
// Returns DefaultConfig plus environment overrides if the file does not exist.
func (l *YAMLLoader) Load(dir string) (domain.ProjectConfig, error) {
	return l.load(filepath.Join(dir, FileName), false)
}

// LoadFile reads an explicit config file. A missing file is an error.
func (l *YAMLLoader) LoadFile(path string) (domain.ProjectConfig, error) {
	return l.load(path, true)
}

func (l *YAMLLoader) load(path string, required bool) (domain.ProjectConfig, error) {
	cfg := domain.DefaultConfig()
	name := filepath.Base(path)

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist) && !required:
	case err != nil:
		return domain.ProjectConfig{}, fmt.Errorf("reading %s: %w", name, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return domain.ProjectConfig{}, fmt.Errorf("parsing %s: %w", name, err)
		}
	}

	cfg = applyEnv(cfg, l.getenv)

	// Validate after overrides so a bad environment value is caught too.
	if err := cfg.Validate(); err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("invalid %s: %w", name, err)
	}

	return withFixDefaults(cfg), nil
}

// applyEnv overlays non-empty environment values on cfg.
func applyEnv(cfg domain.ProjectConfig, getenv func(string) string) domain.ProjectConfig {
	if getenv == nil {
		return cfg
	}
	if v := strings.TrimSpace(getenv(EnvLevel)); v != "" {
		cfg.Level = v
	}
	if v := strings.TrimSpace(getenv(EnvLanguage)); v != "" {
		cfg.Language = v
	}
	if v := strings.TrimSpace(getenv(EnvProvider)); v != "" {
		cfg.FixGenerator.Provider = v
	}
	return cfg
}

// withFixDefaults fills unset fix generator fields for enabled providers.
func withFixDefaults(cfg domain.ProjectConfig) domain.ProjectConfig {
	fg := &cfg.FixGenerator
	if !fg.Enabled() {
		return cfg
	}
	if fg.Model == "" {
		fg.Model = domain.DefaultModel
	}
	if fg.APIKeyEnv == "" {
		fg.APIKeyEnv = domain.DefaultAPIKeyEnv
	}
	if fg.Timeout == 0 {
		fg.Timeout = domain.DefaultFixTimeout
	}
	if fg.MaxFixes == 0 {
		fg.MaxFixes = domain.DefaultMaxFixes
	}
	return cfg
}
