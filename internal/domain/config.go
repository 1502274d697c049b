package domain

import (
	"fmt"
	"time"
)

// Analyzer names, in execution priority order.
const (
	AnalyzerMetadata = "metadata"
	AnalyzerHeadings = "headings"
	AnalyzerImages   = "images"
	AnalyzerTables   = "tables"
	AnalyzerLinks    = "links"
)

// ValidAnalyzers enumerates all built-in analyzer names in priority order.
var ValidAnalyzers = []string{
	AnalyzerMetadata, AnalyzerHeadings, AnalyzerImages, AnalyzerTables, AnalyzerLinks,
}

var analyzerPriority = map[string]int{
	AnalyzerMetadata: 1,
	AnalyzerHeadings: 2,
	AnalyzerImages:   3,
	AnalyzerTables:   4,
	AnalyzerLinks:    5,
}

// UnknownPriority sorts analyzers without a fixed priority last.
const UnknownPriority = 99

// AnalyzerPriority returns the execution priority of an analyzer name.
func AnalyzerPriority(name string) int {
	if p, ok := analyzerPriority[name]; ok {
		return p
	}
	return UnknownPriority
}

// Fix generator providers.
const (
	ProviderNone   = "none"
	ProviderOpenAI = "openai"
)

// ProjectConfig holds configuration loaded from .a11ykraft.yaml.
type ProjectConfig struct {
	Level        string             `yaml:"level"         json:"level,omitempty"`
	Language     string             `yaml:"language"      json:"language,omitempty"`
	Analyzers    []string           `yaml:"analyzers"     json:"analyzers,omitempty"`
	Skip         []string           `yaml:"skip"          json:"skip,omitempty"`
	Parallelism  int                `yaml:"parallelism"   json:"parallelism,omitempty"`
	MinScore     int                `yaml:"min_score"     json:"min_score,omitempty"`
	History      *bool              `yaml:"history"       json:"history,omitempty"`
	Cache        *bool              `yaml:"cache"         json:"cache,omitempty"`
	FixGenerator FixGeneratorConfig `yaml:"fix_generator" json:"fix_generator,omitempty"`
}

// FixGeneratorConfig configures the optional text-generation provider.
type FixGeneratorConfig struct {
	Provider  string        `yaml:"provider"    json:"provider,omitempty"`
	Model     string        `yaml:"model"       json:"model,omitempty"`
	APIKeyEnv string        `yaml:"api_key_env" json:"api_key_env,omitempty"`
	BaseURL   string        `yaml:"base_url"    json:"base_url,omitempty"`
	Timeout   time.Duration `yaml:"timeout"     json:"timeout,omitempty"`
	MaxFixes  int           `yaml:"max_fixes"   json:"max_fixes,omitempty"`
}

// Defaults applied when a field is unset.
const (
	DefaultFixTimeout = 10 * time.Second
	DefaultMaxFixes   = 20
	DefaultAPIKeyEnv  = "OPENAI_API_KEY"
	DefaultModel      = "gpt-4o-mini"
)

// DefaultConfig returns a zero-value config that changes nothing.
func DefaultConfig() ProjectConfig {
	return ProjectConfig{}
}

// EffectiveLevel returns the configured level, defaulting to AA.
func (c ProjectConfig) EffectiveLevel() Level {
	if l, err := ParseLevel(c.Level); err == nil {
		return l
	}
	return LevelAA
}

// HistoryEnabled reports whether audit history should be recorded.
func (c ProjectConfig) HistoryEnabled() bool {
	return c.History == nil || *c.History
}

// CacheEnabled reports whether extracted text should be cached on disk.
func (c ProjectConfig) CacheEnabled() bool {
	return c.Cache == nil || *c.Cache
}

// IsSkipped reports whether the named analyzer is excluded.
func (c ProjectConfig) IsSkipped(name string) bool {
	for _, s := range c.Skip {
		if s == name {
			return true
		}
	}
	return false
}

// EffectiveFixTimeout returns the per-issue fix generation timeout.
func (c FixGeneratorConfig) EffectiveFixTimeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultFixTimeout
}

// Enabled reports whether a fix generator provider is configured.
func (c FixGeneratorConfig) Enabled() bool {
	return c.Provider != "" && c.Provider != ProviderNone
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c ProjectConfig) Validate() error {
	// 1. level must be known or empty
	if c.Level != "" {
		if _, err := ParseLevel(c.Level); err != nil {
			return err
		}
	}

	// 2. analyzers and skip must name built-in analyzers
	for _, a := range c.Analyzers {
		if !isValidAnalyzer(a) {
			return fmt.Errorf("unknown analyzer %q in analyzers", a)
		}
	}
	for _, a := range c.Skip {
		if !isValidAnalyzer(a) {
			return fmt.Errorf("unknown analyzer %q in skip", a)
		}
	}

	// 3. cannot skip every analyzer
	if len(c.Skip) >= len(ValidAnalyzers) {
		return fmt.Errorf("cannot skip all analyzers (must have at least one active)")
	}

	// 4. numeric ranges
	if c.Parallelism < 0 {
		return fmt.Errorf("parallelism must be >= 0 (got %d)", c.Parallelism)
	}
	if c.MinScore < 0 || c.MinScore > 100 {
		return fmt.Errorf("min_score = %d (must be between 0 and 100)", c.MinScore)
	}

	return c.FixGenerator.validate()
}

func (c FixGeneratorConfig) validate() error {
	switch c.Provider {
	case "", ProviderNone, ProviderOpenAI:
	default:
		return fmt.Errorf("unknown fix_generator.provider %q (valid: none, openai)", c.Provider)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("fix_generator.timeout must be >= 0 (got %s)", c.Timeout)
	}
	if c.MaxFixes < 0 {
		return fmt.Errorf("fix_generator.max_fixes must be >= 0 (got %d)", c.MaxFixes)
	}
	return nil
}

func isValidAnalyzer(name string) bool {
	for _, a := range ValidAnalyzers {
		if a == name {
			return true
		}
	}
	return false
}
