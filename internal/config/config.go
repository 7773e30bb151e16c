package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	APIKey       string  `mapstructure:"api_key" yaml:"api_key"`
	DefaultModel string  `mapstructure:"default_model" yaml:"default_model"`
	ChatModel    string  `mapstructure:"chat_model" yaml:"chat_model"`
	MaxTokens    int     `mapstructure:"max_tokens" yaml:"max_tokens"`
	Temperature  float64 `mapstructure:"temperature" yaml:"temperature"`

	// Analytics pipeline tuning. FacetCardinalityCeiling excludes near-unique
	// columns from filter facets. KPICoverageThreshold is the minimum fraction
	// of rows that must parse as numeric for a column to earn Sum/Avg KPIs.
	FacetCardinalityCeiling int     `mapstructure:"facet_cardinality_ceiling" yaml:"facet_cardinality_ceiling"`
	KPICoverageThreshold    float64 `mapstructure:"kpi_coverage_threshold" yaml:"kpi_coverage_threshold"`
	MaxLocalKPIs            int     `mapstructure:"max_local_kpis" yaml:"max_local_kpis"`

	// Prompt character budgets. Truncation is a plain byte-position cut.
	AnalyticsPromptBudget int `mapstructure:"analytics_prompt_budget" yaml:"analytics_prompt_budget"`
	ChatContextBudget     int `mapstructure:"chat_context_budget" yaml:"chat_context_budget"`

	// HTTP/Retry configuration
	HTTPTimeoutSec     int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`
	AnalysisTimeoutSec int `mapstructure:"analysis_timeout_sec" yaml:"analysis_timeout_sec"`
	RetryMaxAttempts   int `mapstructure:"retry_max_attempts" yaml:"retry_max_attempts"`
	RetryBaseDelayMs   int `mapstructure:"retry_base_delay_ms" yaml:"retry_base_delay_ms"`
	RetryMaxDelayMs    int `mapstructure:"retry_max_delay_ms" yaml:"retry_max_delay_ms"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.pulseboard/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".pulseboard")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("PULSEBOARD")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("default_model", "google/gemini-2.5-flash")
	v.SetDefault("chat_model", "google/gemini-2.5-flash")
	v.SetDefault("max_tokens", 4096)
	v.SetDefault("temperature", 0.4)
	// Product-tuning heuristics for the analytics pipeline; overridable rather
	// than baked in as literals.
	v.SetDefault("facet_cardinality_ceiling", 100)
	v.SetDefault("kpi_coverage_threshold", 0.5)
	v.SetDefault("max_local_kpis", 4)
	v.SetDefault("analytics_prompt_budget", 30000)
	v.SetDefault("chat_context_budget", 50000)
	// HTTP/retry defaults
	v.SetDefault("http_timeout_sec", 60)
	v.SetDefault("analysis_timeout_sec", 120)
	v.SetDefault("retry_max_attempts", 3)
	v.SetDefault("retry_base_delay_ms", 500)
	v.SetDefault("retry_max_delay_ms", 4000)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".pulseboard")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.APIKey == "" {
		c.APIKey = os.Getenv("OPENROUTER_API_KEY")
	}
	return &c, nil
}
