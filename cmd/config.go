package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cfgpkg "github.com/kestrelworks/pulseboard/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set Pulseboard configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("api_key: %s\n", mask(cfg.APIKey))
		fmt.Printf("default_model: %s\n", cfg.DefaultModel)
		fmt.Printf("chat_model: %s\n", cfg.ChatModel)
		fmt.Printf("max_tokens: %d\n", cfg.MaxTokens)
		fmt.Printf("temperature: %.3f\n", cfg.Temperature)
		fmt.Printf("facet_cardinality_ceiling: %d\n", cfg.FacetCardinalityCeiling)
		fmt.Printf("kpi_coverage_threshold: %.2f\n", cfg.KPICoverageThreshold)
		fmt.Printf("max_local_kpis: %d\n", cfg.MaxLocalKPIs)
		fmt.Printf("analytics_prompt_budget: %d\n", cfg.AnalyticsPromptBudget)
		fmt.Printf("chat_context_budget: %d\n", cfg.ChatContextBudget)
		fmt.Printf("http_timeout_sec: %d\n", cfg.HTTPTimeoutSec)
		fmt.Printf("analysis_timeout_sec: %d\n", cfg.AnalysisTimeoutSec)
		fmt.Printf("retry_max_attempts: %d\n", cfg.RetryMaxAttempts)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "api_key":
			cfg.APIKey = val
		case "default_model":
			cfg.DefaultModel = val
		case "chat_model":
			cfg.ChatModel = val
		case "max_tokens":
			n, err := strconv.Atoi(val)
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid max_tokens: %s", val)
			}
			cfg.MaxTokens = n
		case "temperature":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f < 0 || f > 2 {
				return fmt.Errorf("invalid temperature: %s (expected 0-2)", val)
			}
			cfg.Temperature = f
		case "facet_cardinality_ceiling":
			n, err := strconv.Atoi(val)
			if err != nil || n <= 1 {
				return fmt.Errorf("invalid facet_cardinality_ceiling: %s", val)
			}
			cfg.FacetCardinalityCeiling = n
		case "kpi_coverage_threshold":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 || f > 1 {
				return fmt.Errorf("invalid kpi_coverage_threshold: %s (expected 0-1)", val)
			}
			cfg.KPICoverageThreshold = f
		case "max_local_kpis":
			n, err := strconv.Atoi(val)
			if err != nil || n < 1 {
				return fmt.Errorf("invalid max_local_kpis: %s", val)
			}
			cfg.MaxLocalKPIs = n
		case "analytics_prompt_budget":
			n, err := strconv.Atoi(val)
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid analytics_prompt_budget: %s", val)
			}
			cfg.AnalyticsPromptBudget = n
		case "chat_context_budget":
			n, err := strconv.Atoi(val)
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid chat_context_budget: %s", val)
			}
			cfg.ChatContextBudget = n
		case "http_timeout_sec":
			n, err := strconv.Atoi(val)
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid http_timeout_sec: %s", val)
			}
			cfg.HTTPTimeoutSec = n
		case "analysis_timeout_sec":
			n, err := strconv.Atoi(val)
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid analysis_timeout_sec: %s", val)
			}
			cfg.AnalysisTimeoutSec = n
		case "retry_max_attempts":
			n, err := strconv.Atoi(val)
			if err != nil || n < 1 {
				return fmt.Errorf("invalid retry_max_attempts: %s", val)
			}
			cfg.RetryMaxAttempts = n
		default:
			return fmt.Errorf("unknown config key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Printf("✓ %s updated\n", key)
		return nil
	},
}

func mask(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}
