package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/kestrelworks/pulseboard/internal/ai"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Manage or inspect model catalog and pricing",
	Example: `  pulseboard models show
  pulseboard models sync --file ./models.json
  pulseboard models sync --file ./models.json --merge`,
}

var modelsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current model catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat := ai.Catalog()
		// pretty-print deterministic order
		keys := make([]string, 0, len(cat))
		for k := range cat {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		m := make(map[string]ai.ModelInfo, len(keys))
		for _, k := range keys {
			m[k] = cat[k]
		}
		return enc.Encode(m)
	},
}

var (
	syncPath  string
	syncMerge bool
)

var modelsSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Load model catalog/pricing from a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if syncPath == "" {
			return fmt.Errorf("--file is required")
		}
		m, err := ai.LoadCatalogFromJSON(syncPath)
		if err != nil {
			return err
		}
		if syncMerge {
			ai.MergeCatalog(m)
		} else {
			ai.OverrideCatalog(m)
		}
		fmt.Printf("✓ Catalog updated (%d models)\n", len(m))
		return nil
	},
}

func init() {
	modelsSyncCmd.Flags().StringVar(&syncPath, "file", "", "path to models JSON file")
	modelsSyncCmd.Flags().BoolVar(&syncMerge, "merge", false, "merge entries into the existing catalog")
	modelsCmd.AddCommand(modelsShowCmd, modelsSyncCmd)
	rootCmd.AddCommand(modelsCmd)
}
