package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kestrelworks/pulseboard/internal/ai"
	"github.com/kestrelworks/pulseboard/internal/analytics"
	"github.com/kestrelworks/pulseboard/internal/dataset"
	"github.com/kestrelworks/pulseboard/internal/ingest"
	"github.com/kestrelworks/pulseboard/internal/report"
	"github.com/kestrelworks/pulseboard/internal/utils"
)

var (
	analyzeFilters []string
	analyzeRow     int
	analyzeOffline bool
	analyzeOutput  string
	analyzeModel   string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Ingest a tabular file and produce an analytics report",
	Long: `Analyze parses a CSV, JSON, TXT, XLSX/XLS or PDF file into rows and
columns, derives filter facets and local KPIs, and asks the configured model
for a full analytics report. Filters re-run the analysis over the matching
subset; --row isolates a single record.`,
	Example: `  pulseboard analyze sales.csv
  pulseboard analyze sales.xlsx --filter region=East --filter tier=gold
  pulseboard analyze sales.csv --row 3
  pulseboard analyze sales.csv --offline
  pulseboard analyze export.json --output report.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		text, err := ingest.ReadFile(path)
		if err != nil {
			return err
		}

		filters, err := parseFilterFlags(analyzeFilters)
		if err != nil {
			return err
		}

		if analyzeOffline {
			return runOffline(path, text, filters)
		}

		c, err := requireConfig()
		if err != nil {
			return err
		}
		if analyzeModel != "" {
			c.DefaultModel = analyzeModel
		}
		client := newAIClient(c)
		if err := client.ValidateModel(c.DefaultModel); err != nil {
			return err
		}
		svc := newAnalyticsService(c, client)
		dash := analytics.NewDashboard(svc, pipelineOptions(c), logger)

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(c.AnalysisTimeoutSec)*time.Second)
		defer cancel()

		rep := dash.Load(ctx, text)
		fmt.Printf("✓ Loaded %s: %d rows, %d columns\n\n", filepath.Base(path), len(dash.Rows()), len(dash.Headers()))

		tokens := utils.CountTokens(text)
		if warn := contextWindowWarning(c.DefaultModel, tokens); warn != "" {
			fmt.Println(warn)
		}
		if cost, ok := ai.EstimateCostUSD(c.DefaultModel, tokens, c.MaxTokens); ok {
			logger.Debug("estimated analysis cost",
				zap.String("model", c.DefaultModel),
				zap.Float64("usd", cost))
		}

		if len(filters) > 0 {
			rep, err = dash.SetFilters(ctx, filters)
			if errors.Is(err, analytics.ErrNoRowsMatch) {
				fmt.Println("⚠ No rows match the active filters; report unchanged.")
				return nil
			}
			if err != nil {
				return fmt.Errorf("filtered re-analysis: %w", err)
			}
			fmt.Printf("✓ Filters applied: %d rows match\n\n", len(dash.Rows()))
		}

		if cmd.Flags().Changed("row") {
			rowRep, err := dash.AnalyzeRow(ctx, analyzeRow)
			if err != nil {
				return fmt.Errorf("row analysis: %w", err)
			}
			renderReport(os.Stdout, fmt.Sprintf("Row %d Deep Dive", analyzeRow), rowRep)
			return writeReport(rowRep)
		}

		renderFacets(os.Stdout, dash.Facets())
		renderReport(os.Stdout, "Analytics Report: "+filepath.Base(path), rep)
		return writeReport(rep)
	},
}

// runOffline skips the model entirely: parse, facets and local KPIs only.
func runOffline(path, text string, filters dataset.Filters) error {
	log := logger
	table := dataset.Parse(text, log)
	rows := table.Rows
	if len(filters) > 0 {
		rows = dataset.Apply(rows, filters)
		if len(rows) == 0 {
			fmt.Println("⚠ No rows match the active filters.")
			return nil
		}
	}

	ceiling, coverage, maxKPIs := 100, 0.5, 4
	if cfg != nil {
		ceiling = cfg.FacetCardinalityCeiling
		coverage = cfg.KPICoverageThreshold
		maxKPIs = cfg.MaxLocalKPIs
	}

	rep := report.Empty()
	rep.KPIs = dataset.SynthesizeKPIs(rows, table.Headers, coverage, maxKPIs)
	log.Debug("offline analysis",
		zap.Int("rows", len(rows)),
		zap.Int("kpis", len(rep.KPIs)))

	fmt.Printf("✓ Loaded %s: %d rows, %d columns (offline)\n\n", filepath.Base(path), len(rows), len(table.Headers))
	fmt.Print(dataset.RenderProfile(rows, table.Headers), "\n")
	renderFacets(os.Stdout, dataset.BuildFacets(table.Rows, table.Headers, ceiling))
	renderReport(os.Stdout, "Local Analysis: "+filepath.Base(path), rep)
	return writeReport(rep)
}

// contextWindowWarning flags datasets whose token count exceeds what the
// catalog says the model can hold. Unknown models produce no warning.
func contextWindowWarning(model string, tokens int) string {
	info, ok := ai.LookupModel(model)
	if !ok || tokens <= info.ContextTokens {
		return ""
	}
	return fmt.Sprintf("⚠ Dataset (~%d tokens) exceeds the %s context window (%d tokens); the prompt sample will be truncated", tokens, info.Name, info.ContextTokens)
}

func parseFilterFlags(raw []string) (dataset.Filters, error) {
	filters := dataset.Filters{}
	for _, f := range raw {
		col, val, ok := strings.Cut(f, "=")
		if !ok || col == "" {
			return nil, fmt.Errorf("invalid filter %q (expected column=value)", f)
		}
		filters[col] = val
	}
	return filters, nil
}

func writeReport(rep *report.Report) error {
	if analyzeOutput == "" {
		return nil
	}
	b, err := utils.PrettyJSON(rep)
	if err != nil {
		return err
	}
	if err := utils.SafeWriteFile(analyzeOutput, b); err != nil {
		return err
	}
	fmt.Printf("✓ Report written to %s\n", analyzeOutput)
	return nil
}

func init() {
	analyzeCmd.Flags().StringArrayVar(&analyzeFilters, "filter", nil, "column=value filter, repeatable (conjunctive)")
	analyzeCmd.Flags().IntVar(&analyzeRow, "row", 0, "analyze a single row by index (0-based, after filtering)")
	analyzeCmd.Flags().BoolVar(&analyzeOffline, "offline", false, "skip the model call; local KPIs and facets only")
	analyzeCmd.Flags().StringVar(&analyzeOutput, "output", "", "write the normalized report JSON to a file")
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "", "override the configured model for this run")
	rootCmd.AddCommand(analyzeCmd)
}
