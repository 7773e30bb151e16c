package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/kestrelworks/pulseboard/internal/report"
)

func trendGlyph(trend string) string {
	switch trend {
	case report.TrendUp:
		return "↑"
	case report.TrendDown:
		return "↓"
	}
	return "→"
}

// renderReport writes a markdown-ish view of the normalized report.
func renderReport(w io.Writer, title string, rep *report.Report) {
	fmt.Fprintf(w, "# %s\n\n", title)

	if len(rep.KPIs) > 0 {
		fmt.Fprintln(w, "## KPIs")
		for _, k := range rep.KPIs {
			line := fmt.Sprintf("- %s %s: %s", trendGlyph(k.Trend), k.Label, k.Value)
			if k.Change != "" {
				line += fmt.Sprintf(" (%s)", k.Change)
			}
			fmt.Fprintln(w, line)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "## Executive Summary\n- Daily: %s\n- Weekly: %s\n- Monthly: %s\n\n",
		rep.DailySummary, rep.WeeklySummary, rep.MonthlySummary)

	if len(rep.StrategicRecommendations) > 0 {
		fmt.Fprintln(w, "## Recommendations")
		for _, r := range rep.StrategicRecommendations {
			fmt.Fprintf(w, "- %s\n", r)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "## Forecast\n%s\n\n", rep.Forecast)

	if len(rep.RevenueTrend) > 0 {
		fmt.Fprintln(w, "## Revenue Trend")
		for _, p := range rep.RevenueTrend {
			fmt.Fprintf(w, "- %s: %s\n", p.Date, report.FormatNumber(p.Value))
		}
		fmt.Fprintln(w)
	}

	if len(rep.ProductDistribution) > 0 {
		fmt.Fprintln(w, "## Category Distribution")
		for _, c := range rep.ProductDistribution {
			fmt.Fprintf(w, "- %s: %s\n", c.Name, report.FormatNumber(c.Value))
		}
		fmt.Fprintln(w)
	}

	if len(rep.PersonnelAnalysis) > 0 {
		fmt.Fprintln(w, "## Team Performance")
		for _, p := range rep.PersonnelAnalysis {
			fmt.Fprintf(w, "- %s (score %.0f/100, revenue %s, sales %.0f)\n",
				p.Name, p.PerformanceScore, p.RevenueGenerated, p.SalesCount)
			if p.KeyStrength != "" {
				fmt.Fprintf(w, "  strength: %s\n", p.KeyStrength)
			}
			if p.AreaForImprovement != "" {
				fmt.Fprintf(w, "  improve: %s\n", p.AreaForImprovement)
			}
			if p.ActionPlan != "" {
				fmt.Fprintf(w, "  plan: %s\n", p.ActionPlan)
			}
		}
		fmt.Fprintln(w)
	}
}

// renderFacets lists the derived filter options in column order.
func renderFacets(w io.Writer, facets map[string][]string) {
	if len(facets) == 0 {
		fmt.Fprintln(w, "No filterable columns detected.")
		return
	}
	cols := make([]string, 0, len(facets))
	for c := range facets {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	fmt.Fprintln(w, "## Filters")
	for _, c := range cols {
		vals := facets[c]
		shown := vals
		const maxShown = 8
		if len(shown) > maxShown {
			shown = shown[:maxShown]
		}
		suffix := ""
		if len(vals) > len(shown) {
			suffix = fmt.Sprintf(" … (%d total)", len(vals))
		}
		fmt.Fprintf(w, "- %s: %s%s\n", c, strings.Join(shown, ", "), suffix)
	}
	fmt.Fprintln(w)
}
