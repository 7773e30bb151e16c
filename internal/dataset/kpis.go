package dataset

import (
	"github.com/kestrelworks/pulseboard/internal/report"
)

// SynthesizeKPIs derives headline metrics without any model call. The first
// KPI is always the record count; after that, each column whose cells parse
// as numbers at or above the coverage threshold contributes a Sum and an Avg
// KPI, in header order, until maxKPIs is reached. Pure: rows and headers are
// never mutated.
func SynthesizeKPIs(rows []Row, headers []string, coverage float64, maxKPIs int) []report.KPI {
	kpis := []report.KPI{{
		Label: "Total Records",
		Value: report.FormatNumber(float64(len(rows))),
		Trend: report.TrendNeutral,
	}}
	if len(rows) == 0 {
		return kpis
	}
	for _, h := range headers {
		if len(kpis) >= maxKPIs {
			break
		}
		sum := 0.0
		count := 0
		for _, row := range rows {
			if f, ok := cellNumber(row[h]); ok {
				sum += f
				count++
			}
		}
		if float64(count) < coverage*float64(len(rows)) || count == 0 {
			continue
		}
		kpis = append(kpis, report.KPI{
			Label: h + " (Sum)",
			Value: report.FormatNumber(sum),
			Trend: report.TrendNeutral,
		})
		if len(kpis) >= maxKPIs {
			break
		}
		kpis = append(kpis, report.KPI{
			Label: h + " (Avg)",
			Value: report.FormatFixed(sum / float64(count)),
			Trend: report.TrendNeutral,
		})
	}
	if len(kpis) > maxKPIs {
		kpis = kpis[:maxKPIs]
	}
	return kpis
}
