package report

import (
	"encoding/json"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Normalize reconciles the AI's raw response text into a total Report. It
// never fails past this boundary: unparseable input yields the fixed
// Unavailable report, and every missing or mis-typed field resolves to its
// documented default.
func Normalize(raw string, log *zap.Logger) *Report {
	text := StripFence(raw)
	var src map[string]any
	if err := json.Unmarshal([]byte(text), &src); err != nil {
		if log != nil {
			log.Warn("analytics response is not valid JSON, using unavailable report",
				zap.Error(err), zap.Int("response_len", len(raw)))
		}
		return Unavailable()
	}

	r := Empty()
	for _, rule := range reportRules {
		for _, key := range rule.keys {
			v, ok := src[key]
			if !ok || v == nil {
				continue
			}
			if rule.assign(r, v) {
				break
			}
		}
	}
	return r
}

// StripFence removes a leading/trailing triple-backtick code fence, with or
// without a "json" language tag.
func StripFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// fieldRule maps one target report field to the ordered candidate keys the
// producer has been observed to use, plus the coercion that assigns it.
// Keeping this table data-driven makes vendor-format drift a one-line change.
type fieldRule struct {
	field  string
	keys   []string
	assign func(*Report, any) bool
}

var reportRules = []fieldRule{
	{"kpis", []string{"kpis", "kpiList", "kpi_list", "metrics"},
		func(r *Report, v any) bool {
			out := asKPIs(v)
			if out == nil {
				return false
			}
			r.KPIs = out
			return true
		}},
	{"dailySummary", []string{"dailySummary", "daily_summary", "daySummary"},
		func(r *Report, v any) bool { return setString(&r.DailySummary, v) }},
	{"weeklySummary", []string{"weeklySummary", "weekly_summary"},
		func(r *Report, v any) bool { return setString(&r.WeeklySummary, v) }},
	{"monthlySummary", []string{"monthlySummary", "monthly_summary"},
		func(r *Report, v any) bool { return setString(&r.MonthlySummary, v) }},
	{"strategicRecommendations", []string{"strategicRecommendations", "strategic_recommendations", "recommendations"},
		func(r *Report, v any) bool {
			out := asStringSlice(v)
			if out == nil {
				return false
			}
			r.StrategicRecommendations = out
			return true
		}},
	{"forecast", []string{"forecast", "outlook", "prediction"},
		func(r *Report, v any) bool { return setString(&r.Forecast, v) }},
	{"revenueTrend", []string{"revenueTrend", "revenue_trend", "salesTrend", "trend"},
		func(r *Report, v any) bool {
			out := asTrend(v)
			if out == nil {
				return false
			}
			r.RevenueTrend = out
			return true
		}},
	{"productDistribution", []string{"productDistribution", "product_distribution", "categoryDistribution", "category_distribution", "distribution"},
		func(r *Report, v any) bool {
			out := asCategories(v)
			if out == nil {
				return false
			}
			r.ProductDistribution = out
			return true
		}},
	{"personnelAnalysis", []string{"personnelAnalysis", "personnel_analysis", "salesperson_performance", "teamPerformance", "team_performance"},
		func(r *Report, v any) bool {
			out := asPersons(v)
			if out == nil {
				return false
			}
			r.PersonnelAnalysis = out
			return true
		}},
}

func setString(dst *string, v any) bool {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return false
	}
	*dst = s
	return true
}

func asStringSlice(v any) []string {
	arr, ok := v.([]any)
	if !ok || len(arr) == 0 {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		if s, ok := e.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func asKPIs(v any) []KPI {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]KPI, 0, len(arr))
	for _, e := range arr {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		k := KPI{
			Label:  pickString(m, "label", "name", "title"),
			Change: pickString(m, "change", "delta"),
			Trend:  normalizeTrend(pickString(m, "trend", "direction")),
		}
		if k.Label == "" {
			k.Label = "Unknown KPI"
		}
		switch v := pick(m, "value", "amount").(type) {
		case float64:
			k.Value = FormatNumber(v)
		case string:
			k.Value = v
		default:
			k.Value = NoData
		}
		out = append(out, k)
	}
	return out
}

func normalizeTrend(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case TrendUp:
		return TrendUp
	case TrendDown:
		return TrendDown
	default:
		return TrendNeutral
	}
}

func asTrend(v any) []TrendPoint {
	arr, ok := v.([]any)
	if !ok || len(arr) == 0 {
		return nil
	}
	out := make([]TrendPoint, 0, len(arr))
	for _, e := range arr {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		p := TrendPoint{Date: pickString(m, "date", "label", "period", "month")}
		if f, ok := pickNumber(m, "value", "amount", "revenue", "total"); ok {
			p.Value = f
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func asCategories(v any) []CategoryShare {
	arr, ok := v.([]any)
	if !ok || len(arr) == 0 {
		return nil
	}
	out := make([]CategoryShare, 0, len(arr))
	for _, e := range arr {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		c := CategoryShare{Name: pickString(m, "name", "label", "category", "product")}
		if f, ok := pickNumber(m, "value", "amount", "count", "total"); ok {
			c.Value = f
		}
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func asPersons(v any) []PersonAnalysis {
	arr, ok := v.([]any)
	if !ok || len(arr) == 0 {
		return nil
	}
	out := make([]PersonAnalysis, 0, len(arr))
	for _, e := range arr {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		p := PersonAnalysis{
			Name:               pickString(m, "name", "salesperson", "employee"),
			KeyStrength:        pickString(m, "keyStrength", "key_strength", "strength"),
			AreaForImprovement: pickString(m, "areaForImprovement", "area_for_improvement", "improvementArea", "weakness"),
			ActionPlan:         pickString(m, "actionPlan", "action_plan", "plan", "recommendation"),
		}
		if f, ok := pickNumber(m, "performanceScore", "performance_score", "score"); ok {
			p.PerformanceScore = f
		}
		if f, ok := pickNumber(m, "salesCount", "sales_count", "sales", "deals"); ok {
			p.SalesCount = f
		}
		switch v := pick(m, "revenueGenerated", "revenue_generated", "revenue").(type) {
		case string:
			p.RevenueGenerated = v
		case float64:
			p.RevenueGenerated = FormatNumber(v)
		default:
			p.RevenueGenerated = NoData
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func pick(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func pickString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

func pickNumber(m map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		switch v := m[k].(type) {
		case float64:
			return v, true
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}
