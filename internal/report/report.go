package report

// The analytics report is a fixed-shape record. Every field is populated after
// normalization: collections default to empty, text fields to a sentinel.
// Reports are built fresh per analysis and replaced wholesale, never patched.

// Sentinel strings used when the producer supplied nothing usable.
const (
	NoData             = "No data available"
	NoForecast         = "No forecast available"
	UnavailableSummary = "Unable to analyze the provided data."
)

// Trend direction tags on a KPI entry.
const (
	TrendUp      = "up"
	TrendDown    = "down"
	TrendNeutral = "neutral"
)

// KPI is one headline metric. Value is pre-formatted for display.
type KPI struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Change string `json:"change,omitempty"`
	Trend  string `json:"trend,omitempty"`
}

// TrendPoint is one sample of the revenue trend series.
type TrendPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// CategoryShare is one slice of the category distribution.
type CategoryShare struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// PersonAnalysis is the per-person performance breakdown.
type PersonAnalysis struct {
	Name               string  `json:"name"`
	PerformanceScore   float64 `json:"performanceScore"`
	RevenueGenerated   string  `json:"revenueGenerated"`
	SalesCount         float64 `json:"salesCount"`
	KeyStrength        string  `json:"keyStrength"`
	AreaForImprovement string  `json:"areaForImprovement"`
	ActionPlan         string  `json:"actionPlan"`
}

// Report is the normalized analytics output.
type Report struct {
	KPIs []KPI `json:"kpis"`

	DailySummary   string `json:"dailySummary"`
	WeeklySummary  string `json:"weeklySummary"`
	MonthlySummary string `json:"monthlySummary"`

	StrategicRecommendations []string `json:"strategicRecommendations"`
	Forecast                 string   `json:"forecast"`

	RevenueTrend        []TrendPoint    `json:"revenueTrend"`
	ProductDistribution []CategoryShare `json:"productDistribution"`

	PersonnelAnalysis []PersonAnalysis `json:"personnelAnalysis"`
}

// Empty returns a report with every field at its documented default.
func Empty() *Report {
	return &Report{
		KPIs:                     []KPI{},
		DailySummary:             NoData,
		WeeklySummary:            NoData,
		MonthlySummary:           NoData,
		StrategicRecommendations: []string{},
		Forecast:                 NoForecast,
		RevenueTrend:             []TrendPoint{},
		ProductDistribution:      []CategoryShare{},
		PersonnelAnalysis:        []PersonAnalysis{},
	}
}

// Unavailable returns the fixed fallback report used when the producer's
// output could not be parsed at all.
func Unavailable() *Report {
	r := Empty()
	r.DailySummary = UnavailableSummary
	r.WeeklySummary = UnavailableSummary
	r.MonthlySummary = UnavailableSummary
	return r
}
