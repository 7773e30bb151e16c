package analytics

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kestrelworks/pulseboard/internal/report"
)

// Completer is the single model-call surface the analytics path needs.
// ai.Client satisfies it.
type Completer interface {
	Complete(ctx context.Context, model, system, prompt string) (string, error)
}

const systemInstruction = "You are a Chief Data Officer. You provide ruthless, high-level business intelligence. You do not just summarize; you find the 'So What?'. Prioritize accuracy."

// Service runs dataset samples through the model and normalizes the answer
// into a fixed report shape.
type Service struct {
	client Completer
	model  string
	budget int
	log    *zap.Logger
}

// NewService wires a model client to the analytics path. budget caps how many
// bytes of the serialized dataset are included in the prompt.
func NewService(client Completer, model string, budget int, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{client: client, model: model, budget: budget, log: log}
}

// Analyze is the main analytics path: it never fails. A model or network
// error degrades to a fixed fallback report carrying the locally synthesized
// KPIs and sentinel summary text. A successful response that arrives with no
// usable KPI list is likewise backfilled from the local ones.
func (s *Service) Analyze(ctx context.Context, sample string, localKPIs []report.KPI) *report.Report {
	rep, err := s.AnalyzeStrict(ctx, sample)
	if err != nil {
		s.log.Warn("model analysis failed, serving local fallback report", zap.Error(err))
		rep = report.Unavailable()
		rep.KPIs = localKPIs
		return rep
	}
	if len(rep.KPIs) == 0 {
		rep.KPIs = localKPIs
	}
	return rep
}

// AnalyzeStrict runs one analysis and surfaces model errors to the caller.
// Row-level and filtered re-analysis use this variant, where no meaningful
// local fallback exists.
func (s *Service) AnalyzeStrict(ctx context.Context, sample string) (*report.Report, error) {
	runID := uuid.NewString()
	prompt := s.buildPrompt(sample)
	s.log.Debug("requesting analysis",
		zap.String("run_id", runID),
		zap.String("model", s.model),
		zap.Int("prompt_chars", len(prompt)))

	raw, err := s.client.Complete(ctx, s.model, systemInstruction, prompt)
	if err != nil {
		return nil, fmt.Errorf("analysis run %s: %w", runID, err)
	}
	rep := report.Normalize(raw, s.log.With(zap.String("run_id", runID)))
	s.log.Debug("analysis normalized",
		zap.String("run_id", runID),
		zap.Int("kpis", len(rep.KPIs)),
		zap.Int("trend_points", len(rep.RevenueTrend)))
	return rep, nil
}

func (s *Service) buildPrompt(sample string) string {
	if s.budget > 0 && len(sample) > s.budget {
		sample = sample[:s.budget]
	}
	return `Analyze the following dataset (CSV/JSON format).

TASK:
1. Identify Key Performance Indicators (KPIs).
2. Generate executive summaries for Daily, Weekly, and Monthly views.
3. Formulate 3-5 high-level Strategic Recommendations for the business.
4. Forecast the next month's outlook.
5. Extract data for a Revenue Trend Line Chart (Time vs Value). If dates are missing, simulate a trend based on row order.
6. Extract data for a Product/Category Distribution Pie Chart.
7. Analyze each salesperson's performance deeply, providing a score, revenue, and a specific action plan.

CRITICAL RULE:
- If the data is empty or unreadable, return a valid JSON object with empty arrays and "No Data" messages. DO NOT HALLUCINATE data that isn't there.
- Respond with a single JSON object only.

Data Sample:
` + sample + "\n"
}
