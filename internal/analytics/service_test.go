package analytics

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelworks/pulseboard/internal/report"
)

// stubCompleter records prompts and plays back canned responses.
type stubCompleter struct {
	response string
	err      error
	prompts  []string
	onCall   func()
}

func (s *stubCompleter) Complete(_ context.Context, _, _, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.onCall != nil {
		s.onCall()
	}
	return s.response, s.err
}

func TestAnalyzeNormalizesModelResponse(t *testing.T) {
	stub := &stubCompleter{response: "```json\n{\"dailySummary\":\"Strong day.\",\"kpis\":[{\"label\":\"Revenue\",\"value\":300}]}\n```"}
	svc := NewService(stub, "test-model", 0, nil)

	rep := svc.Analyze(context.Background(), "a,b\n1,2\n", nil)
	assert.Equal(t, "Strong day.", rep.DailySummary)
	require.Len(t, rep.KPIs, 1)
	assert.Equal(t, "300", rep.KPIs[0].Value)
}

func TestAnalyzeFallsBackOnModelError(t *testing.T) {
	stub := &stubCompleter{err: errors.New("boom")}
	svc := NewService(stub, "test-model", 0, nil)
	local := []report.KPI{{Label: "Total Records", Value: "2", Trend: report.TrendNeutral}}

	rep := svc.Analyze(context.Background(), "a\n1\n2\n", local)
	assert.Equal(t, report.UnavailableSummary, rep.DailySummary)
	assert.Equal(t, report.UnavailableSummary, rep.MonthlySummary)
	assert.Equal(t, local, rep.KPIs)
}

func TestAnalyzeBackfillsEmptyKPIs(t *testing.T) {
	stub := &stubCompleter{response: `{"dailySummary":"ok"}`}
	svc := NewService(stub, "test-model", 0, nil)
	local := []report.KPI{{Label: "Total Records", Value: "5", Trend: report.TrendNeutral}}

	rep := svc.Analyze(context.Background(), "a\n1\n", local)
	assert.Equal(t, local, rep.KPIs)
	assert.Equal(t, "ok", rep.DailySummary)
}

func TestAnalyzeStrictSurfacesError(t *testing.T) {
	stub := &stubCompleter{err: errors.New("rate limited")}
	svc := NewService(stub, "test-model", 0, nil)

	_, err := svc.AnalyzeStrict(context.Background(), "a\n1\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestBuildPromptTruncatesSample(t *testing.T) {
	stub := &stubCompleter{response: "{}"}
	svc := NewService(stub, "test-model", 100, nil)

	long := strings.Repeat("x", 500)
	_, err := svc.AnalyzeStrict(context.Background(), long)
	require.NoError(t, err)
	require.Len(t, stub.prompts, 1)
	assert.Contains(t, stub.prompts[0], strings.Repeat("x", 100))
	assert.NotContains(t, stub.prompts[0], strings.Repeat("x", 101))
}

func TestBuildPromptCarriesSample(t *testing.T) {
	stub := &stubCompleter{response: "{}"}
	svc := NewService(stub, "test-model", 30000, nil)

	_, err := svc.AnalyzeStrict(context.Background(), "region,revenue\n\"East\",\"100\"")
	require.NoError(t, err)
	assert.Contains(t, stub.prompts[0], `"East","100"`)
	assert.Contains(t, stub.prompts[0], "DO NOT HALLUCINATE")
}
