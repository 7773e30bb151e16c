package analytics

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelworks/pulseboard/internal/dataset"
)

func newTestDashboard(stub *stubCompleter) *Dashboard {
	svc := NewService(stub, "test-model", 30000, nil)
	return NewDashboard(svc, Options{FacetCeiling: 100, KPICoverage: 0.5, MaxLocalKPIs: 4}, nil)
}

func TestDashboardLoad(t *testing.T) {
	stub := &stubCompleter{response: `{"dailySummary":"Two regions."}`}
	d := newTestDashboard(stub)

	rep := d.Load(context.Background(), "region,revenue\nEast,100\nWest,200\n")
	assert.Equal(t, "Two regions.", rep.DailySummary)
	assert.Len(t, d.Rows(), 2)
	assert.Equal(t, []string{"East", "West"}, d.Facets()["region"])
	// model returned no KPI list, so the local ones back it up
	require.NotEmpty(t, rep.KPIs)
	assert.Equal(t, "Total Records", rep.KPIs[0].Label)
}

func TestSetFiltersReanalyzesSubset(t *testing.T) {
	stub := &stubCompleter{response: `{"dailySummary":"East only."}`}
	d := newTestDashboard(stub)
	d.Load(context.Background(), "region,revenue\nEast,100\nWest,200\n")

	rep, err := d.SetFilters(context.Background(), dataset.Filters{"region": "East"})
	require.NoError(t, err)
	assert.Equal(t, "East only.", rep.DailySummary)
	require.Len(t, d.Rows(), 1)
	assert.Equal(t, "East", d.Rows()[0]["region"])

	// the re-analysis prompt carried only the matching row
	last := stub.prompts[len(stub.prompts)-1]
	assert.Contains(t, last, `"East","100"`)
	assert.NotContains(t, last, "West")
}

func TestSetFiltersNoRowsMatch(t *testing.T) {
	stub := &stubCompleter{response: `{"dailySummary":"full."}`}
	d := newTestDashboard(stub)
	d.Load(context.Background(), "region\nEast\nWest\n")
	before := d.Report()
	calls := len(stub.prompts)

	_, err := d.SetFilters(context.Background(), dataset.Filters{"region": "North"})
	require.ErrorIs(t, err, ErrNoRowsMatch)
	// no model call, no state change
	assert.Len(t, stub.prompts, calls)
	assert.Same(t, before, d.Report())
	assert.Len(t, d.Rows(), 2)
	assert.Empty(t, d.Filters())
}

func TestSetFiltersModelErrorLeavesState(t *testing.T) {
	stub := &stubCompleter{response: `{"dailySummary":"full."}`}
	d := newTestDashboard(stub)
	d.Load(context.Background(), "region\nEast\nWest\n")
	before := d.Report()

	stub.err = errors.New("unreachable")
	_, err := d.SetFilters(context.Background(), dataset.Filters{"region": "East"})
	require.Error(t, err)
	assert.Same(t, before, d.Report())
	assert.Len(t, d.Rows(), 2)
}

func TestApplyFilterIsConjunctive(t *testing.T) {
	stub := &stubCompleter{response: `{}`}
	d := newTestDashboard(stub)
	d.Load(context.Background(), "region,tier\nEast,gold\nEast,silver\nWest,gold\n")

	_, err := d.ApplyFilter(context.Background(), "region", "East")
	require.NoError(t, err)
	assert.Len(t, d.Rows(), 2)

	_, err = d.ApplyFilter(context.Background(), "tier", "gold")
	require.NoError(t, err)
	require.Len(t, d.Rows(), 1)
	assert.Equal(t, "gold", d.Rows()[0]["tier"])
}

func TestClearFiltersRestoresFullSet(t *testing.T) {
	stub := &stubCompleter{response: `{}`}
	d := newTestDashboard(stub)
	d.Load(context.Background(), "region\nEast\nWest\n")
	_, err := d.SetFilters(context.Background(), dataset.Filters{"region": "East"})
	require.NoError(t, err)
	require.Len(t, d.Rows(), 1)

	d.ClearFilters(context.Background())
	assert.Len(t, d.Rows(), 2)
	assert.Empty(t, d.Filters())
}

func TestFacetsFixedAcrossFiltering(t *testing.T) {
	stub := &stubCompleter{response: `{}`}
	d := newTestDashboard(stub)
	d.Load(context.Background(), "region\nEast\nWest\n")
	before := d.Facets()

	_, err := d.SetFilters(context.Background(), dataset.Filters{"region": "East"})
	require.NoError(t, err)
	assert.Equal(t, before, d.Facets())
}

func TestAnalyzeRowIsolated(t *testing.T) {
	stub := &stubCompleter{response: `{"dailySummary":"one record."}`}
	d := newTestDashboard(stub)
	d.Load(context.Background(), "region,revenue\nEast,100\nWest,200\n")

	rep, err := d.AnalyzeRow(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "one record.", rep.DailySummary)

	// two-line table: header row plus the one data row
	last := stub.prompts[len(stub.prompts)-1]
	assert.Contains(t, last, "region,revenue\n\"West\",\"200\"")
	// main state untouched
	assert.Len(t, d.Rows(), 2)
}

func TestAnalyzeRowOutOfRange(t *testing.T) {
	stub := &stubCompleter{response: `{}`}
	d := newTestDashboard(stub)
	d.Load(context.Background(), "a\n1\n")

	_, err := d.AnalyzeRow(context.Background(), 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestStaleFilterCompletionDiscarded(t *testing.T) {
	stub := &stubCompleter{response: `{}`}
	d := newTestDashboard(stub)
	d.Load(context.Background(), "region\nEast\nWest\n")

	// a new load lands while the filter's model call is in flight
	reentered := false
	stub.onCall = func() {
		if reentered {
			return
		}
		reentered = true
		hook := stub.onCall
		stub.onCall = nil
		d.Load(context.Background(), "region\nNorth\n")
		stub.onCall = hook
	}

	_, err := d.SetFilters(context.Background(), dataset.Filters{"region": "East"})
	require.ErrorIs(t, err, ErrStale)
	// dashboard reflects the newer load, not the stale filter run
	require.Len(t, d.Rows(), 1)
	assert.Equal(t, "North", d.Rows()[0]["region"])
	assert.Empty(t, d.Filters())
}
