package analytics

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/kestrelworks/pulseboard/internal/dataset"
	"github.com/kestrelworks/pulseboard/internal/report"
)

// ErrNoRowsMatch signals that the active filters exclude every row. The
// dashboard's prior state is left untouched when it is returned.
var ErrNoRowsMatch = errors.New("no rows match the active filters")

// ErrStale signals that a newer pipeline run superseded this one while its
// model call was in flight; the completion was discarded.
var ErrStale = errors.New("analysis superseded by a newer request")

// Options carries the pipeline tuning knobs.
type Options struct {
	FacetCeiling int
	KPICoverage  float64
	MaxLocalKPIs int
}

// Dashboard owns the loaded dataset, its facets, the active filters and the
// current report. It is single-owner state: all transitions happen on the
// caller's goroutine, and a generation counter discards completions from
// runs that a later load or filter change has superseded.
type Dashboard struct {
	svc *Service
	opt Options
	log *zap.Logger

	table   dataset.Table
	facets  map[string][]string
	filters dataset.Filters
	visible []dataset.Row
	rep     *report.Report

	gen atomic.Uint64
}

func NewDashboard(svc *Service, opt Options, log *zap.Logger) *Dashboard {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dashboard{
		svc:     svc,
		opt:     opt,
		log:     log,
		facets:  map[string][]string{},
		filters: dataset.Filters{},
		rep:     report.Empty(),
	}
}

// Load ingests raw text as the new dataset: parse, derive facets and local
// KPIs, then run the main analysis path. Any previous dataset, filters and
// report are replaced wholesale. Load never fails; unusable input or an
// unreachable model degrade to an empty table or a fallback report.
func (d *Dashboard) Load(ctx context.Context, text string) *report.Report {
	token := d.gen.Add(1)

	table := dataset.Parse(text, d.log)
	facets := dataset.BuildFacets(table.Rows, table.Headers, d.opt.FacetCeiling)
	local := dataset.SynthesizeKPIs(table.Rows, table.Headers, d.opt.KPICoverage, d.opt.MaxLocalKPIs)

	sample := dataset.RenderProfile(table.Rows, table.Headers) + "\n" + dataset.ToCSV(table.Rows, table.Headers)
	rep := d.svc.Analyze(ctx, sample, local)
	if d.gen.Load() != token {
		d.log.Debug("discarding stale load completion", zap.Uint64("generation", token))
		return d.rep
	}

	d.table = table
	d.facets = facets
	d.filters = dataset.Filters{}
	d.visible = table.Rows
	d.rep = rep
	d.log.Info("dataset loaded",
		zap.Int("rows", len(table.Rows)),
		zap.Int("columns", len(table.Headers)),
		zap.Int("facets", len(facets)))
	return rep
}

// SetFilters replaces the active filter set and re-analyzes the matching
// subset. An empty subset returns ErrNoRowsMatch, and a failed model call
// surfaces its error; in both cases no state changes.
func (d *Dashboard) SetFilters(ctx context.Context, filters dataset.Filters) (*report.Report, error) {
	subset := dataset.Apply(d.table.Rows, filters)
	if len(subset) == 0 {
		return nil, ErrNoRowsMatch
	}

	token := d.gen.Add(1)
	rep, err := d.svc.AnalyzeStrict(ctx, dataset.ToCSV(subset, d.table.Headers))
	if err != nil {
		return nil, err
	}
	if d.gen.Load() != token {
		return nil, ErrStale
	}

	d.filters = filters
	d.visible = subset
	d.rep = rep
	return rep, nil
}

// ApplyFilter adds one column=value constraint on top of the active set.
func (d *Dashboard) ApplyFilter(ctx context.Context, column, value string) (*report.Report, error) {
	next := make(dataset.Filters, len(d.filters)+1)
	for k, v := range d.filters {
		next[k] = v
	}
	next[column] = value
	return d.SetFilters(ctx, next)
}

// ClearFilters restores the full row set and re-runs the main analysis path
// over it.
func (d *Dashboard) ClearFilters(ctx context.Context) *report.Report {
	token := d.gen.Add(1)

	local := dataset.SynthesizeKPIs(d.table.Rows, d.table.Headers, d.opt.KPICoverage, d.opt.MaxLocalKPIs)
	sample := dataset.RenderProfile(d.table.Rows, d.table.Headers) + "\n" + dataset.ToCSV(d.table.Rows, d.table.Headers)
	rep := d.svc.Analyze(ctx, sample, local)
	if d.gen.Load() != token {
		return d.rep
	}

	d.filters = dataset.Filters{}
	d.visible = d.table.Rows
	d.rep = rep
	return rep
}

// AnalyzeRow isolates one visible row, serializes it as a two-line table and
// runs it through the same analysis path. The result is returned without
// touching the dashboard's dataset, filters or main report. Model errors
// surface directly.
func (d *Dashboard) AnalyzeRow(ctx context.Context, index int) (*report.Report, error) {
	if index < 0 || index >= len(d.visible) {
		return nil, fmt.Errorf("row %d out of range (0-%d)", index, len(d.visible)-1)
	}
	sample := dataset.ToCSV([]dataset.Row{d.visible[index]}, d.table.Headers)
	return d.svc.AnalyzeStrict(ctx, sample)
}

// Rows returns the currently visible (possibly filtered) rows.
func (d *Dashboard) Rows() []dataset.Row { return d.visible }

// Headers returns the dataset's header list in first-seen order.
func (d *Dashboard) Headers() []string { return d.table.Headers }

// Facets returns the per-column filter options derived at load time. Facets
// are fixed per dataset; filtering changes which rows are shown, not which
// facets exist.
func (d *Dashboard) Facets() map[string][]string { return d.facets }

// Filters returns the active filter set.
func (d *Dashboard) Filters() dataset.Filters { return d.filters }

// Report returns the current analytics report.
func (d *Dashboard) Report() *report.Report { return d.rep }
