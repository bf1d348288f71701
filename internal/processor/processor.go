// Package processor orchestrates one full analysis run over a loaded
// record bundle and assembles the report the API and CLI deliver.
package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"sales-insights-go/internal/actionable"
	"sales-insights-go/internal/aggregator"
	"sales-insights-go/internal/cohort"
	"sales-insights-go/internal/columns"
	"sales-insights-go/internal/config"
	"sales-insights-go/internal/downsample"
	"sales-insights-go/internal/logger"
	"sales-insights-go/internal/regression"
	"sales-insights-go/internal/segments"
	"sales-insights-go/internal/temporal"
	"sales-insights-go/internal/types"
)

// ErrNoRecords means the bundle held no rows at all; callers render an
// empty state instead of a report.
var ErrNoRecords = errors.New("no records to analyze")

// Run analyzes the bundle with the given parameters against the wall
// clock.
func Run(ctx context.Context, bundle *types.Bundle, params *config.Params) (*Report, error) {
	return RunAt(ctx, bundle, params, time.Now())
}

// RunAt evaluates the configured timeframe against a fixed reference
// time, so replays and tests produce stable windows. A cancelled
// context abandons the run between stages; nothing partial is returned.
func RunAt(ctx context.Context, bundle *types.Bundle, params *config.Params, now time.Time) (*Report, error) {
	if bundle == nil || bundle.Empty() {
		return nil, ErrNoRecords
	}
	if params == nil {
		params = config.Default()
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	start := time.Now()
	runID := uuid.New().String()
	log := logger.New().WithRun(runID).WithField("component", "processor")

	w := params.Window(now)
	cols := resolveColumns(bundle)

	log.WithFields(logrus.Fields{
		"timeframe": params.Timeframe,
		"rows":      bundle.Stats(),
	}).Info("analysis run started")

	origins := aggregator.TripDates(bundle.Trips, cols.trips.trip, cols.trips.date)
	tallies := map[types.Metric]aggregator.Tally{
		types.MetricTrips:        aggregator.Count(bundle.Trips, cols.trips.agent, cols.trips.date, w),
		types.MetricQuotes:       aggregator.Count(bundle.Quotes, cols.quotes.agent, cols.quotes.date, w),
		types.MetricPassthroughs: aggregator.Count(bundle.Passthroughs, cols.passthroughs.agent, cols.passthroughs.date, w),
		types.MetricHotPasses:    aggregator.Count(bundle.HotPasses, cols.hotPasses.agent, cols.hotPasses.date, w),
		types.MetricBookings:     aggregator.Count(bundle.Bookings, cols.bookings.agent, cols.bookings.date, w),
		types.MetricNonConverted: aggregator.CountByOrigin(bundle.NonConverted, cols.nonConverted.agent, cols.nonConverted.trip, origins, w),
	}
	m := aggregator.Assemble(tallies)
	logSkips(log, m.Skipped)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rep := &Report{
		RunID:       runID,
		GeneratedAt: now,
		Params:      *params,
		Window:      windowEcho(params.Timeframe, w),
		Source:      bundle.Stats(),
		Skipped:     m.Skipped,
	}

	for _, name := range m.AgentNames() {
		daily := m.Agents[name]
		total := daily.Total()
		rep.Agents = append(rep.Agents, AgentSummary{
			Agent:  name,
			Senior: params.IsSenior(name),
			Totals: total,
			Rates:  rateMap(total),
			Daily:  daily,
		})
	}

	deptDaily := m.Department()
	deptFrame := buildFrame(deptDaily, m.Dates)
	trends := map[string]Trend{}
	for _, metric := range allMetrics() {
		name := metric.String()
		fit, ok := regression.Best(deptFrame.Series[name], params.MinR2)
		if !ok {
			continue
		}
		trends[name] = trendOf(fit)
		deptFrame.Order = append(deptFrame.Order, name+"_trend")
		deptFrame.Series[name+"_trend"] = fit.Predicted
	}
	deptTotal := deptDaily.Total()
	rep.Department = Group{
		Agents: m.AgentNames(),
		Totals: deptTotal,
		Rates:  rateMap(deptTotal),
		Chart:  downsample.Decimate(deptFrame, params.ChartPoints),
	}
	if len(trends) > 0 {
		rep.Trends = trends
	}

	if len(params.SeniorAgents) > 0 {
		seniors := buildGroup(m, params.IsSenior, params.ChartPoints)
		others := buildGroup(m, func(a string) bool { return !params.IsSenior(a) }, params.ChartPoints)
		rep.Seniors = &seniors
		rep.NonSeniors = &others
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	analyses, err := segmentAnalyses(bundle, cols.trips, w, params)
	if err != nil {
		return nil, err
	}
	rep.Segments = analyses

	if in, ok := segmentInput(bundle, cols.trips, w, params, segments.Region); ok {
		devs, err := segments.Deviations(in, types.MetricTripToQuote)
		if err != nil {
			return nil, err
		}
		rep.Deviations = devs

		recs := map[string][]actionable.Recommendation{}
		for _, metric := range []types.Metric{types.MetricTripToPassthrough, types.MetricPassthroughToQuote} {
			a, err := segments.Analyze(in, segments.Region, metric)
			if err != nil {
				return nil, err
			}
			if r := actionable.Generate(a, metric); len(r) > 0 {
				recs[metric.String()] = r
			}
		}
		if len(recs) > 0 {
			rep.Recommendations = recs
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if comparison, ok := cohort.Compare(m, params.CohortMinPassthroughs); ok {
		rep.Cohorts = &comparison
	}

	if cols.hotPasses.trip != "" && cols.bookings.trip != "" {
		rep.Bookings = aggregator.LinkBookings(aggregator.LinkInput{
			HotPasses:     bundle.HotPasses,
			Bookings:      bundle.Bookings,
			AgentKey:      cols.hotPasses.agent,
			TripKey:       cols.hotPasses.trip,
			DateKey:       cols.hotPasses.date,
			BookedTripKey: cols.bookings.trip,
			Window:        w,
		})
	}

	rep.Profiles = buildProfiles(bundle, cols, w)

	if cols.reason != "" {
		rep.Reasons = aggregator.CountReasons(bundle.NonConverted, cols.reason)
	}

	rep.DurationMs = time.Since(start).Milliseconds()
	log.WithFields(logrus.Fields{
		"duration_ms": rep.DurationMs,
		"agents":      len(rep.Agents),
		"dates":       len(m.Dates),
		"segments":    len(rep.Segments),
	}).Info("analysis run complete")
	return rep, nil
}

// columnSet holds one collection's resolved header names. A blank field
// means the header was not found; folds then skip what they cannot
// read.
type columnSet struct {
	agent string
	date  string
	trip  string
}

// tripColumns extends columnSet with the category and lifecycle-marker
// headers only the trips sheet carries.
type tripColumns struct {
	columnSet
	region     string
	clientType string
	channel    string
	pass       string
	quote      string
	hot        string
}

type resolved struct {
	trips        tripColumns
	quotes       columnSet
	passthroughs columnSet
	hotPasses    columnSet
	bookings     columnSet
	nonConverted columnSet
	reason       string
}

func resolveColumns(b *types.Bundle) resolved {
	var r resolved
	r.trips.columnSet = collectionColumns(b.Trips, nil)
	r.trips.region, _ = columns.FromRows(b.Trips, columns.Region)
	r.trips.clientType, _ = columns.FromRows(b.Trips, columns.ClientType)
	r.trips.channel, _ = columns.FromRows(b.Trips, columns.Channel)
	r.trips.pass, _ = columns.FromRows(b.Trips, columns.PassthroughDate)
	r.trips.quote, _ = columns.FromRows(b.Trips, columns.QuoteSent)
	r.trips.hot, _ = columns.FromRows(b.Trips, columns.HotPass)

	r.quotes = collectionColumns(b.Quotes, columns.QuoteSent)
	r.passthroughs = collectionColumns(b.Passthroughs, columns.PassthroughDate)
	r.hotPasses = collectionColumns(b.HotPasses, columns.HotPass)
	r.bookings = collectionColumns(b.Bookings, columns.BookingDate)
	r.nonConverted = collectionColumns(b.NonConverted, nil)
	r.reason, _ = columns.FromRows(b.NonConverted, columns.Reason)
	return r
}

// collectionColumns resolves the shared trio of headers. The date tries
// the collection's own event column first, then the generic created
// column.
func collectionColumns(rows []types.Record, dateCandidates []string) columnSet {
	var c columnSet
	c.agent, _ = columns.FromRows(rows, columns.Agent)
	if len(dateCandidates) > 0 {
		c.date, _ = columns.FromRows(rows, dateCandidates)
	}
	if c.date == "" {
		c.date, _ = columns.FromRows(rows, columns.Created)
	}
	c.trip, _ = columns.FromRows(rows, columns.TripName)
	return c
}

func segmentInput(b *types.Bundle, cols tripColumns, w temporal.Window, p *config.Params, dim segments.Dimension) (segments.Input, bool) {
	var key string
	var excluded []string
	switch dim {
	case segments.Region:
		key, excluded = cols.region, p.ExcludedRegions
	case segments.ClientType:
		key = cols.clientType
	case segments.Channel:
		key = cols.channel
	}
	if key == "" || len(b.Trips) == 0 {
		return segments.Input{}, false
	}
	return segments.Input{
		Rows:        b.Trips,
		CategoryKey: key,
		AgentKey:    cols.agent,
		CreatedKey:  cols.date,
		PassKey:     cols.pass,
		QuoteKey:    cols.quote,
		HotKey:      cols.hot,
		Window:      w,
		MinVolume:   p.RegionMinVolume,
		AgentMin:    p.AgentMinVolume,
		Excluded:    excluded,
	}, true
}

func segmentAnalyses(b *types.Bundle, cols tripColumns, w temporal.Window, p *config.Params) ([]segments.Analysis, error) {
	var out []segments.Analysis
	for _, dim := range []segments.Dimension{segments.Region, segments.ClientType, segments.Channel} {
		in, ok := segmentInput(b, cols, w, p, dim)
		if !ok {
			continue
		}
		a, err := segments.Analyze(in, dim, types.MetricTripToQuote)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func buildProfiles(b *types.Bundle, cols resolved, w temporal.Window) map[string]aggregator.TimeProfile {
	profiles := map[string]aggregator.TimeProfile{}
	add := func(name string, rows []types.Record, dateKey string) {
		if len(rows) == 0 || dateKey == "" {
			return
		}
		p := aggregator.Profile(rows, dateKey, w)
		if !p.HasTimeOfDay {
			p.ByBucket = nil
		}
		profiles[name] = p
	}
	add(types.MetricTrips.String(), b.Trips, cols.trips.date)
	add(types.MetricQuotes.String(), b.Quotes, cols.quotes.date)
	add(types.MetricPassthroughs.String(), b.Passthroughs, cols.passthroughs.date)
	add(types.MetricHotPasses.String(), b.HotPasses, cols.hotPasses.date)
	add(types.MetricBookings.String(), b.Bookings, cols.bookings.date)
	if len(profiles) == 0 {
		return nil
	}
	return profiles
}

func logSkips(log *logrus.Entry, skipped map[string]aggregator.SkipCounts) {
	for collection, sk := range skipped {
		if sk == (aggregator.SkipCounts{}) {
			continue
		}
		log.WithFields(logrus.Fields{
			"collection":    collection,
			"no_agent":      sk.NoAgent,
			"bad_date":      sk.BadDate,
			"no_origin":     sk.NoOrigin,
			"out_of_window": sk.OutOfWindow,
		}).Debug("rows skipped during aggregation")
	}
}
