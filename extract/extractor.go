package extract

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/kanko/errors"
	"github.com/kbukum/kanko/jsonval"
	"github.com/kbukum/kanko/kanko"
	"github.com/kbukum/kanko/logger"
	"github.com/kbukum/kanko/observability"
	"github.com/kbukum/kanko/paging"
	"github.com/kbukum/kanko/pipeline"
	"github.com/kbukum/kanko/spot"
)

// ComponentName tags the extractor's log lines and names its logger binding.
const ComponentName = "extract"

// SpotSource is the remote side of an extraction. *kanko.Client implements it.
type SpotSource interface {
	Count(ctx context.Context, category string) (kanko.Count, error)
	Spots(ctx context.Context, page paging.Page) ([]jsonval.Value, error)
}

// RowSink receives projected records in stream order. *tsv.Writer implements it.
type RowSink interface {
	Write(r spot.Record) error
}

// Spot is a raw record together with the request that produced it.
type Spot struct {
	Category string
	Page     paging.Page
	Raw      jsonval.Value
}

// Summary describes a finished (or aborted) run.
type Summary struct {
	RunID      string        `json:"run_id"`
	Categories int           `json:"categories"`
	Pages      int           `json:"pages"`
	Records    int           `json:"records"`
	Duration   time.Duration `json:"duration"`
}

func (s Summary) fields() map[string]interface{} {
	return logger.Fields(
		"categories", s.Categories,
		"pages", s.Pages,
		"records", s.Records,
		logger.FieldDuration, s.Duration.Milliseconds(),
	)
}

// Extractor turns a category list into a lazy stream of output records.
type Extractor struct {
	source     SpotSource
	categories []string
	metrics    *observability.Metrics
	log        *logger.Logger
	runID      string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger for progress and summary lines.
func WithLogger(l *logger.Logger) Option {
	return func(e *Extractor) { e.log = l }
}

// WithMetrics counts fetched pages and records on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Extractor) { e.metrics = m }
}

// WithRunID replaces the generated run identifier. Empty ids are ignored.
func WithRunID(id string) Option {
	return func(e *Extractor) {
		if id != "" {
			e.runID = id
		}
	}
}

// New creates an extractor over categories. The list is copied; categories
// are visited in the given order without reordering or deduplication.
func New(source SpotSource, categories []string, opts ...Option) *Extractor {
	e := &Extractor{
		source:     source,
		categories: append([]string(nil), categories...),
		log:        logger.Get(ComponentName),
		runID:      uuid.NewString(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RunID returns the identifier attached to this extractor's logs and spans.
func (e *Extractor) RunID() string {
	return e.runID
}

// Categories returns a copy of the category list.
func (e *Extractor) Categories() []string {
	return append([]string(nil), e.categories...)
}

// Records returns the record stream. Nothing is fetched until a record is
// pulled, and page N+1 is requested only once page N has been consumed.
// Every traversal issues its own requests.
func (e *Extractor) Records() *pipeline.Pipeline[spot.Record] {
	return e.records(&tally{})
}

// Run drains the record stream into sink. The first failure stops the run;
// rows written before it stay written.
func (e *Extractor) Run(ctx context.Context, sink RowSink) (Summary, error) {
	start := time.Now()
	ctx = logger.ContextWithRunID(ctx, e.runID)
	ctx, span := observability.StartSpan(ctx, observability.SpanExtractRun, trace.WithAttributes(
		attribute.String(observability.AttrRunID, e.runID),
		attribute.StringSlice("extract.categories", e.categories),
	))
	defer span.End()

	log := e.log.WithContext(ctx)
	log.Info("extraction started", logger.Fields("categories", e.categories))

	t := &tally{}
	err := pipeline.Drain(e.records(t), func(ctx context.Context, r spot.Record) error {
		if err := sink.Write(r); err != nil {
			e.metrics.RecordError(ctx, string(errors.Wrap(err).Code), "sink")
			return err
		}
		t.records++
		return nil
	}).Run(ctx)

	summary := Summary{
		RunID:      e.runID,
		Categories: t.categories,
		Pages:      t.pages,
		Records:    t.records,
		Duration:   time.Since(start),
	}
	span.SetAttributes(attribute.Int(observability.AttrRecords, summary.Records))

	if err != nil {
		observability.SetSpanError(ctx, err)
		fields := summary.fields()
		fields[logger.FieldError] = err.Error()
		appErr := errors.Wrap(err)
		fields["code"] = string(appErr.Code)
		fields["stage"] = failedStage(err)
		if hint, ok := appErr.Details["hint"]; ok {
			fields["hint"] = hint
		}
		log.Error("extraction failed", fields)
		return summary, err
	}

	log.Info("extraction complete", summary.fields())
	return summary, nil
}

// failedStage names the side of the run an error came from.
func failedStage(err error) string {
	switch {
	case errors.IsTransport(err), errors.IsDecode(err):
		return "remote"
	case errors.CodeOf(err) == errors.ErrCodeOutput:
		return "sink"
	default:
		return "run"
	}
}

// tally counts progress through one traversal.
type tally struct {
	categories int
	pages      int
	records    int
}

// categoryRun is a resolved count plus the span covering the category.
type categoryRun struct {
	count kanko.Count
	span  trace.Span
}

// pageRequest is a planned page tied to its category span.
type pageRequest struct {
	page paging.Page
	span trace.Span
}

func (e *Extractor) records(t *tally) *pipeline.Pipeline[spot.Record] {
	runs := pipeline.Map(pipeline.FromSlice(e.categories), e.countStage(t))
	pages := pipeline.FlatMap(runs, e.planStage)
	spots := pipeline.FlatMap(pages, e.fetchStage(t))
	records := pipeline.Map(spots, func(_ context.Context, s Spot) (spot.Record, error) {
		return spot.Project(s.Raw), nil
	})
	return pipeline.Execute(records, e.debugStage)
}

func (e *Extractor) countStage(t *tally) func(context.Context, string) (categoryRun, error) {
	return func(ctx context.Context, category string) (categoryRun, error) {
		ctx, span := observability.StartSpan(ctx, observability.SpanExtractCategory, trace.WithAttributes(
			attribute.String(observability.AttrCategory, category),
		))

		count, err := e.source.Count(ctx, category)
		if err != nil {
			observability.SetSpanError(ctx, err)
			span.End()
			return categoryRun{}, err
		}

		t.categories++
		span.SetAttributes(attribute.Int(observability.AttrTotal, count.Total))
		e.log.WithContext(ctx).Info("category counted", logger.Fields(
			logger.FieldCategory, category,
			logger.FieldCount, count.Total,
			"pages", paging.Count(count.Total),
		))
		return categoryRun{count: count, span: span}, nil
	}
}

func (e *Extractor) planStage(_ context.Context, run categoryRun) (pipeline.Iterator[pageRequest], error) {
	return &categoryPages{
		pages: paging.Plan(run.count.Category, run.count.Total),
		span:  run.span,
	}, nil
}

func (e *Extractor) fetchStage(t *tally) func(context.Context, pageRequest) (pipeline.Iterator[Spot], error) {
	return func(ctx context.Context, req pageRequest) (pipeline.Iterator[Spot], error) {
		ctx = trace.ContextWithSpan(ctx, req.span)

		raws, err := e.source.Spots(ctx, req.page)
		if err != nil {
			observability.SetSpanError(ctx, err)
			return nil, err
		}

		t.pages++
		e.metrics.RecordPage(ctx, req.page.Category, len(raws))

		spots := make([]Spot, len(raws))
		for i, raw := range raws {
			spots[i] = Spot{Category: req.page.Category, Page: req.page, Raw: raw}
		}
		return pipeline.Slice(spots), nil
	}
}

// debugStage logs every projected record when debug logging is on.
func (e *Extractor) debugStage(p *pipeline.Pipeline[spot.Record]) *pipeline.Pipeline[spot.Record] {
	if !e.log.Enabled(zerolog.DebugLevel) {
		return p
	}
	return pipeline.Tap(p, func(ctx context.Context, r spot.Record) error {
		e.log.WithContext(ctx).Debug("record", logger.Fields(
			"name", r.Name,
			"category1", r.Category1,
			"postal_code", r.PostalCode,
		))
		return nil
	})
}

// categoryPages yields a category's planned pages and ends the category
// span once the plan is exhausted or the stream is closed early.
type categoryPages struct {
	pages pipeline.Iterator[paging.Page]
	span  trace.Span
	ended bool
}

func (c *categoryPages) Next(ctx context.Context) (pageRequest, bool, error) {
	p, ok, err := c.pages.Next(ctx)
	if err != nil || !ok {
		c.end()
		return pageRequest{}, false, err
	}
	return pageRequest{page: p, span: c.span}, true, nil
}

func (c *categoryPages) Close() error {
	c.end()
	return c.pages.Close()
}

func (c *categoryPages) end() {
	if !c.ended {
		c.ended = true
		c.span.End()
	}
}
