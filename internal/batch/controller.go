// Package batch runs a table of judged questions through the admission
// engine and persists the admitted rows, the audit log and the score
// aggregate.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/mcqa-filter/internal/admission"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/aggregate"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/apperr"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/ingest/reader"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/judge"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/storage"
	"golang.org/x/sync/errgroup"
)

// Source streams input rows from a 1-based start line.
type Source interface {
	Stream(ctx context.Context, startLine int) <-chan reader.RowResult
}

// TableWriter receives admitted rows in input order.
type TableWriter interface {
	Write(values []string) error
	Flush() error
}

// ScoreStore persists the score aggregate across runs.
type ScoreStore interface {
	Load() (aggregate.RunAggregate, error)
	Append(delta aggregate.RunAggregate) (aggregate.RunAggregate, error)
}

// Controller judges rows concurrently and writes their results from a single
// goroutine in input order. Only a contiguous prefix of the input is ever
// written, so an interrupted run resumes at Summary.NextLine.
type Controller struct {
	judge  judge.Judge
	engine *admission.Engine
	table  TableWriter
	audit  storage.AuditStore
	scores ScoreStore

	concurrency     int
	startLine       int
	checkpointEvery int
	previewLength   int
	runID           string
}

func New(
	j judge.Judge,
	engine *admission.Engine,
	table TableWriter,
	audit storage.AuditStore,
	scores ScoreStore,
	opts ...Option,
) *Controller {
	c := &Controller{
		judge:  j,
		engine: engine,
		table:  table,
		audit:  audit,
		scores: scores,
	}
	defaults(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RunID() string {
	return c.runID
}

type outcome struct {
	row      reader.Row
	question judge.Question
	result   admission.Result
	err      error
	canceled bool
}

// Run processes every row of src from the configured start line. Row level
// failures never stop the run. The returned error reports an input read
// failure, a persistence failure or cancellation; the summary is valid in
// every case.
func (c *Controller) Run(ctx context.Context, src Source) (*Summary, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	slog.Info("Starting filter run",
		"run_id", c.runID,
		"start_line", c.startLine,
		"concurrency", c.concurrency,
		"checkpoint_every", c.checkpointEvery)

	summary := newSummary(c.runID, c.startLine)
	results := make(chan outcome, c.concurrency)
	readErr := make(chan error, 1)

	go c.dispatch(runCtx, src, results, readErr)

	w := &runWriter{c: c, summary: summary, delta: aggregate.New()}
	next := c.startLine
	pending := make(map[int]outcome)
	var runErr error
	stopped := false

	for o := range results {
		if stopped {
			continue
		}
		pending[o.row.Index] = o

		for {
			p, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)

			if p.canceled {
				stopped = true
				break
			}
			err := w.handle(runCtx, p)
			next++
			if err != nil {
				runErr = err
				stopped = true
				cancel()
				break
			}
		}
	}
	summary.NextLine = next

	flushCtx := context.WithoutCancel(ctx)
	if err := w.checkpoint(flushCtx); err != nil && runErr == nil {
		runErr = err
	}
	if rc, ok := c.audit.(storage.RunCounter); ok && runErr == nil {
		if n, err := rc.CountRun(flushCtx, c.runID); err != nil {
			slog.Warn("Failed to count audit entries", "run_id", c.runID, "error", err)
		} else {
			summary.Audited = &n
		}
	}
	if !w.appended {
		cumulative, err := c.scores.Load()
		if err != nil && runErr == nil {
			runErr = err
		}
		summary.Cumulative = cumulative
	}

	if err := <-readErr; err != nil && runErr == nil {
		runErr = err
	}
	if ctx.Err() != nil {
		summary.Canceled = true
		if runErr == nil {
			runErr = ctx.Err()
		}
	}
	summary.Duration = time.Since(summary.StartedAt)

	slog.Info("Filter run finished",
		"run_id", c.runID,
		"processed", summary.Processed,
		"passed", summary.Passed,
		"warned", summary.Warned,
		"filtered", summary.Filtered,
		"row_errors", summary.RowErrors,
		"next_line", summary.NextLine,
		"canceled", summary.Canceled,
		"duration", summary.Duration)

	return summary, runErr
}

// dispatch fans rows out to at most c.concurrency judge calls and closes
// results once every call has finished.
func (c *Controller) dispatch(ctx context.Context, src Source, results chan<- outcome, readErr chan<- error) {
	defer close(readErr)

	var g errgroup.Group
	g.SetLimit(c.concurrency)

	var streamErr error
	for rr := range src.Stream(ctx, c.startLine) {
		if rr.Err != nil {
			streamErr = fmt.Errorf("failed to read input: %w", rr.Err)
			break
		}
		row := rr.Row
		g.Go(func() error {
			results <- c.process(ctx, row)
			return nil
		})
	}

	_ = g.Wait()
	close(results)
	readErr <- streamErr
}

func (c *Controller) process(ctx context.Context, row reader.Row) (out outcome) {
	var q judge.Question
	defer func() {
		if v := recover(); v != nil {
			out = outcome{row: row, question: q, err: &apperr.PanicError{Value: v}}
		}
	}()

	q = judge.QuestionFromRecord(row.Index, row.Record)
	slog.Debug("Evaluating question", "row", row.Index, "question", q.Preview(logPreviewLength))

	raw, err := c.judge.Judge(ctx, q)
	if err != nil {
		if ctx.Err() != nil {
			return outcome{row: row, question: q, canceled: true}
		}
		return outcome{row: row, question: q, err: err}
	}
	return outcome{row: row, question: q, result: c.engine.Evaluate(raw)}
}

// runWriter owns every write of a run. It is only used by the goroutine
// executing Run.
type runWriter struct {
	c          *Controller
	summary    *Summary
	delta      aggregate.RunAggregate
	auditBuf   []storage.AuditEntry
	sinceFlush int
	appended   bool
}

func (w *runWriter) handle(ctx context.Context, o outcome) error {
	s := w.summary
	s.Processed++

	switch {
	case o.err != nil:
		s.RowErrors++
		slog.Error("Row processing failed, keeping question",
			"row", o.row.Index,
			"error", o.err,
			"error_kind", apperr.KindOf(o.err))
		if err := w.c.table.Write(o.row.Values); err != nil {
			return err
		}

	default:
		res := o.result
		for _, reason := range res.Decision.Reasons {
			s.Reasons[reason]++
		}
		w.delta.Record(res.Admitted(), res.Score())
		s.Run.Record(res.Admitted(), res.Score())

		switch res.Decision.Outcome {
		case admission.Reject:
			s.Filtered++
			for _, kind := range res.Verdict.Kinds() {
				s.Kinds[kind]++
			}
			w.auditBuf = append(w.auditBuf, w.auditEntry(o))
		case admission.Warn:
			s.Warned++
		default:
			s.Passed++
		}

		if res.Admitted() {
			if err := w.c.table.Write(o.row.Values); err != nil {
				return err
			}
		}

		slog.Info("Question evaluated",
			"row", o.row.Index,
			"outcome", res.Decision.Outcome,
			"score", res.Score(),
			"reasons", res.Decision.Reasons)
	}

	w.sinceFlush++
	if w.sinceFlush >= w.c.checkpointEvery {
		return w.checkpoint(context.WithoutCancel(ctx))
	}
	return nil
}

func (w *runWriter) auditEntry(o outcome) storage.AuditEntry {
	res := o.result
	return storage.AuditEntry{
		RunID:           w.c.runID,
		QuestionIndex:   o.row.Index,
		QuestionPreview: o.question.Preview(w.c.previewLength),
		Errors:          res.Verdict.Errors,
		Score:           res.Score(),
		Outcome:         string(res.Decision.Outcome),
		Reasons:         res.Decision.Reasons,
	}
}

// checkpoint flushes the output table, saves buffered audit entries and
// appends the score delta to the aggregate store.
func (w *runWriter) checkpoint(ctx context.Context) error {
	if w.sinceFlush == 0 && len(w.auditBuf) == 0 && w.delta.Empty() {
		return nil
	}

	var errs []error
	if err := w.c.table.Flush(); err != nil {
		errs = append(errs, err)
	}
	if len(w.auditBuf) > 0 {
		if err := w.c.audit.SaveBulk(ctx, w.auditBuf); err != nil {
			errs = append(errs, fmt.Errorf("failed to save audit entries: %w", err))
		} else {
			w.auditBuf = nil
		}
	}
	if !w.delta.Empty() {
		cumulative, err := w.c.scores.Append(w.delta)
		if err != nil {
			errs = append(errs, err)
		} else {
			w.summary.Cumulative = cumulative
			w.delta = aggregate.New()
			w.appended = true
		}
	}

	w.sinceFlush = 0
	slog.Debug("Checkpoint written", "run_id", w.c.runID, "processed", w.summary.Processed)

	return errors.Join(errs...)
}
