package operations

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"logmerge/internal/config"
	"logmerge/internal/dataprocessing"
	"logmerge/internal/errors"
	"logmerge/internal/exporter"
	"logmerge/internal/ingest"
	"logmerge/internal/table"
)

// Stage identifies a phase of the batch for progress reporting.
type Stage string

const (
	StageIngest     Stage = "ingest"
	StageDownsample Stage = "downsample"
	StageMerge      Stage = "merge"
	StageExport     Stage = "export"
)

// Observer receives progress events. Fraction is overall batch
// progress in [0,1]. The pipeline never prints; presentation is the
// observer's problem.
type Observer func(stage Stage, fraction float64, message string)

// InputFile is one uploaded file: raw bytes plus the name used in
// diagnostics.
type InputFile struct {
	Name string
	Data []byte
}

// Result is the outcome of one batch run.
type Result struct {
	// CSV is the exported artifact; nil when the batch was empty.
	CSV []byte
	// Rows is the number of rows in the merged table.
	Rows int
	// Diagnostics lists everything that went wrong, in order.
	Diagnostics errors.List
	// Timings per stage, for the completion summary.
	ReadDuration   time.Duration
	FilterDuration time.Duration
	MergeDuration  time.Duration
}

// Runner drives the normalization → downsampling → merge → export
// pipeline for one batch of files.
type Runner struct {
	cfg      config.PipelineConfig
	logger   *slog.Logger
	observer Observer
}

// NewRunner creates a batch runner. observer may be nil.
func NewRunner(cfg config.PipelineConfig, logger *slog.Logger, observer Observer) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if observer == nil {
		observer = func(Stage, float64, string) {}
	}
	return &Runner{cfg: cfg, logger: logger, observer: observer}
}

// Options overrides batch parameters for a single run; zero values
// fall back to the configured defaults.
type Options struct {
	IntervalSeconds *int
	DedupPolicy     string
}

// Run processes the batch and returns the merged CSV plus all
// accumulated diagnostics. The only error conditions are an empty
// batch (errors.ErrEmptyBatch) and context cancellation; per-file and
// per-row failures are diagnostics, not errors.
func (r *Runner) Run(ctx context.Context, files []InputFile, opts Options) (*Result, error) {
	interval := r.cfg.IntervalSeconds
	if opts.IntervalSeconds != nil {
		interval = *opts.IntervalSeconds
	}
	policy := dataprocessing.DedupPolicy(r.cfg.DedupPolicy)
	if opts.DedupPolicy != "" {
		policy = dataprocessing.DedupPolicy(opts.DedupPolicy)
	}

	batchID := uuid.New().String()
	log := r.logger.With(slog.String("batch_id", batchID))
	log.Info("starting batch",
		slog.Int("files", len(files)),
		slog.Int("interval_seconds", interval),
		slog.String("dedup_policy", string(policy)))

	res := &Result{}

	// Stage 1: ingest + resolve + normalize, per file. Files are
	// independent here; normalization runs in a bounded worker pool.
	readStart := time.Now()
	tables, err := r.normalizeAll(ctx, files, log, res)
	if err != nil {
		return nil, err
	}
	res.ReadDuration = time.Since(readStart)

	// Barrier: every file must be normalized before any file can be
	// downsampled, because the bucket base is the batch-wide minimum.
	base, ok := batchBase(tables)
	if !ok {
		res.Diagnostics.Add(errors.EmptyBatch())
		log.Warn("batch produced no valid rows")
		return res, errors.ErrEmptyBatch
	}

	// Stage 2: downsample each file onto the shared grid, releasing
	// the full table as soon as its reduced table exists.
	filterStart := time.Now()
	for i, t := range tables {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if t == nil {
			continue
		}
		tables[i] = dataprocessing.Downsample(t, interval, base, r.cfg.CriticalColumn)
		r.observer(StageDownsample, 0.5+0.3*float64(i+1)/float64(len(tables)),
			fmt.Sprintf("downsampling %d/%d", i+1, len(tables)))
	}
	res.FilterDuration = time.Since(filterStart)

	// Stage 3: merge, dedup, sort.
	mergeStart := time.Now()
	final := dataprocessing.Merge(nonNil(tables), policy)
	res.MergeDuration = time.Since(mergeStart)
	res.Rows = final.Len()
	r.observer(StageMerge, 0.9, fmt.Sprintf("merged %d rows", final.Len()))

	if final.IsEmpty() {
		res.Diagnostics.Add(errors.EmptyBatch())
		log.Warn("merge produced no rows")
		return res, errors.ErrEmptyBatch
	}

	// Stage 4: export.
	exportOpts := exporter.DefaultOptions()
	exportOpts.IncludeTimestamp = r.cfg.IncludeTimestamp
	csvBytes, err := exporter.WriteCSV(final, exportOpts)
	if err != nil {
		return nil, fmt.Errorf("export failed: %w", err)
	}
	res.CSV = csvBytes
	r.observer(StageExport, 1.0, fmt.Sprintf(
		"done: %d rows (read %.2fs, filter %.2fs, merge %.2fs)",
		res.Rows, res.ReadDuration.Seconds(), res.FilterDuration.Seconds(), res.MergeDuration.Seconds()))

	log.Info("batch complete",
		slog.Int("rows", res.Rows),
		slog.Int("diagnostics", len(res.Diagnostics)),
		slog.Duration("read", res.ReadDuration),
		slog.Duration("filter", res.FilterDuration),
		slog.Duration("merge", res.MergeDuration))
	return res, nil
}

// normalizeAll runs ingest → resolve → normalize for each file.
// Results and diagnostics keep input order regardless of which worker
// finished first.
func (r *Runner) normalizeAll(ctx context.Context, files []InputFile, log *slog.Logger, res *Result) ([]*table.Table, error) {
	tables := make([]*table.Table, len(files))
	diags := make([]errors.List, len(files))

	var mu sync.Mutex
	done := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tables[i], diags[i] = r.normalizeFile(f, log)

			mu.Lock()
			done++
			n := done
			mu.Unlock()
			r.observer(StageIngest, 0.5*float64(n)/float64(len(files)),
				fmt.Sprintf("reading %d/%d: %s (%d rows)", n, len(files), f.Name, tables[i].Len()))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, d := range diags {
		res.Diagnostics.Add(d...)
	}
	return tables, nil
}

// normalizeFile takes one file from raw bytes to a normalized table.
// Any failure leaves a nil table and the reason in the diagnostics.
func (r *Runner) normalizeFile(f InputFile, log *slog.Logger) (*table.Table, errors.List) {
	t, diags := ingest.Read(f.Data, f.Name, r.cfg.MaxRowsPerFile)
	if t == nil {
		return nil, diags
	}

	t, resolveDiags := dataprocessing.Resolve(t)
	diags.Add(resolveDiags...)
	if t == nil {
		return nil, diags
	}

	t, normDiags := dataprocessing.Normalize(t)
	diags.Add(normDiags...)

	log.Debug("normalized file",
		slog.String("file", f.Name),
		slog.Int("rows", t.Len()),
		slog.Int("dropped", len(normDiags)))
	return t, diags
}

// batchBase returns the minimum timestamp across every normalized
// table, the shared origin all bucket boundaries are computed from.
func batchBase(tables []*table.Table) (time.Time, bool) {
	var base time.Time
	found := false
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, ts := range t.Timestamps {
			if !found || ts.Before(base) {
				base = ts
				found = true
			}
		}
	}
	return base, found
}

func nonNil(tables []*table.Table) []*table.Table {
	out := make([]*table.Table, 0, len(tables))
	for _, t := range tables {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}
