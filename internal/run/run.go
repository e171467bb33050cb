// Package run drives one merge batch: load the registry, resolve every
// record in input order, write the audit report and persist the result.
package run

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"biochemreg/internal/blob"
	"biochemreg/internal/intake"
	"biochemreg/internal/metrics"
	"biochemreg/internal/report"
	"biochemreg/internal/resolve"
	"biochemreg/pkg/domain"
)

// ReportContentType is stored with every audit report.
const ReportContentType = "text/tab-separated-values"

// Report metadata keys. Lower case so every sink returns them unchanged.
const (
	MetaRunID   = "run-id"
	MetaSource  = "source"
	MetaRecords = "records"
	MetaInput   = "input"
)

var (
	// ErrNoInput is returned when Options.Input is nil.
	ErrNoInput = errors.New("run: input required")
	// ErrNoReportSink is returned when a report is requested without a sink.
	ErrNoReportSink = errors.New("run: report requested but no report sink configured")
	// ErrNoCuratorValidator is returned for curated runs without a validator.
	ErrNoCuratorValidator = errors.New("run: curator given but no validator configured")
)

// CuratorValidator confirms that a curator login exists.
type CuratorValidator interface {
	Validate(ctx context.Context, login string) error
}

// Options describes one batch.
type Options struct {
	Input io.Reader
	// InputName is the path or name of the input; the report is stored as
	// report.FileName(InputName).
	InputName string
	// Source is the external database the records come from. Ignored when
	// Curator is set: curated records use the curator login as source.
	Source    string
	Curator   string
	NamesOnly bool
	// Strict aborts the run on the first malformed record instead of
	// skipping it.
	Strict      bool
	Formats     []domain.Format
	WriteReport bool
	Save        bool
}

func (o Options) source() string {
	if c := strings.TrimSpace(o.Curator); c != "" {
		return c
	}
	return strings.TrimSpace(o.Source)
}

// Runner holds the collaborators shared across runs.
type Runner struct {
	Store    domain.RegistryStore
	Reports  blob.Store
	Curators CuratorValidator
	Metrics  *metrics.Recorder
	Logger   *slog.Logger

	now   func() time.Time
	newID func() string
}

// NewRunner returns a Runner with the given store. Optional collaborators are
// set on the returned value.
func NewRunner(store domain.RegistryStore) *Runner {
	return &Runner{Store: store}
}

func (r *Runner) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now().UTC()
}

func (r *Runner) runID() string {
	if r.newID != nil {
		return r.newID()
	}
	return uuid.NewString()
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// Run processes one batch. Nothing is persisted unless every record was
// processed and opts.Save is set.
func (r *Runner) Run(ctx context.Context, opts Options) (Summary, error) {
	started := r.clock()
	sum := Summary{RunID: r.runID(), Source: opts.source(), NamesOnly: opts.NamesOnly}
	log := r.logger().With("run_id", sum.RunID, "source", sum.Source)

	if err := r.validate(opts); err != nil {
		return sum, err
	}
	if opts.Curator != "" {
		if err := r.Curators.Validate(ctx, opts.Curator); err != nil {
			return sum, fmt.Errorf("validate curator: %w", err)
		}
		log.Info("curator validated", "curator", opts.Curator)
	}

	snap, err := r.Store.Load(ctx)
	if err != nil {
		return sum, fmt.Errorf("load registry: %w", err)
	}
	res, err := resolve.New(snap, resolve.Options{
		Source:    sum.Source,
		NamesOnly: opts.NamesOnly,
		Formats:   opts.Formats,
		Logger:    r.logger().With("run_id", sum.RunID),
	})
	if err != nil {
		return sum, err
	}
	reader, err := intake.NewReader(opts.Input)
	if err != nil {
		return sum, fmt.Errorf("read %s: %w", opts.InputName, err)
	}
	log.Info("run started",
		"input", opts.InputName,
		"compounds", len(snap.Compounds),
		"names_only", opts.NamesOnly)

	if err := r.process(ctx, reader, res, opts, &sum, log); err != nil {
		sum.Stats = res.Stats()
		return sum, err
	}
	sum.Stats = res.Stats()

	if opts.WriteReport {
		info, err := r.writeReport(ctx, opts, sum)
		if err != nil {
			return sum, err
		}
		sum.Report = &info
		log.Info("report written", "key", info.Key, "url", info.URL)
	}
	if opts.Save {
		if err := r.Store.Save(ctx, res.Snapshot()); err != nil {
			return sum, fmt.Errorf("save registry: %w", err)
		}
		sum.Saved = true
		log.Info("registry saved", "compounds_created", len(sum.Stats.Created))
	}

	finished := r.clock()
	r.Metrics.Finish(started, finished)
	sum.Duration = finished.Sub(started)
	log.Info("run finished",
		"records", sum.Stats.Records,
		"skipped", len(sum.Skipped),
		"created", len(sum.Stats.Created),
		"saved", sum.Saved,
		"duration", sum.Duration)
	return sum, nil
}

func (r *Runner) validate(opts Options) error {
	if r.Store == nil {
		return errors.New("run: registry store required")
	}
	if opts.Input == nil {
		return ErrNoInput
	}
	if opts.source() == "" {
		return resolve.ErrNoSource
	}
	if opts.Curator != "" && r.Curators == nil {
		return ErrNoCuratorValidator
	}
	if opts.WriteReport && r.Reports == nil {
		return ErrNoReportSink
	}
	return nil
}

func (r *Runner) process(ctx context.Context, reader *intake.Reader, res *resolve.Resolver, opts Options, sum *Summary, log *slog.Logger) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		var bad *intake.MalformedRecordError
		if errors.As(err, &bad) {
			if opts.Strict {
				return fmt.Errorf("strict mode: %w", bad)
			}
			r.Metrics.Malformed()
			sum.Skipped = append(sum.Skipped, bad)
			log.Warn("skipping malformed record", "line", bad.Line, "reason", bad.Reason)
			continue
		}
		if err != nil {
			return err
		}
		p := res.Process(rec)
		r.Metrics.Observe(p)
		for _, w := range p.Warnings {
			log.Warn("record warning", "record", p.RecordID, "compound", p.CompoundID, "warning", w)
		}
		sum.Provenance = append(sum.Provenance, p)
	}
}

func (r *Runner) writeReport(ctx context.Context, opts Options, sum Summary) (blob.Info, error) {
	var buf bytes.Buffer
	if err := report.WriteProvenance(&buf, sum.Provenance); err != nil {
		return blob.Info{}, err
	}
	name := opts.InputName
	if name == "" {
		name = sum.RunID
	}
	key := report.FileName(name)
	info, err := r.Reports.Put(ctx, key, bytes.NewReader(buf.Bytes()), blob.PutOptions{
		ContentType: ReportContentType,
		Metadata: map[string]string{
			MetaRunID:   sum.RunID,
			MetaSource:  sum.Source,
			MetaRecords: strconv.Itoa(len(sum.Provenance)),
			MetaInput:   name,
		},
	})
	if err != nil {
		return blob.Info{}, fmt.Errorf("write report %s: %w", key, err)
	}
	return info, nil
}
