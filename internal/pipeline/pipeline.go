package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/couchcryptid/recruit-map-etl/internal/domain"
	"github.com/couchcryptid/recruit-map-etl/internal/observability"
)

// ErrEmptyBatch is returned when Ingest is called without any uploads.
// Callers show an onboarding state instead of a dataset.
var ErrEmptyBatch = errors.New("no files uploaded")

// Upload is one file in a batch. Open is called once and the reader is closed
// after parsing.
type Upload struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// Parser reads one uploaded file into a raw table.
type Parser interface {
	Parse(name string, r io.Reader) (domain.RawTable, error)
}

// RecordSink receives every dataset built by the pipeline.
type RecordSink interface {
	Publish(ctx context.Context, batchID string, ds domain.Dataset) error
}

// Pipeline turns upload batches into geocoded datasets.
type Pipeline struct {
	parser   Parser
	resolver domain.Resolver
	sink     RecordSink
	logger   *slog.Logger
	metrics  *observability.Metrics
	progress func(done, total int)
}

// New creates a Pipeline. Pass a nil sink to skip publishing.
func New(parser Parser, resolver domain.Resolver, sink RecordSink, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		parser:   parser,
		resolver: resolver,
		sink:     sink,
		logger:   logger,
		metrics:  metrics,
	}
}

// OnProgress registers a callback invoked after each file is handled.
func (p *Pipeline) OnProgress(fn func(done, total int)) {
	p.progress = fn
}

// CheckReadiness returns nil once the city reference table is available.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if domain.KnownCities() == 0 {
		return errors.New("city coordinate table is empty")
	}
	return nil
}

// Ingest parses, normalizes, merges, and geocodes a batch in upload order.
// Files that cannot be parsed are skipped and reported as notices on the
// returned dataset. The only errors are ErrEmptyBatch and context
// cancellation.
func (p *Pipeline) Ingest(ctx context.Context, batchID string, uploads []Upload) (domain.Dataset, error) {
	if len(uploads) == 0 {
		return domain.Dataset{}, ErrEmptyBatch
	}

	start := time.Now()
	p.metrics.BatchFiles.Observe(float64(len(uploads)))

	tables := make([]domain.CanonicalTable, 0, len(uploads))
	labels := make([]string, 0, len(uploads))
	var notices []domain.Notice

	for i, up := range uploads {
		if err := ctx.Err(); err != nil {
			return domain.Dataset{}, err
		}

		raw, err := p.parse(up)
		if err != nil {
			p.logger.Warn("parse failed, skipping file", "file", up.Name, "error", err)
			p.metrics.FilesFailed.Inc()
			notices = append(notices, domain.Notice{
				Kind:    domain.NoticeUnparsableFile,
				Source:  up.Name,
				Message: err.Error(),
			})
		} else {
			p.metrics.FilesParsed.Inc()
			tables = append(tables, domain.NormalizeColumns(raw))
			labels = append(labels, up.Name)
			p.logger.Debug("file normalized", "file", up.Name, "records", len(raw.Records))
		}

		if p.progress != nil {
			p.progress(i+1, len(uploads))
		}
	}

	ds := domain.Geocode(domain.MergeSources(tables, labels), p.resolver)
	ds.Notices = append(ds.Notices, notices...)
	p.observe(ds)

	if p.sink != nil && ds.Len() > 0 {
		if err := p.sink.Publish(ctx, batchID, ds); err != nil {
			p.logger.Error("publish dataset failed", "batch_id", batchID, "error", err)
			p.metrics.PublishErrors.Inc()
			ds.Notices = append(ds.Notices, domain.Notice{
				Kind:    domain.NoticeSinkFailed,
				Message: err.Error(),
			})
		} else {
			p.metrics.RecordsPublished.Add(float64(ds.Len()))
		}
	}

	p.metrics.BatchesIngested.Inc()
	p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
	p.logger.Info("batch ingested",
		"batch_id", batchID,
		"files", len(uploads),
		"skipped", len(notices),
		"records", ds.Len(),
		"policy", p.resolver.Policy(),
	)
	return ds, nil
}

func (p *Pipeline) parse(up Upload) (domain.RawTable, error) {
	if up.Open == nil {
		return domain.RawTable{}, errors.New("upload has no content")
	}
	rc, err := up.Open()
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("open %s: %w", up.Name, err)
	}
	defer rc.Close()

	return p.parser.Parse(up.Name, rc)
}

func (p *Pipeline) observe(ds domain.Dataset) {
	p.metrics.RecordsIngested.Add(float64(ds.Len()))
	for _, rec := range ds.Records {
		p.metrics.GeocodeOutcomes.WithLabelValues(rec.GeoSource).Inc()
	}
}
