package records

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/tuva-health/EMPI/pkg/metrics"
	"github.com/tuva-health/EMPI/pkg/pagination"
	"github.com/tuva-health/EMPI/pkg/storage"
	"github.com/tuva-health/EMPI/pkg/stream"
)

// Service imports and exports person records through the storage layer.
type Service struct {
	l       *zap.Logger
	factory *storage.Factory
	store   *Store
}

func NewService(l *zap.Logger, factory *storage.Factory) *Service {
	return &Service{
		l:       l.Named("records"),
		factory: factory,
		store:   NewStore(),
	}
}

// ImportRecords reads person records from the source, stores them and
// registers an import job. sourceURI is carried for bookkeeping only; for
// uploads it is the upload:// pseudo URI.
func (s *Service) ImportRecords(ctx context.Context, source stream.Source, sourceURI, configID string) (string, error) {
	rc, err := stream.OpenSource(ctx, s.factory, source)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	parsed, err := readRecords(rc)
	if err != nil {
		return "", err
	}
	s.store.AddRecords(parsed)

	job := Job{
		ID:        uuid.New().String(),
		SourceURI: sourceURI,
		ConfigID:  configID,
		Records:   len(parsed),
		Status:    JobStatusSucceeded,
		CreatedAt: time.Now(),
	}
	s.store.AddJob(job)
	metrics.RecordsImportedCounter.WithLabelValues().Add(float64(job.Records))

	s.l.Info("imported person records",
		zap.String("job_id", job.ID),
		zap.String("source", sourceURI),
		zap.Int("records", job.Records),
	)
	return job.ID, nil
}

// ExportRecords writes all stored records to the sink as CSV. For URI sinks
// the write is finalized on Close, so a failing Close fails the export.
func (s *Service) ExportRecords(ctx context.Context, sink stream.Sink) (err error) {
	wc, err := stream.OpenSink(ctx, s.factory, sink)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, wc.Close())
	}()

	if err := writeRecords(wc, s.store.Records()); err != nil {
		return errors.Wrap(err, "failed to write record export")
	}
	return nil
}

// ListJobs returns one page of import jobs, newest first, using the
// one-ahead lookahead fetch.
func (s *Service) ListJobs(page, pageSize int) pagination.Result[Job] {
	page, pageSize = pagination.Params(page, pageSize)
	skip, take := pagination.SkipTake(page, pageSize)
	return pagination.Paginate(s.store.Jobs(skip, take), page, pageSize)
}
