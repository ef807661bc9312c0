package storage

import (
	"context"
	"io"
	"os"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	"github.com/tuva-health/EMPI/pkg/metrics"
)

// ErrMissingConfiguration construction without a storage configuration is a
// fatal startup error, not something to retry.
var ErrMissingConfiguration = errors.New("storage configuration is required")

// Factory opens read and write streams against storage URIs using the single
// backend selected by configuration. It is constructed once at startup,
// injected into its consumers and read-only afterwards, so it is safe for
// concurrent use.
type Factory struct {
	l         *zap.Logger
	cfg       Config
	backend   Backend
	azureCred azcore.TokenCredential
}

// NewFactory validates the configured backend tag and resolves it to a
// Factory. When the Azure backend is active it also runs the best-effort
// ambient-credential probe; probe failures degrade silently.
func NewFactory(l *zap.Logger, cfg Config) (*Factory, error) {
	var backend Backend
	switch cfg.Backend {
	case string(BackendS3):
		backend = BackendS3
	case string(BackendAzureBlob):
		backend = BackendAzureBlob
	case string(BackendLocal):
		backend = BackendLocal
	case "":
		return nil, ErrMissingConfiguration
	default:
		return nil, errors.Errorf("unsupported storage backend: %q", cfg.Backend)
	}

	inst := &Factory{
		l:       l.Named("storage"),
		cfg:     cfg,
		backend: backend,
	}
	if backend == BackendAzureBlob {
		inst.azureCred = probeAzureCredential(inst.l)
	}
	return inst, nil
}

// ConfiguredBackend returns the single backend declared in configuration.
func (f *Factory) ConfiguredBackend() Backend {
	return f.backend
}

// BackendForURI returns the configured backend regardless of the URI scheme.
// Only one backend is ever active per process; per-request backend switching
// is not supported.
func (f *Factory) BackendForURI(_ string) Backend {
	return f.ConfiguredBackend()
}

// SettingsFor returns the freshly resolved connection settings for the given
// backend. The map is built on every call, never cached, so environment
// changes are picked up immediately. Backends without a resolver get an
// empty map, which the openers treat as "use backend defaults".
func (f *Factory) SettingsFor(backend Backend) map[string]string {
	switch backend {
	case BackendS3:
		return resolveS3Settings(f.cfg.S3)
	case BackendAzureBlob:
		return resolveAzureSettings(f.cfg.Azure)
	case BackendLocal, BackendUnknown:
		return map[string]string{}
	}
	return map[string]string{}
}

// OpenReader opens the URI for reading with the configured backend. The
// returned handle owns the underlying bucket and must be closed. A missing
// object surfaces as os.ErrNotExist; all other transport errors propagate
// unmodified and no retry is performed.
func (f *Factory) OpenReader(ctx context.Context, uri string) (io.ReadCloser, error) {
	bucket, key, err := f.openBucket(ctx, uri)
	if err != nil {
		return nil, err
	}
	reader, err := bucket.NewReader(ctx, key, nil)
	if err != nil {
		metrics.StorageOpenCounter.WithLabelValues(f.backend.String(), "error").Inc()
		err = multierr.Append(translateError(err), bucket.Close())
		return nil, err
	}
	metrics.StorageOpenCounter.WithLabelValues(f.backend.String(), "success").Inc()
	return &scopedReader{reader: reader, bucket: bucket}, nil
}

// OpenWriter opens the URI for writing with the configured backend. The
// write is finalized on Close.
func (f *Factory) OpenWriter(ctx context.Context, uri string) (io.WriteCloser, error) {
	bucket, key, err := f.openBucket(ctx, uri)
	if err != nil {
		return nil, err
	}
	writer, err := bucket.NewWriter(ctx, key, nil)
	if err != nil {
		metrics.StorageOpenCounter.WithLabelValues(f.backend.String(), "error").Inc()
		err = multierr.Append(translateError(err), bucket.Close())
		return nil, err
	}
	metrics.StorageOpenCounter.WithLabelValues(f.backend.String(), "success").Inc()
	return &scopedWriter{writer: writer, bucket: bucket}, nil
}

// Info is the introspection snapshot served by the backend-info endpoint.
type Info struct {
	Backend           Backend           `json:"backend"`
	URI               string            `json:"uri"`
	Config            map[string]string `json:"config"`
	ConfiguredBackend bool              `json:"configured_backend"`
}

// BackendInfo combines backend, URI and resolved settings without mutating
// any state.
func (f *Factory) BackendInfo(uri string) Info {
	backend := f.ConfiguredBackend()
	return Info{
		Backend:           backend,
		URI:               uri,
		Config:            f.SettingsFor(backend),
		ConfiguredBackend: true,
	}
}

func (f *Factory) openBucket(ctx context.Context, uri string) (*blob.Bucket, string, error) {
	parsed, err := parseObjectURI(uri)
	if err != nil {
		return nil, "", err
	}

	if nominal := ClassifyURI(uri); nominal != BackendUnknown && nominal != f.backend {
		// serviced by the configured backend anyway, the transport will
		// fail downstream if the combination makes no sense
		f.l.Warn("storage URI scheme does not match the configured backend",
			zap.String("uri", uri),
			zap.String("nominal_backend", nominal.String()),
			zap.String("configured_backend", f.backend.String()),
		)
	}

	switch f.backend {
	case BackendS3:
		return openS3Bucket(ctx, parsed, f.SettingsFor(BackendS3))
	case BackendAzureBlob:
		return openAzureBucket(ctx, parsed, f.SettingsFor(BackendAzureBlob), f.azureCred)
	case BackendLocal, BackendUnknown:
		return openLocalBucket(parsed, f.cfg.LocalDir)
	}
	return openLocalBucket(parsed, f.cfg.LocalDir)
}

// translateError maps gocloud not-found codes to os.ErrNotExist so callers
// can test with errors.Is.
func translateError(err error) error {
	if gcerrors.Code(err) == gcerrors.NotFound {
		return errors.Wrap(os.ErrNotExist, err.Error())
	}
	return err
}

// scopedReader couples the object stream with its bucket so a single Close
// releases both, on every exit path.
type scopedReader struct {
	reader *blob.Reader
	bucket *blob.Bucket
}

func (r *scopedReader) Read(p []byte) (int, error) {
	return r.reader.Read(p)
}

func (r *scopedReader) Close() error {
	return multierr.Append(r.reader.Close(), r.bucket.Close())
}

type scopedWriter struct {
	writer *blob.Writer
	bucket *blob.Bucket
}

func (w *scopedWriter) Write(p []byte) (int, error) {
	return w.writer.Write(p)
}

func (w *scopedWriter) Close() error {
	return multierr.Append(w.writer.Close(), w.bucket.Close())
}
