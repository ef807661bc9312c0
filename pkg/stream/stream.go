// Package stream lets callers treat an uploaded file and a remote storage
// URI identically as a byte stream. Sources and sinks are explicit
// two-variant unions resolved once at the API edge: either a storage URI
// opened through the storage factory, or an already-open stream whose
// lifecycle the caller owns.
package stream

import (
	"context"
	"io"
	"net/url"
	"os"

	"github.com/tuva-health/EMPI/pkg/storage"
)

// Source names a byte stream to read from.
type Source struct {
	uri    string
	reader io.ReadSeeker
}

// URISource references a remote object by storage URI.
func URISource(uri string) Source {
	return Source{uri: uri}
}

// ReaderSource wraps an already-open stream, typically an uploaded file.
// The caller keeps ownership; Close on the opened source will not close it.
func ReaderSource(r io.ReadSeeker) Source {
	return Source{reader: r}
}

// IsURI reports whether the source is the URI variant.
func (s Source) IsURI() bool {
	return s.reader == nil
}

// Sink names a byte stream to write to.
type Sink struct {
	uri    string
	writer io.Writer
}

// URISink references a remote object by storage URI.
func URISink(uri string) Sink {
	return Sink{uri: uri}
}

// WriterSink wraps an already-open stream owned by the caller.
func WriterSink(w io.Writer) Sink {
	return Sink{writer: w}
}

// IsURI reports whether the sink is the URI variant.
func (s Sink) IsURI() bool {
	return s.writer == nil
}

// URIOf returns the storage URI of a source, or an upload:// pseudo URI for
// caller-owned streams, for logging and job bookkeeping.
func URIOf(source Source, name string) string {
	if source.IsURI() {
		return source.uri
	}
	u := url.URL{Scheme: "upload", Path: name}
	return u.String()
}

// OpenSource opens the source for reading. URI sources are opened through
// the factory with the configured backend and must be closed by the caller;
// caller-owned streams are rewound and returned behind a no-op closer.
func OpenSource(ctx context.Context, factory *storage.Factory, source Source) (io.ReadCloser, error) {
	if source.IsURI() {
		return factory.OpenReader(ctx, source.uri)
	}
	if _, err := source.reader.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return io.NopCloser(source.reader), nil
}

// OpenSink opens the sink for writing. URI sinks are opened through the
// factory and finalize the write on Close; caller-owned streams are returned
// behind a no-op closer.
func OpenSink(ctx context.Context, factory *storage.Factory, sink Sink) (io.WriteCloser, error) {
	if sink.IsURI() {
		return factory.OpenWriter(ctx, sink.uri)
	}
	return nopWriteCloser{sink.writer}, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}

// OpenTempFile returns a temp file that is unlinked on Close, used to stage
// CSV downloads.
func OpenTempFile() (*TempFile, error) {
	f, err := os.CreateTemp("", "empi-export-*")
	if err != nil {
		return nil, err
	}
	return &TempFile{File: f}, nil
}

// TempFile removes itself from disk on Close.
type TempFile struct {
	*os.File
}

func (f *TempFile) Close() error {
	name := f.File.Name()
	err := f.File.Close()
	if removeErr := os.Remove(name); err == nil {
		err = removeErr
	}
	return err
}
