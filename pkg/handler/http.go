package handler

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	httputils "github.com/foomo/keel/utils/net/http"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tuva-health/EMPI/pkg/metrics"
	"github.com/tuva-health/EMPI/pkg/records"
	"github.com/tuva-health/EMPI/pkg/storage"
	"github.com/tuva-health/EMPI/pkg/stream"
	"github.com/tuva-health/EMPI/requests"
	"github.com/tuva-health/EMPI/responses"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	maxUploadMemory = 32 << 20
	exportFilename  = "person-record-export.csv"
)

type (
	HTTP struct {
		l        *zap.Logger
		basePath string
		factory  *storage.Factory
		service  *records.Service
	}
	HTTPOption func(*HTTP)
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

// NewHTTP returns a shiny new web server
func NewHTTP(l *zap.Logger, factory *storage.Factory, service *records.Service, opts ...HTTPOption) http.Handler {
	inst := &HTTP{
		l:        l.Named("http"),
		basePath: "/empi",
		factory:  factory,
		service:  service,
	}

	for _, opt := range opts {
		opt(inst)
	}

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithBasePath(v string) HTTPOption {
	return func(o *HTTP) {
		o.basePath = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

func (h *HTTP) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	route := Route(strings.Trim(strings.TrimPrefix(r.URL.Path, h.basePath), "/"))
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

	switch route {
	case RouteImportRecords:
		h.post(rec, r, h.importRecords)
	case RouteExportRecords:
		h.post(rec, r, h.exportRecords)
	case RouteListJobs:
		h.get(rec, r, h.listJobs)
	case RouteBackends:
		h.get(rec, r, h.listBackends)
	case RouteBackendInfo:
		h.post(rec, r, h.backendInfo)
	case RouteBackendTest:
		h.post(rec, r, h.backendTest)
	default:
		httputils.ServerError(h.l, rec, r, http.StatusNotFound, errors.Errorf("unknown route: %q", route))
	}

	result := "success"
	if rec.status >= http.StatusBadRequest {
		result = "error"
	}
	metrics.ServiceRequestCounter.WithLabelValues(string(route), result).Inc()
	metrics.ServiceRequestDuration.WithLabelValues(string(route), result).Observe(time.Since(start).Seconds())
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (h *HTTP) post(w http.ResponseWriter, r *http.Request, next func(http.ResponseWriter, *http.Request)) {
	if r.Method != http.MethodPost {
		httputils.ServerError(h.l, w, r, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}
	next(w, r)
}

func (h *HTTP) get(w http.ResponseWriter, r *http.Request, next func(http.ResponseWriter, *http.Request)) {
	if r.Method != http.MethodGet {
		httputils.ServerError(h.l, w, r, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}
	next(w, r)
}

func (h *HTTP) importRecords(w http.ResponseWriter, r *http.Request) {
	req, source, sourceName, err := h.decodeImportRequest(r)
	if err != nil {
		httputils.BadRequestServerError(h.l, w, r, errors.Wrap(err, "failed to read import request"))
		return
	}

	if details := req.Validate(); len(details) > 0 {
		h.writeJSON(w, http.StatusBadRequest, responses.NewValidationError(details...))
		return
	}

	sourceURI := stream.URIOf(source, sourceName)
	jobID, err := h.service.ImportRecords(r.Context(), source, sourceURI, req.ConfigID)
	switch {
	case err == nil:
		h.writeJSON(w, http.StatusOK, responses.ImportRecords{JobID: jobID})
	case errors.Is(err, records.ErrInvalidFileFormat), errors.Is(err, os.ErrNotExist):
		h.writeJSON(w, http.StatusBadRequest, responses.NewValidationError(err.Error()))
	default:
		httputils.ServerError(h.l, w, r, http.StatusInternalServerError, err)
	}
}

// decodeImportRequest resolves the storage-option union once: a multipart
// request may carry an uploaded file, a JSON request only URIs.
func (h *HTTP) decodeImportRequest(r *http.Request) (*requests.ImportRecords, stream.Source, string, error) {
	req := &requests.ImportRecords{}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			return nil, stream.Source{}, "", err
		}
		req.S3URI = r.FormValue("s3_uri")
		req.AzureBlobURI = r.FormValue("azure_blob_uri")
		req.StorageURI = r.FormValue("storage_uri")
		req.ConfigID = r.FormValue("config_id")

		file, header, err := r.FormFile("file")
		switch {
		case err == nil:
			req.HasFile = true
			return req, stream.ReaderSource(file), header.Filename, nil
		case errors.Is(err, http.ErrMissingFile):
			return req, stream.URISource(req.URI()), "", nil
		default:
			return nil, stream.Source{}, "", err
		}
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, stream.Source{}, "", err
	}
	if err := json.Unmarshal(body, req); err != nil {
		return nil, stream.Source{}, "", err
	}
	return req, stream.URISource(req.URI()), "", nil
}

func (h *HTTP) exportRecords(w http.ResponseWriter, r *http.Request) {
	req := &requests.ExportRecords{}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		httputils.BadRequestServerError(h.l, w, r, errors.Wrap(err, "failed to read export request"))
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, req); err != nil {
			httputils.BadRequestServerError(h.l, w, r, errors.Wrap(err, "failed to read export request"))
			return
		}
	}

	if details := req.Validate(); len(details) > 0 {
		h.writeJSON(w, http.StatusBadRequest, responses.NewValidationError(details...))
		return
	}

	if uri := req.URI(); uri != "" {
		err := h.service.ExportRecords(r.Context(), stream.URISink(uri))
		switch {
		case err == nil:
			h.writeJSON(w, http.StatusOK, struct{}{})
		case errors.Is(err, os.ErrNotExist):
			h.writeJSON(w, http.StatusBadRequest, responses.NewValidationError(err.Error()))
		default:
			httputils.ServerError(h.l, w, r, http.StatusInternalServerError, err)
		}
		return
	}

	h.downloadRecords(w, r)
}

// downloadRecords stages the export in a temp file and serves it as a CSV
// attachment.
func (h *HTTP) downloadRecords(w http.ResponseWriter, r *http.Request) {
	f, err := stream.OpenTempFile()
	if err != nil {
		httputils.ServerError(h.l, w, r, http.StatusInternalServerError, err)
		return
	}
	defer f.Close()

	if err := h.service.ExportRecords(r.Context(), stream.WriterSink(f)); err != nil {
		httputils.ServerError(h.l, w, r, http.StatusInternalServerError, err)
		return
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		httputils.ServerError(h.l, w, r, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename))
	if _, err := io.Copy(w, f); err != nil {
		h.l.Error("failed to write record export download", zap.Error(err))
	}
}

func (h *HTTP) listJobs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	pageSize, _ := strconv.Atoi(query.Get("page_size"))
	h.writeJSON(w, http.StatusOK, h.service.ListJobs(page, pageSize))
}

func (h *HTTP) listBackends(w http.ResponseWriter, _ *http.Request) {
	backends := make([]string, 0, len(storage.RemoteBackends()))
	for _, backend := range storage.RemoteBackends() {
		backends = append(backends, backend.String())
	}
	h.writeJSON(w, http.StatusOK, responses.Backends{
		Backends:          backends,
		ConfiguredBackend: h.factory.ConfiguredBackend().String(),
	})
}

func (h *HTTP) backendInfo(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeBackendRequest(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, h.factory.BackendInfo(req.URI))
}

func (h *HTTP) backendTest(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeBackendRequest(w, r)
	if !ok {
		return
	}

	rc, err := stream.OpenSource(r.Context(), h.factory, stream.URISource(req.URI))
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, responses.BackendTestError{
			Error: fmt.Sprintf("Failed to connect to %s: %v", req.URI, err),
		})
		return
	}
	_ = rc.Close()

	h.writeJSON(w, http.StatusOK, responses.BackendTest{
		Status:  "success",
		Message: fmt.Sprintf("Successfully connected to %s using configured backend", req.URI),
	})
}

func (h *HTTP) decodeBackendRequest(w http.ResponseWriter, r *http.Request) (*requests.BackendInfo, bool) {
	req := &requests.BackendInfo{}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		httputils.BadRequestServerError(h.l, w, r, errors.Wrap(err, "failed to read request"))
		return nil, false
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, req); err != nil {
			httputils.BadRequestServerError(h.l, w, r, errors.Wrap(err, "failed to read request"))
			return nil, false
		}
	}
	if details := req.Validate(); len(details) > 0 {
		h.writeJSON(w, http.StatusBadRequest, responses.NewValidationError(details...))
		return nil, false
	}
	return req, true
}

func (h *HTTP) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	bytes, err := json.Marshal(v)
	if err != nil {
		h.l.Error("could not encode reply", zap.Error(err))
		http.Error(w, "could not encode reply", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(bytes)
}

// statusRecorder captures the response status for request metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
