package handler_test

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/tuva-health/EMPI/pkg/handler"
	"github.com/tuva-health/EMPI/pkg/records"
	"github.com/tuva-health/EMPI/pkg/storage"
	"github.com/tuva-health/EMPI/responses"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const testCSV = "id,first_name,last_name,birth_date\n" +
	"1,Jane,Doe,1980-01-15\n" +
	"2,John,Smith,1975-06-02\n"

type testServer struct {
	handler http.Handler
	factory *storage.Factory
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	l := zaptest.NewLogger(t)
	factory, err := storage.NewFactory(l, storage.Config{
		Backend:  "local",
		LocalDir: t.TempDir(),
	})
	require.NoError(t, err)
	svc := records.NewService(l, factory)
	return &testServer{
		handler: handler.NewHTTP(l, factory, svc),
		factory: factory,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, r)
	return w
}

func (s *testServer) upload(t *testing.T, fields map[string]string, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, value := range fields {
		require.NoError(t, mw.WriteField(name, value))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/empi/records/import", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, r)
	return w
}

func (s *testServer) seed(t *testing.T, uri, content string) {
	t.Helper()
	wc, err := s.factory.OpenWriter(context.Background(), uri)
	require.NoError(t, err)
	_, err = wc.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, wc.Close())
}

func decodeValidationError(t *testing.T, w *httptest.ResponseRecorder) *responses.Error {
	t.Helper()
	var out responses.Error
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return &out
}

func TestHTTP_ImportRecords_Upload(t *testing.T) {
	s := newTestServer(t)

	w := s.upload(t, map[string]string{"config_id": "cfg-1"}, "records.csv", testCSV)
	require.Equal(t, http.StatusOK, w.Code)

	var out responses.ImportRecords
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.NotEmpty(t, out.JobID)
}

func TestHTTP_ImportRecords_FromURI(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "s3://my-bucket/records.csv", testCSV)

	w := s.do(t, http.MethodPost, "/empi/records/import",
		`{"s3_uri": "s3://my-bucket/records.csv", "config_id": "cfg-1"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var out responses.ImportRecords
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.NotEmpty(t, out.JobID)
}

func TestHTTP_ImportRecords_NoStorageOption(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/empi/records/import", `{"config_id": "cfg-1"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	out := decodeValidationError(t, w)
	assert.Equal(t, "Validation error", out.Message)
	assert.Contains(t, out.Details, "Must provide one of: 's3_uri', 'azure_blob_uri', 'storage_uri', or 'file'.")
}

func TestHTTP_ImportRecords_MultipleStorageOptions(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/empi/records/import",
		`{"s3_uri": "s3://bucket/key.csv", "azure_blob_uri": "azure://c@a.blob.core.windows.net/key.csv", "config_id": "cfg-1"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	out := decodeValidationError(t, w)
	assert.Contains(t, out.Details, "Provide only one storage option, not multiple.")
}

func TestHTTP_ImportRecords_MissingConfigID(t *testing.T) {
	s := newTestServer(t)

	w := s.upload(t, nil, "records.csv", testCSV)
	require.Equal(t, http.StatusBadRequest, w.Code)

	out := decodeValidationError(t, w)
	assert.Contains(t, out.Details, "Invalid Config ID")
}

func TestHTTP_ImportRecords_InvalidS3URI(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/empi/records/import",
		`{"s3_uri": "s3://My_Bucket/key.csv", "config_id": "cfg-1"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	out := decodeValidationError(t, w)
	assert.Contains(t, out.Details, "Invalid S3 URI")
}

func TestHTTP_ImportRecords_UnsupportedStorageURI(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/empi/records/import",
		`{"storage_uri": "gs://bucket/key.csv", "config_id": "cfg-1"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	out := decodeValidationError(t, w)
	assert.Contains(t, out.Details, "Unsupported storage URI format. Supported: s3://, abfs://, azure://")
}

func TestHTTP_ImportRecords_InvalidFileFormat(t *testing.T) {
	s := newTestServer(t)

	w := s.upload(t, map[string]string{"config_id": "cfg-1"}, "records.csv", "not a record file")
	require.Equal(t, http.StatusBadRequest, w.Code)

	out := decodeValidationError(t, w)
	require.Len(t, out.Details, 1)
	assert.Contains(t, out.Details[0], "invalid person record file format")
}

func TestHTTP_ImportRecords_SourceNotFound(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/empi/records/import",
		`{"s3_uri": "s3://my-bucket/missing.csv", "config_id": "cfg-1"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHTTP_ImportRecords_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/empi/records/import", "")
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHTTP_ExportRecords_Download(t *testing.T) {
	s := newTestServer(t)

	w := s.upload(t, map[string]string{"config_id": "cfg-1"}, "records.csv", testCSV)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/empi/records/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="person-record-export.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, testCSV, w.Body.String())
}

func TestHTTP_ExportRecords_ToURI(t *testing.T) {
	s := newTestServer(t)

	w := s.upload(t, map[string]string{"config_id": "cfg-1"}, "records.csv", testCSV)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/empi/records/export", `{"s3_uri": "s3://my-bucket/export.csv"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "{}", w.Body.String())

	// the export landed where a subsequent import can read it
	w = s.do(t, http.MethodPost, "/empi/records/import",
		`{"s3_uri": "s3://my-bucket/export.csv", "config_id": "cfg-1"}`)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestHTTP_ExportRecords_InvalidURI(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/empi/records/export", `{"s3_uri": "s3://My_Bucket/export.csv"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	out := decodeValidationError(t, w)
	assert.Contains(t, out.Details, "Invalid S3 URI")
}

func TestHTTP_ListJobs(t *testing.T) {
	s := newTestServer(t)

	for i := 0; i < 3; i++ {
		w := s.upload(t, map[string]string{"config_id": fmt.Sprintf("cfg-%d", i)}, "records.csv", testCSV)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := s.do(t, http.MethodGet, "/empi/records/jobs?page=1&page_size=2", "")
	require.Equal(t, http.StatusOK, w.Code)

	var out struct {
		Items    []records.Job `json:"items"`
		Page     int           `json:"page"`
		PageSize int           `json:"page_size"`
		HasNext  bool          `json:"has_next"`
		NextPage *int          `json:"next_page"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Len(t, out.Items, 2)
	assert.Equal(t, 1, out.Page)
	assert.Equal(t, 2, out.PageSize)
	assert.True(t, out.HasNext)
	if assert.NotNil(t, out.NextPage) {
		assert.Equal(t, 2, *out.NextPage)
	}
	// newest first
	assert.Equal(t, "cfg-2", out.Items[0].ConfigID)
}

func TestHTTP_ListJobs_Empty(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/empi/records/jobs", "")
	require.Equal(t, http.StatusOK, w.Code)

	var out struct {
		Items   []records.Job `json:"items"`
		HasNext bool          `json:"has_next"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Empty(t, out.Items)
	assert.False(t, out.HasNext)
}

func TestHTTP_ListBackends(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/empi/storage/backends", "")
	require.Equal(t, http.StatusOK, w.Code)

	var out responses.Backends
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, []string{"s3", "azure_blob"}, out.Backends)
	assert.Equal(t, "local", out.ConfiguredBackend)
}

func TestHTTP_BackendInfo(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/empi/storage/backend-info", `{"uri": "s3://my-bucket/key.csv"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var out storage.Info
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, storage.BackendLocal, out.Backend)
	assert.Equal(t, "s3://my-bucket/key.csv", out.URI)
	assert.True(t, out.ConfiguredBackend)
}

func TestHTTP_BackendInfo_MissingURI(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/empi/storage/backend-info", `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	out := decodeValidationError(t, w)
	assert.Contains(t, out.Details, "Must provide 'uri'.")
}

func TestHTTP_BackendTest(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "s3://my-bucket/records.csv", testCSV)

	w := s.do(t, http.MethodPost, "/empi/storage/backend-test", `{"uri": "s3://my-bucket/records.csv"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var out responses.BackendTest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "success", out.Status)
	assert.Equal(t, "Successfully connected to s3://my-bucket/records.csv using configured backend", out.Message)
}

func TestHTTP_BackendTest_Failure(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/empi/storage/backend-test", `{"uri": "s3://my-bucket/missing.csv"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var out responses.BackendTestError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Contains(t, out.Error, "Failed to connect to s3://my-bucket/missing.csv")
}

func TestHTTP_UnknownRoute(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/empi/unknown", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestHTTP_WithBasePath(t *testing.T) {
	l := zaptest.NewLogger(t)
	factory, err := storage.NewFactory(l, storage.Config{Backend: "local", LocalDir: t.TempDir()})
	require.NoError(t, err)
	h := handler.NewHTTP(l, factory, records.NewService(l, factory), handler.WithBasePath("/api"))

	r := httptest.NewRequest(http.MethodGet, "/api/storage/backends", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code)
}
