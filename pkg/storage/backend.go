package storage

import "strings"

// Backend identifies a supported storage backend.
type Backend string

const (
	// BackendS3 AWS S3 or any S3-compatible object store
	BackendS3 Backend = "s3"
	// BackendAzureBlob Azure Blob Storage
	BackendAzureBlob Backend = "azure_blob"
	// BackendLocal local filesystem, used for development and testing
	BackendLocal Backend = "local"
	// BackendUnknown returned by ClassifyURI for unrecognized schemes
	BackendUnknown Backend = ""
)

// RemoteBackends lists the backends that can be selected through configuration.
func RemoteBackends() []Backend {
	return []Backend{BackendS3, BackendAzureBlob}
}

func (b Backend) String() string {
	return string(b)
}

// ClassifyURI maps a storage URI to the backend its scheme nominally names.
// This is informational only: the factory always serves requests with the
// configured backend, never the one the URI scheme suggests.
func ClassifyURI(uri string) Backend {
	switch {
	case strings.HasPrefix(uri, "s3://"):
		return BackendS3
	case strings.HasPrefix(uri, "abfs://"), strings.HasPrefix(uri, "azure://"):
		return BackendAzureBlob
	default:
		return BackendUnknown
	}
}
