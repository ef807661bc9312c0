package storage

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// Validation failures for user supplied storage URIs. These are user input
// errors and map to a 400 at the API boundary.
var (
	ErrInvalidS3URI        = errors.New("Invalid S3 URI")
	ErrInvalidAzureBlobURI = errors.New("Invalid Azure Blob Storage URI")
	ErrUnsupportedURI      = errors.New("Unsupported storage URI format. Supported: s3://, abfs://, azure://")
)

// Bucket names can consist only of lowercase letters, numbers, dots and
// hyphens, see the AWS bucket naming rules.
var s3BucketRegexp = regexp.MustCompile(`^[a-z0-9.-]+$`)

// ValidateS3URI checks the syntax of an s3://bucket/key URI and returns the
// input unchanged when it is valid. No network access happens here.
func ValidateS3URI(uri string) (string, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return "", ErrInvalidS3URI
	}
	key := strings.TrimPrefix(parsed.Path, "/")
	if strings.HasPrefix(uri, "s3://") &&
		parsed.Scheme == "s3" &&
		s3BucketRegexp.MatchString(parsed.Host) &&
		key != "" {
		return uri, nil
	}
	return "", ErrInvalidS3URI
}

// ValidateAzureBlobURI checks the syntax of an Azure Blob Storage URI.
// Two forms are accepted:
//
//	abfs://container@account.dfs.core.windows.net/path
//	azure://container@account.blob.core.windows.net/path
func ValidateAzureBlobURI(uri string) (string, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return "", ErrInvalidAzureBlobURI
	}
	authority := parsed.Host
	if parsed.User != nil {
		authority = parsed.User.String() + "@" + parsed.Host
	}

	switch {
	case strings.HasPrefix(uri, "abfs://"):
		if parsed.Scheme == "abfs" &&
			strings.Contains(authority, "@") &&
			strings.Contains(authority, ".dfs.core.windows.net") &&
			parsed.Path != "" {
			return uri, nil
		}
	case strings.HasPrefix(uri, "azure://"):
		if parsed.Scheme == "azure" &&
			strings.Contains(authority, "@") &&
			strings.Contains(authority, ".blob.core.windows.net") &&
			parsed.Path != "" {
			return uri, nil
		}
	}
	return "", ErrInvalidAzureBlobURI
}

// ValidateStorageURI dispatches to the matching backend validator by scheme
// prefix and rejects everything else.
func ValidateStorageURI(uri string) (string, error) {
	switch ClassifyURI(uri) {
	case BackendS3:
		return ValidateS3URI(uri)
	case BackendAzureBlob:
		return ValidateAzureBlobURI(uri)
	default:
		return "", ErrUnsupportedURI
	}
}
