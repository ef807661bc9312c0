package storage

// Config selects the active backend and carries the optional per-backend
// settings. It is populated once at startup from flags and environment and
// is read-only afterwards.
type Config struct {
	// Backend is the tag of the single active backend ("s3" or "azure_blob").
	Backend string
	S3      S3Settings
	Azure   AzureBlobSettings
	// LocalDir is the base directory used when the local backend is active.
	LocalDir string
}

// S3Settings static S3 connection settings. All fields are optional, the
// environment takes precedence per individual setting.
type S3Settings struct {
	BucketName      string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	EndpointURL     string
}

// AzureBlobSettings static Azure Blob Storage connection settings.
type AzureBlobSettings struct {
	AccountName      string
	AccountKey       string
	ConnectionString string
	EndpointURL      string
}
