package storage

import "os"

// Environment variables recognized by the credential resolvers.
const (
	EnvAWSAccessKeyID     = "AWS_ACCESS_KEY_ID"
	EnvAWSSecretAccessKey = "AWS_SECRET_ACCESS_KEY" //nolint:gosec
	EnvAWSDefaultRegion   = "AWS_DEFAULT_REGION"
	EnvAWSEndpointURL     = "AWS_ENDPOINT_URL"

	EnvAzureAccountName      = "AZURE_STORAGE_ACCOUNT_NAME"
	EnvAzureAccountKey       = "AZURE_STORAGE_ACCOUNT_KEY"
	EnvAzureConnectionString = "AZURE_STORAGE_CONNECTION_STRING"
)

// Setting names used in resolved credential maps.
const (
	settingBucket           = "bucket"
	settingKey              = "key"
	settingSecret           = "secret"
	settingRegion           = "region"
	settingEndpointURL      = "endpoint_url"
	settingAccountName      = "account_name"
	settingAccountKey       = "account_key"
	settingConnectionString = "connection_string"
)

// resolveS3Settings builds the effective S3 connection settings by layering
// the static configuration first and the process environment on top, so an
// environment variable always wins for its individual setting. Settings
// absent from both layers are omitted, never present as empty strings.
func resolveS3Settings(cfg S3Settings) map[string]string {
	settings := map[string]string{}

	put(settings, settingBucket, cfg.BucketName)
	put(settings, settingKey, cfg.AccessKeyID)
	put(settings, settingSecret, cfg.SecretAccessKey)
	put(settings, settingRegion, cfg.Region)
	put(settings, settingEndpointURL, cfg.EndpointURL)

	put(settings, settingKey, os.Getenv(EnvAWSAccessKeyID))
	put(settings, settingSecret, os.Getenv(EnvAWSSecretAccessKey))
	put(settings, settingRegion, os.Getenv(EnvAWSDefaultRegion))
	put(settings, settingEndpointURL, os.Getenv(EnvAWSEndpointURL))

	return settings
}

// resolveAzureSettings is the Azure Blob Storage counterpart of
// resolveS3Settings with the same layering rules.
func resolveAzureSettings(cfg AzureBlobSettings) map[string]string {
	settings := map[string]string{}

	put(settings, settingAccountName, cfg.AccountName)
	put(settings, settingAccountKey, cfg.AccountKey)
	put(settings, settingConnectionString, cfg.ConnectionString)
	put(settings, settingEndpointURL, cfg.EndpointURL)

	put(settings, settingAccountName, os.Getenv(EnvAzureAccountName))
	put(settings, settingAccountKey, os.Getenv(EnvAzureAccountKey))
	put(settings, settingConnectionString, os.Getenv(EnvAzureConnectionString))

	return settings
}

// put inserts non-empty values only
func put(settings map[string]string, name, value string) {
	if value != "" {
		settings[name] = value
	}
}
