package requests

import (
	"github.com/tuva-health/EMPI/pkg/storage"
)

// ImportRecords - import person records from a storage URI or an uploaded
// file. Exactly one storage option must be provided.
type ImportRecords struct {
	S3URI        string `json:"s3_uri"`
	AzureBlobURI string `json:"azure_blob_uri"`
	StorageURI   string `json:"storage_uri"`
	ConfigID     string `json:"config_id"`
	// HasFile is set by the handler when the request carries an upload
	HasFile bool `json:"-"`
}

// Validate returns human readable details for every violated constraint.
// An empty slice means the request is valid.
func (r *ImportRecords) Validate() []string {
	var details []string

	options := 0
	if r.S3URI != "" {
		options++
		if _, err := storage.ValidateS3URI(r.S3URI); err != nil {
			details = append(details, err.Error())
		}
	}
	if r.AzureBlobURI != "" {
		options++
		if _, err := storage.ValidateAzureBlobURI(r.AzureBlobURI); err != nil {
			details = append(details, err.Error())
		}
	}
	if r.StorageURI != "" {
		options++
		if _, err := storage.ValidateStorageURI(r.StorageURI); err != nil {
			details = append(details, err.Error())
		}
	}
	if r.HasFile {
		options++
	}

	switch {
	case options == 0:
		details = append(details, "Must provide one of: 's3_uri', 'azure_blob_uri', 'storage_uri', or 'file'.")
	case options > 1:
		details = append(details, "Provide only one storage option, not multiple.")
	}

	if r.ConfigID == "" {
		details = append(details, "Invalid Config ID")
	}
	return details
}

// URI returns the storage URI option that was provided, if any.
func (r *ImportRecords) URI() string {
	switch {
	case r.S3URI != "":
		return r.S3URI
	case r.AzureBlobURI != "":
		return r.AzureBlobURI
	default:
		return r.StorageURI
	}
}

// ExportRecords - export person records to a storage URI, or as a CSV
// download when no URI is given. All fields are optional.
type ExportRecords struct {
	S3URI        string `json:"s3_uri"`
	AzureBlobURI string `json:"azure_blob_uri"`
	StorageURI   string `json:"storage_uri"`
}

func (r *ExportRecords) Validate() []string {
	var details []string
	if r.S3URI != "" {
		if _, err := storage.ValidateS3URI(r.S3URI); err != nil {
			details = append(details, err.Error())
		}
	}
	if r.AzureBlobURI != "" {
		if _, err := storage.ValidateAzureBlobURI(r.AzureBlobURI); err != nil {
			details = append(details, err.Error())
		}
	}
	if r.StorageURI != "" {
		if _, err := storage.ValidateStorageURI(r.StorageURI); err != nil {
			details = append(details, err.Error())
		}
	}
	return details
}

// URI returns the storage URI option that was provided, if any.
func (r *ExportRecords) URI() string {
	switch {
	case r.S3URI != "":
		return r.S3URI
	case r.AzureBlobURI != "":
		return r.AzureBlobURI
	default:
		return r.StorageURI
	}
}
