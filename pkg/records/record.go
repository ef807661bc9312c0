package records

import "time"

// Record is one person record as carried in import and export files.
type Record struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	BirthDate string `json:"birth_date"`
}

// JobStatus import job outcome
type JobStatus string

const (
	JobStatusSucceeded JobStatus = "succeeded"
)

// Job records one completed import.
type Job struct {
	ID        string    `json:"id"`
	SourceURI string    `json:"source_uri"`
	ConfigID  string    `json:"config_id"`
	Records   int       `json:"records"`
	Status    JobStatus `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
