package responses

// ImportRecords - the job registered for a successful import
type ImportRecords struct {
	JobID string `json:"job_id"`
}
