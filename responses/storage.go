package responses

// Backends - the supported remote backends and the configured one
type Backends struct {
	Backends          []string `json:"backends"`
	ConfiguredBackend string   `json:"configured_backend"`
}

// BackendTest - result of a successful connectivity probe
type BackendTest struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// BackendTestError - result of a failed connectivity probe
type BackendTestError struct {
	Error string `json:"error"`
}
