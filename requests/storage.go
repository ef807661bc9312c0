package requests

// BackendInfo - introspect or test the configured storage backend for a URI
type BackendInfo struct {
	URI string `json:"uri"`
}

func (r *BackendInfo) Validate() []string {
	if r.URI == "" {
		return []string{"Must provide 'uri'."}
	}
	return nil
}
