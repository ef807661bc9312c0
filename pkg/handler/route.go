package handler

// Route type
type Route string

const (
	// RouteImportRecords import person records from storage or an upload
	RouteImportRecords Route = "records/import"
	// RouteExportRecords export person records to storage or as a download
	RouteExportRecords Route = "records/export"
	// RouteListJobs paginated listing of import jobs
	RouteListJobs Route = "records/jobs"
	// RouteBackends list supported backends and the configured one
	RouteBackends Route = "storage/backends"
	// RouteBackendInfo introspect the configured backend for a URI
	RouteBackendInfo Route = "storage/backend-info"
	// RouteBackendTest probe connectivity to the configured backend
	RouteBackendTest Route = "storage/backend-test"
)
