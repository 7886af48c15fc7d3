package constants

const (
	ServiceMain   = "main-service"
	ServiceExport = "export-service"
)

// Redis stream names. Per-search streams are suffixed with ":<search_id>".
const (
	FlightLinksGenerated = "flight.links.generated"
	FlightExportStatus   = "flight.export.status"
)

const (
	SearchResultKeyPrefix = "flight:search"
	ExportGroup           = "export-group"
)

const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)
