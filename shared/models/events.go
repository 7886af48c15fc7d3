package sharedmodels

// LinksGeneratedEvent is published on flight.links.generated for every stored
// search. Stream fields are strings, so numbers travel as JSON strings.
type LinksGeneratedEvent struct {
	SearchID     string `json:"search_id"`
	From         string `json:"from,omitempty"`
	To           string `json:"to,omitempty"`
	Date         string `json:"date,omitempty"`
	Passengers   int    `json:"passengers,omitempty,string"`
	Class        string `json:"class,omitempty"`
	Links        int    `json:"links,omitempty,string"`
	TraceContext string `json:"trace_context,omitempty"`
}

// ExportStatusEvent is one entry on a search's export status stream.
type ExportStatusEvent struct {
	SearchID string `json:"search_id"`
	Status   string `json:"status"`
	File     string `json:"file,omitempty"`
	Rows     int    `json:"rows,omitempty,string"`
	Error    string `json:"error,omitempty"`
}
