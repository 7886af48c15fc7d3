// Package export renders search results as downloadable tables.
package export

import (
	"strconv"

	"flightlink/shared/linkformat"
	sharedmodels "flightlink/shared/models"
)

const (
	SheetName     = "Sheet1"
	ExcelFileName = "flight_search.xlsx"
	PDFFileName   = "flight_search.pdf"

	ExcelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	PDFContentType   = "application/pdf"
)

// Columns is the fixed header row, one column per request field plus the URL.
var Columns = []string{
	"From City",
	"To City",
	"Departure Date",
	"Travellers",
	"Class",
	"Selected Site",
	"Generated URL",
}

type Row struct {
	From       string
	To         string
	Date       string
	Travellers int
	Class      string
	Site       string
	URL        string
}

func (r Row) values() []any {
	return []any{r.From, r.To, r.Date, r.Travellers, r.Class, r.Site, r.URL}
}

func (r Row) strings() []string {
	return []string{r.From, r.To, r.Date, strconv.Itoa(r.Travellers), r.Class, r.Site, r.URL}
}

// Rows returns one row per generated link.
func Rows(result sharedmodels.SearchResult) []Row {
	req := result.Request
	rows := make([]Row, 0, len(result.Links))
	for _, link := range result.Links {
		rows = append(rows, Row{
			From:       req.From,
			To:         req.To,
			Date:       linkformat.ExportDate(req.Date),
			Travellers: req.Passengers,
			Class:      string(req.Class),
			Site:       string(link.Site),
			URL:        link.URL,
		})
	}
	return rows
}
