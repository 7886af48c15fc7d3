package export

import (
	"fmt"
	"io"

	sharedmodels "flightlink/shared/models"

	"github.com/phpdave11/gofpdf"
)

var pdfWidths = []float64{38, 38, 30, 22, 36, 34}

func WritePDF(w io.Writer, result sharedmodels.SearchResult) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Flight Search", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Flight Search Links")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 10)
	for i, width := range pdfWidths {
		pdf.CellFormat(width, 7, Columns[i], "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	for _, row := range Rows(result) {
		cols := row.strings()

		pdf.SetFont("Helvetica", "", 10)
		for i, width := range pdfWidths {
			pdf.CellFormat(width, 7, cols[i], "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Helvetica", "I", 8)
		pdf.MultiCell(0, 5, cols[len(cols)-1], "", "L", false)
		pdf.Ln(2)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
