package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

var weekdayLabels = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// TimetablePDF holds one class grid ready for printing: six day rows of
// seven slot strings each.
type TimetablePDF struct {
	ClassName string
	Days      [][]string
}

// PDFExporter renders class timetables into printable A4 landscape sheets.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates one page per class with the weekly grid.
func (e *PDFExporter) Render(tables []TimetablePDF) ([]byte, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("pdf requires at least one class timetable")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(8, 12, 8)

	for _, table := range tables {
		pdf.AddPage()
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, table.ClassName, "", 1, "C", false, 0, "")
		pdf.Ln(3)

		const dayColWidth = 26.0
		periods := 0
		for _, row := range table.Days {
			if len(row) > periods {
				periods = len(row)
			}
		}
		if periods == 0 {
			return nil, fmt.Errorf("class %s has no slots", table.ClassName)
		}
		slotWidth := (281.0 - dayColWidth) / float64(periods)

		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(dayColWidth, 8, "Day", "1", 0, "C", false, 0, "")
		for p := 0; p < periods; p++ {
			pdf.CellFormat(slotWidth, 8, fmt.Sprintf("Period %d", p+1), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 7)
		for d, row := range table.Days {
			label := fmt.Sprintf("Day %d", d)
			if d < len(weekdayLabels) {
				label = weekdayLabels[d]
			}
			pdf.CellFormat(dayColWidth, 10, label, "1", 0, "C", false, 0, "")
			for p := 0; p < periods; p++ {
				value := ""
				if p < len(row) {
					value = row[p]
				}
				pdf.CellFormat(slotWidth, 10, value, "1", 0, "C", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
