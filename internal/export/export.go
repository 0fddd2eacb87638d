// Package export renders report tables as spreadsheets and PDF documents.
package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"
)

// Formats.
const (
	XLSX = "xlsx"
	PDF  = "pdf"
)

// ContentTypes maps a format to its MIME type.
var ContentTypes = map[string]string{
	XLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	PDF:  "application/pdf",
}

// Table is one report: a header row and the data rows below it.
// Cells hold strings or numbers; numbers stay numeric in spreadsheets.
type Table struct {
	Entity    string
	Title     string
	Subtitle  []string
	Header    []string
	Widths    []float64
	Rows      [][]any
	Generated time.Time
}

// Filename is "<entity>_report_YYYYMMDD_HHMMSS.<ext>".
func Filename(entity, ext string, at time.Time) string {
	entity = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(entity), " ", "_"))
	return fmt.Sprintf("%s_report_%s.%s", entity, at.Format("20060102_150405"), ext)
}

// Render produces the report in format.
func Render(t Table, format string) ([]byte, error) {
	switch format {
	case XLSX:
		return Spreadsheet(t)
	case PDF:
		return Document(t)
	}
	return nil, fmt.Errorf("export: unknown format %q", format)
}

func sheetName(t Table) string {
	name := t.Title
	if name == "" {
		name = "Report"
	}
	// Excel caps sheet names at 31 characters.
	if r := []rune(name); len(r) > 31 {
		name = string(r[:31])
	}
	return name
}

// Spreadsheet writes t as a single-sheet workbook: title and subtitles first,
// then a bold header row and the data.
func Spreadsheet(t Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(t)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	row := 1
	put := func(values []any) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		row++
		return f.SetSheetRow(sheet, cell, &values)
	}

	if t.Title != "" {
		if err := put([]any{t.Title}); err != nil {
			return nil, err
		}
	}
	for _, s := range t.Subtitle {
		if err := put([]any{s}); err != nil {
			return nil, err
		}
	}
	if row > 1 {
		row++
	}

	headerRow := row
	header := make([]any, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	if err := put(header); err != nil {
		return nil, err
	}
	for _, r := range t.Rows {
		if err := put(r); err != nil {
			return nil, err
		}
	}

	if len(t.Header) > 0 {
		bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return nil, err
		}
		first, _ := excelize.CoordinatesToCellName(1, headerRow)
		last, _ := excelize.CoordinatesToCellName(len(t.Header), headerRow)
		if err := f.SetCellStyle(sheet, first, last, bold); err != nil {
			return nil, err
		}
		lastCol, _ := excelize.ColumnNumberToName(len(t.Header))
		if err := f.SetColWidth(sheet, "A", lastCol, 22); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const (
	pageMargin = 14.0
	rowHeight  = 7.0
)

// Document writes t as an A4 PDF. The header row is repeated at the top of every page
// and each page carries "Page n of m" in the footer.
func Document(t Table) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, 18)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	widths := columnWidths(t, pageW-2*pageMargin)

	headerRow := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(59, 130, 246)
		pdf.SetTextColor(255, 255, 255)
		for i, h := range t.Header {
			pdf.CellFormat(widths[i], rowHeight, tr(h), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(17, 24, 39)
	}

	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() == 1 {
			pdf.SetFont("Helvetica", "B", 16)
			pdf.SetTextColor(30, 64, 175)
			pdf.CellFormat(0, 9, tr(t.Title), "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 10)
			pdf.SetTextColor(75, 85, 99)
			if !t.Generated.IsZero() {
				pdf.CellFormat(0, 6, "Generated "+t.Generated.Format("Jan 2, 2006 15:04"), "", 1, "L", false, 0, "")
			}
			for _, s := range t.Subtitle {
				pdf.CellFormat(0, 6, tr(s), "", 1, "L", false, 0, "")
			}
			pdf.Ln(3)
		}
		headerRow()
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(107, 114, 128)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	for _, r := range t.Rows {
		for i := range t.Header {
			var v any
			if i < len(r) {
				v = r[i]
			}
			pdf.CellFormat(widths[i], rowHeight, tr(cellText(v)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	if len(t.Rows) == 0 {
		pdf.CellFormat(0, rowHeight, "No records.", "1", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func columnWidths(t Table, avail float64) []float64 {
	n := len(t.Header)
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	var sum float64
	for i := 0; i < n && i < len(t.Widths); i++ {
		sum += t.Widths[i]
	}
	if len(t.Widths) >= n && sum > 0 {
		for i := range out {
			out[i] = t.Widths[i] / sum * avail
		}
		return out
	}
	for i := range out {
		out[i] = avail / float64(n)
	}
	return out
}

func cellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
