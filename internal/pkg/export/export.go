package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the worksheet name used for shift schedules
const DefaultSheet = "Shift Schedule"

var ErrEmptyDocument = errors.New("document has no header row")

// Document is a plain table: one header row followed by data rows
type Document struct {
	Sheet   string
	Headers []string
	Rows    [][]string
}

// FileName returns "{name}_{monthKey}_Schedule.{ext}" with path separators removed from name
func FileName(name, monthKey, ext string) string {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	return fmt.Sprintf("%s_%s_Schedule.%s", clean, monthKey, ext)
}

// WriteXLSX renders the document as a single-sheet workbook
func WriteXLSX(w io.Writer, doc Document) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := doc.Sheet
	if sheet == "" {
		sheet = DefaultSheet
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := setRow(f, sheet, 1, doc.Headers); err != nil {
		return err
	}
	for i, row := range doc.Rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#F3F4F6"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
		},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("set header style: %w", err)
	}

	if len(doc.Headers) > 0 {
		last, err := excelize.ColumnNumberToName(len(doc.Headers))
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, "A", last, 14); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}

// ReadXLSX reads the first sheet of a workbook back into a document
func ReadXLSX(r io.Reader) (Document, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Document{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Document{}, ErrEmptyDocument
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Document{}, fmt.Errorf("read rows: %w", err)
	}
	doc, err := fromRows(rows)
	if err != nil {
		return Document{}, err
	}
	doc.Sheet = sheets[0]
	return doc, nil
}

// WriteCSV renders the document as comma separated values, header first
func WriteCSV(w io.Writer, doc Document) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(doc.Headers); err != nil {
		return err
	}
	for _, row := range doc.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a document written by WriteCSV
func ReadCSV(r io.Reader) (Document, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return Document{}, fmt.Errorf("read csv: %w", err)
	}
	return fromRows(rows)
}

func fromRows(rows [][]string) (Document, error) {
	if len(rows) == 0 {
		return Document{}, ErrEmptyDocument
	}
	doc := Document{Headers: rows[0]}
	for _, row := range rows[1:] {
		// pad rows that lost trailing empty cells
		if len(row) < len(doc.Headers) {
			padded := make([]string, len(doc.Headers))
			copy(padded, row)
			row = padded
		}
		doc.Rows = append(doc.Rows, row)
	}
	return doc, nil
}
