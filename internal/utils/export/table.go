// Package export renders tabular reports as CSV or XLSX downloads.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/utils"
	"github.com/SscSPs/bookkeeping_app/internal/utils/textenc"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	ContentTypeCSV     = "text/csv; charset=utf-8"
	ContentTypeCSV1254 = "text/csv; charset=windows-1254"
	ContentTypeXLSX    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// Table is one sheet of a report. Cells may be strings, integers,
// decimal.Decimal, time.Time or pointers to them.
type Table struct {
	Title  string
	Header []string
	Rows   [][]any
}

// Append adds a row.
func (t *Table) Append(cells ...any) {
	t.Rows = append(t.Rows, cells)
}

// CSV writes the tables one after another separated by a blank line. With
// windows1254 the output is re-encoded, otherwise it is UTF-8 with a BOM so
// spreadsheet tools pick the right charset.
func CSV(tables []Table, windows1254 bool) ([]byte, error) {
	var buf bytes.Buffer
	var out io.Writer = &buf
	if windows1254 {
		out = textenc.NewWindows1254Writer(&buf)
	} else {
		buf.Write(bomUTF8)
	}

	w := csv.NewWriter(out)
	w.Comma = ';'
	for i, t := range tables {
		if i > 0 {
			if err := w.Write(nil); err != nil {
				return nil, err
			}
		}
		if len(tables) > 1 && t.Title != "" {
			if err := w.Write([]string{t.Title}); err != nil {
				return nil, err
			}
		}
		if err := w.Write(t.Header); err != nil {
			return nil, err
		}
		for _, row := range t.Rows {
			record := make([]string, len(row))
			for j, cell := range row {
				record[j] = CellString(cell)
			}
			if err := w.Write(record); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	if c, ok := out.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return nil, fmt.Errorf("encode csv: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// XLSX writes every table to its own sheet.
func XLSX(tables []Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	for i, t := range tables {
		sheet := sheetName(t.Title, i)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}

		headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return nil, err
		}
		for col, h := range t.Header {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			if err := f.SetCellValue(sheet, cell, h); err != nil {
				return nil, err
			}
		}
		if len(t.Header) > 0 {
			last, _ := excelize.CoordinatesToCellName(len(t.Header), 1)
			if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
				return nil, err
			}
			lastCol, _ := excelize.ColumnNumberToName(len(t.Header))
			if err := f.SetColWidth(sheet, "A", lastCol, 18); err != nil {
				return nil, err
			}
		}

		for r, row := range t.Rows {
			for col, v := range row {
				cell, _ := excelize.CoordinatesToCellName(col+1, r+2)
				if err := f.SetCellValue(sheet, cell, xlsxValue(v)); err != nil {
					return nil, err
				}
			}
		}
	}
	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// CellString formats a cell for text output.
func CellString(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case decimal.Decimal:
		return utils.FormatAmount(c)
	case *decimal.Decimal:
		if c == nil {
			return ""
		}
		return utils.FormatAmount(*c)
	case time.Time:
		if c.IsZero() {
			return ""
		}
		return c.Format(time.DateOnly)
	case *time.Time:
		if c == nil {
			return ""
		}
		return CellString(*c)
	case *int64:
		if c == nil {
			return ""
		}
		return strconv.FormatInt(*c, 10)
	case bool:
		if c {
			return "yes"
		}
		return "no"
	case fmt.Stringer:
		return c.String()
	default:
		return fmt.Sprint(c)
	}
}

// xlsxValue keeps numbers numeric so the sheet can sum them.
func xlsxValue(v any) any {
	switch c := v.(type) {
	case decimal.Decimal:
		return utils.RoundAmount(c).InexactFloat64()
	case *decimal.Decimal:
		if c == nil {
			return nil
		}
		return utils.RoundAmount(*c).InexactFloat64()
	case int, int64:
		return c
	default:
		return CellString(v)
	}
}

// sheetName trims titles to the 31 characters a sheet name allows.
func sheetName(title string, i int) string {
	if title == "" {
		return fmt.Sprintf("Sheet%d", i+1)
	}
	r := []rune(title)
	if len(r) > 31 {
		r = r[:31]
	}
	return string(r)
}
