// Package export renders directory display rows as spreadsheets.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/cdma-ap/cmsnr-directory/internal/domain/staff"
	"github.com/cdma-ap/cmsnr-directory/internal/pkg/datefmt"
	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"

	SheetName    = "Personnel Directory"
	baseFilename = "CDMA_Directory"
)

func ParseFormat(s string) (Format, bool) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatXLSX:
		return FormatXLSX, true
	case FormatCSV:
		return FormatCSV, true
	default:
		return "", false
	}
}

func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Filename is the download name for an export taken on day.
func (f Format) Filename(day time.Time) string {
	return fmt.Sprintf("%s_%s.%s", baseFilename, day.Format("20060102"), f)
}

type column struct {
	header string
	width  float64
	value  func(staff.DisplayRecord) string
}

var columns = []column{
	{"Name", 28, func(r staff.DisplayRecord) string { return r.Name }},
	{"Designation", 20, func(r staff.DisplayRecord) string { return r.Designation }},
	{"Department", 15, func(r staff.DisplayRecord) string { return capitalize(r.Department) }},
	{"CFMS ID", 16, func(r staff.DisplayRecord) string { return r.CFMSID }},
	{"Employee ID", 16, func(r staff.DisplayRecord) string { return r.EmployeeID }},
	{"Email", 30, func(r staff.DisplayRecord) string { return r.Email }},
	{"Phone", 18, func(r staff.DisplayRecord) string { return r.Phone }},
	{"Mobile", 18, func(r staff.DisplayRecord) string { return r.Mobile }},
	{"Office", 28, func(r staff.DisplayRecord) string { return r.Office }},
	{"Birthday", 14, func(r staff.DisplayRecord) string { return datefmt.Format(r.Birthday, "") }},
	{"Retirement Date", 16, func(r staff.DisplayRecord) string { return datefmt.Format(r.RetirementDate, "") }},
	{"Joining Date", 14, func(r staff.DisplayRecord) string { return datefmt.Format(r.JoiningDate, "") }},
	{"Current Position", 32, func(r staff.DisplayRecord) string { return r.CurrentPosition }},
	{"Previous Position", 28, func(r staff.DisplayRecord) string { return r.PreviousPosition }},
	{"Charges", 40, func(r staff.DisplayRecord) string { return r.Charges }},
	{"Responsibilities", 60, func(r staff.DisplayRecord) string { return r.Responsibilities }},
}

// Headers returns the header row, serial number column first.
func Headers() []string {
	out := make([]string, 0, len(columns)+1)
	out = append(out, "S.No")
	for _, c := range columns {
		out = append(out, c.header)
	}
	return out
}

func record(index int, r staff.DisplayRecord) []string {
	out := make([]string, 0, len(columns)+1)
	out = append(out, fmt.Sprint(index+1))
	for _, c := range columns {
		out = append(out, c.value(r))
	}
	return out
}

// Write renders rows in format f to w.
func Write(w io.Writer, f Format, rows []staff.DisplayRecord) error {
	if f == FormatCSV {
		return WriteCSV(w, rows)
	}
	return WriteXLSX(w, rows)
}

func WriteCSV(w io.Writer, rows []staff.DisplayRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Headers()); err != nil {
		return err
	}
	for i, r := range rows {
		if err := cw.Write(record(i, r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteXLSX(w io.Writer, rows []staff.DisplayRecord) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := Headers()
	if err := setRow(f, 1, header); err != nil {
		return err
	}
	for i, r := range rows {
		if err := setRow(f, i+2, record(i, r)); err != nil {
			return err
		}
	}

	widths := append([]float64{6}, columnWidths()...)
	for i, width := range widths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(SheetName, name, name, width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	_, err := f.WriteTo(w)
	return err
}

func setRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	vals := make([]interface{}, len(values))
	for i, v := range values {
		vals[i] = v
	}
	if err := f.SetSheetRow(SheetName, cell, &vals); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}

func columnWidths() []float64 {
	out := make([]float64, len(columns))
	for i, c := range columns {
		out[i] = c.width
	}
	return out
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
