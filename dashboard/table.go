package dashboard

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	forecaster "github.com/aouyang1/ozone-forecaster"
	"github.com/xuri/excelize/v2"
)

const (
	DateLayout  = "02-01-2006"
	DateHeader  = "Data (Dia/Mês/Ano)"
	ValueHeader = "O3 (ug/m3)"

	CSVFilename  = "previsao_ozonio.csv"
	CSVMIME      = "text/csv"
	XLSXFilename = "previsao_ozonio.xlsx"
	XLSXMIME     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	XLSXSheet    = "Previsao"
)

// Row is a single forecast date with its point estimate rounded to two decimals
type Row struct {
	Date  time.Time
	Value float64
}

// DateString formats the date as day-month-year
func (r Row) DateString() string {
	return r.Date.Format(DateLayout)
}

// ValueString formats the value in its shortest form keeping at least one decimal e.g. 45.3
// instead of 45.30 and 45.0 instead of 45
func (r Row) ValueString() string {
	s := strconv.FormatFloat(r.Value, 'f', -1, 64)
	if !strings.Contains(s, ".") && !math.IsNaN(r.Value) && !math.IsInf(r.Value, 0) {
		s += ".0"
	}
	return s
}

// Table is the tabular view of a forecast
type Table struct {
	Rows []Row
}

// NewTable builds the table from the trailing days predictions. days is clamped to the number
// of predictions.
func NewTable(res *forecaster.Results, days int) Table {
	tail := res.Tail(days)
	if tail == nil {
		return Table{}
	}
	rows := make([]Row, 0, tail.Len())
	for i := 0; i < tail.Len(); i++ {
		rows = append(rows, Row{
			Date:  tail.T[i],
			Value: Round(tail.Forecast[i], 2),
		})
	}
	return Table{Rows: rows}
}

// Round rounds half away from zero to the given number of decimals
func Round(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}

// Len returns the number of rows
func (t Table) Len() int {
	return len(t.Rows)
}

// WriteCSV writes the header followed by one record per row
func (t Table) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{DateHeader, ValueHeader}); err != nil {
		return fmt.Errorf("unable to write csv header, %w", err)
	}
	for _, row := range t.Rows {
		if err := writer.Write([]string{row.DateString(), row.ValueString()}); err != nil {
			return fmt.Errorf("unable to write csv row, %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteXLSX writes the table as a workbook with a single sheet
func (t Table) WriteXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", XLSXSheet); err != nil {
		return fmt.Errorf("unable to name sheet, %w", err)
	}
	if err := f.SetColWidth(XLSXSheet, "A", "B", 22); err != nil {
		return fmt.Errorf("unable to set column width, %w", err)
	}

	set := func(col, row int, value interface{}) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(XLSXSheet, cell, value)
	}

	if err := set(1, 1, DateHeader); err != nil {
		return fmt.Errorf("unable to write xlsx header, %w", err)
	}
	if err := set(2, 1, ValueHeader); err != nil {
		return fmt.Errorf("unable to write xlsx header, %w", err)
	}
	for i, row := range t.Rows {
		if err := set(1, i+2, row.DateString()); err != nil {
			return fmt.Errorf("unable to write xlsx row %d, %w", i, err)
		}
		if err := set(2, i+2, row.Value); err != nil {
			return fmt.Errorf("unable to write xlsx row %d, %w", i, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("unable to write xlsx, %w", err)
	}
	return nil
}
