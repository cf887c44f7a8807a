package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/restaurant-hours/backend/internal/ingest"
	"github.com/xuri/excelize/v2"
)

const (
	NameHeader  = "Restaurant Name"
	HoursHeader = "Hours"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrMissingHeader     = errors.New("missing header")
	ErrNoSheet           = errors.New("workbook has no sheets")
)

// ReadRows loads ingest rows from a .csv or .xlsx file. The first record is
// the header; the two required columns may appear in any position. Records
// with both cells blank are skipped. Row.Line is the record number with the
// header counted as 1.
func ReadRows(path string) ([]ingest.Row, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return ReadCSV(file)
	case ".xlsx":
		return readXLSX(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func ReadCSV(r io.Reader) ([]ingest.Row, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records := make([][]string, 0)
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		records = append(records, record)
	}

	return rowsFromRecords(records)
}

func readXLSX(path string) ([]ingest.Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheet
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}

	return rowsFromRecords(records)
}

func rowsFromRecords(records [][]string) ([]ingest.Row, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingHeader, NameHeader)
	}

	nameCol, hoursCol := -1, -1
	for i, header := range records[0] {
		switch strings.TrimSpace(strings.TrimPrefix(header, "\ufeff")) {
		case NameHeader:
			nameCol = i
		case HoursHeader:
			hoursCol = i
		}
	}
	if nameCol < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingHeader, NameHeader)
	}
	if hoursCol < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingHeader, HoursHeader)
	}

	rows := make([]ingest.Row, 0, len(records)-1)
	for i, record := range records[1:] {
		name, hours := cell(record, nameCol), cell(record, hoursCol)
		if strings.TrimSpace(name) == "" && strings.TrimSpace(hours) == "" {
			continue
		}
		// header is line 1
		rows = append(rows, ingest.Row{Line: i + 2, Name: name, Hours: hours})
	}

	return rows, nil
}

// excelize trims trailing empty cells, so short records are normal.
func cell(record []string, col int) string {
	if col < len(record) {
		return record[col]
	}
	return ""
}
