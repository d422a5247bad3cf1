package dataset

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strconv"
)

// ErrEmptyCSV signals an input with no header row.
var ErrEmptyCSV = errors.New("dataset: csv input has no header row")

// ReadCSV parses header-driven CSV into a frame. Cells that parse as numbers
// become float64, empty cells become nil, everything else stays a string.
func ReadCSV(r io.Reader) (*Frame, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyCSV
	}
	if err != nil {
		return nil, err
	}
	f := New(header...)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return f, nil
		}
		if err != nil {
			return nil, err
		}
		row := make(Row, len(header))
		for i, col := range header {
			if i >= len(rec) {
				row[col] = nil
				continue
			}
			row[col] = sniff(rec[i])
		}
		f.AddRow(row)
	}
}

// ReadCSVFile reads and parses the named CSV file.
func ReadCSVFile(path string) (*Frame, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return ReadCSV(fh)
}

func sniff(cell string) any {
	if cell == "" {
		return nil
	}
	if n, err := strconv.ParseFloat(cell, 64); err == nil {
		return n
	}
	return cell
}
