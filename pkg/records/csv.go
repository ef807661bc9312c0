package records

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidFileFormat the file is not a person record CSV.
var ErrInvalidFileFormat = errors.New("invalid person record file format")

var csvHeader = []string{"id", "first_name", "last_name", "birth_date"}

// readRecords parses a person record CSV. The header must match exactly and
// every row must carry all fields.
func readRecords(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(csvHeader)

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidFileFormat, "missing header: %v", err)
	}
	if !equalHeader(header) {
		return nil, errors.Wrapf(ErrInvalidFileFormat,
			"unexpected header %q, want %q",
			strings.Join(header, ","), strings.Join(csvHeader, ","),
		)
	}

	var out []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidFileFormat, "malformed row: %v", err)
		}
		out = append(out, Record{
			ID:        row[0],
			FirstName: row[1],
			LastName:  row[2],
			BirthDate: row[3],
		})
	}
	return out, nil
}

func writeRecords(w io.Writer, records []Record) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, record := range records {
		row := []string{record.ID, record.FirstName, record.LastName, record.BirthDate}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func equalHeader(header []string) bool {
	if len(header) != len(csvHeader) {
		return false
	}
	for i, name := range csvHeader {
		if strings.TrimSpace(header[i]) != name {
			return false
		}
	}
	return true
}
