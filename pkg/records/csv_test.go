package records

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRecords(t *testing.T) {
	in := strings.NewReader(
		"id,first_name,last_name,birth_date\n" +
			"1,Jane,Doe,1980-01-15\n" +
			"2,John,Smith,1975-06-02\n",
	)

	parsed, err := readRecords(in)
	require.NoError(t, err)
	require.Len(t, parsed, 2)
	assert.Equal(t, Record{ID: "1", FirstName: "Jane", LastName: "Doe", BirthDate: "1980-01-15"}, parsed[0])
	assert.Equal(t, Record{ID: "2", FirstName: "John", LastName: "Smith", BirthDate: "1975-06-02"}, parsed[1])
}

func TestReadRecords_HeaderOnly(t *testing.T) {
	parsed, err := readRecords(strings.NewReader("id,first_name,last_name,birth_date\n"))
	require.NoError(t, err)
	assert.Empty(t, parsed)
}

func TestReadRecords_Empty(t *testing.T) {
	_, err := readRecords(strings.NewReader(""))
	require.ErrorIs(t, err, ErrInvalidFileFormat)
}

func TestReadRecords_WrongHeader(t *testing.T) {
	_, err := readRecords(strings.NewReader("id,name,dob\n1,Jane,1980-01-15\n"))
	require.ErrorIs(t, err, ErrInvalidFileFormat)
}

func TestReadRecords_MissingFields(t *testing.T) {
	in := strings.NewReader(
		"id,first_name,last_name,birth_date\n" +
			"1,Jane\n",
	)
	_, err := readRecords(in)
	require.ErrorIs(t, err, ErrInvalidFileFormat)
}

func TestReadRecords_NotCSV(t *testing.T) {
	_, err := readRecords(strings.NewReader("{\"records\": []}"))
	require.ErrorIs(t, err, ErrInvalidFileFormat)
}

func TestWriteRecords_RoundTrip(t *testing.T) {
	records := []Record{
		{ID: "1", FirstName: "Jane", LastName: "Doe", BirthDate: "1980-01-15"},
		{ID: "2", FirstName: "John", LastName: "Smith", BirthDate: "1975-06-02"},
	}

	var buf bytes.Buffer
	require.NoError(t, writeRecords(&buf, records))

	parsed, err := readRecords(&buf)
	require.NoError(t, err)
	assert.Equal(t, records, parsed)
}

func TestWriteRecords_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeRecords(&buf, nil))
	assert.Equal(t, "id,first_name,last_name,birth_date\n", buf.String())
}
