package parser

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "ERMHDR\t19.12\t2024-03-01\tProject\tadmin\tAdmin User\tdbxDatabaseNoName\tProject Management\tUSD\n"

func TestParse_HeaderAndTables(t *testing.T) {
	contents := header +
		"%T\tCALENDAR\n" +
		"%F\tclndr_id\tclndr_name\n" +
		"%R\t1\tStandard\n" +
		"%R\t2\tSix Day   \r\n" +
		"%T\tPROJECT\r\n" +
		"%F\tproj_id\tproj_short_name\texport_flag\r\n" +
		"%R\t10\tALPHA\tY\r\n" +
		"%E\n"

	f, err := Parse(contents)
	require.NoError(t, err)

	assert.Equal(t, "19.12", f.Header.Version)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), f.Header.ExportDate)
	assert.Equal(t, "Admin User", f.Header.User)
	assert.Equal(t, "USD", f.Header.Currency)

	assert.Equal(t, []string{"CALENDAR", "PROJECT"}, f.TableNames())

	cal, ok := f.Table("CALENDAR")
	require.True(t, ok)
	assert.Equal(t, []string{"clndr_id", "clndr_name"}, cal.Columns)
	require.Len(t, cal.Rows, 2)
	assert.Equal(t, "Six Day", cal.Rows[1]["clndr_name"])

	proj := f.Rows("PROJECT")
	require.Len(t, proj, 1)
	assert.Equal(t, Row{"proj_id": "10", "proj_short_name": "ALPHA", "export_flag": "Y"}, proj[0])
}

func TestParse_OnlyFinalFieldTrimmed(t *testing.T) {
	contents := header +
		"%T\tTASK\n" +
		"%F\ttask_id\ttask_name\ttask_code\n" +
		"%R\t1\t  padded name  \tA100  \n"

	f, err := Parse(contents)
	require.NoError(t, err)
	row := f.Rows("TASK")[0]
	assert.Equal(t, "  padded name  ", row["task_name"])
	assert.Equal(t, "A100", row["task_code"])
}

func TestParse_ShortRowZipsToShorterLength(t *testing.T) {
	contents := header +
		"%T\tTASK\n" +
		"%F\ttask_id\ttask_name\ttask_code\n" +
		"%R\t1\tOnly name\n"

	f, err := Parse(contents)
	require.NoError(t, err)
	row := f.Rows("TASK")[0]
	assert.Len(t, row, 2)
	_, ok := row["task_code"]
	assert.False(t, ok)
}

func TestParse_MissingMarker(t *testing.T) {
	_, err := Parse("%T\tTASK\n")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidFormat))

	var fe *FormatError
	assert.True(t, errors.As(err, &fe))
}

func TestParse_LeadingByteOrderMark(t *testing.T) {
	// The mark itself, and its UTF-8 bytes read as Windows-1252.
	for _, prefix := range []string{"\ufeff", "\u00ef\u00bb\u00bf"} {
		f, err := Parse(prefix + header + "%T\tTASK\n%F\ttask_id\n%R\t1\n")
		require.NoError(t, err, "prefix %q", prefix)
		assert.Equal(t, "19.12", f.Header.Version)
		assert.Len(t, f.Rows("TASK"), 1)
	}
}

func TestParse_ShortHeader(t *testing.T) {
	_, err := Parse("ERMHDR\t19.12\t2024-03-01\n%T\tTASK\n")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidFormat))
	assert.Contains(t, err.Error(), "too few fields")
}

func TestParse_BadHeaderDate(t *testing.T) {
	_, err := Parse("ERMHDR\t19.12\t03/01/2024\tProject\tadmin\tAdmin\tdb\tPM\tUSD\n")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidFormat))
}

func TestParse_AbsentTable(t *testing.T) {
	f, err := Parse(header)
	require.NoError(t, err)
	assert.False(t, f.Has("TASK"))
	assert.Nil(t, f.Rows("TASK"))
	assert.Empty(t, f.Tables())
}

func TestDecode_Windows1252AndBOM(t *testing.T) {
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("ERMHDR\tcaf\xe9 \x80 \x81")...)
	got := Decode(raw)
	assert.True(t, strings.HasPrefix(got, "ERMHDR"))
	assert.Contains(t, got, "café €")
	assert.NotContains(t, got, "�")
}

func TestReadAll(t *testing.T) {
	got, err := ReadAll(strings.NewReader(header))
	require.NoError(t, err)
	assert.Equal(t, header, got)
}
