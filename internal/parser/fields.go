package parser

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/xerkit/internal/dates"
)

var errRequired = errors.New("value is required")

// Fields reads typed values out of a Row. The first conversion failure is
// kept and reported by Err; later reads return zero values.
type Fields struct {
	table string
	row   Row
	err   error
}

// NewFields wraps row for typed access. table is used in error messages.
func NewFields(table string, row Row) *Fields {
	return &Fields{table: table, row: row}
}

// Err returns the first conversion error, if any.
func (f *Fields) Err() error { return f.err }

func (f *Fields) fail(col, val string, err error) {
	if f.err == nil {
		f.err = &FieldError{Table: f.table, Column: col, Value: val, Err: err}
	}
}

// Str returns the raw value, empty when the column is absent.
func (f *Fields) Str(col string) string {
	return f.row[col]
}

// OptStr returns nil for an empty value.
func (f *Fields) OptStr(col string) *string {
	v := f.row[col]
	if v == "" {
		return nil
	}
	return &v
}

// Flag reports whether the value is "Y".
func (f *Fields) Flag(col string) bool {
	return f.row[col] == "Y"
}

func parseFloat(v string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(v, ",", "."), 64)
}

// Float returns a required decimal value. Decimal commas are accepted.
func (f *Fields) Float(col string) float64 {
	v := f.row[col]
	if v == "" {
		f.fail(col, v, errRequired)
		return 0
	}
	n, err := parseFloat(v)
	if err != nil {
		f.fail(col, v, err)
		return 0
	}
	return n
}

// OptFloat returns nil for an empty value.
func (f *Fields) OptFloat(col string) *float64 {
	v := f.row[col]
	if v == "" {
		return nil
	}
	n, err := parseFloat(v)
	if err != nil {
		f.fail(col, v, err)
		return nil
	}
	return &n
}

// FloatOrZero returns 0 for an empty value.
func (f *Fields) FloatOrZero(col string) float64 {
	if p := f.OptFloat(col); p != nil {
		return *p
	}
	return 0
}

// OptInt returns nil for an empty value. Integral decimals such as "8.0"
// are accepted.
func (f *Fields) OptInt(col string) *int {
	v := f.row[col]
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		fl, ferr := parseFloat(v)
		if ferr != nil || fl != float64(int(fl)) {
			f.fail(col, v, err)
			return nil
		}
		n = int(fl)
	}
	return &n
}

// Int returns a required integer value.
func (f *Fields) Int(col string) int {
	if f.row[col] == "" {
		f.fail(col, "", errRequired)
		return 0
	}
	if p := f.OptInt(col); p != nil {
		return *p
	}
	return 0
}

// IntOrZero returns 0 for an empty value.
func (f *Fields) IntOrZero(col string) int {
	if p := f.OptInt(col); p != nil {
		return *p
	}
	return 0
}

// DateTime returns a required "YYYY-MM-DD HH:MM" value.
func (f *Fields) DateTime(col string) time.Time {
	v := f.row[col]
	if v == "" {
		f.fail(col, v, errRequired)
		return time.Time{}
	}
	t, err := dates.ParseDateTime(v)
	if err != nil {
		f.fail(col, v, err)
	}
	return t
}

// OptDateTime returns nil for an empty value.
func (f *Fields) OptDateTime(col string) *time.Time {
	v := f.row[col]
	if v == "" {
		return nil
	}
	t, err := dates.ParseDateTime(v)
	if err != nil {
		f.fail(col, v, err)
		return nil
	}
	return &t
}
