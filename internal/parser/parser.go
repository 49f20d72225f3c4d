package parser

import (
	"strings"
	"time"
	"unicode"

	"github.com/alexanderramin/xerkit/internal/dates"
)

const (
	fileMarker  = "ERMHDR"
	tableMarker = "%T\t"
	rowMarker   = "%R"
)

// Header is the ERMHDR line of an export.
type Header struct {
	Version    string
	ExportDate time.Time
	User       string
	Currency   string
	// Fields holds every positional header value after the marker.
	Fields []string
}

// Row maps column name to raw field text.
type Row map[string]string

// Table is one named section of an export with its rows in file order.
type Table struct {
	Name    string
	Columns []string
	Rows    []Row
}

// File is the tokenized content of an export, tables in the order they
// first appear.
type File struct {
	Header Header
	tables []*Table
	index  map[string]*Table
}

// Table returns the named table.
func (f *File) Table(name string) (*Table, bool) {
	t, ok := f.index[name]
	return t, ok
}

// Has reports whether the named table is present.
func (f *File) Has(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Rows returns the rows of the named table, or nil when it is absent.
func (f *File) Rows(name string) []Row {
	if t, ok := f.index[name]; ok {
		return t.Rows
	}
	return nil
}

// Tables returns all tables in file order.
func (f *File) Tables() []*Table {
	out := make([]*Table, len(f.tables))
	copy(out, f.tables)
	return out
}

// TableNames returns the table names in file order.
func (f *File) TableNames() []string {
	names := make([]string, len(f.tables))
	for i, t := range f.tables {
		names[i] = t.Name
	}
	return names
}

// Parse tokenizes decoded export text into tables. A leading byte order
// mark is ignored. Only a missing file marker or an unreadable header fail;
// everything after the header is taken as-is.
func Parse(contents string) (*File, error) {
	contents = trimBOM(contents)
	if !strings.HasPrefix(contents, fileMarker) {
		return nil, &FormatError{Reason: "file does not start with " + fileMarker}
	}

	segments := strings.Split(contents, tableMarker)
	header, err := parseHeader(segments[0])
	if err != nil {
		return nil, err
	}

	f := &File{Header: header, index: make(map[string]*Table)}
	for _, seg := range segments[1:] {
		t := parseTable(seg)
		if t == nil {
			continue
		}
		if existing, ok := f.index[t.Name]; ok {
			*existing = *t
			continue
		}
		f.tables = append(f.tables, t)
		f.index[t.Name] = t
	}
	return f, nil
}

func parseHeader(seg string) (Header, error) {
	fields := strings.Split(strings.TrimSpace(seg), "\t")[1:]
	if len(fields) < 8 {
		return Header{}, &FormatError{Reason: "header has too few fields"}
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	exported, err := dates.ParseDate(fields[1])
	if err != nil {
		return Header{}, &FormatError{Reason: "header export date", Err: err}
	}
	return Header{
		Version:    fields[0],
		ExportDate: exported,
		User:       fields[4],
		Currency:   fields[7],
		Fields:     fields,
	}, nil
}

func parseTable(seg string) *Table {
	lines := splitLines(seg)
	name := strings.TrimSpace(lines[0])
	if name == "" {
		return nil
	}
	t := &Table{Name: name}
	if len(lines) < 2 {
		return t
	}

	cols := strings.Split(strings.TrimSpace(lines[1]), "\t")
	if len(cols) > 0 {
		cols = cols[1:]
	}
	for i := range cols {
		cols[i] = strings.TrimSpace(cols[i])
	}
	t.Columns = cols

	for _, line := range lines[2:] {
		if !strings.HasPrefix(line, rowMarker) {
			continue
		}
		t.Rows = append(t.Rows, parseRow(cols, line))
	}
	return t
}

func parseRow(cols []string, line string) Row {
	values := strings.Split(line, "\t")[1:]
	if last := len(values) - 1; last >= 0 {
		values[last] = strings.TrimRightFunc(values[last], unicode.IsSpace)
	}
	n := min(len(cols), len(values))
	row := make(Row, n)
	for i := 0; i < n; i++ {
		row[cols[i]] = values[i]
	}
	return row
}

func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
