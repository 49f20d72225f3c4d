package importer

import (
	"io"
	"log/slog"

	"github.com/alexanderramin/xerkit/internal/domain"
	"github.com/alexanderramin/xerkit/internal/parser"
)

// Import is the result of reading one export.
type Import struct {
	File     *parser.File
	Findings []Finding
	Schedule *domain.Schedule
}

// Corrupt reports whether Scan found any problems.
func (i *Import) Corrupt() bool { return len(i.Findings) > 0 }

type options struct {
	rules  Rules
	strict bool
	log    *slog.Logger
}

// Option configures an import.
type Option func(*options)

// WithRules replaces the default structural checks.
func WithRules(r Rules) Option {
	return func(o *options) { o.rules = r }
}

// WithStrict makes any finding fail the import with a *CorruptFileError.
func WithStrict(strict bool) Option {
	return func(o *options) { o.strict = strict }
}

func WithLogger(log *slog.Logger) Option {
	return func(o *options) { o.log = log }
}

// FromString parses, scans and links decoded export text.
func FromString(contents string, opts ...Option) (*Import, error) {
	o := options{rules: DefaultRules(), log: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}

	file, err := parser.Parse(contents)
	if err != nil {
		return nil, err
	}
	imp := &Import{File: file, Findings: Scan(file, o.rules)}
	for _, f := range imp.Findings {
		o.log.Warn("xer finding", "code", string(f.Code), "detail", f.Error())
	}
	if o.strict && imp.Corrupt() {
		return nil, &CorruptFileError{Findings: imp.Findings}
	}

	imp.Schedule, err = Convert(file, o.log)
	if err != nil {
		return nil, err
	}
	o.log.Debug("xer linked",
		"projects", imp.Schedule.Projects.Len(),
		"tasks", imp.Schedule.Tasks.Len(),
		"relationships", imp.Schedule.Relationships.Len())
	return imp, nil
}

// FromBytes decodes raw Windows-1252 export bytes before importing.
func FromBytes(raw []byte, opts ...Option) (*Import, error) {
	return FromString(parser.Decode(raw), opts...)
}

func FromFile(path string, opts ...Option) (*Import, error) {
	contents, err := parser.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromString(contents, opts...)
}

func FromReader(r io.Reader, opts ...Option) (*Import, error) {
	contents, err := parser.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return FromString(contents, opts...)
}
