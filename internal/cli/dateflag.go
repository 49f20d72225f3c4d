package cli

import (
	"time"

	"github.com/alexanderramin/xerkit/internal/dates"
	"github.com/spf13/pflag"
)

// dateValue is a flag holding a calendar date. It accepts YYYY-MM-DD or an
// export timestamp.
type dateValue struct {
	t   *time.Time
	set bool
}

var _ pflag.Value = (*dateValue)(nil)

func newDateValue(t *time.Time) *dateValue { return &dateValue{t: t} }

func (d *dateValue) String() string {
	if d.t == nil || !d.set {
		return ""
	}
	return d.t.Format(dates.DateLayout)
}

func (d *dateValue) Set(s string) error {
	t, err := dates.ParseDate(s)
	if err != nil {
		var dtErr error
		if t, dtErr = dates.ParseDateTime(s); dtErr != nil {
			return err
		}
	}
	*d.t = t
	d.set = true
	return nil
}

func (d *dateValue) Type() string { return "date" }
