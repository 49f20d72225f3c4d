package parser

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFields_TypedValues(t *testing.T) {
	f := NewFields("TASK", Row{
		"name":  "Pour",
		"hours": "12,5",
		"count": "8.0",
		"flag":  "Y",
		"start": "2024-01-08 08:00",
		"empty": "",
	})

	assert.Equal(t, "Pour", f.Str("name"))
	assert.Nil(t, f.OptStr("empty"))
	assert.InDelta(t, 12.5, f.Float("hours"), 1e-9)
	assert.Nil(t, f.OptFloat("empty"))
	assert.Zero(t, f.FloatOrZero("empty"))
	assert.Equal(t, 8, f.Int("count"))
	assert.Nil(t, f.OptInt("empty"))
	assert.Zero(t, f.IntOrZero("missing"))
	assert.True(t, f.Flag("flag"))
	assert.False(t, f.Flag("name"))
	assert.Equal(t, time.Date(2024, 1, 8, 8, 0, 0, 0, time.UTC), f.DateTime("start"))
	assert.Nil(t, f.OptDateTime("empty"))
	assert.NoError(t, f.Err())
}

func TestFields_KeepsFirstError(t *testing.T) {
	f := NewFields("TASK", Row{"hours": "abc", "start": "soon"})

	f.Float("hours")
	f.DateTime("start")
	f.Int("missing")

	var fe *FieldError
	require.ErrorAs(t, f.Err(), &fe)
	assert.Equal(t, "TASK", fe.Table)
	assert.Equal(t, "hours", fe.Column)
	assert.Equal(t, "abc", fe.Value)
}

func TestFields_Required(t *testing.T) {
	f := NewFields("PROJECT", Row{})

	f.DateTime("last_recalc_date")

	require.Error(t, f.Err())
	assert.True(t, errors.Is(f.Err(), errRequired))
	assert.Contains(t, f.Err().Error(), "PROJECT.last_recalc_date")
}

func TestFields_FractionalIntRejected(t *testing.T) {
	f := NewFields("TASK", Row{"seq": "1.5"})

	assert.Nil(t, f.OptInt("seq"))
	assert.Error(t, f.Err())
}
