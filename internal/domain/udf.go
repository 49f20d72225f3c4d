package domain

import (
	"fmt"
	"strconv"
	"time"

	"github.com/alexanderramin/xerkit/internal/dates"
	"github.com/alexanderramin/xerkit/internal/parser"
)

// FieldType is the logical data type of a user defined field.
type FieldType string

const (
	FieldEndDate   FieldType = "FT_END_DATE"
	FieldFloat     FieldType = "FT_FLOAT_2_DECIMALS"
	FieldInt       FieldType = "FT_INT"
	FieldMoney     FieldType = "FT_MONEY"
	FieldStartDate FieldType = "FT_START_DATE"
	FieldIndicator FieldType = "FT_STATICTYPE"
	FieldText      FieldType = "FT_TEXT"
)

var fieldTypeLabels = map[FieldType]string{
	FieldEndDate:   "End Date",
	FieldFloat:     "Float",
	FieldInt:       "Integer",
	FieldMoney:     "Cost",
	FieldStartDate: "Start Date",
	FieldIndicator: "Indicator",
	FieldText:      "Text",
}

func (t FieldType) Label() string { return fieldTypeLabels[t] }

// indicators approximates the P6 indicator icons.
var indicators = map[string]string{
	"UDF_G1": "🛑",
	"UDF_G2": "⚠️",
	"UDF_G3": "✅",
	"UDF_G4": "⭐",
}

// UDFOwner is the kind of entity a user defined field can be attached to.
type UDFOwner int

const (
	OwnerUnsupported UDFOwner = iota
	OwnerTask
	OwnerProject
	OwnerWBS
	OwnerResource
)

func ownerOf(table string) UDFOwner {
	switch table {
	case "TASK":
		return OwnerTask
	case "PROJECT":
		return OwnerProject
	case "PROJWBS":
		return OwnerWBS
	case "RSRC":
		return OwnerResource
	default:
		return OwnerUnsupported
	}
}

func (o UDFOwner) String() string {
	switch o {
	case OwnerTask:
		return "task"
	case OwnerProject:
		return "project"
	case OwnerWBS:
		return "wbs"
	case OwnerResource:
		return "resource"
	default:
		return "unsupported"
	}
}

// UDFType defines a user defined field (UDFTYPE).
type UDFType struct {
	ID    string
	Table string
	Label string
	Name  string
	Type  FieldType
	Owner UDFOwner
}

func NewUDFType(row parser.Row) (*UDFType, error) {
	f := parser.NewFields("UDFTYPE", row)
	t := &UDFType{
		ID:    f.Str("udf_type_id"),
		Table: f.Str("table_name"),
		Label: f.Str("udf_type_label"),
		Name:  f.Str("udf_type_name"),
		Type:  FieldType(f.Str("logical_data_type")),
	}
	if err := f.Err(); err != nil {
		return nil, fmt.Errorf("udf type %s: %w", t.ID, err)
	}
	if _, ok := fieldTypeLabels[t.Type]; !ok {
		return nil, fmt.Errorf("udf type %s: unknown logical data type %q", t.ID, t.Type)
	}
	t.Owner = ownerOf(t.Table)
	return t, nil
}

func (t *UDFType) String() string { return t.Label }

// UDFValue is one typed user defined field value. Exactly one of the value
// fields is meaningful, selected by Type.
type UDFValue struct {
	Type    *UDFType
	OwnerID string
	Text    string
	Number  float64
	Int     int
	Date    time.Time
}

// NewUDFValue reads the column that matches the type's logical data type.
func NewUDFValue(row parser.Row, udfType *UDFType) (UDFValue, error) {
	f := parser.NewFields("UDFVALUE", row)
	v := UDFValue{Type: udfType, OwnerID: f.Str("fk_id")}
	if udfType == nil {
		return v, fmt.Errorf("udf value for %s: missing udf type %s", v.OwnerID, row["udf_type_id"])
	}
	switch udfType.Type {
	case FieldStartDate, FieldEndDate:
		v.Date = f.DateTime("udf_date")
	case FieldFloat, FieldMoney:
		v.Number = f.Float("udf_number")
	case FieldInt:
		n := f.OptInt("udf_number")
		if n != nil {
			v.Int = *n
		}
	case FieldIndicator:
		icon, ok := indicators[row["udf_text"]]
		if !ok {
			return v, fmt.Errorf("udf value for %s: unknown indicator %q", v.OwnerID, row["udf_text"])
		}
		v.Text = icon
	default:
		v.Text = f.Str("udf_text")
	}
	if err := f.Err(); err != nil {
		return v, fmt.Errorf("udf value %s for %s: %w", udfType.Label, v.OwnerID, err)
	}
	return v, nil
}

// Value returns the typed value as an interface.
func (v UDFValue) Value() any {
	if v.Type == nil {
		return v.Text
	}
	switch v.Type.Type {
	case FieldStartDate, FieldEndDate:
		return v.Date
	case FieldFloat, FieldMoney:
		return v.Number
	case FieldInt:
		return v.Int
	default:
		return v.Text
	}
}

func (v UDFValue) String() string {
	if v.Type == nil {
		return v.Text
	}
	switch v.Type.Type {
	case FieldStartDate, FieldEndDate:
		return v.Date.Format(dates.DateTimeLayout)
	case FieldFloat, FieldMoney:
		return strconv.FormatFloat(v.Number, 'f', 2, 64)
	case FieldInt:
		return strconv.Itoa(v.Int)
	default:
		return v.Text
	}
}

// UDFSet holds an entity's user defined field values keyed by type.
type UDFSet map[*UDFType]UDFValue

// ByLabel looks a value up by its type label.
func (s UDFSet) ByLabel(label string) (UDFValue, bool) {
	for t, v := range s {
		if t.Label == label {
			return v, true
		}
	}
	return UDFValue{}, false
}
