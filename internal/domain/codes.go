package domain

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/xerkit/internal/parser"
)

// bomRemnant is a UTF-8 byte order mark read as Windows-1252.
const bomRemnant = "ï»¿"

// Account is a cost account (ACCOUNT).
type Account struct {
	Node
	Seq         int
	Description string
}

func NewAccount(row parser.Row) (*Account, error) {
	f := parser.NewFields("ACCOUNT", row)
	a := &Account{
		Node: Node{
			ID:       f.Str("acct_id"),
			Code:     f.Str("acct_short_name"),
			Name:     f.Str("acct_name"),
			ParentID: f.Str("parent_acct_id"),
		},
		Seq:         f.IntOrZero("acct_seq_num"),
		Description: strings.ReplaceAll(f.Str("acct_descr"), bomRemnant, ""),
	}
	if err := f.Err(); err != nil {
		return nil, fmt.Errorf("account %s: %w", a.ID, err)
	}
	return a, nil
}

// ActivityCodeType is an activity code dictionary (ACTVTYPE).
type ActivityCodeType struct {
	ID        string
	MaxLength int
	Name      string
	ProjectID string
	Scope     ActivityCodeScope
	Seq       *int
}

func NewActivityCodeType(row parser.Row) (*ActivityCodeType, error) {
	f := parser.NewFields("ACTVTYPE", row)
	t := &ActivityCodeType{
		ID:        f.Str("actv_code_type_id"),
		MaxLength: f.IntOrZero("actv_short_len"),
		Name:      f.Str("actv_code_type"),
		ProjectID: f.Str("proj_id"),
		Seq:       f.OptInt("seq_num"),
	}
	if err := f.Err(); err != nil {
		return nil, fmt.Errorf("activity code type %s: %w", t.ID, err)
	}
	scope, err := ParseActivityCodeScope(f.Str("actv_code_type_scope"))
	if err != nil {
		return nil, fmt.Errorf("activity code type %s: %w", t.ID, err)
	}
	t.Scope = scope
	return t, nil
}

func (t *ActivityCodeType) String() string { return t.Name }

// ActivityCode is a value within an activity code type (ACTVCODE).
type ActivityCode struct {
	Node
	TypeID string
	Seq    int
	Type   *ActivityCodeType
}

// NewActivityCode builds a code value. codeType must be the type the row
// references.
func NewActivityCode(row parser.Row, codeType *ActivityCodeType) (*ActivityCode, error) {
	f := parser.NewFields("ACTVCODE", row)
	c := &ActivityCode{
		Node: Node{
			ID:       f.Str("actv_code_id"),
			Code:     f.Str("short_name"),
			Name:     f.Str("actv_code_name"),
			ParentID: f.Str("parent_actv_code_id"),
		},
		TypeID: f.Str("actv_code_type_id"),
		Seq:    f.IntOrZero("seq_num"),
		Type:   codeType,
	}
	if err := f.Err(); err != nil {
		return nil, fmt.Errorf("activity code %s: %w", c.ID, err)
	}
	if codeType == nil {
		return nil, fmt.Errorf("activity code %s: missing code type %s", c.ID, c.TypeID)
	}
	if err := checkKey("activity code "+c.ID, "actv_code_type_id", codeType.ID, c.TypeID); err != nil {
		return nil, err
	}
	return c, nil
}

// ProjectCodeType is a project code dictionary (PCATTYPE).
type ProjectCodeType struct {
	ID        string
	MaxLength int
	Name      string
	Seq       *int
}

func NewProjectCodeType(row parser.Row) (*ProjectCodeType, error) {
	f := parser.NewFields("PCATTYPE", row)
	t := &ProjectCodeType{
		ID:        f.Str("proj_catg_type_id"),
		MaxLength: f.IntOrZero("proj_catg_short_len"),
		Name:      f.Str("proj_catg_type"),
		Seq:       f.OptInt("seq_num"),
	}
	if err := f.Err(); err != nil {
		return nil, fmt.Errorf("project code type %s: %w", t.ID, err)
	}
	return t, nil
}

func (t *ProjectCodeType) String() string { return t.Name }

// ProjectCode is a value within a project code type (PCATVAL).
type ProjectCode struct {
	Node
	TypeID string
	Seq    int
	Type   *ProjectCodeType
}

func NewProjectCode(row parser.Row, codeType *ProjectCodeType) (*ProjectCode, error) {
	f := parser.NewFields("PCATVAL", row)
	c := &ProjectCode{
		Node: Node{
			ID:       f.Str("proj_catg_id"),
			Code:     f.Str("proj_catg_short_name"),
			Name:     f.Str("proj_catg_name"),
			ParentID: f.Str("parent_proj_catg_id"),
		},
		TypeID: f.Str("proj_catg_type_id"),
		Seq:    f.IntOrZero("seq_num"),
		Type:   codeType,
	}
	if err := f.Err(); err != nil {
		return nil, fmt.Errorf("project code %s: %w", c.ID, err)
	}
	if codeType == nil {
		return nil, fmt.Errorf("project code %s: missing code type %s", c.ID, c.TypeID)
	}
	if err := checkKey("project code "+c.ID, "proj_catg_type_id", codeType.ID, c.TypeID); err != nil {
		return nil, err
	}
	return c, nil
}
