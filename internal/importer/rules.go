package importer

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// TablePair names a table that is only meaningful when its partner table
// is also exported.
type TablePair struct {
	Dependent string `yaml:"dependent" validate:"required,uppercase"`
	Partner   string `yaml:"partner" validate:"required,uppercase"`
}

// Rules controls which structural checks Scan performs.
type Rules struct {
	RequiredTables []string    `yaml:"required_tables" validate:"dive,required,uppercase"`
	TablePairs     []TablePair `yaml:"table_pairs" validate:"dive"`
}

// DefaultRules are the checks applied when no rules file is given.
func DefaultRules() Rules {
	return Rules{
		RequiredTables: []string{"CALENDAR", "PROJECT", "PROJWBS", "TASK", "TASKPRED"},
		TablePairs: []TablePair{
			{Dependent: "TASKFIN", Partner: "FINDATES"},
			{Dependent: "TRSRCFIN", Partner: "FINDATES"},
			{Dependent: "TASKRSRC", Partner: "RSRC"},
			{Dependent: "TASKMEMO", Partner: "MEMOTYPE"},
			{Dependent: "ACTVCODE", Partner: "ACTVTYPE"},
			{Dependent: "TASKACTV", Partner: "ACTVCODE"},
			{Dependent: "PCATVAL", Partner: "PCATTYPE"},
			{Dependent: "PROJPCAT", Partner: "PCATVAL"},
			{Dependent: "UDFVALUE", Partner: "UDFTYPE"},
		},
	}
}

var rulesValidator = validator.New()

// ParseRules reads rules from YAML. Keys missing from the document keep
// their default values.
func ParseRules(data []byte) (Rules, error) {
	rules := DefaultRules()
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("parsing rules: %w", err)
	}
	if err := rulesValidator.Struct(rules); err != nil {
		return Rules{}, fmt.Errorf("invalid rules: %w", err)
	}
	return rules, nil
}

// LoadRules reads and parses a rules YAML file.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, err
	}
	return ParseRules(data)
}
