package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRules_KeepsDefaultsForMissingKeys(t *testing.T) {
	rules, err := ParseRules([]byte("required_tables: [PROJECT, TASK]\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"PROJECT", "TASK"}, rules.RequiredTables)
	assert.Equal(t, DefaultRules().TablePairs, rules.TablePairs)
}

func TestParseRules_TablePairs(t *testing.T) {
	doc := `
table_pairs:
  - dependent: TASKRSRC
    partner: RSRC
`
	rules, err := ParseRules([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, []TablePair{{Dependent: "TASKRSRC", Partner: "RSRC"}}, rules.TablePairs)
	assert.Equal(t, DefaultRules().RequiredTables, rules.RequiredTables)
}

func TestParseRules_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"lowercase table", "required_tables: [task]\n"},
		{"empty table", "required_tables: ['']\n"},
		{"pair without partner", "table_pairs:\n  - dependent: TASKRSRC\n"},
		{"not yaml", "required_tables: [TASK\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRules([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("required_tables: [CALENDAR]\n"), 0o644))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"CALENDAR"}, rules.RequiredTables)

	_, err = LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
