package domain

import "fmt"

// MismatchError reports a foreign key that disagrees with the object it was
// resolved to, such as a task whose wbs_id differs from its WBS node.
type MismatchError struct {
	Entity   string
	Field    string
	Expected string
	Got      string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s: expected %s %s, got %s", e.Entity, e.Field, e.Expected, e.Got)
}

func checkKey(entity, field, expected, got string) error {
	if expected != got {
		return &MismatchError{Entity: entity, Field: field, Expected: expected, Got: got}
	}
	return nil
}

// MissingDateError reports a derived date that has no source value.
type MissingDateError struct {
	Entity string
	ID     string
	Which  string
}

func (e *MissingDateError) Error() string {
	return fmt.Sprintf("could not find %s date for %s %s", e.Which, e.Entity, e.ID)
}
