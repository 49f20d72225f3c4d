package domain

import (
	"fmt"
	"time"

	"github.com/alexanderramin/xerkit/internal/parser"
)

// RelationshipKey identifies a relationship by its endpoints and type.
// Rows with different ids but the same key are the same logic tie.
type RelationshipKey struct {
	Predecessor string
	Successor   string
	Link        LinkType
}

func (k RelationshipKey) String() string {
	return fmt.Sprintf("%s -%s-> %s", k.Predecessor, k.Link, k.Successor)
}

// Relationship is a logic tie between two tasks (TASKPRED).
type Relationship struct {
	ID                 string
	TaskID             string
	PredTaskID         string
	ProjectID          string
	PredProjectID      string
	Type               string
	Link               LinkType
	LagHours           float64
	FloatPath          *int
	EarlyFinishDriving *time.Time
	LateStartDriving   *time.Time

	Predecessor *Task
	Successor   *Task
}

// NewRelationship links pred to succ. Both tasks are required and must be
// the ones the row references.
func NewRelationship(row parser.Row, pred, succ *Task) (*Relationship, error) {
	f := parser.NewFields("TASKPRED", row)
	r := &Relationship{
		ID:                 f.Str("task_pred_id"),
		TaskID:             f.Str("task_id"),
		PredTaskID:         f.Str("pred_task_id"),
		ProjectID:          f.Str("proj_id"),
		PredProjectID:      f.Str("pred_proj_id"),
		Type:               f.Str("pred_type"),
		LagHours:           f.FloatOrZero("lag_hr_cnt"),
		FloatPath:          f.OptInt("float_path"),
		EarlyFinishDriving: f.OptDateTime("aref"),
		LateStartDriving:   f.OptDateTime("arls"),
		Predecessor:        pred,
		Successor:          succ,
	}
	if err := f.Err(); err != nil {
		return nil, fmt.Errorf("relationship %s: %w", r.ID, err)
	}
	link, err := ParseLinkType(r.Type)
	if err != nil {
		return nil, fmt.Errorf("relationship %s: %w", r.ID, err)
	}
	r.Link = link
	if pred == nil || succ == nil {
		return nil, fmt.Errorf("relationship %s: missing task %s or %s", r.ID, r.PredTaskID, r.TaskID)
	}
	entity := "relationship " + r.ID
	if err := checkKey(entity, "pred_task_id", pred.ID, r.PredTaskID); err != nil {
		return nil, err
	}
	if err := checkKey(entity, "task_id", succ.ID, r.TaskID); err != nil {
		return nil, err
	}
	return r, nil
}

// Lag is the lag in whole days, truncated toward zero.
func (r *Relationship) Lag() int { return int(r.LagHours / HoursPerDay) }

// Key is the identity of the relationship for equality and dedup.
func (r *Relationship) Key() RelationshipKey {
	return RelationshipKey{Predecessor: r.Predecessor.Code, Successor: r.Successor.Code, Link: r.Link}
}

// Equal compares relationships by key, ignoring row ids.
func (r *Relationship) Equal(o *Relationship) bool { return r.Key() == o.Key() }

func (r *Relationship) String() string { return r.Key().String() }
