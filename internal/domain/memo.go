package domain

import (
	"fmt"

	"github.com/alexanderramin/xerkit/internal/parser"
	"github.com/alexanderramin/xerkit/internal/sanitize"
)

// NotebookTopic is a memo category (MEMOTYPE).
type NotebookTopic struct {
	ID    string
	Topic string
}

func NewNotebookTopic(row parser.Row) (*NotebookTopic, error) {
	f := parser.NewFields("MEMOTYPE", row)
	t := &NotebookTopic{
		ID:    f.Str("memo_type_id"),
		Topic: f.Str("memo_type"),
	}
	if err := f.Err(); err != nil {
		return nil, fmt.Errorf("notebook topic %s: %w", t.ID, err)
	}
	return t, nil
}

func (t *NotebookTopic) String() string { return t.Topic }

// TaskMemo is a notebook entry on a task (TASKMEMO).
type TaskMemo struct {
	ID        string
	TypeID    string
	ProjectID string
	TaskID    string
	Raw       string
	Topic     string
}

func NewTaskMemo(row parser.Row, topic *NotebookTopic) (*TaskMemo, error) {
	f := parser.NewFields("TASKMEMO", row)
	m := &TaskMemo{
		ID:        f.Str("memo_id"),
		TypeID:    f.Str("memo_type_id"),
		ProjectID: f.Str("proj_id"),
		TaskID:    f.Str("task_id"),
		Raw:       row["task_memo"],
	}
	if err := f.Err(); err != nil {
		return nil, fmt.Errorf("task memo %s: %w", m.ID, err)
	}
	if topic != nil {
		if err := checkKey("task memo "+m.ID, "memo_type_id", topic.ID, m.TypeID); err != nil {
			return nil, err
		}
		m.Topic = topic.Topic
	}
	return m, nil
}

// Text is the memo with markup and control characters removed.
func (m *TaskMemo) Text() string {
	return sanitize.Memo(m.Raw)
}
