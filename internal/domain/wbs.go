package domain

import (
	"fmt"

	"github.com/alexanderramin/xerkit/internal/parser"
)

// WbsNode is a work breakdown structure element (PROJWBS).
type WbsNode struct {
	Node
	ProjectID     string
	IsProjectNode bool
	Seq           *int
	Status        string

	Tasks []*Task
	UDFs  UDFSet
}

func NewWbsNode(row parser.Row) (*WbsNode, error) {
	f := parser.NewFields("PROJWBS", row)
	w := &WbsNode{
		Node: Node{
			ID:       f.Str("wbs_id"),
			Code:     f.Str("wbs_short_name"),
			Name:     f.Str("wbs_name"),
			ParentID: f.Str("parent_wbs_id"),
		},
		ProjectID:     f.Str("proj_id"),
		IsProjectNode: f.Flag("proj_node_flag"),
		Seq:           f.OptInt("seq_num"),
		Status:        f.Str("status_code"),
		UDFs:          UDFSet{},
	}
	if err := f.Err(); err != nil {
		return nil, fmt.Errorf("wbs %s: %w", w.ID, err)
	}
	return w, nil
}

// Assignments is the number of tasks linked to the node.
func (w *WbsNode) Assignments() int { return len(w.Tasks) }

func isProjectNode(w *WbsNode) bool { return w.IsProjectNode }
