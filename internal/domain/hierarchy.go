package domain

import (
	"slices"
	"strings"
)

// Node is the shared part of every hierarchical entity. Parents are held
// as ids and resolved through the Hierarchy that owns the node.
type Node struct {
	ID       string
	Code     string
	Name     string
	ParentID string

	fullCode string
	depth    int
}

func (n *Node) node() *Node { return n }

// FullCode is the dot-joined codes of the node's lineage. It is set when
// the node is added to a Hierarchy.
func (n *Node) FullCode() string { return n.fullCode }

// Depth is the length of the node's lineage.
func (n *Node) Depth() int { return n.depth }

func (n *Node) String() string {
	return n.Code + " - " + n.Name
}

// TreeNode is satisfied by pointers to structs embedding Node.
type TreeNode interface {
	node() *Node
}

// Hierarchy is an id-indexed arena of tree nodes. It is built once;
// lineage and full codes are computed at construction and never change.
type Hierarchy[T TreeNode] struct {
	order    []T
	byID     map[string]T
	children map[string][]T
	lineage  map[string][]T
	height   int
}

// NewHierarchy indexes items and resolves parents. Nodes for which
// excluded returns true (such as a project's synthetic WBS root) stay in
// the arena but are left out of every lineage. A missing parent makes a
// node a root; a parent cycle ends the lineage at the first repeat.
func NewHierarchy[T TreeNode](items []T, excluded func(T) bool) *Hierarchy[T] {
	h := &Hierarchy[T]{
		order:    slices.Clone(items),
		byID:     make(map[string]T, len(items)),
		children: make(map[string][]T),
		lineage:  make(map[string][]T, len(items)),
	}
	for _, it := range items {
		h.byID[it.node().ID] = it
	}
	for _, it := range items {
		n := it.node()
		if _, ok := h.byID[n.ParentID]; ok && n.ParentID != n.ID {
			h.children[n.ParentID] = append(h.children[n.ParentID], it)
		}
	}
	for _, it := range items {
		path := h.walk(it, excluded)
		n := it.node()
		codes := make([]string, len(path))
		for i, p := range path {
			codes[i] = p.node().Code
		}
		n.fullCode = strings.Join(codes, ".")
		n.depth = len(path)
		h.lineage[n.ID] = path
		h.height = max(h.height, n.depth)
	}
	return h
}

func (h *Hierarchy[T]) walk(start T, excluded func(T) bool) []T {
	var path []T
	seen := make(map[string]bool)
	cur := start
	for {
		n := cur.node()
		if (excluded != nil && excluded(cur)) || seen[n.ID] {
			break
		}
		seen[n.ID] = true
		path = append(path, cur)
		parent, ok := h.byID[n.ParentID]
		if !ok {
			break
		}
		cur = parent
	}
	slices.Reverse(path)
	return path
}

// Len returns the number of nodes.
func (h *Hierarchy[T]) Len() int { return len(h.order) }

// All returns every node in insertion order.
func (h *Hierarchy[T]) All() []T { return slices.Clone(h.order) }

// Get looks a node up by id.
func (h *Hierarchy[T]) Get(id string) (T, bool) {
	v, ok := h.byID[id]
	return v, ok
}

// Parent returns the node's parent, if it resolves.
func (h *Hierarchy[T]) Parent(id string) (T, bool) {
	var zero T
	n, ok := h.byID[id]
	if !ok {
		return zero, false
	}
	pid := n.node().ParentID
	if pid == id {
		return zero, false
	}
	return h.Get(pid)
}

// Children returns the direct children of id in insertion order.
func (h *Hierarchy[T]) Children(id string) []T {
	return slices.Clone(h.children[id])
}

// Roots returns the nodes whose parent does not resolve.
func (h *Hierarchy[T]) Roots() []T {
	var roots []T
	for _, it := range h.order {
		if _, ok := h.Parent(it.node().ID); !ok {
			roots = append(roots, it)
		}
	}
	return roots
}

// Lineage returns the path from the topmost included ancestor down to id.
func (h *Hierarchy[T]) Lineage(id string) []T {
	return slices.Clone(h.lineage[id])
}

// Height is the longest lineage in the tree.
func (h *Hierarchy[T]) Height() int { return h.height }
