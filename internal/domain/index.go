package domain

import "slices"

// Index is an insertion-ordered collection keyed by id.
type Index[T any] struct {
	ids   []string
	order []T
	pos   map[string]int
}

func NewIndex[T any]() *Index[T] {
	return &Index[T]{pos: make(map[string]int)}
}

// Add stores v under id. A repeated id replaces the earlier value in place.
func (x *Index[T]) Add(id string, v T) {
	if i, ok := x.pos[id]; ok {
		x.order[i] = v
		return
	}
	x.pos[id] = len(x.order)
	x.ids = append(x.ids, id)
	x.order = append(x.order, v)
}

func (x *Index[T]) Get(id string) (T, bool) {
	var zero T
	i, ok := x.pos[id]
	if !ok {
		return zero, false
	}
	return x.order[i], true
}

func (x *Index[T]) Has(id string) bool {
	_, ok := x.pos[id]
	return ok
}

func (x *Index[T]) All() []T      { return slices.Clone(x.order) }
func (x *Index[T]) IDs() []string { return slices.Clone(x.ids) }
func (x *Index[T]) Len() int      { return len(x.order) }
