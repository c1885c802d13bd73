package activity

import (
	"bytes"
	"encoding/json"
	"errors"
	"iter"
	"sync/atomic"
)

// ErrAlreadyBorrowed is returned when a second mutable traversal is requested
// while another one over the same container is still live.
var ErrAlreadyBorrowed = errors.New("non-functional property already has a live mutable traversal")

// NonFunctional holds zero, one, or many values of a property that the
// vocabulary does not restrict to a single value.
//
// The zero value is None. An empty list is never stored: it collapses to None.
type NonFunctional[T any] struct {
	items []T
	many  bool

	borrowed int32
}

// None returns an empty container.
func None[T any]() NonFunctional[T] {
	return NonFunctional[T]{}
}

// One returns a container holding a single bare value.
func One[T any](v T) NonFunctional[T] {
	return NonFunctional[T]{items: []T{v}}
}

// Many returns a container holding a list. Many() with no values is None.
func Many[T any](vs ...T) NonFunctional[T] {
	if len(vs) == 0 {
		return NonFunctional[T]{}
	}
	items := make([]T, len(vs))
	copy(items, vs)
	return NonFunctional[T]{items: items, many: true}
}

func (nf *NonFunctional[T]) IsNone() bool {
	return len(nf.items) == 0
}

// IsMany reports whether the values serialize as a list.
func (nf *NonFunctional[T]) IsMany() bool {
	return nf.many && len(nf.items) > 0
}

func (nf *NonFunctional[T]) Len() int {
	return len(nf.items)
}

// Get returns the value at index i in list order.
func (nf *NonFunctional[T]) Get(i int) (T, bool) {
	if i < 0 || i >= len(nf.items) {
		var zero T
		return zero, false
	}
	return nf.items[i], true
}

// Values returns a copy of the contained values.
func (nf *NonFunctional[T]) Values() []T {
	if len(nf.items) == 0 {
		return nil
	}
	out := make([]T, len(nf.items))
	copy(out, nf.items)
	return out
}

// Add appends a value. A single value becomes a list once a second one is added.
func (nf *NonFunctional[T]) Add(v T) error {
	if err := nf.checkShape(); err != nil {
		return err
	}
	nf.items = append(nf.items, v)
	if len(nf.items) > 1 {
		nf.many = true
	}
	return nil
}

// Set replaces the contents. An empty list collapses to None.
func (nf *NonFunctional[T]) Set(vs ...T) error {
	if len(vs) == 0 {
		return nf.Clear()
	}
	if err := nf.checkShape(); err != nil {
		return err
	}
	nf.items = append([]T(nil), vs...)
	nf.many = true
	return nil
}

// Clear resets the container to None.
func (nf *NonFunctional[T]) Clear() error {
	if err := nf.checkShape(); err != nil {
		return err
	}
	nf.items = nil
	nf.many = false
	return nil
}

// checkShape refuses changes that would invalidate pointers handed out by a
// live IterMut.
func (nf *NonFunctional[T]) checkShape() error {
	if atomic.LoadInt32(&nf.borrowed) != 0 {
		return ErrAlreadyBorrowed
	}
	return nil
}

// Iter starts a read-only traversal.
func (nf *NonFunctional[T]) Iter() *Iter[T] {
	return &Iter[T]{nf: nf}
}

// All yields each index and value in order.
func (nf *NonFunctional[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		it := nf.Iter()
		for v, ok := it.Next(); ok; v, ok = it.Next() {
			if !yield(it.index-1, v) {
				return
			}
		}
	}
}

// IterMut starts a mutable traversal. Only one may be live at a time; it must
// be released with Release when the caller is done with the elements it
// handed out.
func (nf *NonFunctional[T]) IterMut() (*IterMut[T], error) {
	if !atomic.CompareAndSwapInt32(&nf.borrowed, 0, 1) {
		return nil, ErrAlreadyBorrowed
	}
	return &IterMut[T]{nf: nf}, nil
}

// Iter is an index based traversal. It can be restarted with Reset.
type Iter[T any] struct {
	nf    *NonFunctional[T]
	index int
}

func (it *Iter[T]) Next() (T, bool) {
	v, ok := it.nf.Get(it.index)
	if ok {
		it.index++
	}
	return v, ok
}

func (it *Iter[T]) Reset() {
	it.index = 0
}

// IterMut hands out exclusive access to one element at a time.
type IterMut[T any] struct {
	nf       *NonFunctional[T]
	index    int
	released bool
}

// Next returns a pointer to the next element. Pointers stay valid until
// Release; Add, Set and Clear fail with ErrAlreadyBorrowed while the
// traversal is live.
func (it *IterMut[T]) Next() (*T, bool) {
	if it.released || it.index >= len(it.nf.items) {
		return nil, false
	}
	p := &it.nf.items[it.index]
	it.index++
	return p, true
}

func (it *IterMut[T]) Reset() {
	it.index = 0
}

// Release ends the traversal. Calling it more than once is harmless.
func (it *IterMut[T]) Release() {
	if it.released {
		return
	}
	it.released = true
	atomic.StoreInt32(&it.nf.borrowed, 0)
}

func (nf NonFunctional[T]) MarshalJSON() ([]byte, error) {
	switch {
	case len(nf.items) == 0:
		return []byte("null"), nil
	case nf.many:
		return Marshal(nf.items)
	default:
		return Marshal(nf.items[0])
	}
}

// UnmarshalJSON accepts a bare value, a list, or null.
func (nf *NonFunctional[T]) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		return nf.Clear()
	case len(trimmed) > 0 && trimmed[0] == '[':
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		return nf.Set(items...)
	default:
		var v T
		if err := json.Unmarshal(trimmed, &v); err != nil {
			return err
		}
		if err := nf.checkShape(); err != nil {
			return err
		}
		nf.items = []T{v}
		nf.many = false
		return nil
	}
}
