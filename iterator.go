package lockfreelist

import "sync/atomic"

// Iterator is a movable handle that owns exactly one reference on the
// node it currently points at. Unlike most Go iterators it carries its
// position in an atomic.Pointer rather than a plain field, so loads and
// stores of the position are never a data race. That does not make a
// single handle safe to advance from two goroutines at once: two
// concurrent Next/Prev calls both read the same old node and both
// release its reference. Use one goroutine per Iterator.
//
// The zero Iterator is not valid; obtain one from a List (Begin, End,
// RBegin, REnd, or the iterator a Push/Pop/Erase call returns). Call
// Close when done with it so its reference is released.
type Iterator[T any] struct {
	cur atomic.Pointer[node[T]]
}

// newIterator wraps n in a new handle, adding n to the set of
// reference holders. Used whenever no reference has yet been taken on
// the caller's behalf (End/REnd, Clone, and the successor
// Erase/PopFront/PopBack return).
func newIterator[T any](n *node[T]) *Iterator[T] {
	incRef(n)
	it := &Iterator[T]{}
	it.cur.Store(n)
	return it
}

// adoptIterator wraps n in a new handle without incrementing its ref
// count: used where the handle's share is already counted. After a
// successful node.insert the node's creation-time ref is that share, so
// ref is "list + returned handle", not list + handle + one more for the
// wrapper; after waitNext/waitPrev (Begin/RBegin and the internal
// iterator of PopFront/PopBack) the wait already took it.
func adoptIterator[T any](n *node[T]) *Iterator[T] {
	it := &Iterator[T]{}
	it.cur.Store(n)
	return it
}

func (it *Iterator[T]) current() *node[T] {
	return it.cur.Load()
}

// Clone duplicates the reference, producing an independent handle at
// the same position (the equivalent of copy-construction).
func (it *Iterator[T]) Clone() *Iterator[T] {
	return newIterator(it.current())
}

// Close releases the handle's reference. An Iterator must not be used
// after Close.
func (it *Iterator[T]) Close() {
	n := it.cur.Swap(nil)
	decRef(n)
}

// Value dereferences the iterator. Undefined if it is positioned at a
// list's End/REnd.
func (it *Iterator[T]) Value() T {
	return it.current().value
}

// Next advances the iterator to the following node, following the same
// neighbor a concurrent pop could currently hold nil (locked); it waits
// for that lock to clear rather than observing a torn state. Advancing
// End() lands on the first node if the list is non-empty, or End()
// itself if it's empty, since the sentinel is its own successor when
// nothing is linked.
//
// it.Clone() followed by it.Next() is the equivalent of the source
// type's post-increment: a snapshot of the old position plus an
// advance of the original handle.
func (it *Iterator[T]) Next() *Iterator[T] {
	old := it.current()
	it.cur.Store(waitNext(old))
	decRef(old)
	return it
}

// Prev is the symmetric counterpart of Next, following prev links.
func (it *Iterator[T]) Prev() *Iterator[T] {
	old := it.current()
	it.cur.Store(waitPrev(old))
	decRef(old)
	return it
}

// Equal compares iterators by the identity of the node they point at.
func (it *Iterator[T]) Equal(other *Iterator[T]) bool {
	return it.current() == other.current()
}
