// Package lockfreelist implements a concurrent doubly linked list: an
// ordered sequence that tolerates concurrent push/pop/erase/traversal
// from many goroutines without a global lock. Structural changes are
// lock-free as a system (some goroutine always makes progress) but not
// wait-free per goroutine, and iteration gives no snapshot guarantee:
// an Iterator sees, at each step, an edge that was validly linked at
// some past instant, not necessarily a sequence that was ever
// simultaneously contiguous.
//
// Sort is the one exception: it is documented non-thread-safe and must
// not run concurrently with any other operation on the same List.
package lockfreelist

import (
	"errors"
	"sync/atomic"
)

// ErrEmpty is returned by Front and Back when the list has no elements.
var ErrEmpty = errors.New("lockfreelist: list is empty")

// List holds a sentinel node that plays the role of both past-the-end
// and before-the-beginning, closing the structure into a circle. The
// zero value is not usable; construct one with New.
type List[T any] struct {
	sentinel *node[T]
	size     atomic.Int64
}

// New returns an empty List.
func New[T any]() *List[T] {
	return &List[T]{sentinel: newSentinel[T]()}
}

// Len returns the number of elements. It is an advisory hint updated
// only after a structural operation commits, so a concurrent reader may
// observe a value that lags the true structural state by a bounded
// interval.
func (l *List[T]) Len() int {
	return int(l.size.Load())
}

// Empty reports whether the list currently has no elements.
func (l *List[T]) Empty() bool {
	n := waitNext(l.sentinel)
	decRef(n)
	return n == l.sentinel
}

// Begin returns an iterator at the first element, or at End() if the
// list is empty.
func (l *List[T]) Begin() *Iterator[T] {
	return adoptIterator(waitNext(l.sentinel))
}

// End returns the past-the-end iterator.
func (l *List[T]) End() *Iterator[T] {
	return newIterator(l.sentinel)
}

// RBegin returns an iterator at the last element, or at REnd() if the
// list is empty.
func (l *List[T]) RBegin() *Iterator[T] {
	return adoptIterator(waitPrev(l.sentinel))
}

// REnd returns the before-the-beginning iterator. It shares the same
// sentinel node as End().
func (l *List[T]) REnd() *Iterator[T] {
	return newIterator(l.sentinel)
}

// Front returns the first element, or ErrEmpty if the list is empty.
func (l *List[T]) Front() (T, error) {
	n := waitNext(l.sentinel)
	defer decRef(n)
	if n == l.sentinel {
		var zero T
		return zero, ErrEmpty
	}
	return n.value, nil
}

// Back returns the last element, or ErrEmpty if the list is empty.
func (l *List[T]) Back() (T, error) {
	n := waitPrev(l.sentinel)
	defer decRef(n)
	if n == l.sentinel {
		var zero T
		return zero, ErrEmpty
	}
	return n.value, nil
}

// PushBack appends v and returns a handle to its node. It retries
// node.insert against the sentinel until the insert commits; concurrent
// pushes at the same end serialize on the sentinel's edge CAS, with
// their relative order unspecified.
func (l *List[T]) PushBack(v T) *Iterator[T] {
	for {
		n := newNode(v)
		if l.sentinel.insert(n) {
			l.size.Add(1)
			return adoptIterator(n)
		}
	}
}

// PushFront prepends v and returns a handle to its node. Each retry
// re-reads the current first element, since a concurrent push or pop
// may have moved it.
func (l *List[T]) PushFront(v T) *Iterator[T] {
	for {
		n := newNode(v)
		target := waitNext(l.sentinel)
		ok := target.insert(n)
		decRef(target)
		if ok {
			l.size.Add(1)
			return adoptIterator(n)
		}
	}
}

// EmplaceBack is a synonym for PushBack; there is no additional
// in-place construction guarantee beyond move-construction of v.
func (l *List[T]) EmplaceBack(v T) *Iterator[T] {
	return l.PushBack(v)
}

// PopFront removes the first element and returns an iterator to its
// successor, or End() if the list was already empty.
//
// PopFront is not safe to call concurrently with another pop or erase
// that targets the same physical node. node.remove has no defined
// outcome for a second removal attempt on an already-removed node.
// Concurrent pushes, and concurrent pops that land on distinct nodes,
// are safe.
func (l *List[T]) PopFront() *Iterator[T] {
	target := waitNext(l.sentinel)
	if target == l.sentinel {
		decRef(target)
		return l.End()
	}
	it := adoptIterator(target)
	defer it.Close()
	return l.Erase(it)
}

// PopBack is the symmetric counterpart of PopFront, removing the last
// element.
func (l *List[T]) PopBack() *Iterator[T] {
	target := waitPrev(l.sentinel)
	if target == l.sentinel {
		decRef(target)
		return l.End()
	}
	it := adoptIterator(target)
	defer it.Close()
	return l.Erase(it)
}

// Erase removes the node it points at and returns an iterator to its
// successor. Erasing End() is a no-op that returns End(). it keeps its
// own reference and must still be Closed by the caller afterward.
func (l *List[T]) Erase(it *Iterator[T]) *Iterator[T] {
	n := it.current()
	if n == l.sentinel {
		return l.End()
	}
	size := l.size.Load()
	next := n.remove()
	if size > 0 {
		l.size.Add(-1)
	}
	return newIterator(next)
}

// Clear erases every element.
func (l *List[T]) Clear() {
	it := l.Begin()
	end := l.End()
	for !it.Equal(end) {
		next := l.Erase(it)
		it.Close()
		it = next
	}
	it.Close()
	end.Close()
}

// Sort orders the elements in place using less as a strict weak order,
// swapping node payloads rather than relinking nodes. It is NOT
// thread-safe: the caller must ensure no other goroutine pushes, pops,
// erases, or iterates this List while Sort runs. A classic bubble sort
// with a no-swap-this-pass early exit, matching the single-threaded
// precondition that lets it read next pointers directly instead of
// through the CAS protocol.
func (l *List[T]) Sort(less func(a, b T) bool) {
	size := int(l.size.Load())
	if size < 2 {
		return
	}
	for i := 0; i < size-1; i++ {
		n1 := l.sentinel.next.Load().Ptr
		n2 := n1.next.Load().Ptr
		swapped := false
		for j := 0; j < size-i-1; j++ {
			if less(n2.value, n1.value) {
				n1.value, n2.value = n2.value, n1.value
				swapped = true
			}
			n1 = n1.next.Load().Ptr
			n2 = n2.next.Load().Ptr
		}
		if !swapped {
			break
		}
	}
}
