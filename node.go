package lockfreelist

import "sync/atomic"

// node holds one element of the list plus the two tagged links that
// thread it into its neighbors. prev/next are locked by CAS-ing them to
// a link with a nil Ptr, and released by a plain store of a link
// pointing back at the (possibly new) neighbor with an incremented tag.
//
// ref and released turn "ref count reaches zero, destroy the node" into
// a checkable invariant rather than actual manual memory management:
// Go's GC already reclaims a node once nothing holds a *node[T] to it,
// so release only needs to catch a node being dropped to zero twice
// (which would mean some goroutine is holding a stale reference it
// already gave up).
type node[T any] struct {
	value T

	prev atomic.Pointer[link[T]]
	next atomic.Pointer[link[T]]

	ref      atomic.Int32
	released atomic.Bool
	sentinel bool
}

func newNode[T any](v T) *node[T] {
	n := &node[T]{value: v}
	n.ref.Store(1)
	n.prev.Store(&link[T]{})
	n.next.Store(&link[T]{})
	return n
}

func newSentinel[T any]() *node[T] {
	n := &node[T]{sentinel: true}
	n.prev.Store(&link[T]{Ptr: n})
	n.next.Store(&link[T]{Ptr: n})
	return n
}

func (n *node[T]) release() {
	if !n.released.CompareAndSwap(false, true) {
		panic("lockfreelist: node released more than once")
	}
}

// isLinked re-probes the alleged neighbors' back-links. It succeeds if
// each neighbor either points back at n or is itself mid-operation
// (nil Ptr, i.e. locked). Anything else means n was relinked out from
// under the caller's snapshot, and the caller must retry.
func (n *node[T]) isLinked(next, prev *node[T]) bool {
	var nextBack, prevBack *node[T]
	if next != nil {
		nextBack = next.prev.Load().Ptr
	}
	if prev != nil {
		prevBack = prev.next.Load().Ptr
	}
	okNext := next == nil || nextBack == nil || nextBack == n
	okPrev := prev == nil || prevBack == nil || prevBack == n
	return okNext && okPrev
}

// insert links newNode in immediately before n (self), which must
// already be linked (the list sentinel qualifies, playing the role of
// "end"). newNode must be freshly created: ref == 1, unlinked.
//
// The predecessor-side CAS below is the operation's linearization
// point: once it succeeds, any traversal starting from the predecessor
// will reach newNode. The successor-side release a few lines later is
// what makes a traversal arriving from n's direction see newNode too.
func (n *node[T]) insert(newN *node[T]) bool {
	for {
		prevL := n.prev.Load()
		nextL := n.next.Load()
		if prevL.Ptr == nil || nextL.Ptr == nil {
			spin()
			continue
		}

		if !n.isLinked(nextL.Ptr, prevL.Ptr) {
			spin()
			continue
		}

		lockPrev := &link[T]{Tag: prevL.Tag + 1}
		if !n.prev.CompareAndSwap(prevL, lockPrev) {
			spin()
			continue
		}

		p := prevL.Ptr
		newN.prev.Store(&link[T]{Ptr: p})
		newN.next.Store(&link[T]{Ptr: n})

		pNext := p.next.Load()
		if pNext.Ptr != n || !p.next.CompareAndSwap(pNext, &link[T]{Ptr: newN, Tag: pNext.Tag + 1}) {
			n.prev.Store(&link[T]{Ptr: p, Tag: lockPrev.Tag + 1})
			spin()
			continue
		}

		// The list itself now holds a share of newNode; combined with
		// the ref it was created with, that is "list + returned
		// handle" once the caller adopts it.
		newN.ref.Add(1)
		n.prev.Store(&link[T]{Ptr: newN, Tag: lockPrev.Tag + 1})
		return true
	}
}

// remove unlinks n. It always eventually commits and returns the
// pre-unlink successor with no reference adopted on the caller's
// behalf yet. Callers that need a handle on it must incRef themselves
// (List.Erase does this via newIterator). Calling remove on a node that
// is not currently linked (already removed) spins forever; the caller
// must guarantee n is linked, which is why only List's erase path ever
// calls it.
func (n *node[T]) remove() *node[T] {
	for {
		nextL := n.next.Load()
		if nextL.Ptr == nil {
			spin()
			continue
		}
		prevL := n.prev.Load()
		if prevL.Ptr == nil {
			spin()
			continue
		}

		if !n.isLinked(nextL.Ptr, prevL.Ptr) {
			spin()
			continue
		}

		lockNext := &link[T]{Tag: nextL.Tag + 1}
		if !n.next.CompareAndSwap(nextL, lockNext) {
			spin()
			continue
		}

		lockPrev := &link[T]{Tag: prevL.Tag + 1}
		if !n.prev.CompareAndSwap(prevL, lockPrev) {
			n.next.Store(&link[T]{Ptr: nextL.Ptr, Tag: lockNext.Tag + 1})
			spin()
			continue
		}

		s := nextL.Ptr
		sPrev := s.prev.Load()
		if sPrev.Ptr != n || !s.prev.CompareAndSwap(sPrev, &link[T]{Ptr: prevL.Ptr, Tag: sPrev.Tag + 1}) {
			n.next.Store(&link[T]{Ptr: nextL.Ptr, Tag: lockNext.Tag + 1})
			n.prev.Store(&link[T]{Ptr: prevL.Ptr, Tag: lockPrev.Tag + 1})
			spin()
			continue
		}

		// Fix up the predecessor's next pointer. If it no longer
		// points at n, a concurrent remove of the predecessor beat us
		// to it and already relinked around n's old position. That
		// thread's traversal will see n's neighbors correctly because
		// of the releases below, so there is nothing left to retry
		// here. This is the one place the protocol deliberately does
		// not guarantee both sides commit before returning.
		p := prevL.Ptr
		for {
			pNext := p.next.Load()
			if pNext.Ptr != n {
				break
			}
			if p.next.CompareAndSwap(pNext, &link[T]{Ptr: nextL.Ptr, Tag: pNext.Tag + 1}) {
				break
			}
			spin()
		}

		n.next.Store(&link[T]{Ptr: nextL.Ptr, Tag: lockNext.Tag + 1})
		n.prev.Store(&link[T]{Ptr: prevL.Ptr, Tag: lockPrev.Tag + 1})
		decRef(n)
		return nextL.Ptr
	}
}
