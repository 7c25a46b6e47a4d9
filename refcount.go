package lockfreelist

// incRef and decRef are the two halves of the node reference count: a
// node is jointly owned by the list (if linked), every Iterator holding
// it, and every in-flight waitNext/waitPrev that just crossed onto it.
// The sentinel is excluded; it is owned directly by the List, never
// through this count.
func incRef[T any](n *node[T]) {
	if n == nil || n.sentinel {
		return
	}
	n.ref.Add(1)
}

func decRef[T any](n *node[T]) {
	if n == nil || n.sentinel {
		return
	}
	if n.ref.Add(-1) == 0 {
		n.release()
	}
}

// waitNext and waitPrev are the only way an Iterator crosses an edge.
// They block on the transient nil that marks a locked edge (bounded by
// the other goroutine's commit latency) and adopt a reference on the
// neighbor the instant its pointer is visible, so the neighbor cannot
// be fully released before the caller has its own share.
func waitNext[T any](n *node[T]) *node[T] {
	for {
		l := n.next.Load()
		if l.Ptr != nil {
			incRef(l.Ptr)
			return l.Ptr
		}
		spin()
	}
}

func waitPrev[T any](n *node[T]) *node[T] {
	for {
		l := n.prev.Load()
		if l.Ptr != nil {
			incRef(l.Ptr)
			return l.Ptr
		}
		spin()
	}
}
