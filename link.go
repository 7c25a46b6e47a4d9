package lockfreelist

// link is a tagged pointer: a reference to a node paired with a
// monotonically increasing generation tag. Two adjacent nodes negotiate
// ownership of the edge between them by CAS-ing the *link stored in an
// atomic.Pointer, so the tag itself only needs to strictly increase per
// location. Go's GC-backed pointer identity already makes the CAS
// ABA-safe, but the tag is kept so the protocol matches the reference
// scheme it was translated from and so tests can assert on generation
// progress.
//
// A nil Ptr means the edge is locked by whichever goroutine last stored
// the link: that goroutine is mid-insert or mid-remove and holds
// exclusive rights to the edge until it releases it with a fresh tag.
type link[T any] struct {
	Ptr *node[T]
	Tag uint64
}
