package lockfreelist

import "runtime"

// spin yields the scheduler to another goroutine. node.insert and
// node.remove call it between every retry of their CAS loops, giving
// whichever goroutine is mid-commit on the edge a chance to finish
// before the next attempt.
func spin() {
	runtime.Gosched()
}
