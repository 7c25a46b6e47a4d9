package lockfreelist

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/cespare/xxhash"
	"github.com/pingcap/go-ycsb/pkg/generator"
)

// digest folds a batch of int64 values into a single uint64 via xxhash,
// so the whole pushed batch and the whole popped batch can be compared
// without building a map[int64]struct{} across the whole run.
func digest(vs []int64) uint64 {
	buf := make([]byte, 8*len(vs))
	for i, v := range vs {
		u := uint64(v)
		for b := 0; b < 8; b++ {
			buf[i*8+b] = byte(u >> (8 * b))
		}
	}
	return xxhash.Sum64(buf)
}

// TestStressScrambledZipfianPushPop drives PushBack/PushFront from many
// goroutines under a skewed (scrambled Zipfian) key distribution, then
// drains the list single-threaded with PopFront and checks the
// digest of pushed keys against the digest of popped keys: no
// duplicate payloads, no lost nodes, at a scale where an exact set
// comparison would dominate the test's own runtime.
func TestStressScrambledZipfianPushPop(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping stress test in -short mode")
	}

	const goroutines = 8
	const perGoroutine = 2000
	const maxKey = int64(1) << 20

	l := New[int64]()
	pushed := make([][]int64, goroutines)

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		g := g
		go func() {
			defer wg.Done()
			z := generator.NewScrambledZipfian(0, maxKey, generator.ZipfianConstant)
			r := rand.New(rand.NewSource(int64(g) + 1))
			keys := make([]int64, perGoroutine)
			for i := 0; i < perGoroutine; i++ {
				k := z.Next(r)
				keys[i] = k
				if i%2 == 0 {
					l.PushBack(k).Close()
				} else {
					l.PushFront(k).Close()
				}
			}
			pushed[g] = keys
		}()
	}
	wg.Wait()

	if got, want := l.Len(), goroutines*perGoroutine; got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}

	var pushedAll []int64
	for _, keys := range pushed {
		pushedAll = append(pushedAll, keys...)
	}

	// PopFront returns the successor of the removed node, so the value
	// is read with Front before each pop.
	var popped []int64
	for {
		v, err := l.Front()
		if err != nil {
			break
		}
		popped = append(popped, v)
		l.PopFront().Close()
	}

	if len(popped) != len(pushedAll) {
		t.Fatalf("popped %d values, pushed %d", len(popped), len(pushedAll))
	}

	sortInt64(pushedAll)
	sortInt64(popped)
	if digest(pushedAll) != digest(popped) {
		t.Fatal("digest mismatch: popped values are not a permutation of pushed values")
	}
	if !l.Empty() {
		t.Fatal("list not empty after draining every pushed element")
	}
}

func sortInt64(s []int64) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

func BenchmarkScrambledZipfianMixed(b *testing.B) {
	l := New[int64]()
	z := generator.NewScrambledZipfian(0, 1<<20, generator.ZipfianConstant)
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		l.PushBack(z.Next(r)).Close()
	}
}
