package datasets

import (
	"math/rand"
	"time"

	"github.com/auggraph/auggraph/parallel"
)

// Loader iterates a TripleSet in mini-batches. With shuffle enabled the
// index order is re-permuted before every pass; with workers above one the
// triples of a batch are assembled concurrently, which matters when a
// transform rebuilds feature matrices on every access.
type Loader struct {
	set       *TripleSet
	batchSize int
	shuffle   bool
	workers   int
	rng       *rand.Rand
}

// NewLoader builds a loader over set. batchSize values below one degrade to
// one; workers below one degrade to a single-threaded loader.
func NewLoader(set *TripleSet, batchSize int, shuffle bool, workers int) *Loader {
	if batchSize < 1 {
		batchSize = 1
	}
	if workers < 1 {
		workers = 1
	}
	return &Loader{
		set:       set,
		batchSize: batchSize,
		shuffle:   shuffle,
		workers:   workers,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Epoch runs fn over the batches of one full pass, anchoring every index of
// the set exactly once. The first error from fn aborts the pass and is
// returned unchanged.
func (l *Loader) Epoch(fn func(batch []Triple) error) error {
	idx := make([]int, l.set.Len())
	for i := range idx {
		idx[i] = i
	}
	if l.shuffle {
		l.rng.Shuffle(len(idx), func(i, j int) {
			idx[i], idx[j] = idx[j], idx[i]
		})
	}
	for start := 0; start < len(idx); start += l.batchSize {
		end := start + l.batchSize
		if end > len(idx) {
			end = len(idx)
		}
		batch := make([]Triple, end-start)
		parallel.ForEach(len(batch), l.workers, func(k int) {
			batch[k] = l.set.At(idx[start+k])
		})
		if err := fn(batch); err != nil {
			return err
		}
	}
	return nil
}
