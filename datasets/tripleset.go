// Package datasets builds triple-sampling views over labeled graph sets: for
// every base graph it yields an (anchor, positive, negative) triple, where
// the positive shares the anchor's class and the negative does not. It also
// provides the degree-based feature transform and the mini-batch loader that
// feed the discriminator trainer.
package datasets

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/auggraph/auggraph/graph"
)

// Sentinel errors for triple-set construction.
var (
	// ErrEmptyDataset indicates a triple set over zero graphs.
	ErrEmptyDataset = errors.New("datasets: empty dataset")

	// ErrSingletonClass indicates a label class holding a single graph, which
	// leaves no positive candidate for that anchor.
	ErrSingletonClass = errors.New("datasets: label class with a single graph has no positive candidates")

	// ErrSingleLabel indicates every graph shares one label, which leaves no
	// negative candidates at all.
	ErrSingleLabel = errors.New("datasets: all graphs share one label, no negative candidates")
)

// Transform rewrites a graph before it enters a triple. Implementations
// must be pure: same input graph, same output.
type Transform interface {
	Apply(g *graph.Graph) *graph.Graph
}

// Triple groups an anchor with one same-label graph and one different-label
// graph. Triples are constructed on demand and never persisted.
type Triple struct {
	Anchor *graph.Graph
	Pos    *graph.Graph
	Neg    *graph.Graph
}

// Option configures a TripleSet.
type Option func(*TripleSet)

// WithSeed fixes the sampling seed, making the positive and negative draws
// reproducible.
func WithSeed(seed int64) Option {
	return func(s *TripleSet) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// TripleSet exposes indexed access to triples over a base graph set. Each
// full pass over the indices anchors every base graph exactly once; the
// positive and negative companions are redrawn uniformly on every access.
type TripleSet struct {
	graphs  []*graph.Graph
	tr      Transform
	byLabel map[int][]int // label -> indices with that label
	notOf   map[int][]int // label -> indices with any other label

	mu  sync.Mutex
	rng *rand.Rand
}

// New builds a triple set over graphs, applying tr (when non-nil) to every
// graph a triple returns. Construction fails with ErrEmptyDataset,
// ErrSingletonClass, or ErrSingleLabel when the label structure cannot
// support sampling; the error surfaces here rather than degrading at access
// time.
func New(graphs []*graph.Graph, tr Transform, opts ...Option) (*TripleSet, error) {
	if len(graphs) == 0 {
		return nil, ErrEmptyDataset
	}
	byLabel := make(map[int][]int)
	for i, g := range graphs {
		byLabel[g.Label()] = append(byLabel[g.Label()], i)
	}
	if len(byLabel) < 2 {
		return nil, ErrSingleLabel
	}
	for label, idx := range byLabel {
		if len(idx) < 2 {
			return nil, fmt.Errorf("%w: label %d", ErrSingletonClass, label)
		}
	}
	notOf := make(map[int][]int, len(byLabel))
	for label := range byLabel {
		others := make([]int, 0, len(graphs)-len(byLabel[label]))
		for i, g := range graphs {
			if g.Label() != label {
				others = append(others, i)
			}
		}
		notOf[label] = others
	}

	s := &TripleSet{
		graphs:  graphs,
		tr:      tr,
		byLabel: byLabel,
		notOf:   notOf,
		rng:     rand.New(rand.NewSource(rand.Int63())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Len returns the number of triples in one full pass, equal to the base
// graph count.
func (s *TripleSet) Len() int {
	return len(s.graphs)
}

// At returns the triple anchored at base graph i. The positive is drawn
// uniformly from the anchor's label class excluding the anchor itself, the
// negative uniformly from every other class. Safe for concurrent use.
func (s *TripleSet) At(i int) Triple {
	anchor := s.graphs[i]
	class := s.byLabel[anchor.Label()]
	others := s.notOf[anchor.Label()]

	s.mu.Lock()
	// Draw from the first len-1 slots and remap a hit on the anchor to the
	// last slot, which keeps the draw uniform over the class minus the
	// anchor.
	pos := class[s.rng.Intn(len(class)-1)]
	if pos == i {
		pos = class[len(class)-1]
	}
	neg := others[s.rng.Intn(len(others))]
	s.mu.Unlock()

	t := Triple{Anchor: anchor, Pos: s.graphs[pos], Neg: s.graphs[neg]}
	if s.tr != nil {
		t.Anchor = s.tr.Apply(t.Anchor)
		t.Pos = s.tr.Apply(t.Pos)
		t.Neg = s.tr.Apply(t.Neg)
	}
	return t
}
