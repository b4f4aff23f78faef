package datasets

import (
	"gonum.org/v1/gonum/mat"

	"github.com/auggraph/auggraph/graph"
)

// DegreeTransform replaces node features with a one-hot encoding of node
// degree. The encoding width is the dataset-wide maximum degree plus one,
// precomputed at construction so every graph in the set encodes to the same
// width. Apply is deterministic and stateless beyond that width.
type DegreeTransform struct {
	maxDegree int
}

// NewDegreeTransform scans graphs for the largest node degree and returns
// the transform encoding against it.
func NewDegreeTransform(graphs []*graph.Graph) *DegreeTransform {
	var max int
	for _, g := range graphs {
		if d := g.MaxDegree(); d > max {
			max = d
		}
	}
	return &DegreeTransform{maxDegree: max}
}

// Width returns the feature width Apply produces.
func (t *DegreeTransform) Width() int {
	return t.maxDegree + 1
}

// Apply returns a graph with identical topology and label whose node
// features are the one-hot degree encoding. Degrees above the precomputed
// maximum (possible only for graphs outside the construction set) clamp to
// the last column.
func (t *DegreeTransform) Apply(g *graph.Graph) *graph.Graph {
	n := g.NumNodes()
	feat := mat.NewDense(n, t.maxDegree+1, nil)
	for i := 0; i < n; i++ {
		d := g.Degree(i)
		if d > t.maxDegree {
			d = t.maxDegree
		}
		feat.Set(i, d, 1)
	}
	return g.WithFeatures(feat)
}
