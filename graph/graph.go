// Package graph defines the immutable labeled graph value consumed by the
// discriminator datasets and model. A Graph carries undirected adjacency,
// an optional dense node-feature matrix, and an integer class label.
package graph

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Sentinel errors for graph construction.
var (
	// ErrNoNodes indicates a graph was constructed with zero nodes.
	ErrNoNodes = errors.New("graph: graph has no nodes")

	// ErrBadEdge indicates an edge endpoint outside [0, numNodes).
	ErrBadEdge = errors.New("graph: edge endpoint out of range")

	// ErrBadFeatureRows indicates a feature matrix whose row count does not
	// equal the node count.
	ErrBadFeatureRows = errors.New("graph: feature row count does not match node count")
)

// Graph is a labeled undirected graph. Once constructed it is never mutated;
// transforms produce new Graph values sharing the topology.
type Graph struct {
	adj   [][]int
	feat  *mat.Dense
	label int
}

// New builds a graph with numNodes nodes and the given undirected edges,
// each a pair of zero-based endpoints. Both directions of every edge are
// inserted into the adjacency lists; self-loops are inserted once. feat may
// be nil for a graph without node features, otherwise it must have numNodes
// rows.
func New(numNodes int, edges [][2]int, feat *mat.Dense, label int) (*Graph, error) {
	if numNodes <= 0 {
		return nil, ErrNoNodes
	}
	adj := make([][]int, numNodes)
	for _, e := range edges {
		if e[0] < 0 || e[0] >= numNodes || e[1] < 0 || e[1] >= numNodes {
			return nil, fmt.Errorf("%w: (%d,%d) with %d nodes", ErrBadEdge, e[0], e[1], numNodes)
		}
		adj[e[0]] = append(adj[e[0]], e[1])
		if e[0] != e[1] {
			adj[e[1]] = append(adj[e[1]], e[0])
		}
	}
	if feat != nil {
		if r, _ := feat.Dims(); r != numNodes {
			return nil, fmt.Errorf("%w: %d rows for %d nodes", ErrBadFeatureRows, r, numNodes)
		}
	}
	return &Graph{adj: adj, feat: feat, label: label}, nil
}

// NumNodes returns the node count.
func (g *Graph) NumNodes() int {
	return len(g.adj)
}

// NumEdges returns the number of adjacency entries, counting each undirected
// edge twice and each self-loop once.
func (g *Graph) NumEdges() int {
	var n int
	for _, nb := range g.adj {
		n += len(nb)
	}
	return n
}

// Label returns the class label.
func (g *Graph) Label() int {
	return g.label
}

// Degree returns the degree of node i.
func (g *Graph) Degree(i int) int {
	return len(g.adj[i])
}

// MaxDegree returns the largest node degree in the graph.
func (g *Graph) MaxDegree() int {
	var max int
	for _, nb := range g.adj {
		if len(nb) > max {
			max = len(nb)
		}
	}
	return max
}

// Neighbors returns the adjacency list of node i. The returned slice is the
// graph's own storage and must not be modified.
func (g *Graph) Neighbors(i int) []int {
	return g.adj[i]
}

// Features returns the node-feature matrix, or nil when the graph carries no
// features. The returned matrix must not be modified.
func (g *Graph) Features() *mat.Dense {
	return g.feat
}

// FeatureDim returns the feature width per node, zero when the graph carries
// no features.
func (g *Graph) FeatureDim() int {
	if g.feat == nil {
		return 0
	}
	_, c := g.feat.Dims()
	return c
}

// WithFeatures returns a graph with identical topology and label but the
// given feature matrix. It panics if the row count does not match the node
// count; callers derive the matrix from this graph's topology, so a mismatch
// is a programming error.
func (g *Graph) WithFeatures(feat *mat.Dense) *Graph {
	if r, _ := feat.Dims(); r != len(g.adj) {
		panic(fmt.Sprintf("graph: %d feature rows for %d nodes", r, len(g.adj)))
	}
	return &Graph{adj: g.adj, feat: feat, label: g.label}
}
