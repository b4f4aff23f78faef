package datasets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/auggraph/auggraph/graph"
)

func TestDegreeTransformEncoding(t *testing.T) {
	star, err := graph.New(4, [][2]int{{0, 1}, {0, 2}, {0, 3}}, nil, 0)
	require.NoError(t, err)
	edge, err := graph.New(2, [][2]int{{0, 1}}, nil, 1)
	require.NoError(t, err)

	tr := NewDegreeTransform([]*graph.Graph{star, edge})
	assert.Equal(t, 4, tr.Width()) // hub degree 3

	out := tr.Apply(star)
	require.Equal(t, 4, out.FeatureDim())
	f := out.Features()
	assert.Equal(t, 1.0, f.At(0, 3)) // hub one-hot at degree 3
	assert.Equal(t, 1.0, f.At(1, 1)) // leaves at degree 1
	assert.Equal(t, 0.0, f.At(1, 3))

	// identical topology and label
	assert.Equal(t, star.NumNodes(), out.NumNodes())
	assert.Equal(t, star.NumEdges(), out.NumEdges())
	assert.Equal(t, star.Label(), out.Label())

	// every graph in the set encodes to the same width
	assert.Equal(t, 4, tr.Apply(edge).FeatureDim())
}

func TestDegreeTransformDeterministic(t *testing.T) {
	g, err := graph.New(3, [][2]int{{0, 1}, {1, 2}}, nil, 0)
	require.NoError(t, err)

	tr := NewDegreeTransform([]*graph.Graph{g})
	a := tr.Apply(g)
	b := tr.Apply(g)
	assert.True(t, mat.Equal(a.Features(), b.Features()))
	assert.True(t, mat.Equal(a.Features(), tr.Apply(a).Features()))
}
