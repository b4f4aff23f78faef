package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNewValidation(t *testing.T) {
	_, err := New(0, nil, nil, 0)
	assert.ErrorIs(t, err, ErrNoNodes)

	_, err = New(3, [][2]int{{0, 3}}, nil, 0)
	assert.ErrorIs(t, err, ErrBadEdge)

	_, err = New(3, nil, mat.NewDense(2, 4, nil), 0)
	assert.ErrorIs(t, err, ErrBadFeatureRows)
}

func TestDegrees(t *testing.T) {
	// triangle plus a pendant node
	g, err := New(4, [][2]int{{0, 1}, {1, 2}, {0, 2}, {2, 3}}, nil, 7)
	require.NoError(t, err)

	assert.Equal(t, 4, g.NumNodes())
	assert.Equal(t, 8, g.NumEdges())
	assert.Equal(t, 7, g.Label())
	assert.Equal(t, 2, g.Degree(0))
	assert.Equal(t, 3, g.Degree(2))
	assert.Equal(t, 1, g.Degree(3))
	assert.Equal(t, 3, g.MaxDegree())
	assert.ElementsMatch(t, []int{1, 2}, g.Neighbors(0))
}

func TestSelfLoopInsertedOnce(t *testing.T) {
	g, err := New(2, [][2]int{{0, 0}, {0, 1}}, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Degree(0))
	assert.Equal(t, 1, g.Degree(1))
}

func TestFeatures(t *testing.T) {
	g, err := New(2, [][2]int{{0, 1}}, nil, 0)
	require.NoError(t, err)
	assert.Nil(t, g.Features())
	assert.Equal(t, 0, g.FeatureDim())

	f := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	g2 := g.WithFeatures(f)
	assert.Equal(t, 3, g2.FeatureDim())
	assert.Equal(t, 2, g2.NumNodes())
	assert.Equal(t, g.Label(), g2.Label())

	// the original stays featureless
	assert.Nil(t, g.Features())
}
