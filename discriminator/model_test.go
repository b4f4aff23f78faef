package discriminator

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/auggraph/auggraph/datasets"
	"github.com/auggraph/auggraph/graph"
	"github.com/auggraph/auggraph/learning"
)

func testConfig() Config {
	return Config{
		ModelType: ModelTypeGMNet,
		NumLayers: 2,
		Hidden:    4,
		PoolType:  PoolSum,
		FuseType:  FuseAbsDiff,
		InDim:     3,
		Seed:      42,
	}
}

// featGraph builds a small graph with fixed features.
func featGraph(t *testing.T, edges [][2]int, n int, feat []float64, label int) *graph.Graph {
	t.Helper()
	g, err := graph.New(n, edges, mat.NewDense(n, len(feat)/n, feat), label)
	require.NoError(t, err)
	return g
}

func trianglePair(t *testing.T) (*graph.Graph, *graph.Graph, *graph.Graph) {
	t.Helper()
	tri := [][2]int{{0, 1}, {1, 2}, {0, 2}}
	a := featGraph(t, tri, 3, []float64{0.2, -0.5, 1.1, 0.4, 0.9, -0.3, -0.7, 0.6, 0.1}, 0)
	b := featGraph(t, tri, 3, []float64{0.3, -0.4, 1.0, 0.5, 0.8, -0.2, -0.6, 0.7, 0.2}, 0)
	c := featGraph(t, [][2]int{{0, 1}, {1, 2}}, 3, []float64{-1.2, 0.8, -0.5, 1.5, -0.9, 0.3, 0.2, -1.1, 0.7}, 1)
	return a, b, c
}

func TestNewValidation(t *testing.T) {
	cfg := testConfig()
	cfg.ModelType = "transformer"
	_, err := New(cfg)
	assert.ErrorIs(t, err, ErrUnknownModelType)

	cfg = testConfig()
	cfg.PoolType = "avg"
	_, err = New(cfg)
	assert.ErrorIs(t, err, ErrUnknownPoolType)

	cfg = testConfig()
	cfg.FuseType = "hadamard"
	_, err = New(cfg)
	assert.ErrorIs(t, err, ErrUnknownFuseType)

	cfg = testConfig()
	cfg.InDim = 0
	_, err = New(cfg)
	assert.ErrorIs(t, err, ErrBadDimensions)
}

func TestScoreRangeAndDeterminism(t *testing.T) {
	a, b, c := trianglePair(t)
	m1, err := New(testConfig())
	require.NoError(t, err)
	m2, err := New(testConfig())
	require.NoError(t, err)

	for _, pair := range [][2]*graph.Graph{{a, b}, {a, c}, {b, c}} {
		s := m1.Score(pair[0], pair[1])
		assert.Greater(t, s, 0.0)
		assert.Less(t, s, 1.0)
		assert.Equal(t, s, m2.Score(pair[0], pair[1])) // same seed, same weights
		assert.Equal(t, s, m1.Score(pair[0], pair[1])) // scoring is pure
	}
}

// TestGradients compares the reverse pass against central finite
// differences on every parameter matrix, across all pooling and fusion
// modes.
func TestGradients(t *testing.T) {
	a, _, c := trianglePair(t)
	for _, pool := range []string{PoolSum, PoolMean, PoolMax} {
		for _, fuse := range []string{FuseAbsDiff, FuseConcat} {
			cfg := testConfig()
			cfg.PoolType = pool
			cfg.FuseType = fuse
			m, err := New(cfg)
			require.NoError(t, err)

			pt := m.forwardPair(a, c)
			grads := m.zeroGrads()
			m.backwardPair(pt, pt.score-1, grads) // d bce(s,1) / d logit = s-1

			const h = 1e-6
			for pi, p := range m.params() {
				data := p.RawMatrix().Data
				for _, k := range []int{0, len(data) / 2, len(data) - 1} {
					orig := data[k]
					data[k] = orig + h
					up := bce(m.forwardPair(a, c).score, 1)
					data[k] = orig - h
					down := bce(m.forwardPair(a, c).score, 1)
					data[k] = orig

					numeric := (up - down) / (2 * h)
					analytic := grads[pi].RawMatrix().Data[k]
					assert.InDelta(t, numeric, analytic, 1e-4,
						"pool=%s fuse=%s param=%d elem=%d", pool, fuse, pi, k)
				}
			}
		}
	}
}

func TestTrainBatchLearnsTriple(t *testing.T) {
	a, b, c := trianglePair(t)
	cfg := testConfig()
	cfg.Hidden = 8
	m, err := New(cfg)
	require.NoError(t, err)

	batch := []datasets.Triple{{Anchor: a, Pos: b, Neg: c}}
	opt := learning.NewAdam(5e-3, 0)

	first := m.TrainBatch(batch, opt)
	var last float64
	for i := 0; i < 300; i++ {
		last = m.TrainBatch(batch, opt)
	}
	assert.Less(t, last, first)
	assert.Greater(t, m.Score(a, b), m.Score(a, c))
}

func TestCheckpointRoundTrip(t *testing.T) {
	a, b, _ := trianglePair(t)
	m1, err := New(testConfig())
	require.NoError(t, err)

	cfg2 := testConfig()
	cfg2.Seed = 99 // different init, same architecture
	m2, err := New(cfg2)
	require.NoError(t, err)
	require.NotEqual(t, m1.Score(a, b), m2.Score(a, b))

	name := filepath.Join(t.TempDir(), "0000.ckpt")
	require.NoError(t, m1.SaveFile(name))
	require.NoError(t, m2.LoadFile(name))
	assert.Equal(t, m1.Score(a, b), m2.Score(a, b))
}

func TestCheckpointArchitectureMismatch(t *testing.T) {
	m1, err := New(testConfig())
	require.NoError(t, err)
	name := filepath.Join(t.TempDir(), "0000.ckpt")
	require.NoError(t, m1.SaveFile(name))

	cfg := testConfig()
	cfg.Hidden = 8
	m2, err := New(cfg)
	require.NoError(t, err)
	assert.ErrorIs(t, m2.LoadFile(name), ErrCheckpointMismatch)
}
