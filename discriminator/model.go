package discriminator

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/auggraph/auggraph/graph"
)

// Scorer is the read-only face of the model: a scalar similarity score in
// (0,1) for a pair of graphs.
type Scorer interface {
	Score(a, b *graph.Graph) float64
}

// Model is the concrete discriminator. It is not safe for concurrent
// mutation; the trainer owns it for the duration of a run.
type Model struct {
	cfg Config

	convW []*mat.Dense // layer l: inDim×H for l=0, else H×H
	convB []*mat.Dense // 1×H
	fuseW *mat.Dense   // fusedDim×H
	fuseB *mat.Dense   // 1×H
	outW  *mat.Dense   // H×1
	outB  *mat.Dense   // 1×1
}

// New builds a model from cfg with Glorot-style uniform weight
// initialization seeded by cfg.Seed.
func New(cfg Config) (*Model, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	m := &Model{cfg: cfg}
	in := cfg.InDim
	for l := 0; l < cfg.NumLayers; l++ {
		m.convW = append(m.convW, glorot(rng, in, cfg.Hidden))
		m.convB = append(m.convB, mat.NewDense(1, cfg.Hidden, nil))
		in = cfg.Hidden
	}
	m.fuseW = glorot(rng, cfg.fusedDim(), cfg.Hidden)
	m.fuseB = mat.NewDense(1, cfg.Hidden, nil)
	m.outW = glorot(rng, cfg.Hidden, 1)
	m.outB = mat.NewDense(1, 1, nil)
	return m, nil
}

// Config returns the architecture the model was built with.
func (m *Model) Config() Config {
	return m.cfg
}

// glorot draws an r×c matrix uniformly from ±sqrt(6/(r+c)).
func glorot(rng *rand.Rand, r, c int) *mat.Dense {
	limit := math.Sqrt(6 / float64(r+c))
	data := make([]float64, r*c)
	for i := range data {
		data[i] = (2*rng.Float64() - 1) * limit
	}
	return mat.NewDense(r, c, data)
}

// params returns the parameter matrices in a stable order shared with
// zeroGrads and the optimizer.
func (m *Model) params() []*mat.Dense {
	out := make([]*mat.Dense, 0, 2*len(m.convW)+4)
	for l := range m.convW {
		out = append(out, m.convW[l], m.convB[l])
	}
	return append(out, m.fuseW, m.fuseB, m.outW, m.outB)
}

func (m *Model) zeroGrads() []*mat.Dense {
	params := m.params()
	grads := make([]*mat.Dense, len(params))
	for i, p := range params {
		r, c := p.Dims()
		grads[i] = mat.NewDense(r, c, nil)
	}
	return grads
}

// Score runs the forward pass for the pair and returns the similarity in
// (0,1). Both graphs must carry feature matrices of the configured input
// width; anything else is a wiring error and panics.
func (m *Model) Score(a, b *graph.Graph) float64 {
	return m.forwardPair(a, b).score
}

// graphTrace records the per-graph forward activations needed by the
// reverse pass.
type graphTrace struct {
	g      *graph.Graph
	acts   []*mat.Dense // acts[0] is the input features, acts[l+1] the layer l output
	aggs   []*mat.Dense // neighborhood means feeding layer l
	pres   []*mat.Dense // pre-activation of layer l
	pooled *mat.Dense   // 1×H graph embedding
	argmax []int        // per-column source row, max pooling only
}

// pairTrace records the head activations for one scored pair.
type pairTrace struct {
	a, b     *graphTrace
	diffSign *mat.Dense // 1×fusedDim, abs_diff only
	fused    *mat.Dense // 1×fusedDim
	hidPre   *mat.Dense // 1×H
	hidden   *mat.Dense // 1×H
	score    float64
}

func (m *Model) forwardPair(a, b *graph.Graph) *pairTrace {
	t := &pairTrace{a: m.forwardGraph(a), b: m.forwardGraph(b)}

	fd := m.cfg.fusedDim()
	t.fused = mat.NewDense(1, fd, nil)
	switch m.cfg.FuseType {
	case FuseConcat:
		for c := 0; c < m.cfg.Hidden; c++ {
			t.fused.Set(0, c, t.a.pooled.At(0, c))
			t.fused.Set(0, m.cfg.Hidden+c, t.b.pooled.At(0, c))
		}
	default: // abs_diff
		t.diffSign = mat.NewDense(1, fd, nil)
		for c := 0; c < fd; c++ {
			d := t.a.pooled.At(0, c) - t.b.pooled.At(0, c)
			t.fused.Set(0, c, math.Abs(d))
			switch {
			case d > 0:
				t.diffSign.Set(0, c, 1)
			case d < 0:
				t.diffSign.Set(0, c, -1)
			}
		}
	}

	t.hidPre = mat.NewDense(1, m.cfg.Hidden, nil)
	t.hidPre.Mul(t.fused, m.fuseW)
	t.hidPre.Add(t.hidPre, m.fuseB)
	t.hidden = relu(t.hidPre)

	logit := m.outB.At(0, 0)
	for c := 0; c < m.cfg.Hidden; c++ {
		logit += t.hidden.At(0, c) * m.outW.At(c, 0)
	}
	t.score = sigmoid(logit)
	return t
}

func (m *Model) forwardGraph(g *graph.Graph) *graphTrace {
	if g.FeatureDim() != m.cfg.InDim {
		panic(fmt.Sprintf("discriminator: graph feature width %d, model expects %d", g.FeatureDim(), m.cfg.InDim))
	}
	t := &graphTrace{g: g}
	h := g.Features()
	t.acts = append(t.acts, h)
	for l := 0; l < m.cfg.NumLayers; l++ {
		agg := meanAgg(g, h)
		n, _ := agg.Dims()
		pre := mat.NewDense(n, m.cfg.Hidden, nil)
		pre.Mul(agg, m.convW[l])
		addRowVec(pre, m.convB[l])
		h = relu(pre)
		t.aggs = append(t.aggs, agg)
		t.pres = append(t.pres, pre)
		t.acts = append(t.acts, h)
	}
	t.pooled, t.argmax = m.pool(h)
	return t
}

// pool collapses node embeddings to one graph embedding.
func (m *Model) pool(h *mat.Dense) (*mat.Dense, []int) {
	n, d := h.Dims()
	out := mat.NewDense(1, d, nil)
	switch m.cfg.PoolType {
	case PoolMax:
		argmax := make([]int, d)
		for c := 0; c < d; c++ {
			best := h.At(0, c)
			for r := 1; r < n; r++ {
				if v := h.At(r, c); v > best {
					best, argmax[c] = v, r
				}
			}
			out.Set(0, c, best)
		}
		return out, argmax
	case PoolMean:
		for c := 0; c < d; c++ {
			var s float64
			for r := 0; r < n; r++ {
				s += h.At(r, c)
			}
			out.Set(0, c, s/float64(n))
		}
	default: // sum
		for c := 0; c < d; c++ {
			var s float64
			for r := 0; r < n; r++ {
				s += h.At(r, c)
			}
			out.Set(0, c, s)
		}
	}
	return out, nil
}

// meanAgg averages each node's features with its neighbors', the linear
// message-passing step the layers share.
func meanAgg(g *graph.Graph, x *mat.Dense) *mat.Dense {
	n, d := x.Dims()
	out := mat.NewDense(n, d, nil)
	for i := 0; i < n; i++ {
		nb := g.Neighbors(i)
		scale := 1 / float64(len(nb)+1)
		for c := 0; c < d; c++ {
			s := x.At(i, c)
			for _, j := range nb {
				s += x.At(j, c)
			}
			out.Set(i, c, s*scale)
		}
	}
	return out
}

func relu(x *mat.Dense) *mat.Dense {
	r, c := x.Dims()
	out := mat.NewDense(r, c, nil)
	out.Apply(func(_, _ int, v float64) float64 {
		if v > 0 {
			return v
		}
		return 0
	}, x)
	return out
}

// addRowVec adds the 1×c vector b to every row of x in place.
func addRowVec(x *mat.Dense, b *mat.Dense) {
	r, c := x.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			x.Set(i, j, x.At(i, j)+b.At(0, j))
		}
	}
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
