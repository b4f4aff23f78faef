package discriminator

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/auggraph/auggraph/datasets"
	"github.com/auggraph/auggraph/graph"
	"github.com/auggraph/auggraph/learning"
)

// TrainBatch runs one optimization step over a batch of triples. For every
// triple it scores the anchor against the positive (target 1) and the
// negative (target 0), accumulates the gradients of the combined binary
// cross-entropy averaged over the batch, and applies one optimizer step.
// The mean batch loss is returned.
func (m *Model) TrainBatch(batch []datasets.Triple, opt *learning.Adam) float64 {
	if len(batch) == 0 {
		return 0
	}
	grads := m.zeroGrads()
	inv := 1 / float64(len(batch))
	var loss float64
	for _, tr := range batch {
		pt := m.forwardPair(tr.Anchor, tr.Pos)
		loss += bce(pt.score, 1) * inv
		m.backwardPair(pt, (pt.score-1)*inv, grads)

		nt := m.forwardPair(tr.Anchor, tr.Neg)
		loss += bce(nt.score, 0) * inv
		m.backwardPair(nt, nt.score*inv, grads)
	}
	opt.Step(m.params(), grads)
	return loss
}

// bce is the binary cross-entropy of score s against target t, clamped away
// from the log singularities.
func bce(s, t float64) float64 {
	const eps = 1e-12
	if t >= 0.5 {
		return -math.Log(math.Max(s, eps))
	}
	return -math.Log(math.Max(1-s, eps))
}

// backwardPair accumulates parameter gradients for one scored pair given
// the loss gradient with respect to the pre-sigmoid logit.
func (m *Model) backwardPair(t *pairTrace, dlogit float64, grads []*mat.Dense) {
	L := len(m.convW)
	hid := m.cfg.Hidden
	gFuseW, gFuseB := grads[2*L], grads[2*L+1]
	gOutW, gOutB := grads[2*L+2], grads[2*L+3]

	gOutB.Set(0, 0, gOutB.At(0, 0)+dlogit)
	dHidPre := mat.NewDense(1, hid, nil)
	for c := 0; c < hid; c++ {
		gOutW.Set(c, 0, gOutW.At(c, 0)+t.hidden.At(0, c)*dlogit)
		if t.hidPre.At(0, c) > 0 {
			dHidPre.Set(0, c, dlogit*m.outW.At(c, 0))
		}
	}

	gFuseB.Add(gFuseB, dHidPre)
	fd := m.cfg.fusedDim()
	for r := 0; r < fd; r++ {
		fr := t.fused.At(0, r)
		if fr == 0 {
			continue
		}
		for c := 0; c < hid; c++ {
			gFuseW.Set(r, c, gFuseW.At(r, c)+fr*dHidPre.At(0, c))
		}
	}

	dFused := mat.NewDense(1, fd, nil)
	dFused.Mul(dHidPre, m.fuseW.T())

	du := mat.NewDense(1, hid, nil)
	dv := mat.NewDense(1, hid, nil)
	switch m.cfg.FuseType {
	case FuseConcat:
		for c := 0; c < hid; c++ {
			du.Set(0, c, dFused.At(0, c))
			dv.Set(0, c, dFused.At(0, hid+c))
		}
	default: // abs_diff
		for c := 0; c < hid; c++ {
			s := t.diffSign.At(0, c)
			du.Set(0, c, dFused.At(0, c)*s)
			dv.Set(0, c, -dFused.At(0, c)*s)
		}
	}

	m.backwardGraph(t.a, du, grads)
	m.backwardGraph(t.b, dv, grads)
}

// backwardGraph walks one graph's layer stack in reverse, turning the
// gradient at the pooled embedding into convolution weight gradients.
func (m *Model) backwardGraph(t *graphTrace, dPooled *mat.Dense, grads []*mat.Dense) {
	n := t.g.NumNodes()
	hid := m.cfg.Hidden

	dH := mat.NewDense(n, hid, nil)
	switch m.cfg.PoolType {
	case PoolMax:
		for c := 0; c < hid; c++ {
			dH.Set(t.argmax[c], c, dPooled.At(0, c))
		}
	case PoolMean:
		inv := 1 / float64(n)
		for r := 0; r < n; r++ {
			for c := 0; c < hid; c++ {
				dH.Set(r, c, dPooled.At(0, c)*inv)
			}
		}
	default: // sum
		for r := 0; r < n; r++ {
			for c := 0; c < hid; c++ {
				dH.Set(r, c, dPooled.At(0, c))
			}
		}
	}

	for l := len(m.convW) - 1; l >= 0; l-- {
		pre := t.pres[l]
		rows, cols := pre.Dims()
		dPre := mat.NewDense(rows, cols, nil)
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				if pre.At(r, c) > 0 {
					dPre.Set(r, c, dH.At(r, c))
				}
			}
		}

		gB := grads[2*l+1]
		for c := 0; c < cols; c++ {
			var s float64
			for r := 0; r < rows; r++ {
				s += dPre.At(r, c)
			}
			gB.Set(0, c, gB.At(0, c)+s)
		}

		gW := grads[2*l]
		wr, wc := gW.Dims()
		tmp := mat.NewDense(wr, wc, nil)
		tmp.Mul(t.aggs[l].T(), dPre)
		gW.Add(gW, tmp)

		if l > 0 {
			dAgg := mat.NewDense(rows, wr, nil)
			dAgg.Mul(dPre, m.convW[l].T())
			dH = meanAggAdjoint(t.g, dAgg)
		}
	}
}

// meanAggAdjoint is the transpose of meanAgg: each node's incoming gradient,
// scaled by its own neighborhood size, flows back to itself and its
// neighbors.
func meanAggAdjoint(g *graph.Graph, dm *mat.Dense) *mat.Dense {
	n, d := dm.Dims()
	out := mat.NewDense(n, d, nil)
	for i := 0; i < n; i++ {
		nb := g.Neighbors(i)
		scale := 1 / float64(len(nb)+1)
		for c := 0; c < d; c++ {
			v := dm.At(i, c) * scale
			out.Set(i, c, out.At(i, c)+v)
			for _, j := range nb {
				out.Set(j, c, out.At(j, c)+v)
			}
		}
	}
	return out
}
