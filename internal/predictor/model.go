package predictor

import (
	"math"
	"math/rand"
)

// Network geometry: one recurrent layer feeding two dense layers down
// to a single output.
const (
	hiddenSize = 50
	denseSize  = 25
	epochs     = 3
)

// Adam hyperparameters.
const (
	learnRate = 1e-3
	beta1     = 0.9
	beta2     = 0.999
	epsilon   = 1e-8
)

// network is a compact Elman-style recurrent regressor over a scalar
// sequence: h_t = tanh(wx*x_t + Wh*h_{t-1} + bh), followed by two
// linear dense layers (hidden -> 25 -> 1), trained with per-sample
// Adam on mean-squared error.
type network struct {
	wx []float64   // input weights, per hidden unit
	wh [][]float64 // recurrent weights [hidden][hidden]
	bh []float64   // recurrent bias
	w1 [][]float64 // dense 1 [dense][hidden]
	b1 []float64
	w2 []float64 // dense 2 [dense] -> scalar
	b2 float64

	opt *adam
	rng *rand.Rand
}

// newNetwork builds a network with a fixed seed so training runs are
// reproducible. The first hidden unit is initialised to track the
// current input and the readout to amplify it back to scale, so the
// untrained network already outputs roughly the latest observation and
// the short training budget learns a residual correction.
func newNetwork(seed int64) *network {
	rng := rand.New(rand.NewSource(seed))
	small := func() float64 { return (rng.Float64() - 0.5) * 0.05 }

	n := &network{
		wx:  make([]float64, hiddenSize),
		wh:  make([][]float64, hiddenSize),
		bh:  make([]float64, hiddenSize),
		w1:  make([][]float64, denseSize),
		b1:  make([]float64, denseSize),
		w2:  make([]float64, denseSize),
		rng: rng,
	}
	for j := 0; j < hiddenSize; j++ {
		n.wx[j] = small()
		n.wh[j] = make([]float64, hiddenSize)
		for k := 0; k < hiddenSize; k++ {
			n.wh[j][k] = small()
		}
	}
	for j := 0; j < denseSize; j++ {
		n.w1[j] = make([]float64, hiddenSize)
		for k := 0; k < hiddenSize; k++ {
			n.w1[j][k] = small()
		}
		n.w2[j] = small()
	}

	// Identity-tracking unit: h_0 stays in tanh's linear region and
	// carries no recurrent state, so 20*tanh(0.05*x) ~= x.
	n.wx[0] = 0.05
	for k := 0; k < hiddenSize; k++ {
		n.wh[0][k] = 0
	}
	n.w1[0][0] = 1.0
	n.w2[0] = 20.0

	n.opt = newAdam(n.paramCount())
	return n
}

func (n *network) paramCount() int {
	return hiddenSize + // wx
		hiddenSize*hiddenSize + // wh
		hiddenSize + // bh
		denseSize*hiddenSize + // w1
		denseSize + // b1
		denseSize + // w2
		1 // b2
}

// forward runs the sequence through the network, returning the output
// and the per-step hidden states needed for backpropagation.
func (n *network) forward(window []float64) (out float64, hs [][]float64, d1 []float64) {
	hs = make([][]float64, len(window))
	prev := make([]float64, hiddenSize)
	for t, x := range window {
		h := make([]float64, hiddenSize)
		for j := 0; j < hiddenSize; j++ {
			pre := n.wx[j]*x + n.bh[j]
			whj := n.wh[j]
			for k := 0; k < hiddenSize; k++ {
				pre += whj[k] * prev[k]
			}
			h[j] = math.Tanh(pre)
		}
		hs[t] = h
		prev = h
	}

	d1 = make([]float64, denseSize)
	for j := 0; j < denseSize; j++ {
		sum := n.b1[j]
		w1j := n.w1[j]
		for k := 0; k < hiddenSize; k++ {
			sum += w1j[k] * prev[k]
		}
		d1[j] = sum
	}
	out = n.b2
	for j := 0; j < denseSize; j++ {
		out += n.w2[j] * d1[j]
	}
	return out, hs, d1
}

// trainSample backpropagates one example through time and applies a
// single Adam step over all parameters.
func (n *network) trainSample(window []float64, target float64) {
	out, hs, d1 := n.forward(window)
	dy := out - target // dMSE/dout up to a constant factor

	gWx := make([]float64, hiddenSize)
	gWh := make([][]float64, hiddenSize)
	gBh := make([]float64, hiddenSize)
	for j := range gWh {
		gWh[j] = make([]float64, hiddenSize)
	}
	gW1 := make([][]float64, denseSize)
	gB1 := make([]float64, denseSize)
	gW2 := make([]float64, denseSize)
	for j := range gW1 {
		gW1[j] = make([]float64, hiddenSize)
	}
	var gB2 float64

	T := len(window)
	hLast := hs[T-1]

	// Dense layers.
	gB2 = dy
	dD1 := make([]float64, denseSize)
	for j := 0; j < denseSize; j++ {
		gW2[j] = dy * d1[j]
		dD1[j] = dy * n.w2[j]
	}
	dh := make([]float64, hiddenSize)
	for j := 0; j < denseSize; j++ {
		gB1[j] = dD1[j]
		for k := 0; k < hiddenSize; k++ {
			gW1[j][k] = dD1[j] * hLast[k]
			dh[k] += dD1[j] * n.w1[j][k]
		}
	}

	// Backpropagation through time over the full window.
	for t := T - 1; t >= 0; t-- {
		var hPrev []float64
		if t > 0 {
			hPrev = hs[t-1]
		}
		dhNext := make([]float64, hiddenSize)
		for j := 0; j < hiddenSize; j++ {
			dpre := dh[j] * (1 - hs[t][j]*hs[t][j])
			gWx[j] += dpre * window[t]
			gBh[j] += dpre
			if hPrev != nil {
				whj := n.wh[j]
				gWhj := gWh[j]
				for k := 0; k < hiddenSize; k++ {
					gWhj[k] += dpre * hPrev[k]
					dhNext[k] += dpre * whj[k]
				}
			}
		}
		dh = dhNext
	}

	// Apply one optimizer step across the flat parameter vector.
	n.opt.begin()
	idx := 0
	idx = n.opt.update(n.wx, gWx, idx)
	for j := 0; j < hiddenSize; j++ {
		idx = n.opt.update(n.wh[j], gWh[j], idx)
	}
	idx = n.opt.update(n.bh, gBh, idx)
	for j := 0; j < denseSize; j++ {
		idx = n.opt.update(n.w1[j], gW1[j], idx)
	}
	idx = n.opt.update(n.b1, gB1, idx)
	idx = n.opt.update(n.w2, gW2, idx)
	b2 := []float64{n.b2}
	n.opt.update(b2, []float64{gB2}, idx)
	n.b2 = b2[0]
}

// train runs the fixed number of passes over the training set, with a
// deterministic shuffle per pass.
func (n *network) train(inputs [][]float64, targets []float64) {
	for e := 0; e < epochs; e++ {
		for _, i := range n.rng.Perm(len(inputs)) {
			n.trainSample(inputs[i], targets[i])
		}
	}
}

// predict returns the network output for a single window.
func (n *network) predict(window []float64) float64 {
	out, _, _ := n.forward(window)
	return out
}

// adam holds first/second moment estimates over a flattened parameter
// vector.
type adam struct {
	m, v []float64
	step int
}

func newAdam(size int) *adam {
	return &adam{m: make([]float64, size), v: make([]float64, size)}
}

func (a *adam) begin() { a.step++ }

// update applies one Adam step to params in place and returns the next
// flat index.
func (a *adam) update(params, grads []float64, idx int) int {
	c1 := 1 - math.Pow(beta1, float64(a.step))
	c2 := 1 - math.Pow(beta2, float64(a.step))
	for i := range params {
		g := grads[i]
		a.m[idx] = beta1*a.m[idx] + (1-beta1)*g
		a.v[idx] = beta2*a.v[idx] + (1-beta2)*g*g
		mHat := a.m[idx] / c1
		vHat := a.v[idx] / c2
		params[i] -= learnRate * mHat / (math.Sqrt(vHat) + epsilon)
		idx++
	}
	return idx
}
