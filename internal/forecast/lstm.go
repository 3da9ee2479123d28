package forecast

import (
	"fmt"
	"math"
	"math/rand"

	"PriceCast/internal/domain/models"
)

// Gate row blocks inside the stacked weight matrices: rows [0,H) drive the
// input gate, [H,2H) the forget gate, [2H,3H) the cell candidate, [3H,4H)
// the output gate.

// LSTM is a single recurrent layer over a scalar input with a dense output
// unit, trained by backpropagation through time against a mean-squared-error
// objective.
type LSTM struct {
	net *models.Network
	rng *rand.Rand
}

// NewLSTM builds a network with randomly initialized weights.
func NewLSTM(hidden int, learnRate float64, seed int64) *LSTM {
	rng := rand.New(rand.NewSource(seed))
	scale := 0.2

	n := &models.Network{
		InputSize:    1,
		HiddenSize:   hidden,
		Wx:           make([][]float64, 4*hidden),
		Wh:           make([][]float64, 4*hidden),
		B:            make([]float64, 4*hidden),
		Why:          make([]float64, hidden),
		LearningRate: learnRate,
	}
	for r := 0; r < 4*hidden; r++ {
		n.Wx[r] = []float64{(rng.Float64() - 0.5) * scale}
		n.Wh[r] = make([]float64, hidden)
		for c := 0; c < hidden; c++ {
			n.Wh[r][c] = (rng.Float64() - 0.5) * scale
		}
	}
	// Forget gate biases start positive so early epochs keep cell state.
	for u := 0; u < hidden; u++ {
		n.B[hidden+u] = 1.0
	}
	for u := 0; u < hidden; u++ {
		n.Why[u] = (rng.Float64() - 0.5) * scale
	}

	return &LSTM{net: n, rng: rng}
}

// FromNetwork wraps an existing (imported or loaded) network after validating
// its shape.
func FromNetwork(n *models.Network) (*LSTM, error) {
	if err := ValidateNetwork(n); err != nil {
		return nil, err
	}
	return &LSTM{net: n, rng: rand.New(rand.NewSource(1))}, nil
}

// Network exposes the serializable weights.
func (l *LSTM) Network() *models.Network { return l.net }

// ValidateNetwork checks the stacked weight dimensions are consistent.
func ValidateNetwork(n *models.Network) error {
	if n == nil {
		return fmt.Errorf("network is nil")
	}
	h := n.HiddenSize
	if h <= 0 || n.InputSize != 1 {
		return fmt.Errorf("bad topology: input=%d hidden=%d", n.InputSize, h)
	}
	if len(n.Wx) != 4*h || len(n.Wh) != 4*h || len(n.B) != 4*h || len(n.Why) != h {
		return fmt.Errorf("weight shape mismatch for hidden=%d", h)
	}
	for r := range n.Wx {
		if len(n.Wx[r]) != n.InputSize || len(n.Wh[r]) != h {
			return fmt.Errorf("weight row %d shape mismatch", r)
		}
	}
	if n.LearningRate <= 0 {
		return fmt.Errorf("learning rate must be positive")
	}
	return nil
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// stepState caches one time step's activations for BPTT.
type stepState struct {
	x          float64
	i, f, g, o []float64
	c, h       []float64
}

func (l *LSTM) forward(inputs []float64) []stepState {
	h := l.net.HiddenSize
	states := make([]stepState, len(inputs))

	prevH := make([]float64, h)
	prevC := make([]float64, h)

	for t, x := range inputs {
		st := stepState{
			x: x,
			i: make([]float64, h), f: make([]float64, h),
			g: make([]float64, h), o: make([]float64, h),
			c: make([]float64, h), h: make([]float64, h),
		}
		for u := 0; u < h; u++ {
			zi := l.net.B[u] + l.net.Wx[u][0]*x
			zf := l.net.B[h+u] + l.net.Wx[h+u][0]*x
			zg := l.net.B[2*h+u] + l.net.Wx[2*h+u][0]*x
			zo := l.net.B[3*h+u] + l.net.Wx[3*h+u][0]*x
			for v := 0; v < h; v++ {
				zi += l.net.Wh[u][v] * prevH[v]
				zf += l.net.Wh[h+u][v] * prevH[v]
				zg += l.net.Wh[2*h+u][v] * prevH[v]
				zo += l.net.Wh[3*h+u][v] * prevH[v]
			}
			st.i[u] = sigmoid(zi)
			st.f[u] = sigmoid(zf)
			st.g[u] = math.Tanh(zg)
			st.o[u] = sigmoid(zo)
			st.c[u] = st.f[u]*prevC[u] + st.i[u]*st.g[u]
			st.h[u] = st.o[u] * math.Tanh(st.c[u])
		}
		states[t] = st
		prevH = st.h
		prevC = st.c
	}
	return states
}

// Predict runs one forward pass and returns the dense-head output for the
// final hidden state.
func (l *LSTM) Predict(inputs []float64) float64 {
	states := l.forward(inputs)
	if len(states) == 0 {
		return 0
	}
	last := states[len(states)-1].h
	y := l.net.By
	for u, hv := range last {
		y += l.net.Why[u] * hv
	}
	return y
}

// grads accumulates parameter gradients across a batch.
type grads struct {
	wx  [][]float64
	wh  [][]float64
	b   []float64
	why []float64
	by  float64
}

func newGrads(h int) *grads {
	g := &grads{
		wx:  make([][]float64, 4*h),
		wh:  make([][]float64, 4*h),
		b:   make([]float64, 4*h),
		why: make([]float64, h),
	}
	for r := 0; r < 4*h; r++ {
		g.wx[r] = make([]float64, 1)
		g.wh[r] = make([]float64, h)
	}
	return g
}

// TrainEpoch runs one pass over the windows in batches of batchSize and
// returns the epoch's mean squared error.
func (l *LSTM) TrainEpoch(windows []models.Window, batchSize int) float64 {
	if len(windows) == 0 {
		return 0
	}
	if batchSize <= 0 {
		batchSize = 1
	}

	totalLoss := 0.0
	for start := 0; start < len(windows); start += batchSize {
		end := start + batchSize
		if end > len(windows) {
			end = len(windows)
		}
		totalLoss += l.trainBatch(windows[start:end])
	}
	return totalLoss / float64(len(windows))
}

func (l *LSTM) trainBatch(batch []models.Window) float64 {
	h := l.net.HiddenSize
	acc := newGrads(h)
	batchLoss := 0.0

	for _, w := range batch {
		states := l.forward(w.Inputs)
		last := states[len(states)-1].h

		y := l.net.By
		for u, hv := range last {
			y += l.net.Why[u] * hv
		}
		diff := y - w.Target
		batchLoss += diff * diff

		// Dense head gradients and the seed for the recurrent backward pass.
		dy := 2 * diff
		dh := make([]float64, h)
		for u := 0; u < h; u++ {
			acc.why[u] += dy * last[u]
			dh[u] = dy * l.net.Why[u]
		}
		acc.by += dy

		l.backward(states, dh, acc)
	}

	// Average the accumulated gradients over the batch before applying.
	lr := l.net.LearningRate / float64(len(batch))
	for r := 0; r < 4*h; r++ {
		l.net.Wx[r][0] -= lr * clip(acc.wx[r][0])
		for c := 0; c < h; c++ {
			l.net.Wh[r][c] -= lr * clip(acc.wh[r][c])
		}
		l.net.B[r] -= lr * clip(acc.b[r])
	}
	for u := 0; u < h; u++ {
		l.net.Why[u] -= lr * clip(acc.why[u])
	}
	l.net.By -= lr * clip(acc.by)

	return batchLoss
}

// backward runs truncated BPTT over one sample's cached states, adding
// parameter gradients into acc.
func (l *LSTM) backward(states []stepState, dhLast []float64, acc *grads) {
	h := l.net.HiddenSize
	dh := dhLast
	dc := make([]float64, h)

	for t := len(states) - 1; t >= 0; t-- {
		st := states[t]

		var prevH, prevC []float64
		if t > 0 {
			prevH = states[t-1].h
			prevC = states[t-1].c
		} else {
			prevH = make([]float64, h)
			prevC = make([]float64, h)
		}

		dhPrev := make([]float64, h)
		dcPrev := make([]float64, h)

		for u := 0; u < h; u++ {
			tc := math.Tanh(st.c[u])
			do := dh[u] * tc
			dcu := dc[u] + dh[u]*st.o[u]*(1-tc*tc)

			di := dcu * st.g[u]
			df := dcu * prevC[u]
			dg := dcu * st.i[u]
			dcPrev[u] = dcu * st.f[u]

			// Gate pre-activation gradients.
			dzi := di * st.i[u] * (1 - st.i[u])
			dzf := df * st.f[u] * (1 - st.f[u])
			dzg := dg * (1 - st.g[u]*st.g[u])
			dzo := do * st.o[u] * (1 - st.o[u])

			rows := [4]int{u, h + u, 2*h + u, 3*h + u}
			dz := [4]float64{dzi, dzf, dzg, dzo}
			for k := 0; k < 4; k++ {
				r := rows[k]
				acc.wx[r][0] += dz[k] * st.x
				acc.b[r] += dz[k]
				for v := 0; v < h; v++ {
					acc.wh[r][v] += dz[k] * prevH[v]
					dhPrev[v] += dz[k] * l.net.Wh[r][v]
				}
			}
		}

		dh = dhPrev
		dc = dcPrev
	}
}

// clip bounds a gradient component to keep long-lookback updates stable.
func clip(g float64) float64 {
	const limit = 5.0
	if g > limit {
		return limit
	}
	if g < -limit {
		return -limit
	}
	return g
}

// SelfTest probes whether the engine can run in this build: construct a tiny
// network, fit it for a couple of epochs, and confirm the output stays finite.
// EnableLive calls this before flipping the pipeline out of mock mode.
func SelfTest() error {
	l := NewLSTM(4, 0.05, 1)
	win := []models.Window{
		{Inputs: []float64{0.1, 0.2, 0.3}, Target: 0.4},
		{Inputs: []float64{0.2, 0.3, 0.4}, Target: 0.5},
	}
	var loss float64
	for e := 0; e < 3; e++ {
		loss = l.TrainEpoch(win, 2)
	}
	if math.IsNaN(loss) || math.IsInf(loss, 0) {
		return fmt.Errorf("engine self test produced non-finite loss")
	}
	y := l.Predict(win[0].Inputs)
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return fmt.Errorf("engine self test produced non-finite output")
	}
	return nil
}
