package models

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/contnet/internal/params"
	"github.com/san-kum/contnet/internal/tensor"
	"gonum.org/v1/gonum/mat"
)

var ErrBadLayer = errors.New("models: malformed dense layer")

// Layer is one parameter snapshot of a Dense block. Mean and Var are the
// running normalization statistics the snapshot carries.
type Layer struct {
	W    *mat.Dense
	B    []float64
	Mean []float64
	Var  []float64
}

// NormStats is the auxiliary state emitted by Dense: running statistics
// updated with the batch the block was evaluated on.
type NormStats struct {
	Mean []float64
	Var  []float64
}

// Dense is dx/dt = tanh(norm(x W^T + b)) over a [batch, width] state, with
// batch normalization of the pre-activation.
type Dense struct {
	Batch    int
	Width    int
	Momentum float64
	Eps      float64
}

func NewDense(batch, width int, momentum float64) *Dense {
	return &Dense{
		Batch:    batch,
		Width:    width,
		Momentum: momentum,
		Eps:      1e-5,
	}
}

func (d *Dense) Name() string { return "dense" }

// Derivative evaluates the block under layer l. x must be [batch, width]
// with width matching l.
func (d *Dense) Derivative(l Layer, x tensor.Tensor) (NormStats, tensor.Tensor, error) {
	r, c := l.W.Dims()
	shape := x.Shape()
	if x.Rank() != 2 || shape[0] == 0 || shape[1] != c || r != c {
		// any non-empty batch is accepted; -1 stands for it
		return NormStats{}, tensor.Tensor{}, &tensor.ShapeError{Op: "dense", Want: []int{-1, c}, Got: shape}
	}
	if len(l.B) != c || len(l.Mean) != c || len(l.Var) != c {
		return NormStats{}, tensor.Tensor{}, fmt.Errorf("%w: layer vectors do not match width %d", ErrBadLayer, c)
	}

	xm, err := x.Dense()
	if err != nil {
		return NormStats{}, tensor.Tensor{}, err
	}

	var z mat.Dense
	z.Mul(xm, l.W.T())
	rows := shape[0]
	for i := 0; i < rows; i++ {
		for j := 0; j < c; j++ {
			z.Set(i, j, z.At(i, j)+l.B[j])
		}
	}

	mean := make([]float64, c)
	variance := make([]float64, c)
	for j := 0; j < c; j++ {
		col := mat.Col(nil, j, &z)
		for _, v := range col {
			mean[j] += v
		}
		mean[j] /= float64(rows)
		for _, v := range col {
			variance[j] += (v - mean[j]) * (v - mean[j])
		}
		variance[j] /= float64(rows)
	}

	z.Apply(func(i, j int, v float64) float64 {
		return math.Tanh((v - mean[j]) / math.Sqrt(variance[j]+d.Eps))
	}, &z)

	stats := NormStats{
		Mean: make([]float64, c),
		Var:  make([]float64, c),
	}
	for j := 0; j < c; j++ {
		stats.Mean[j] = d.Momentum*l.Mean[j] + (1-d.Momentum)*mean[j]
		stats.Var[j] = d.Momentum*l.Var[j] + (1-d.Momentum)*variance[j]
	}
	return stats, tensor.FromDense(&z), nil
}

// RandomLayer draws a layer with N(0, scale^2/width) weights, zero bias and
// unit running variance.
func (d *Dense) RandomLayer(rng *rand.Rand, scale float64) Layer {
	data := make([]float64, d.Width*d.Width)
	std := scale / math.Sqrt(float64(d.Width))
	for i := range data {
		data[i] = rng.NormFloat64() * std
	}
	v := make([]float64, d.Width)
	for i := range v {
		v[i] = 1
	}
	return Layer{
		W:    mat.NewDense(d.Width, d.Width, data),
		B:    make([]float64, d.Width),
		Mean: make([]float64, d.Width),
		Var:  v,
	}
}

// Nodes draws n independent layers from seed.
func (d *Dense) Nodes(n int, seed int64) []Layer {
	rng := rand.New(rand.NewSource(seed))
	nodes := make([]Layer, n)
	for i := range nodes {
		nodes[i] = d.RandomLayer(rng, 1.0)
	}
	return nodes
}

// LerpLayer blends every field of two layers.
func LerpLayer(a, b Layer, w float64) Layer {
	return Layer{
		W:    params.LerpDense(a.W, b.W, w),
		B:    params.LerpSlice(a.B, b.B, w),
		Mean: params.LerpSlice(a.Mean, b.Mean, w),
		Var:  params.LerpSlice(a.Var, b.Var, w),
	}
}
