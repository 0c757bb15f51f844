package params

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/contnet/internal/ode"
)

// Kind names a basis family.
type Kind string

const (
	KindConstant Kind = "constant"
	KindLinear   Kind = "linear"
)

// ParseKind resolves a basis name, ignoring case.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(s)) {
	case KindConstant:
		return KindConstant, nil
	case KindLinear:
		return KindLinear, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBasis, s)
}

// Basis is a ContinuousParameters backed by node snapshots.
type Basis[P any] interface {
	ode.ContinuousParameters[P]
	Kind() Kind
	Nodes() []P
	Refine() Basis[P]
}

// New builds a basis of the given kind. lerp is only used by linear bases.
func New[P any](kind Kind, nodes []P, lerp Lerp[P]) (Basis[P], error) {
	switch kind {
	case KindConstant:
		c, err := NewPiecewiseConstant(nodes)
		if err != nil {
			return nil, err
		}
		return c, nil
	case KindLinear:
		l, err := NewPiecewiseLinear(nodes, lerp)
		if err != nil {
			return nil, err
		}
		return l, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBasis, kind)
}

// Refine doubles the resolution of b.
func Refine[P any](b Basis[P]) Basis[P] {
	return b.Refine()
}

func checkDomain(t float64) {
	if t < 0 || t >= 1 || math.IsNaN(t) {
		panic(fmt.Sprintf("params: t=%v outside [0, 1)", t))
	}
}

// PiecewiseConstant holds node k on [k/n, (k+1)/n).
type PiecewiseConstant[P any] struct {
	nodes []P
}

func NewPiecewiseConstant[P any](nodes []P) (*PiecewiseConstant[P], error) {
	if len(nodes) == 0 {
		return nil, ErrNoNodes
	}
	return &PiecewiseConstant[P]{nodes: append([]P(nil), nodes...)}, nil
}

// At panics for t outside [0, 1).
func (c *PiecewiseConstant[P]) At(t float64) P {
	checkDomain(t)
	n := len(c.nodes)
	k := int(t * float64(n))
	if k >= n {
		k = n - 1
	}
	return c.nodes[k]
}

func (c *PiecewiseConstant[P]) Kind() Kind { return KindConstant }

func (c *PiecewiseConstant[P]) Nodes() []P { return append([]P(nil), c.nodes...) }

// Refine splits every interval in two, repeating each node.
func (c *PiecewiseConstant[P]) Refine() Basis[P] {
	nodes := make([]P, 0, 2*len(c.nodes))
	for _, p := range c.nodes {
		nodes = append(nodes, p, p)
	}
	return &PiecewiseConstant[P]{nodes: nodes}
}

// PiecewiseLinear places node k at k/(n-1) and interpolates between
// neighbours.
type PiecewiseLinear[P any] struct {
	nodes []P
	lerp  Lerp[P]
}

func NewPiecewiseLinear[P any](nodes []P, lerp Lerp[P]) (*PiecewiseLinear[P], error) {
	if len(nodes) == 0 {
		return nil, ErrNoNodes
	}
	if len(nodes) < 2 {
		return nil, ErrTooFewNodes
	}
	if lerp == nil {
		return nil, ErrNoLerp
	}
	return &PiecewiseLinear[P]{nodes: append([]P(nil), nodes...), lerp: lerp}, nil
}

// At panics for t outside [0, 1).
func (l *PiecewiseLinear[P]) At(t float64) P {
	checkDomain(t)
	u := t * float64(len(l.nodes)-1)
	k := int(u)
	if k >= len(l.nodes)-1 {
		k = len(l.nodes) - 2
	}
	return l.lerp(l.nodes[k], l.nodes[k+1], u-float64(k))
}

func (l *PiecewiseLinear[P]) Kind() Kind { return KindLinear }

func (l *PiecewiseLinear[P]) Nodes() []P { return append([]P(nil), l.nodes...) }

// Refine inserts the midpoint between each pair of neighbouring nodes.
func (l *PiecewiseLinear[P]) Refine() Basis[P] {
	nodes := make([]P, 0, 2*len(l.nodes)-1)
	for k := 0; k < len(l.nodes)-1; k++ {
		nodes = append(nodes, l.nodes[k], l.lerp(l.nodes[k], l.nodes[k+1], 0.5))
	}
	nodes = append(nodes, l.nodes[len(l.nodes)-1])
	return &PiecewiseLinear[P]{nodes: nodes, lerp: l.lerp}
}
