package metrics

import (
	"reflect"

	"github.com/san-kum/contnet/internal/tensor"
)

// AuxUpdates counts the steps whose auxiliary state differs from the one
// reported by the previous step. States observed with a nil aux, such as
// the initial state, are ignored.
type AuxUpdates struct {
	name    string
	prev    any
	updates int
	samples int
}

func NewAuxUpdates() *AuxUpdates {
	return &AuxUpdates{name: "aux_updates"}
}

func (a *AuxUpdates) Name() string { return a.name }

func (a *AuxUpdates) Observe(x tensor.Tensor, aux any, t float64) {
	if aux == nil {
		return
	}
	if a.samples > 0 && !reflect.DeepEqual(a.prev, aux) {
		a.updates++
	}
	a.prev = aux
	a.samples++
}

func (a *AuxUpdates) Value() float64 {
	return float64(a.updates)
}

func (a *AuxUpdates) Reset() {
	a.prev = nil
	a.updates = 0
	a.samples = 0
}
