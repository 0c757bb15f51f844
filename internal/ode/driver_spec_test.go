package ode_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/contnet/internal/ode"
	"github.com/san-kum/contnet/internal/tensor"
)

type stats struct {
	Calls int
	Mean  float64
}

// normalizing emits running statistics of the state it was evaluated at.
func normalizing() ode.RateEquation[float64, stats] {
	calls := 0
	return func(rate float64, x tensor.Tensor) (stats, tensor.Tensor, error) {
		calls++
		mean := 0.0
		for _, v := range x.Data() {
			mean += v
		}
		mean /= float64(x.Len())
		return stats{Calls: calls, Mean: mean}, tensor.Scale(-rate, x), nil
	}
}

var _ = Describe("Step driver", func() {
	var params ode.ContinuousParameters[float64]

	BeforeEach(func() {
		params = ode.Constant(1.0)
	})

	DescribeTable("integrates exponential decay to e^-1",
		func(name string, nStep int, tol float64) {
			scheme, err := ode.Lookup[float64, stats](name)
			Expect(err).NotTo(HaveOccurred())

			x, err := ode.IntegrateFast(params, tensor.Scalar(1), normalizing(), scheme, nStep)
			Expect(err).NotTo(HaveOccurred())
			Expect(x.Item()).To(BeNumerically("~", math.Exp(-1), tol))
		},
		Entry("Euler", "Euler", 1000, 1e-3),
		Entry("Midpoint", "Midpoint", 100, 1e-4),
		Entry("RK4", "RK4", 100, 1e-6),
		Entry("RK4_38", "RK4_38", 100, 1e-6),
	)

	Describe("IntegrateWithPoints", func() {
		It("records the initial state and one snapshot per step", func() {
			x0 := tensor.MustNew([]int{2, 2}, []float64{1, 2, 3, 4})
			xs, err := ode.IntegrateWithPoints(params, x0, normalizing(), ode.RK438[float64, stats], 16)
			Expect(err).NotTo(HaveOccurred())
			Expect(xs).To(HaveLen(17))
			Expect(xs[0].Equal(x0)).To(BeTrue())
			for _, x := range xs {
				Expect(x.Shape()).To(Equal([]int{2, 2}))
			}
		})

		It("ends where IntegrateFast ends", func() {
			x0 := tensor.Vector(0.5, -0.25)
			fast, err := ode.IntegrateFast(params, x0, normalizing(), ode.Midpoint[float64, stats], 9)
			Expect(err).NotTo(HaveOccurred())
			xs, err := ode.IntegrateWithPoints(params, x0, normalizing(), ode.Midpoint[float64, stats], 9)
			Expect(err).NotTo(HaveOccurred())
			Expect(xs[len(xs)-1].Equal(fast)).To(BeTrue())
		})
	})

	Describe("auxiliary state", func() {
		It("reports the statistics of the final stage of each step", func() {
			var seen []stats
			_, err := ode.IntegrateObserved(params, tensor.Scalar(1), normalizing(), ode.RK4[float64, stats], 2, func(s ode.Step[stats]) {
				seen = append(seen, s.Aux)
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(seen).To(HaveLen(2))
			Expect(seen[0].Calls).To(Equal(4))
			Expect(seen[1].Calls).To(Equal(8))
			// the fourth stage of the first step is evaluated at x3 = 1 + 0.5*k3
			Expect(seen[0].Mean).To(BeNumerically("<", 1))
		})
	})

	Describe("invalid step counts", func() {
		It("fails fast on zero steps", func() {
			_, err := ode.IntegrateFast(params, tensor.Scalar(1), normalizing(), ode.Euler[float64, stats], 0)
			Expect(err).To(MatchError(ode.ErrNoSteps))
		})
	})

	Describe("registry", func() {
		It("rejects unknown names with a configuration error", func() {
			_, err := ode.Lookup[float64, stats]("Heun")
			var cfgErr *ode.ConfigurationError
			Expect(err).To(BeAssignableToTypeOf(cfgErr))
			Expect(err).To(MatchError(ode.ErrUnknownScheme))
		})
	})
})
