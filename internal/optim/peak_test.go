package optim_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/reactsim/internal/dynamo"
	"github.com/san-kum/reactsim/internal/models"
	"github.com/san-kum/reactsim/internal/optim"
	"github.com/san-kum/reactsim/internal/sim"
)

func parabola(center float64) optim.Objective {
	return func(x float64) (float64, error) {
		d := x - center
		return -d * d, nil
	}
}

var _ = Describe("PeakLocator", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Context("with a smooth unimodal objective", func() {
		It("converges onto the maximum", func() {
			peak, err := optim.NewPeakLocator(parabola(0.3)).Find(ctx, 0, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(peak.Converged).To(BeTrue())
			Expect(peak.Tf).To(BeNumerically("~", 0.3, 1e-5))
			Expect(peak.V).To(BeNumerically("<=", 0))
		})

		It("evaluates the objective twice per iteration", func() {
			calls := 0
			obj := func(x float64) (float64, error) {
				calls++
				return parabola(0.7)(x)
			}
			peak, err := optim.NewPeakLocator(obj).Find(ctx, 0, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(calls).To(Equal(2 * peak.Iterations))
			Expect(peak.Trace).To(HaveLen(peak.Iterations))
		})

		It("halves a nested interval every iteration", func() {
			peak, err := optim.NewPeakLocator(parabola(0.3)).Find(ctx, 0, 1)
			Expect(err).NotTo(HaveOccurred())

			for k, it := range peak.Trace {
				Expect(it.A).To(BeNumerically("<=", it.P))
				Expect(it.P).To(BeNumerically("<=", it.B))
				Expect(it.P).To(Equal((it.A + it.B) / 2))
				if k > 0 {
					prev := peak.Trace[k-1]
					Expect(it.B - it.A).To(BeNumerically("~", (prev.B-prev.A)/2, 1e-15))
					Expect(it.A).To(BeNumerically(">=", prev.A))
					Expect(it.B).To(BeNumerically("<=", prev.B))
				}
			}
		})
	})

	Context("direction decision", func() {
		It("moves the lower bound up while the objective rises", func() {
			rising := func(x float64) (float64, error) { return x, nil }
			peak, err := optim.NewPeakLocator(rising, optim.WithMaxIter(40)).Find(ctx, 0, 1)
			Expect(errors.Is(err, dynamo.ErrNotConverged)).To(BeTrue())
			Expect(peak.Converged).To(BeFalse())
			Expect(peak.Tf).To(BeNumerically(">", 0.999))
		})

		It("moves the upper bound down while the objective falls", func() {
			falling := func(x float64) (float64, error) { return -x, nil }
			peak, err := optim.NewPeakLocator(falling, optim.WithMaxIter(40)).Find(ctx, 0, 1)
			Expect(errors.Is(err, dynamo.ErrNotConverged)).To(BeTrue())
			Expect(peak.Tf).To(BeNumerically("<", 0.001))
		})
	})

	Context("when the budget runs out", func() {
		It("reports ErrNotConverged with the last iterate", func() {
			peak, err := optim.NewPeakLocator(parabola(0.3),
				optim.WithTolerance(0),
				optim.WithMaxIter(5),
			).Find(ctx, 0, 1)

			Expect(err).To(MatchError(dynamo.ErrNotConverged))
			Expect(peak.Converged).To(BeFalse())
			Expect(peak.Iterations).To(Equal(5))
			Expect(peak.Trace).To(HaveLen(5))
		})
	})

	Context("with invalid input", func() {
		DescribeTable("rejects the interval with ErrDomain",
			func(lo, hi float64) {
				_, err := optim.NewPeakLocator(parabola(0)).Find(ctx, lo, hi)
				Expect(err).To(MatchError(dynamo.ErrDomain))
			},
			Entry("start equal to end", 3.0, 3.0),
			Entry("start above end", 4.0, 3.0),
			Entry("nan start", math.NaN(), 3.0),
			Entry("infinite end", 0.0, math.Inf(1)),
		)

		DescribeTable("rejects settings with ErrInvalidArgument",
			func(opt optim.Option) {
				_, err := optim.NewPeakLocator(parabola(0), opt).Find(ctx, 0, 1)
				Expect(err).To(MatchError(dynamo.ErrInvalidArgument))
			},
			Entry("zero probe", optim.WithProbe(0)),
			Entry("negative tolerance", optim.WithTolerance(-1)),
			Entry("zero budget", optim.WithMaxIter(0)),
		)
	})

	It("propagates objective errors", func() {
		boom := errors.New("boom")
		obj := func(float64) (float64, error) { return 0, boom }
		_, err := optim.NewPeakLocator(obj).Find(ctx, 0, 1)
		Expect(err).To(MatchError(boom))
	})

	It("stops on a canceled context", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := optim.NewPeakLocator(parabola(0.5)).Find(cctx, 0, 1)
		Expect(err).To(MatchError(context.Canceled))
	})

	Context("on the reaction network", func() {
		var peak optim.Peak

		BeforeEach(func() {
			obj := sim.EndV(models.DefaultParams(), optim.DefaultHorizon, optim.DefaultStep)
			var err error
			peak, err = optim.NewPeakLocator(obj).Find(ctx, 3, 4)
			Expect(err).NotTo(HaveOccurred())
		})

		It("converges inside the search window", func() {
			Expect(peak.Converged).To(BeTrue())
			Expect(peak.Iterations).To(BeNumerically("<=", optim.DefaultMaxIter))
			Expect(peak.Tf).To(BeNumerically(">=", 3.0))
			Expect(peak.Tf).To(BeNumerically("<=", 4.0))
			Expect(peak.Tf).To(BeNumerically("~", 3.3121, 1e-3))
		})

		It("is a local maximum of the final v", func() {
			at := func(tf float64) float64 {
				tr, err := sim.Simulate(models.DefaultParams(), 0, 0, tf, 30, 0.01)
				Expect(err).NotTo(HaveOccurred())
				return tr.FinalV()
			}

			v := at(peak.Tf)
			Expect(v).To(BeNumerically("~", peak.V, 1e-12))
			Expect(v).To(BeNumerically(">=", at(peak.Tf-0.01)))
			Expect(v).To(BeNumerically(">=", at(peak.Tf+0.01)))
		})
	})

	Describe("FindPeak", func() {
		It("locates the default peak", func() {
			tf, v, err := optim.FindPeak(3, 4)
			Expect(err).NotTo(HaveOccurred())
			Expect(tf).To(BeNumerically("~", 3.3121, 1e-3))
			Expect(v).To(BeNumerically("~", 6.2689, 1e-3))
		})

		It("fails with ErrDomain on an empty interval", func() {
			_, _, err := optim.FindPeak(4, 3)
			Expect(err).To(MatchError(dynamo.ErrDomain))
		})
	})
})
