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

var _ = Describe("Sweep", func() {
	ctx := context.Background()

	It("samples the closed interval in tf order", func() {
		res, err := optim.Sweep(ctx, parabola(0.3), optim.SweepConfig{Lo: 0, Hi: 1, N: 11, Workers: 3}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Samples).To(HaveLen(11))
		Expect(res.Samples[0].Tf).To(Equal(0.0))
		Expect(res.Samples[10].Tf).To(Equal(1.0))
		for i := 1; i < len(res.Samples); i++ {
			Expect(res.Samples[i].Tf).To(BeNumerically(">", res.Samples[i-1].Tf))
		}
		Expect(res.Best.Tf).To(BeNumerically("~", 0.3, 1e-12))
		Expect(res.Values()).To(HaveLen(11))
	})

	It("matches sequential evaluation", func() {
		obj := sim.EndV(models.DefaultParams(), 10, 0.01)
		res, err := optim.Sweep(ctx, obj, optim.SweepConfig{Lo: 0, Hi: 5, N: 6}, nil)
		Expect(err).NotTo(HaveOccurred())
		for _, s := range res.Samples {
			v, err := obj(s.Tf)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Value).To(Equal(v))
		}
	})

	It("brackets the reaction peak", func() {
		obj := sim.EndV(models.DefaultParams(), optim.DefaultHorizon, optim.DefaultStep)
		res, err := optim.Sweep(ctx, obj, optim.SweepConfig{Lo: 3, Hi: 4, N: 11}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Best.Tf).To(BeNumerically("~", 3.3, 1e-9))
	})

	DescribeTable("rejects bad grids with ErrDomain",
		func(cfg optim.SweepConfig) {
			_, err := optim.Sweep(ctx, parabola(0), cfg, nil)
			Expect(err).To(MatchError(dynamo.ErrDomain))
		},
		Entry("empty interval", optim.SweepConfig{Lo: 1, Hi: 1, N: 5}),
		Entry("reversed interval", optim.SweepConfig{Lo: 2, Hi: 1, N: 5}),
		Entry("nan bound", optim.SweepConfig{Lo: math.NaN(), Hi: 1, N: 5}),
		Entry("infinite lower bound", optim.SweepConfig{Lo: math.Inf(-1), Hi: 1, N: 3}),
		Entry("infinite upper bound", optim.SweepConfig{Lo: 0, Hi: math.Inf(1), N: 3}),
		Entry("single sample", optim.SweepConfig{Lo: 0, Hi: 1, N: 1}),
	)

	It("propagates objective errors", func() {
		boom := errors.New("boom")
		obj := func(tf float64) (float64, error) {
			if tf > 0.5 {
				return 0, boom
			}
			return tf, nil
		}
		_, err := optim.Sweep(ctx, obj, optim.SweepConfig{Lo: 0, Hi: 1, N: 8, Workers: 2}, nil)
		Expect(err).To(MatchError(boom))
	})
})
