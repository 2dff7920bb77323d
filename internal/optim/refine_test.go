package optim_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/reactsim/internal/dynamo"
	"github.com/san-kum/reactsim/internal/optim"
)

var _ = Describe("RefineStep", func() {
	ctx := context.Background()

	It("finds the first step whose halving changes v by less than the margin", func() {
		res, err := optim.RefineStep(ctx, optim.DefaultStepConfig(), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Index).To(Equal(11))
		Expect(res.Dt).To(Equal(0.2 / 2048))
		Expect(res.Diff).To(BeNumerically("<", 1e-4))
		Expect(res.Attempts).To(HaveLen(12))

		for i := 1; i < len(res.Attempts); i++ {
			Expect(res.Attempts[i].Diff).To(BeNumerically("<", res.Attempts[i-1].Diff))
			Expect(res.Attempts[i].Dt).To(Equal(res.Attempts[i-1].Dt / 2))
		}
	})

	It("reports ErrNotConverged when the halving budget is too small", func() {
		cfg := optim.DefaultStepConfig()
		cfg.MaxHalvings = 4
		res, err := optim.RefineStep(ctx, cfg, nil)
		Expect(err).To(MatchError(dynamo.ErrNotConverged))
		Expect(res.Attempts).To(HaveLen(4))
	})

	It("passes integrator errors through", func() {
		cfg := optim.DefaultStepConfig()
		cfg.Dt0 = 5
		_, err := optim.RefineStep(ctx, cfg, nil)
		Expect(err).To(MatchError(dynamo.ErrInvalidArgument))
	})

	It("rejects a non-positive margin", func() {
		cfg := optim.DefaultStepConfig()
		cfg.Margin = 0
		_, err := optim.RefineStep(ctx, cfg, nil)
		Expect(err).To(MatchError(dynamo.ErrInvalidArgument))
	})
})
