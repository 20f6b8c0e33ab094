package sim_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/freefall/internal/dynamo"
	"github.com/san-kum/freefall/internal/sim"
)

var _ = Describe("Evaluator", func() {
	var (
		ctx  context.Context
		eval *sim.Evaluator
	)

	BeforeEach(func() {
		ctx = context.Background()
		eval = sim.NewEvaluator()
	})

	Context("with the reference scenario h=10, m=1", func() {
		var series *dynamo.Series

		BeforeEach(func() {
			var err error
			series, err = eval.Sample(ctx, dynamo.Scenario{Height: 10, Mass: 1}, dynamo.DefaultSamples)
			Expect(err).NotTo(HaveOccurred())
		})

		It("spans [0, t_max] with N samples", func() {
			Expect(series.Len()).To(Equal(dynamo.DefaultSamples))
			Expect(series.First().T).To(BeZero())
			Expect(series.Last().T).To(Equal(series.ImpactTime))
			Expect(series.ImpactTime).To(BeNumerically("~", 1.4286, 1e-4))
		})

		It("is evenly spaced", func() {
			times := series.Times()
			step := series.ImpactTime / float64(len(times)-1)
			for i := 1; i < len(times); i++ {
				Expect(times[i] - times[i-1]).To(BeNumerically("~", step, 1e-12))
			}
		})

		It("starts and ends at the expected energies", func() {
			Expect(series.First().Mechanical).To(BeNumerically("~", 98.0, 1e-9))
			Expect(series.First().Kinetic).To(BeZero())
			Expect(series.Last().Potential).To(BeNumerically("~", 0, 1e-9))
			Expect(series.Last().Mechanical).To(BeNumerically("~", 98.0, 1e-6))
		})

		It("keeps mechanical energy constant within 0.1%", func() {
			em0 := series.First().Mechanical
			for _, em := range series.Mechanical() {
				Expect(math.Abs(em-em0) / em0 * 100).To(BeNumerically("<", dynamo.ConservationTolerance))
			}
		})

		It("keeps the body above ground and falling", func() {
			ys := series.Positions()
			for i, y := range ys {
				Expect(y).To(BeNumerically(">=", 0))
				if i > 0 {
					Expect(y).To(BeNumerically("<=", ys[i-1]))
				}
			}
		})
	})

	It("handles a very small height", func() {
		series, err := eval.Sample(ctx, dynamo.Scenario{Height: 0.01, Mass: 1}, dynamo.DefaultSamples)
		Expect(err).NotTo(HaveOccurred())
		Expect(math.IsInf(series.ImpactTime, 0)).To(BeFalse())
		Expect(series.ImpactTime).To(BeNumerically(">", 0))
		Expect(series.Len()).To(BeNumerically(">", 0))
		for _, s := range series.Samples {
			Expect(s.IsValid()).To(BeTrue())
		}
	})

	DescribeTable("rejects invalid scenarios before computing",
		func(sc dynamo.Scenario) {
			series, err := eval.Sample(ctx, sc, dynamo.DefaultSamples)
			Expect(series).To(BeNil())
			Expect(errors.Is(err, dynamo.ErrRange)).To(BeTrue())
		},
		Entry("negative height", dynamo.Scenario{Height: -5, Mass: 1}),
		Entry("zero height", dynamo.Scenario{Height: 0, Mass: 1}),
		Entry("zero mass", dynamo.Scenario{Height: 10, Mass: 0}),
		Entry("NaN height", dynamo.Scenario{Height: math.NaN(), Mass: 1}),
	)

	It("requires at least two samples", func() {
		_, err := eval.Sample(ctx, dynamo.Scenario{Height: 1, Mass: 1}, 1)
		Expect(errors.Is(err, dynamo.ErrTooFewSamples)).To(BeTrue())
	})

	It("stops on a canceled context", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := eval.Sample(cctx, dynamo.Scenario{Height: 1, Mass: 1}, 10)
		Expect(err).To(MatchError(context.Canceled))
	})
})
