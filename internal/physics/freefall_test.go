package physics_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/freefall/internal/dynamo"
	"github.com/san-kum/freefall/internal/physics"
)

var _ = Describe("closed-form free fall", func() {
	const eps = 1e-9

	DescribeTable("impact time is sqrt(2h/g)",
		func(h float64) {
			tMax := physics.ImpactTime(h)
			Expect(tMax).To(Equal(math.Sqrt(2 * h / dynamo.Gravity)))
			Expect(physics.Position(tMax, h)).To(BeNumerically("~", 0, eps*h))
			Expect(physics.Position(0, h)).To(Equal(h))
		},
		Entry("table", 0.8),
		Entry("ten meters", 10.0),
		Entry("tower", 120.0),
		Entry("tiny", 0.01),
	)

	It("matches the h=10, m=1 reference scenario", func() {
		tMax := physics.ImpactTime(10)
		Expect(tMax).To(BeNumerically("~", 1.4286, 1e-4))
		Expect(physics.MechanicalEnergy(0, 10, 1)).To(BeNumerically("~", 98.0, eps))
		Expect(physics.MechanicalEnergy(tMax, 10, 1)).To(BeNumerically("~", 98.0, 1e-6))
		Expect(physics.KineticEnergy(0, 1)).To(BeZero())
		Expect(physics.PotentialEnergy(tMax, 10, 1)).To(BeNumerically("~", 0, 1e-9))
	})

	It("never goes below ground", func() {
		Expect(physics.Position(10, 1)).To(BeZero())
		Expect(physics.PotentialEnergy(10, 1, 2)).To(BeZero())
	})

	It("is non-increasing in t", func() {
		h := 25.0
		tMax := physics.ImpactTime(h)
		prev := physics.Position(0, h)
		for i := 1; i <= 1000; i++ {
			y := physics.Position(tMax*float64(i)/1000, h)
			Expect(y).To(BeNumerically("<=", prev))
			prev = y
		}
	})

	It("points velocity downward", func() {
		Expect(physics.Velocity(0)).To(BeZero())
		Expect(physics.Velocity(2)).To(BeNumerically("~", -19.6, eps))
	})
})

var _ = Describe("FreeFall", func() {
	var ff *physics.FreeFall

	BeforeEach(func() {
		ff = physics.NewFreeFall(10, 2)
	})

	It("agrees with the package functions", func() {
		for _, t := range []float64{0, 0.3, 0.9, ff.ImpactTime()} {
			s := ff.At(t)
			Expect(s.Y).To(Equal(physics.Position(t, 10)))
			Expect(s.V).To(Equal(physics.Velocity(t)))
			Expect(s.Kinetic).To(Equal(physics.KineticEnergy(t, 2)))
			Expect(s.Potential).To(Equal(physics.PotentialEnergy(t, 10, 2)))
			Expect(s.Mechanical).To(BeNumerically("~", physics.MechanicalEnergy(t, 10, 2), 1e-12))
		}
	})

	It("reaches sqrt(2gh) at impact", func() {
		Expect(math.Abs(ff.Velocity(ff.ImpactTime()))).To(BeNumerically("~", ff.ImpactSpeed(), 1e-9))
	})

	It("derives constant acceleration", func() {
		dx := ff.Derive(dynamo.State{4, -3}, 0)
		Expect(dx).To(Equal(dynamo.State{-3, -dynamo.Gravity}))
	})

	It("reports energy from state", func() {
		Expect(ff.Energy(ff.InitialState())).To(BeNumerically("~", 2*dynamo.Gravity*10, 1e-9))
		Expect(ff.Landed(dynamo.State{0, -14})).To(BeTrue())
		Expect(ff.Landed(ff.InitialState())).To(BeFalse())
	})

	Describe("parameters", func() {
		It("updates known params", func() {
			Expect(ff.SetParam("gravity", 1.62)).To(Succeed())
			Expect(ff.GetParams()).To(HaveKeyWithValue("gravity", 1.62))
		})

		It("rejects non-positive values", func() {
			err := ff.SetParam("mass", -1)
			Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())
		})

		It("rejects unknown names", func() {
			Expect(ff.SetParam("length", 1)).To(HaveOccurred())
		})
	})
})
