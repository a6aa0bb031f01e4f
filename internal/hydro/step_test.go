package hydro_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/hydrosim/internal/hydro"
)

func mustApparatus(bigH, smallH float64, k hydro.Constants) *hydro.Apparatus {
	big, err := hydro.NewContainer(-0.75, -0.5, 0.5, bigH)
	Expect(err).NotTo(HaveOccurred())
	small, err := hydro.NewContainer(0.5, -0.5, 0.25, smallH)
	Expect(err).NotTo(HaveOccurred())
	a, err := hydro.New(big, small, k)
	Expect(err).NotTo(HaveOccurred())
	return a
}

var _ = Describe("Apparatus.Step", func() {
	var a *hydro.Apparatus

	Context("when the pressures already match", func() {
		BeforeEach(func() {
			a = hydro.NewClassic()
		})

		It("leaves equal columns untouched", func() {
			big, small := a.Big, a.Small
			Expect(a.Step()).To(Equal(hydro.Balanced))
			Expect(a.Big).To(Equal(big))
			Expect(a.Small).To(Equal(small))
		})

		It("stays put when applied pressure makes up the difference", func() {
			// Powers of two keep every product exact.
			a = mustApparatus(0.25, 0.75, hydro.Constants{Density: 1, Gravity: 8})
			a.Applied = 4

			big, small := a.Big, a.Small
			for i := 0; i < 1000; i++ {
				Expect(a.Step()).To(Equal(hydro.Balanced))
			}
			Expect(a.Big).To(Equal(big))
			Expect(a.Small).To(Equal(small))
		})
	})

	Context("when the piston pushes down", func() {
		BeforeEach(func() {
			a = hydro.NewClassic()
			a.Applied = 1.0
		})

		It("moves both sides by the same amount in opposite directions", func() {
			Expect(a.Step()).To(Equal(hydro.Moved))

			bigDrop := 0.5 - a.Big.Height
			smallRise := a.Small.Height - 0.5
			Expect(bigDrop).To(BeNumerically(">", 0))
			Expect(smallRise).To(BeNumerically("~", bigDrop, 1e-9))

			// Half the level implied by the applied pressure.
			Expect(bigDrop).To(BeNumerically("~", 1.0/9.8/2, 1e-9))
		})

		It("moves the top edges with the columns", func() {
			a.Step()
			Expect(a.Big.TopLeft.Y).To(BeNumerically("~", a.Big.BottomLeft.Y+a.Big.Height, 1e-12))
			Expect(a.Big.TopRight.Y).To(Equal(a.Big.TopLeft.Y))
			Expect(a.Small.TopLeft.Y).To(BeNumerically("~", a.Small.BottomLeft.Y+a.Small.Height, 1e-12))
			Expect(a.Small.TopRight.Y).To(Equal(a.Small.TopLeft.Y))
		})

		It("keeps the bottom corners fixed", func() {
			bl, br := a.Big.BottomLeft, a.Small.BottomRight
			a.Step()
			Expect(a.Big.BottomLeft).To(Equal(bl))
			Expect(a.Small.BottomRight).To(Equal(br))
		})
	})

	Context("with no applied pressure", func() {
		It("converges the levels without going negative", func() {
			a = mustApparatus(0.9, 0.1, hydro.DefaultConstants())

			gap := math.Abs(a.LevelGap())
			for i := 0; i < 200; i++ {
				a.Step()
				next := math.Abs(a.LevelGap())
				Expect(next).To(BeNumerically("<=", gap+1e-12))
				Expect(a.Big.Height).To(BeNumerically(">=", 0))
				Expect(a.Small.Height).To(BeNumerically(">=", 0))
				gap = next
			}
			Expect(gap).To(BeNumerically("<", 1e-9))
			Expect(a.Big.Height).To(BeNumerically("~", 0.5, 1e-9))
		})
	})

	DescribeTable("underflow guard",
		func(applied float64) {
			a = hydro.NewClassic()
			a.Applied = applied
			big, small := a.Big, a.Small

			Expect(a.Step()).To(Equal(hydro.Drained))
			Expect(a.Big).To(Equal(big))
			Expect(a.Small).To(Equal(small))
			Expect(a.Applied).To(Equal(applied))
		},
		Entry("small side would drain", -20.0),
		Entry("big side would drain", 20.0),
	)

	Context("with a tolerance", func() {
		BeforeEach(func() {
			a = hydro.NewClassic()
			Expect(a.SetTolerance(0.05)).To(Succeed())
		})

		It("treats near-equal pressures as balanced", func() {
			a.Applied = 0.04
			Expect(a.Step()).To(Equal(hydro.Balanced))
		})

		It("still moves outside the band", func() {
			a.Applied = 0.2
			Expect(a.Step()).To(Equal(hydro.Moved))
		})

		It("rejects negative tolerances", func() {
			Expect(a.SetTolerance(-1)).To(MatchError(hydro.ErrInvalidTolerance))
		})
	})
})

var _ = Describe("Apparatus", func() {
	It("rejects bad constants", func() {
		big, _ := hydro.NewContainer(0, 0, 1, 1)
		_, err := hydro.New(big, big, hydro.Constants{Density: 0, Gravity: 9.8})
		Expect(err).To(MatchError(hydro.ErrInvalidConstants))
	})

	It("rejects bad containers", func() {
		_, err := hydro.NewContainer(0, 0, 0, 1)
		Expect(err).To(MatchError(hydro.ErrInvalidContainer))
		_, err = hydro.NewContainer(0, 0, 1, -0.1)
		Expect(err).To(MatchError(hydro.ErrInvalidContainer))
	})

	It("derives pressures from heights", func() {
		a := hydro.NewClassic()
		Expect(a.Big.Pressure).To(BeNumerically("~", 4.9, 1e-12))
		Expect(a.Small.Pressure).To(BeNumerically("~", 4.9, 1e-12))
	})

	It("resets to the construction-time state", func() {
		a := hydro.NewClassic()
		a.SetApplied(0.3)
		initial := a.Snapshot()

		a.Apply(hydro.Increase())
		for i := 0; i < 10; i++ {
			a.Step()
		}
		Expect(a.Snapshot()).NotTo(Equal(initial))

		a.Reset()
		Expect(a.Snapshot()).To(Equal(initial))
	})

	It("consumes pressure events", func() {
		a := hydro.NewClassic()
		a.ApplyAll(hydro.Presses(3))
		Expect(a.Applied).To(BeNumerically("~", 0.3, 1e-12))
		a.ApplyAll(hydro.Presses(-5))
		Expect(a.Applied).To(BeNumerically("~", -0.2, 1e-12))
		Expect(hydro.Presses(0)).To(BeEmpty())
	})
})

var _ = Describe("Scene", func() {
	It("joins the containers along the floor", func() {
		s := hydro.NewClassic().Scene()

		minX, minY, maxX, maxY := s.Tube.Bounds()
		Expect(minX).To(Equal(-0.25))
		Expect(maxX).To(Equal(0.5))
		Expect(minY).To(Equal(-0.5))
		Expect(maxY).To(BeNumerically("~", -0.48, 1e-12))
	})

	It("rests the piston on the big column", func() {
		a := hydro.NewClassic()
		a.Applied = 1
		a.Step()
		s := a.Scene()

		_, minY, _, maxY := s.PistonPlate.Bounds()
		Expect(minY).To(Equal(a.Big.TopLeft.Y))
		Expect(maxY).To(BeNumerically("~", a.Big.TopLeft.Y+0.1, 1e-12))

		minX, _, maxX, top := s.PistonRod.Bounds()
		Expect(top).To(Equal(1.0))
		Expect((minX + maxX) / 2).To(BeNumerically("~", -0.5, 1e-12))
	})
})

var _ = Describe("Outcome", func() {
	It("names each outcome", func() {
		Expect(hydro.Moved.String()).To(Equal("moved"))
		Expect(hydro.Balanced.String()).To(Equal("balanced"))
		Expect(hydro.Drained.String()).To(Equal("drained"))
		Expect(hydro.Outcome(42).String()).To(Equal("unknown"))
	})
})
