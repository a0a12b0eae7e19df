package control_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/diffdrive/internal/control"
	"github.com/san-kum/diffdrive/internal/pose"
)

var _ = Describe("Limiter", func() {
	var (
		p   control.Params
		lim *control.Limiter
	)

	BeforeEach(func() {
		p = control.DefaultParams()
		p.MaxLinearSpeed = 1
		p.MaxAngularSpeed = 2
		p.MaxLinearAcceleration = 0.5
		lim = control.NewLimiter()
	})

	It("clamps both speeds", func() {
		out := lim.Limit(p, pose.Command(3, -5), 0)
		Expect(out.XVel).To(Equal(1.0))
		Expect(out.ThetaVel).To(Equal(-2.0))

		out = lim.Limit(p, pose.Command(-3, 5), 0)
		Expect(out.XVel).To(Equal(-1.0))
		Expect(out.ThetaVel).To(Equal(2.0))
	})

	It("passes commands inside the limits", func() {
		out := lim.Limit(p, pose.Command(0.2, -0.3), 0)
		Expect(out).To(Equal(pose.Command(0.2, -0.3)))
	})

	It("starts from rest when bounding acceleration", func() {
		out := lim.Limit(p, pose.Command(1, 0), 1)
		Expect(out.XVel).To(BeNumerically("~", 0.5, eps))
	})

	It("bounds the change from the previous command", func() {
		lim.Limit(p, pose.Command(1, 0), 1)
		Expect(lim.Limit(p, pose.Command(1, 0), 1).XVel).To(BeNumerically("~", 1, eps))
		Expect(lim.Limit(p, pose.Command(-1, 0), 1).XVel).To(BeNumerically("~", 0.5, eps))
		Expect(lim.Last().XVel).To(BeNumerically("~", 0.5, eps))
	})

	It("skips the acceleration bound for non-positive dT", func() {
		Expect(lim.Limit(p, pose.Command(1, 0), 0).XVel).To(Equal(1.0))
		Expect(lim.Limit(p, pose.Command(-1, 0), -1).XVel).To(Equal(-1.0))
	})

	It("forgets the previous command on Reset", func() {
		lim.Limit(p, pose.Command(1, 0), 0)
		lim.Reset()
		Expect(lim.Last()).To(Equal(pose.Pose{}))
		Expect(lim.Limit(p, pose.Command(1, 0), 1).XVel).To(BeNumerically("~", 0.5, eps))
	})

	It("leaves angular speed free of the acceleration bound", func() {
		out := lim.Limit(p, pose.Command(0, 2), 0.01)
		Expect(out.ThetaVel).To(Equal(2.0))
	})
})

var _ = Describe("Limited", func() {
	It("limits the raw law", func() {
		gc := control.NewGoalController()
		gc.SetMaxLinearSpeed(0.5)
		gc.SetMaxAngularSpeed(1)
		gc.SetMaxLinearAcceleration(1)
		lc := control.NewLimited(gc)

		goal := pose.New(1, 0, 0)
		origin := pose.New(0, 0, 0)

		first := lc.Velocity(origin, &goal, 0.1)
		Expect(first.XVel).To(BeNumerically("~", 0.1, eps))

		second := lc.Velocity(origin, &goal, 10)
		Expect(second.XVel).To(BeNumerically("~", 0.5, eps))

		lc.Reset()
		Expect(lc.Velocity(origin, &goal, 0.1).XVel).To(BeNumerically("~", 0.1, eps))
	})

	It("clamps a large turn", func() {
		gc := control.NewGoalController()
		gc.SetMaxAngularSpeed(1)
		lc := control.NewLimited(gc)

		goal := pose.New(0, 0, 3)
		out := lc.Velocity(pose.New(0, 0, 0), &goal, 0.1)
		Expect(out.ThetaVel).To(Equal(1.0))
		Expect(out.XVel).To(BeZero())
	})
})
