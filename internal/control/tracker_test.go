package control_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/diffdrive/internal/control"
	"github.com/san-kum/diffdrive/internal/dynamo"
	"github.com/san-kum/diffdrive/internal/integrators"
	"github.com/san-kum/diffdrive/internal/logging"
	"github.com/san-kum/diffdrive/internal/models"
	"github.com/san-kum/diffdrive/internal/pose"
)

var _ = Describe("Tracker", func() {
	It("emits the controller command as [v, w]", func() {
		goal := pose.New(1, 0, 0)
		tr := control.NewTracker(control.NewGoalController(), &goal, false)

		u := tr.Compute(dynamo.State{0, 0, 0}, 0)
		Expect(u).To(HaveLen(2))
		Expect(u[0]).To(BeNumerically("~", 3, eps))
		Expect(u[1]).To(BeNumerically("~", 0, eps))
		Expect(tr.Last().XVel).To(Equal(u[0]))
	})

	It("copies the goal", func() {
		goal := pose.New(1, 0, 0)
		tr := control.NewTracker(control.NewGoalController(), &goal, false)
		goal.X = 5
		Expect(tr.Goal().X).To(Equal(1.0))
	})

	It("uses the period first, then the elapsed time", func() {
		gc := control.NewGoalController()
		gc.SetMaxLinearAcceleration(1)
		goal := pose.New(10, 0, 0)
		tr := control.NewTracker(gc, &goal, true)
		tr.SetPeriod(0.1)
		Expect(tr.Limited()).To(BeTrue())

		Expect(tr.Compute(dynamo.State{0, 0, 0}, 0)[0]).To(BeNumerically("~", 0.1, eps))
		Expect(tr.Compute(dynamo.State{0, 0, 0}, 0.5)[0]).To(BeNumerically("~", 0.6, eps))

		tr.Reset()
		Expect(tr.Last()).To(Equal(pose.Pose{}))
		Expect(tr.Compute(dynamo.State{0, 0, 0}, 3)[0]).To(BeNumerically("~", 0.1, eps))
	})

	It("is done at the goal and reports distance", func() {
		goal := pose.New(3, 4, 0)
		tr := control.NewTracker(control.NewGoalController(), &goal, false)
		Expect(tr.Distance(dynamo.State{0, 0, 0})).To(BeNumerically("~", 5, eps))
		Expect(tr.Done(dynamo.State{0, 0, 0})).To(BeFalse())
		Expect(tr.Done(dynamo.State{3, 4, 0})).To(BeTrue())
	})

	It("holds still without a goal", func() {
		tr := control.NewTracker(control.NewGoalController(), nil, false)
		Expect(tr.Compute(dynamo.State{1, 2, 3}, 0)).To(Equal(dynamo.Control{0, 0}))
		Expect(tr.Done(dynamo.State{1, 2, 3})).To(BeTrue())
	})

	It("forwards parameters to the controller", func() {
		gc := control.NewGoalController()
		tr := control.NewTracker(gc, nil, false)
		Expect(tr.SetParam(control.ParamKP, 1)).To(Succeed())
		Expect(gc.KP).To(Equal(1.0))
		Expect(tr.GetParams()).To(HaveKeyWithValue(control.ParamKP, 1.0))
		Expect(tr.Controller()).To(BeIdenticalTo(gc))
	})

	Context("in closed loop", func() {
		run := func(goal pose.Pose, forward, limit bool) *dynamo.Result {
			gc := control.NewGoalController()
			gc.SetForwardMovementOnly(forward)
			if limit {
				gc.SetMaxLinearSpeed(0.5)
				gc.SetMaxAngularSpeed(2)
				gc.SetMaxLinearAcceleration(1)
			}
			tr := control.NewTracker(gc, &goal, limit)

			cfg := dynamo.DefaultConfig()
			tr.SetPeriod(cfg.Dt)

			sim := dynamo.New(models.NewUnicycle(), integrators.NewRK4(), tr)
			sim.SetLogger(logging.NewNop())
			res, err := sim.Run(context.Background(), dynamo.State{0, 0, 0}, cfg)
			Expect(err).NotTo(HaveOccurred())
			return res
		}

		It("reaches a goal straight ahead", func() {
			res := run(pose.New(1, 0, 0), false, false)
			Expect(res.Reached).To(BeTrue())
			Expect(res.Final()[0]).To(BeNumerically("~", 1, 0.025))
		})

		It("rotates into a goal heading", func() {
			res := run(pose.New(0, 0, math.Pi/2), false, false)
			Expect(res.Reached).To(BeTrue())
			Expect(res.Final()[2]).To(BeNumerically("~", math.Pi/2, 3*math.Pi/180))
		})

		It("backs into a goal behind", func() {
			res := run(pose.New(-1, 0, 0), false, false)
			Expect(res.Reached).To(BeTrue())
			for _, u := range res.Controls {
				Expect(u[0]).To(BeNumerically("<=", 0))
			}
		})

		It("closes in on an offset goal under limits", func() {
			res := run(pose.New(1, 1, 0), false, true)
			final := pose.FromSlice(res.Final())
			Expect(final.DistanceTo(pose.New(1, 1, 0))).To(BeNumerically("<", 0.2))
			for _, u := range res.Controls {
				Expect(math.Abs(u[0])).To(BeNumerically("<=", 0.5+eps))
				Expect(math.Abs(u[1])).To(BeNumerically("<=", 2+eps))
			}
		})
	})
})

var _ = Describe("Hold", func() {
	It("repeats its command", func() {
		h := control.NewHold(0.5, -0.1)
		Expect(h.Compute(dynamo.State{1, 2, 3}, 0)).To(Equal(dynamo.Control{0.5, -0.1}))
		Expect(h.SetParam("w", 0.2)).To(Succeed())
		Expect(h.Compute(nil, 1)).To(Equal(dynamo.Control{0.5, 0.2}))
		err := h.SetParam("kp", 1)
		Expect(err).To(MatchError(control.ErrUnknownParam))
		Expect(err.Error()).To(ContainSubstring(`"kp"`))
		Expect(h.GetParams()).To(HaveKeyWithValue("v", 0.5))
	})
})
