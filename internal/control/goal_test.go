package control_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/diffdrive/internal/control"
	"github.com/san-kum/diffdrive/internal/pose"
)

const eps = 1e-9

var _ = Describe("GoalController", func() {
	var (
		gc     *control.GoalController
		origin pose.Pose
	)

	BeforeEach(func() {
		gc = control.NewGoalController()
		origin = pose.New(0, 0, 0)
	})

	Describe("defaults", func() {
		It("uses the standard gains and tolerances", func() {
			Expect(gc.KP).To(Equal(3.0))
			Expect(gc.KA).To(Equal(8.0))
			Expect(gc.KB).To(Equal(-1.5))
			Expect(gc.LinearTolerance).To(Equal(0.025))
			Expect(gc.AngularTolerance).To(BeNumerically("~", 3*math.Pi/180, eps))
			Expect(gc.ForwardMovementOnly).To(BeFalse())
			Expect(gc.MaxLinearSpeed).To(Equal(1e9))
			Expect(gc.MaxAngularSpeed).To(Equal(1e9))
			Expect(gc.MaxLinearAcceleration).To(Equal(1e9))
		})
	})

	Describe("Velocity", func() {
		It("drives straight at a goal directly ahead", func() {
			goal := pose.New(1, 0, 0)
			cmd := gc.Velocity(origin, &goal, 0.1)
			Expect(cmd.XVel).To(BeNumerically("~", 3, eps))
			Expect(cmd.ThetaVel).To(BeNumerically("~", 0, eps))
		})

		It("rotates in place when only the heading differs", func() {
			goal := pose.New(0, 0, math.Pi)
			cmd := gc.Velocity(origin, &goal, 0.1)
			Expect(cmd.XVel).To(Equal(0.0))
			Expect(cmd.ThetaVel).To(BeNumerically("~", 1.5*math.Pi, eps))
		})

		It("turns around for a goal behind when forward only", func() {
			gc.SetForwardMovementOnly(true)
			goal := pose.New(-1, 0, 0)
			cmd := gc.Velocity(origin, &goal, 0.1)
			Expect(cmd.XVel).To(BeNumerically("~", 3, eps))
			Expect(cmd.ThetaVel).To(BeNumerically("~", 9.5*math.Pi, eps))
		})

		It("reverses toward a goal behind when bidirectional", func() {
			goal := pose.New(-1, 0, 0)
			cmd := gc.Velocity(origin, &goal, 0.1)
			Expect(cmd.XVel).To(BeNumerically("~", -3, eps))
			Expect(cmd.ThetaVel).To(BeNumerically("~", 0, eps))
		})

		It("returns a zero command without a goal", func() {
			cmd := gc.Velocity(pose.New(4, -2, 1), nil, 0.1)
			Expect(cmd).To(Equal(pose.Pose{}))
		})

		It("sets only the velocity fields", func() {
			goal := pose.New(2, 1, 0.5)
			cmd := gc.Velocity(pose.New(0.3, 0.2, 0.1), &goal, 0.1)
			Expect(cmd.X).To(BeZero())
			Expect(cmd.Y).To(BeZero())
			Expect(cmd.Theta).To(BeZero())
		})

		It("ignores dT", func() {
			goal := pose.New(1.5, -0.7, 2)
			cur := pose.New(0.1, 0.4, -1)
			Expect(gc.Velocity(cur, &goal, 0)).To(Equal(gc.Velocity(cur, &goal, 5)))
		})

		It("does not apply the speed limits", func() {
			gc.SetMaxLinearSpeed(0.1)
			gc.SetMaxAngularSpeed(0.1)
			goal := pose.New(1, 0, 0)
			Expect(gc.Velocity(origin, &goal, 0.1).XVel).To(BeNumerically("~", 3, eps))
		})

		It("matches the pure function", func() {
			gc.SetConstants(1, 4, -0.5)
			goal := pose.New(-0.4, 2, -1)
			cur := pose.New(1, 1, 0.7)
			Expect(gc.Velocity(cur, &goal, 0.1)).To(Equal(control.Compute(gc.Params, cur, &goal, 0.1)))
		})

		DescribeTable("bounds the normalized angles for any goal",
			func(forward bool, gx, gy, gth float64) {
				gc.SetForwardMovementOnly(forward)
				gc.SetConstants(0, 1, 0)
				goal := pose.New(gx, gy, gth)
				a := gc.Velocity(origin, &goal, 0).ThetaVel
				limit := math.Pi / 2
				if forward {
					limit = math.Pi
				}
				Expect(math.Abs(a)).To(BeNumerically("<=", limit))
			},
			Entry("left, bidirectional", false, 0.0, 1.0, 0.0),
			Entry("behind left, bidirectional", false, -1.0, 0.2, 0.0),
			Entry("behind right, bidirectional", false, -1.0, -0.2, 0.0),
			Entry("behind left, forward", true, -1.0, 0.2, 0.0),
			Entry("behind right, forward", true, -1.0, -0.2, 0.0),
		)
	})

	Describe("setters", func() {
		It("replaces the configuration", func() {
			gc.SetConstants(1, 2, -3)
			gc.SetMaxLinearSpeed(0.5)
			gc.SetMaxAngularSpeed(1.5)
			gc.SetMaxLinearAcceleration(0.25)
			gc.SetLinearTolerance(0.1)
			gc.SetAngularTolerance(0.2)
			gc.SetForwardMovementOnly(true)

			Expect(gc.Params).To(Equal(control.Params{
				KP: 1, KA: 2, KB: -3,
				MaxLinearSpeed:        0.5,
				MaxAngularSpeed:       1.5,
				MaxLinearAcceleration: 0.25,
				LinearTolerance:       0.1,
				AngularTolerance:      0.2,
				ForwardMovementOnly:   true,
			}))
		})

		It("takes the linear tolerance into account", func() {
			gc.SetLinearTolerance(2)
			goal := pose.New(1, 0, 0)
			Expect(gc.Velocity(origin, &goal, 0.1).XVel).To(BeZero())
		})
	})

	Describe("GoalDistance", func() {
		It("is Euclidean", func() {
			goal := pose.New(3, 4, 1)
			Expect(gc.GoalDistance(origin, &goal)).To(BeNumerically("~", 5, eps))
		})

		It("is zero without a goal", func() {
			Expect(gc.GoalDistance(pose.New(3, 4, 0), nil)).To(BeZero())
		})
	})

	Describe("AtGoal", func() {
		It("holds at the goal itself", func() {
			g := pose.New(1.2, -3.4, 0.5)
			Expect(gc.AtGoal(g, &g)).To(BeTrue())
		})

		It("holds without a goal", func() {
			Expect(gc.AtGoal(pose.New(9, 9, 9), nil)).To(BeTrue())
		})

		It("requires both tolerances", func() {
			goal := pose.New(0, 0, 0)
			Expect(gc.AtGoal(pose.New(0.01, 0, 0.01), &goal)).To(BeTrue())
			Expect(gc.AtGoal(pose.New(0.03, 0, 0), &goal)).To(BeFalse())
			Expect(gc.AtGoal(pose.New(0, 0, 0.1), &goal)).To(BeFalse())
		})

		It("uses strict comparisons", func() {
			gc.SetLinearTolerance(1)
			goal := pose.New(1, 0, 0)
			Expect(gc.AtGoal(origin, &goal)).To(BeFalse())
		})

		It("does not wrap the heading difference", func() {
			goal := pose.New(0, 0, 0)
			Expect(gc.AtGoal(pose.New(0, 0, 2*math.Pi), &goal)).To(BeFalse())
		})
	})

	Describe("parameters", func() {
		It("reports every tunable by name", func() {
			params := gc.GetParams()
			Expect(params).To(HaveLen(len(control.ParamNames())))
			Expect(params).To(HaveKeyWithValue(control.ParamKP, 3.0))
			Expect(params).To(HaveKeyWithValue(control.ParamForwardOnly, 0.0))
		})

		It("adjusts by name", func() {
			Expect(gc.SetParam(control.ParamKA, 5)).To(Succeed())
			Expect(gc.SetParam(control.ParamForwardOnly, 1)).To(Succeed())
			Expect(gc.KA).To(Equal(5.0))
			Expect(gc.ForwardMovementOnly).To(BeTrue())
			Expect(gc.GetParams()).To(HaveKeyWithValue(control.ParamForwardOnly, 1.0))
		})

		It("rejects unknown names", func() {
			err := gc.SetParam("kd", 1)
			Expect(errors.Is(err, control.ErrUnknownParam)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("kd"))
		})

		It("lists names sorted", func() {
			names := control.ParamNames()
			Expect(names).To(HaveLen(9))
			Expect(names[0]).To(Equal(control.ParamAngularTolerance))
		})
	})
})
