package clutch_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/motorclutch/clutch"
)

var _ = Describe("Grow", func() {
	var (
		cfg clutch.Config
		s   *clutch.State
	)

	BeforeEach(func() {
		cfg = clutch.DefaultConfig()
		cfg.NC0 = 4
		cfg.IntegrinEngage = 0.3
		s = clutch.NewState(cfg)
	})

	It("should compute the target count with floor", func() {
		Expect(clutch.TargetClutchCount(cfg, 0)).To(Equal(4))
		Expect(clutch.TargetClutchCount(cfg, 3)).To(Equal(4))
		Expect(clutch.TargetClutchCount(cfg, 3.4)).To(Equal(5))
		Expect(clutch.TargetClutchCount(cfg, 10)).To(Equal(7))
	})

	It("should saturate instead of overflowing", func() {
		cfg.IntegrinEngage = 1e300

		Expect(clutch.TargetClutchCount(cfg, 1e10)).To(Equal(clutch.MaxClutchCount))
		Expect(clutch.TargetClutchCount(cfg, math.Inf(1))).
			To(Equal(clutch.MaxClutchCount))
	})

	It("should reject engagement rates that outgrow the ensemble limit", func() {
		cfg.IntegrinEngage = 1

		Expect(cfg.ValidateHorizon(1000)).To(Succeed())

		err := cfg.ValidateHorizon(2 * clutch.MaxClutchCount)

		Expect(err).To(MatchError(clutch.ErrInvalidConfig))
		Expect(err).To(MatchError(ContainSubstring("integrin_engage")))
	})

	It("should not grow before the target is reached", func() {
		s.ElapsedTime = 3

		Expect(clutch.Grow(s, cfg)).To(Equal(0))
		Expect(s.ClutchCount).To(Equal(4))
	})

	It("should append defaults and keep existing clutches", func() {
		s.Bound[1] = false
		s.Force[0] = 0.5
		s.Displacement[0] = 0.6
		s.Deflection[0] = 0.1
		s.BindingProbability[0] = 0.3
		s.ElapsedTime = 10

		Expect(clutch.Grow(s, cfg)).To(Equal(3))

		Expect(s.ClutchCount).To(Equal(7))
		Expect(s.CheckInvariants()).To(Succeed())
		Expect(s.Bound[:4]).To(Equal([]bool{true, false, true, true}))
		Expect(s.Force[0]).To(Equal(0.5))
		Expect(s.BindingProbability[0]).To(Equal(0.3))
		for i := 4; i < 7; i++ {
			Expect(s.Bound[i]).To(BeTrue())
			Expect(s.BindingProbability[i]).To(Equal(cfg.EquilibriumProbability()))
			Expect(s.Force[i]).To(BeZero())
			Expect(s.Displacement[i]).To(BeZero())
			Expect(s.Deflection[i]).To(BeZero())
		}
	})

	It("should be idempotent within a tick", func() {
		s.ElapsedTime = 10

		clutch.Grow(s, cfg)
		Expect(clutch.Grow(s, cfg)).To(Equal(0))
		Expect(s.ClutchCount).To(Equal(7))
	})

	It("should never shrink", func() {
		s.ElapsedTime = 10
		clutch.Grow(s, cfg)

		s.ElapsedTime = 0
		Expect(clutch.Grow(s, cfg)).To(Equal(0))
		Expect(s.ClutchCount).To(Equal(7))
	})
})
