package resolve_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/kinetic/internal/capability"
	"github.com/san-kum/kinetic/internal/resolve"
)

var allTiers = []capability.Tier{
	capability.TierMinimal,
	capability.TierLow,
	capability.TierMedium,
	capability.TierHigh,
	capability.TierUltra,
}

var allComplexities = []resolve.Complexity{
	resolve.None,
	resolve.Minimal,
	resolve.Basic,
	resolve.Standard,
	resolve.Enhanced,
	resolve.Complex,
}

func baseRequest() resolve.Request {
	return resolve.Request{
		Keyframes:           "float-up",
		Complexity:          resolve.Complex,
		Duration:            time.Second,
		Easing:              "ease-out",
		Iterations:          1,
		Properties:          []string{"transform", "opacity"},
		AdaptToCapabilities: true,
		Essential:           true,
	}
}

var _ = Describe("Resolve", func() {
	Describe("complexity de-escalation", func() {
		It("never resolves above the requested complexity", func() {
			for _, tier := range allTiers {
				for _, c := range allComplexities {
					req := baseRequest()
					req.Complexity = c
					got := resolve.Resolve(req, tier, 0, false)
					Expect(got.Complexity).To(BeNumerically("<=", c),
						"tier %v, requested %v", tier, c)
				}
			}
		})

		It("caps complexity by tier", func() {
			req := baseRequest()
			Expect(resolve.Resolve(req, capability.TierUltra, 0, false).Complexity).To(Equal(resolve.Complex))
			Expect(resolve.Resolve(req, capability.TierHigh, 0, false).Complexity).To(Equal(resolve.Enhanced))
			Expect(resolve.Resolve(req, capability.TierMedium, 0, false).Complexity).To(Equal(resolve.Standard))
			Expect(resolve.Resolve(req, capability.TierLow, 0, false).Complexity).To(Equal(resolve.Basic))
			Expect(resolve.Resolve(req, capability.TierMinimal, 0, false).Complexity).To(Equal(resolve.Minimal))
		})

		It("treats a none request as a no-op at every tier", func() {
			req := baseRequest()
			req.Complexity = resolve.None
			for _, tier := range allTiers {
				Expect(resolve.Resolve(req, tier, 0, false).NoOp()).To(BeTrue())
			}
		})
	})

	Describe("optimization level", func() {
		It("forces one lower bucket per level, floored at minimal", func() {
			req := baseRequest()
			Expect(resolve.Resolve(req, capability.TierUltra, 1, false).Complexity).To(Equal(resolve.Enhanced))
			Expect(resolve.Resolve(req, capability.TierUltra, 3, false).Complexity).To(Equal(resolve.Basic))
			Expect(resolve.Resolve(req, capability.TierUltra, 99, false).Complexity).To(Equal(resolve.Minimal))
		})

		It("applies after tier resolution", func() {
			req := baseRequest()
			got := resolve.Resolve(req, capability.TierMedium, 1, false)
			Expect(got.Complexity).To(Equal(resolve.Basic))
		})
	})

	Describe("duration scaling", func() {
		It("shortens animations on weak tiers", func() {
			req := baseRequest()
			req.Complexity = resolve.Basic
			Expect(resolve.Resolve(req, capability.TierLow, 0, false).Duration).To(Equal(800 * time.Millisecond))
			Expect(resolve.Resolve(req, capability.TierMedium, 0, false).Duration).To(Equal(time.Second))
		})

		It("applies the 0.9 factor for enhanced and complex results", func() {
			req := baseRequest()
			Expect(resolve.Resolve(req, capability.TierUltra, 0, false).Duration).To(Equal(900 * time.Millisecond))
			Expect(resolve.Resolve(req, capability.TierHigh, 0, false).Duration).To(Equal(900 * time.Millisecond))
		})
	})

	Describe("reduced motion", func() {
		It("substitutes the fallback and forces minimal at every tier and level", func() {
			req := baseRequest()
			req.ReducedMotionFallback = "fade-only"
			for _, tier := range allTiers {
				for _, level := range []int{0, 2, 5} {
					got := resolve.Resolve(req, tier, level, true)
					Expect(got.Keyframes).To(Equal("fade-only"))
					Expect(got.Complexity).To(Equal(resolve.Minimal))
				}
			}
		})

		It("keeps the primary keyframes when no fallback is supplied", func() {
			req := baseRequest()
			got := resolve.Resolve(req, capability.TierUltra, 0, true)
			Expect(got.Keyframes).To(Equal("float-up"))
			Expect(got.Complexity).To(Equal(resolve.Minimal))
		})
	})

	Describe("minimal tier", func() {
		It("suppresses non-essential animations entirely", func() {
			req := baseRequest()
			req.Essential = false
			got := resolve.Resolve(req, capability.TierMinimal, 0, false)
			Expect(got.NoOp()).To(BeTrue())
			Expect(got.Keyframes).To(BeEmpty())
		})

		It("keeps essential animations, simplified", func() {
			req := baseRequest()
			got := resolve.Resolve(req, capability.TierMinimal, 0, false)
			Expect(got.NoOp()).To(BeFalse())
			Expect(got.Complexity).To(Equal(resolve.Minimal))
		})

		It("substitutes the low-capability fallback", func() {
			req := baseRequest()
			req.Complexity = resolve.Standard
			req.LowCapabilityFallback = "simple-slide"
			Expect(resolve.Resolve(req, capability.TierLow, 0, false).Keyframes).To(Equal("simple-slide"))
			Expect(resolve.Resolve(req, capability.TierMedium, 0, false).Keyframes).To(Equal("float-up"))
		})
	})

	Describe("GPU hints", func() {
		It("promotes transform animations", func() {
			req := baseRequest()
			got := resolve.Resolve(req, capability.TierHigh, 0, false)
			Expect(got.UseGPU).To(BeTrue())
			Expect(got.WillChange).To(Equal("transform"))
		})

		It("leaves opacity-only animations repaint-optimized", func() {
			req := baseRequest()
			req.Properties = []string{"opacity"}
			got := resolve.Resolve(req, capability.TierHigh, 0, false)
			Expect(got.UseGPU).To(BeFalse())
			Expect(got.WillChange).To(BeEmpty())
		})

		It("drops hints on minimal tier unless GPU is forced", func() {
			req := baseRequest()
			got := resolve.Resolve(req, capability.TierMinimal, 0, false)
			Expect(got.UseGPU).To(BeFalse())

			req.ForceGPU = true
			req.Complexity = resolve.Basic
			got = resolve.Resolve(req, capability.TierMinimal, 0, false)
			// Still minimal complexity after the tier ceiling, so no hints.
			Expect(got.UseGPU).To(BeFalse())
		})
	})

	Describe("non-adaptive requests", func() {
		It("ignores tier and optimization level", func() {
			req := baseRequest()
			req.AdaptToCapabilities = false
			got := resolve.Resolve(req, capability.TierLow, 3, false)
			Expect(got.Complexity).To(Equal(resolve.Complex))
			Expect(got.Duration).To(Equal(900 * time.Millisecond))
		})
	})
})
