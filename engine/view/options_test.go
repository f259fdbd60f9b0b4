package view

import "testing"

func TestNewOptions(t *testing.T) {
	cases := []struct {
		name    string
		caps    Capabilities
		tier    Tier
		msaa    bool
		samples int
		aa      AntiAliasing
		hdr     QualityLevel
		info    string
	}{
		{"vulkan", Capabilities{Vulkan: true}, TierAuto, true, 4, AntiAliasingFXAA, QualityMedium, "Vulkan-capable device, MSAA: true, AA: FXAA"},
		{"gl_only", Capabilities{}, TierAuto, false, 1, AntiAliasingNone, QualityLow, "OpenGL device, MSAA: false, AA: NONE"},
		{"forced_low", Capabilities{Vulkan: true}, TierLow, false, 1, AntiAliasingNone, QualityLow, "OpenGL device, MSAA: false, AA: NONE"},
		{"forced_high", Capabilities{}, TierHigh, true, 4, AntiAliasingFXAA, QualityMedium, "Vulkan-capable device, MSAA: true, AA: FXAA"},
		{"sample_cap", Capabilities{Vulkan: true, MaxSamples: 2}, TierAuto, true, 2, AntiAliasingFXAA, QualityMedium, "Vulkan-capable device, MSAA: true, AA: FXAA"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			o := NewOptions(c.caps, c.tier)
			if o.MSAA != c.msaa || o.MSAASamples != c.samples {
				t.Fatalf("MSAA=%v/%d, want %v/%d", o.MSAA, o.MSAASamples, c.msaa, c.samples)
			}
			if o.AntiAliasing != c.aa {
				t.Fatalf("AA=%v, want %v", o.AntiAliasing, c.aa)
			}
			if o.HDRColorBuffer != c.hdr {
				t.Fatalf("HDR=%v, want %v", o.HDRColorBuffer, c.hdr)
			}
			if got := o.String(); got != c.info {
				t.Fatalf("String() = %q, want %q", got, c.info)
			}
		})
	}
}

func TestOptionsExpensiveEffectsOff(t *testing.T) {
	o := NewOptions(Capabilities{Vulkan: true}, TierAuto)
	if o.Blend != BlendOpaque || o.DynamicResolution || o.AmbientOcclusion || o.Bloom ||
		o.ScreenSpaceReflect || o.TemporalAA || o.Fog || o.DepthOfField || o.Vignette {
		t.Fatalf("unexpected effect enabled: %+v", o)
	}
}
