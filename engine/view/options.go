// Package view holds the rendering-quality settings of the viewer.
//
// Options are computed once from the detected device capabilities and never
// mutated afterwards; the renderer reads them when it is created.
package view

import "fmt"

// Capabilities describes what the device graphics stack offers.
type Capabilities struct {
	Vulkan     bool
	Vendor     string
	Renderer   string
	Version    string
	MaxSamples int
}

type QualityLevel int

const (
	QualityLow QualityLevel = iota
	QualityMedium
	QualityHigh
	QualityUltra
)

func (q QualityLevel) String() string {
	switch q {
	case QualityLow:
		return "LOW"
	case QualityMedium:
		return "MEDIUM"
	case QualityHigh:
		return "HIGH"
	case QualityUltra:
		return "ULTRA"
	}
	return fmt.Sprintf("QualityLevel(%d)", int(q))
}

type AntiAliasing int

const (
	AntiAliasingNone AntiAliasing = iota
	AntiAliasingFXAA
)

func (a AntiAliasing) String() string {
	if a == AntiAliasingFXAA {
		return "FXAA"
	}
	return "NONE"
}

type BlendMode int

const (
	BlendOpaque BlendMode = iota
	BlendTranslucent
)

// Tier selects a quality preset regardless of the detected device.
type Tier string

const (
	TierAuto Tier = "auto"
	TierHigh Tier = "high"
	TierLow  Tier = "low"
)

// Options is the immutable set of rendering-quality flags.
type Options struct {
	highTier bool

	Blend              BlendMode
	HDRColorBuffer     QualityLevel
	DynamicResolution  bool
	DynamicQuality     QualityLevel
	MSAA               bool
	MSAASamples        int
	AntiAliasing       AntiAliasing
	AmbientOcclusion   bool
	Bloom              bool
	ScreenSpaceReflect bool
	TemporalAA         bool
	Fog                bool
	DepthOfField       bool
	Vignette           bool
}

// NewOptions derives the viewer's quality flags from caps. Vulkan-capable
// devices get MSAA 4x, FXAA and a medium HDR buffer; everything expensive is
// off on every device.
func NewOptions(caps Capabilities, tier Tier) Options {
	high := caps.Vulkan
	switch tier {
	case TierHigh:
		high = true
	case TierLow:
		high = false
	}

	o := Options{
		highTier:          high,
		Blend:             BlendOpaque,
		HDRColorBuffer:    QualityLow,
		DynamicResolution: false,
		DynamicQuality:    QualityLow,
		MSAASamples:       1,
		AntiAliasing:      AntiAliasingNone,
	}
	if high {
		o.HDRColorBuffer = QualityMedium
		o.MSAA = true
		o.MSAASamples = 4
		o.AntiAliasing = AntiAliasingFXAA
	}
	if caps.MaxSamples > 0 && o.MSAASamples > caps.MaxSamples {
		o.MSAASamples = caps.MaxSamples
		o.MSAA = o.MSAASamples > 1
	}
	return o
}

// HighTier reports whether the Vulkan-capable preset was selected.
func (o Options) HighTier() bool { return o.highTier }

// Backend names the device class used in log and status lines.
func (o Options) Backend() string {
	if o.highTier {
		return "Vulkan-capable"
	}
	return "OpenGL"
}

// String summarises the options the way the viewer reports them.
func (o Options) String() string {
	return fmt.Sprintf("%s device, MSAA: %t, AA: %s", o.Backend(), o.MSAA, o.AntiAliasing)
}
