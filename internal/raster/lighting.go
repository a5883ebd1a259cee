package raster

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// LightConfig holds precomputed lighting parameters for preview renders.
type LightConfig struct {
	LightDir mgl64.Vec3
	RimDir   mgl64.Vec3
	HalfMain mgl64.Vec3 // half-vector for Blinn-Phong
	Ambient  float64
	Hemi     float64
	Direct   float64
	Rim      float64
	SpecInt  float64
	SpecPow  float64
	Exposure float64
	InvGamma float64
}

// DefaultLightConfig returns a key light, a rim light and a soft hemisphere fill.
func DefaultLightConfig() LightConfig {
	lightDir := mgl64.Vec3{180, 260, 140}.Normalize()
	rimDir := mgl64.Vec3{-160, 130, -210}.Normalize()
	viewDir := mgl64.Vec3{0, -110, -400}.Normalize()

	return LightConfig{
		LightDir: lightDir,
		RimDir:   rimDir,
		HalfMain: lightDir.Sub(viewDir).Normalize(),
		Ambient:  0.55,
		Hemi:     0.50,
		Direct:   1.50,
		Rim:      0.60,
		SpecInt:  0.45,
		SpecPow:  12.0,
		Exposure: 1.05,
		InvGamma: 1.0 / 2.2,
	}
}

// ComputeShade returns the combined lighting scalar for a unit face normal.
// Lambert terms use |n·l| so faces light from both sides.
func (lc *LightConfig) ComputeShade(n mgl64.Vec3) float64 {
	ndlMain := math.Abs(n.Dot(lc.LightDir))
	ndlRim := math.Abs(n.Dot(lc.RimDir))
	hemi := ((1.0-math.Abs(n[1]))*0.5 + 0.5) * lc.Hemi

	spec := 0.0
	if ndh := n.Dot(lc.HalfMain); ndh > 0 {
		spec = math.Pow(ndh, lc.SpecPow) * lc.SpecInt
	}
	return lc.Ambient + hemi + ndlMain*lc.Direct + ndlRim*lc.Rim + spec
}

// srgbToLinear is a 256-entry decode table.
var srgbToLinear [256]float64

func init() {
	for i := 0; i < 256; i++ {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, 2.2)
	}
}

// ACESTonemap applies ACES Filmic tone mapping to a linear value.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}

// encode maps a shaded linear value back to an sRGB byte.
func (lc *LightConfig) encode(linear, shade float64) uint8 {
	return clamp255(math.Pow(ACESTonemap(linear*shade*lc.Exposure), lc.InvGamma) * 255)
}
