package world

import (
	"fmt"

	"sidescroll/internal/rng"
)

// Color is an RGBA colour token handed to the renderer.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// Hex renders the colour as #rrggbb, or #rrggbbaa when not opaque.
func (c Color) Hex() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func (c Color) String() string {
	return c.Hex()
}

// Brighter scales every channel up by 1/0.7, the usual AWT-style brightening.
func (c Color) Brighter() Color {
	scale := func(v uint8) uint8 {
		if v == 0 {
			return 3
		}
		return clampChannel(int(float64(v) / 0.7))
	}
	return Color{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
}

// Lerp blends a toward b by t in [0, 1], truncating each channel.
func Lerp(a, b Color, t float64) Color {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	mix := func(s, e uint8) uint8 {
		return uint8(int(s) + int(float64(int(e)-int(s))*t))
	}
	return Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// ColorDelta is how far Jitter may move each channel away from its base.
const ColorDelta = 10

// Jitter perturbs each channel of base by up to ColorDelta using draws from s.
// The same stream position always yields the same colour.
func Jitter(base Color, s *rng.Stream) Color {
	shift := func(v uint8) uint8 {
		return clampChannel(int(v) + s.Range(-ColorDelta, ColorDelta+1))
	}
	return Color{R: shift(base.R), G: shift(base.G), B: shift(base.B), A: base.A}
}

func clampChannel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Material names a family of world entities sharing a base appearance.
type Material string

const (
	MaterialGround Material = "ground"
	MaterialTrunk  Material = "trunk"
	MaterialLeaf   Material = "leaf"
	MaterialFruit  Material = "fruit"
	MaterialSky    Material = "sky"
	MaterialBloom  Material = "bloom"
)

// DefaultAppearances enumerates the built-in base colours.
var DefaultAppearances = map[Material]Color{
	MaterialGround: RGB(212, 123, 74),
	MaterialTrunk:  RGB(100, 50, 20),
	MaterialLeaf:   RGB(50, 200, 30),
	MaterialFruit:  RGB(255, 0, 0),
	MaterialSky:    RGB(0x80, 0xc6, 0xe5),
	MaterialBloom:  RGB(255, 255, 0),
}

// BaseColor returns the preset for material, or opaque black when unknown.
func BaseColor(material Material) Color {
	if c, ok := DefaultAppearances[material]; ok {
		return c
	}
	return RGB(0, 0, 0)
}
