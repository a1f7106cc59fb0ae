package daynight

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"sidescroll/internal/bus"
	"sidescroll/internal/config"
	"sidescroll/internal/world"
)

// Ground reports the snapped ground height of the column containing x.
type Ground interface {
	GroundHeightAt(x float64) int
}

// Disc is a round sky body in screen coordinates, y pointing down.
type Disc struct {
	Center mgl64.Vec2  `json:"center"`
	Radius float64     `json:"radius"`
	Color  world.Color `json:"color"`
}

// Sun orbits the ground point under the middle of the screen once a day. At
// noon it sits straight above that point; at midnight straight below.
type Sun struct {
	centre     mgl64.Vec2
	arm        mgl64.Vec2
	radius     float64
	haloRadius float64
	position   mgl64.Vec2

	hours  bus.Subscription[float64]
	handle bus.Handle
}

func NewSun(cfg config.DayNightConfig, viewport config.Viewport, ground Ground, hours bus.Subscription[float64]) *Sun {
	g := float64(ground.GroundHeightAt(viewport.Width / 2))
	centre := mgl64.Vec2{viewport.Width / 2, g}
	initial := mgl64.Vec2{viewport.Width / 2, 2*g - viewport.Height*0.25}

	s := &Sun{
		centre:     centre,
		arm:        initial.Sub(centre),
		radius:     cfg.SunRadius,
		haloRadius: cfg.HaloRadius,
		hours:      hours,
	}
	s.place(hours.Value())
	s.handle = hours.Subscribe(func(_ any, c bus.Change[float64]) { s.place(c.New) })
	return s
}

func (s *Sun) place(hour float64) {
	angle := mgl64.DegToRad(hour / 24 * 360)
	s.position = mgl64.Rotate2D(angle).Mul2x1(s.arm).Add(s.centre)
}

func (s *Sun) Position() mgl64.Vec2 {
	return s.position
}

// AboveHorizon reports whether the sun is higher than the ground it orbits.
func (s *Sun) AboveHorizon() bool {
	return s.position.Y() < s.centre.Y()
}

func (s *Sun) Disc() Disc {
	return Disc{Center: s.position, Radius: s.radius, Color: world.BaseColor(world.MaterialBloom)}
}

// Halo is a faint disc that always shares the sun's centre.
func (s *Sun) Halo() Disc {
	c := world.BaseColor(world.MaterialBloom)
	c.A = 20
	return Disc{Center: s.position, Radius: s.haloRadius, Color: c}
}

func (s *Sun) Close() {
	s.hours.Unsubscribe(s.handle)
}

// Night darkens the screen away from noon.
type Night struct {
	midnight float64
	opacity  float64

	hours  bus.Subscription[float64]
	handle bus.Handle
}

func NewNight(cfg config.DayNightConfig, hours bus.Subscription[float64]) *Night {
	n := &Night{midnight: cfg.MidnightOpacity, hours: hours}
	n.opacity = NightOpacity(hours.Value(), n.midnight)
	n.handle = hours.Subscribe(func(_ any, c bus.Change[float64]) {
		n.opacity = NightOpacity(c.New, n.midnight)
	})
	return n
}

func (n *Night) Opacity() float64 {
	return n.opacity
}

func (n *Night) Close() {
	n.hours.Unsubscribe(n.handle)
}

// NightOpacity is 0 at noon and midnight at midnight, easing in between.
func NightOpacity(hour, midnight float64) float64 {
	d := math.Abs(hour-12) / 12
	if d > 1 {
		d = 1
	}
	return midnight * d * d * (3 - 2*d)
}
