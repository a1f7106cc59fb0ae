// Package state holds the shared world state: what the avatar is doing, its
// energy and the time of day. Every field is backed by a bus.Channel, so
// listeners hear about each real change exactly once.
package state

import (
	"fmt"
	"math"

	"sidescroll/internal/bus"
	"sidescroll/internal/world"
)

type AvatarState int

const (
	Idle AvatarState = iota
	Run
	Jump
)

func (s AvatarState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Run:
		return "run"
	case Jump:
		return "jump"
	default:
		return fmt.Sprintf("avatar(%d)", int(s))
	}
}

const (
	MinEnergy   = 0.0
	MaxEnergy   = 100.0
	HoursPerDay = 24.0
)

type WorldState struct {
	avatar *bus.Channel[AvatarState]
	energy *bus.Channel[float64]
	hour   *bus.Channel[float64]
}

// New returns a state with the avatar idle, full energy and the given hour.
func New(initialHour float64) *WorldState {
	return &WorldState{
		avatar: bus.NewChannel(Idle),
		energy: bus.NewChannel(MaxEnergy),
		hour:   bus.NewChannel(wrapHour(initialHour)),
	}
}

func (s *WorldState) AvatarState() AvatarState {
	return s.avatar.Value()
}

func (s *WorldState) SetAvatarState(source any, v AvatarState) bool {
	world.Invariantf(v >= Idle && v <= Jump, "unknown avatar state %d", int(v))
	return s.avatar.Publish(source, v)
}

func (s *WorldState) Energy() float64 {
	return s.energy.Value()
}

// SetEnergy clamps v into [MinEnergy, MaxEnergy] before storing it.
func (s *WorldState) SetEnergy(source any, v float64) bool {
	world.Invariantf(!math.IsNaN(v), "energy must not be NaN")
	return s.energy.Publish(source, math.Max(MinEnergy, math.Min(MaxEnergy, v)))
}

// AddEnergy adds delta to the current energy, clamped.
func (s *WorldState) AddEnergy(source any, delta float64) bool {
	return s.SetEnergy(source, s.Energy()+delta)
}

func (s *WorldState) Hour() float64 {
	return s.hour.Value()
}

// SetHour stores v modulo 24.
func (s *WorldState) SetHour(source any, v float64) bool {
	world.Invariantf(world.Finite(v), "hour must be finite, got %v", v)
	return s.hour.Publish(source, wrapHour(v))
}

func (s *WorldState) AvatarStateChanged() bus.Subscription[AvatarState] {
	return s.avatar
}

func (s *WorldState) EnergyChanged() bus.Subscription[float64] {
	return s.energy
}

func (s *WorldState) HourChanged() bus.Subscription[float64] {
	return s.hour
}

func wrapHour(v float64) float64 {
	h := math.Mod(v, HoursPerDay)
	if h < 0 {
		h += HoursPerDay
	}
	if h >= HoursPerDay {
		h = 0
	}
	return h
}
