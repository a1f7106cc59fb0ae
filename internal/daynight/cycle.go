// Package daynight drives the hour of day and derives what the sky looks like
// from it.
package daynight

import (
	"time"

	"sidescroll/internal/config"
	"sidescroll/internal/world"
)

// HourSetter is the slice of world state the cycle writes to.
type HourSetter interface {
	SetHour(source any, hour float64) bool
}

// Cycle advances the hour of day with simulated time. One cycle length of
// simulated time is one full day.
type Cycle struct {
	length  time.Duration
	initial float64
	elapsed time.Duration
	hours   HourSetter
}

func NewCycle(cfg config.DayNightConfig, hours HourSetter) *Cycle {
	world.Invariantf(cfg.CycleLength > 0, "cycle length must be positive, got %v", cfg.CycleLength.Duration())
	return &Cycle{
		length:  cfg.CycleLength.Duration(),
		initial: cfg.InitialHour,
		hours:   hours,
	}
}

// Advance moves the clock forward by dt and publishes the resulting hour.
func (c *Cycle) Advance(dt time.Duration) float64 {
	world.Invariantf(dt >= 0, "negative time step %v", dt)
	c.elapsed += dt
	hour := c.initial + float64(c.elapsed)/float64(c.length)*24
	c.hours.SetHour(c, hour)
	return hour
}

func (c *Cycle) Elapsed() time.Duration {
	return c.elapsed
}

// PhaseForHour names the part of the day an hour falls in.
func PhaseForHour(hour float64) string {
	switch {
	case hour >= 5 && hour < 7:
		return "dawn"
	case hour >= 7 && hour < 18:
		return "day"
	case hour >= 18 && hour < 21:
		return "dusk"
	default:
		return "night"
	}
}
