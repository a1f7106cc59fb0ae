package daynight

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sidescroll/internal/config"
	"sidescroll/internal/state"
)

type flatGround int

func (g flatGround) GroundHeightAt(float64) int { return int(g) }

func TestCycleAdvancesHour(t *testing.T) {
	cfg := config.Default().DayNight
	ws := state.New(cfg.InitialHour)
	cycle := NewCycle(cfg, ws)

	cycle.Advance(7500 * time.Millisecond)
	assert.InDelta(t, 18, ws.Hour(), 1e-9, "hour after a quarter cycle")
	cycle.Advance(15 * time.Second)
	assert.InDelta(t, 6, ws.Hour(), 1e-9, "hour after three quarters wraps")
	cycle.Advance(7500 * time.Millisecond)
	assert.InDelta(t, 12, ws.Hour(), 1e-9, "hour after a full cycle")
	assert.Equal(t, 30*time.Second, cycle.Elapsed())
}

func TestCycleRejectsNegativeStep(t *testing.T) {
	cycle := NewCycle(config.Default().DayNight, state.New(0))
	assert.Panics(t, func() { cycle.Advance(-time.Second) })
}

func TestSunOrbitsGround(t *testing.T) {
	cfg := config.Default()
	ws := state.New(12)
	sun := NewSun(cfg.DayNight, cfg.World.Viewport, flatGround(420), ws.HourChanged())
	defer sun.Close()

	noon := sun.Position()
	require.True(t, sun.AboveHorizon(), "sun should be above the horizon at noon: %v", noon)
	assert.InDelta(t, 400, noon.X(), 1e-9)
	assert.InDelta(t, 150, noon.Y(), 1e-9)

	ws.SetHour(nil, 0)
	midnight := sun.Position()
	assert.False(t, sun.AboveHorizon(), "sun should be below the horizon at midnight: %v", midnight)
	assert.InDelta(t, 690, midnight.Y(), 1e-9)

	ws.SetHour(nil, 6)
	dawn := sun.Position()
	assert.InDelta(t, 270, dawn.Sub(sun.centre).Len(), 1e-9, "orbit radius drifted: %v", dawn)

	assert.Equal(t, sun.Disc().Center, sun.Halo().Center, "halo follows the sun")
	assert.Greater(t, sun.Halo().Radius, sun.Disc().Radius)
}

func TestSunStopsFollowingAfterClose(t *testing.T) {
	cfg := config.Default()
	ws := state.New(12)
	sun := NewSun(cfg.DayNight, cfg.World.Viewport, flatGround(420), ws.HourChanged())
	before := sun.Position()
	sun.Close()

	ws.SetHour(nil, 3)
	assert.Equal(t, before, sun.Position(), "closed sun moved")
}

func TestNightOpacity(t *testing.T) {
	cfg := config.Default().DayNight
	ws := state.New(12)
	night := NewNight(cfg, ws.HourChanged())
	defer night.Close()

	assert.Zero(t, night.Opacity(), "noon opacity")
	ws.SetHour(nil, 0)
	assert.Equal(t, cfg.MidnightOpacity, night.Opacity(), "midnight opacity")

	prev := -1.0
	for hour := 12.0; hour <= 24; hour += 0.5 {
		o := NightOpacity(hour, cfg.MidnightOpacity)
		require.GreaterOrEqual(t, o, prev, "opacity should grow toward midnight at %.1f", hour)
		require.GreaterOrEqual(t, o, 0.0)
		require.LessOrEqual(t, o, cfg.MidnightOpacity)
		assert.InDelta(t, o, NightOpacity(24-hour, cfg.MidnightOpacity), 1e-12, "symmetric around noon at %.1f", hour)
		prev = o
	}
}

func TestPhaseForHour(t *testing.T) {
	tests := []struct {
		hour float64
		want string
	}{
		{hour: 0, want: "night"},
		{hour: 5, want: "dawn"},
		{hour: 6.9, want: "dawn"},
		{hour: 7, want: "day"},
		{hour: 12, want: "day"},
		{hour: 18, want: "dusk"},
		{hour: 21, want: "night"},
		{hour: 23.9, want: "night"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PhaseForHour(tt.hour), "PhaseForHour(%.1f)", tt.hour)
	}
}
