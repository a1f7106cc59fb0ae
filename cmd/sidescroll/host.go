package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"sidescroll/internal/config"
	"sidescroll/internal/game"
	"sidescroll/internal/state"
)

const (
	avatarHeight  = 50.0
	jumpLift      = 80.0
	jumpCost      = 10.0
	runCost       = 0.5
	idleRecovery  = 1.0
	fruitReach    = 40.0
	jumpInterval  = 90
	jumpDuration  = 30
	restThreshold = 20.0
)

// avatar is a scripted stand-in for a player: it runs right, jumps every few
// seconds and rests when it runs low on energy.
type avatar struct {
	x        float64
	speed    float64
	airborne int
	resting  bool
}

// step decides the avatar's state for tick given the energy the world holds.
func (a *avatar) step(tick uint64, energy float64, dt time.Duration) (state.AvatarState, float64) {
	switch {
	case a.airborne > 0:
		a.airborne--
		a.x += a.speed * dt.Seconds()
		return state.Jump, energy
	case a.resting || energy < runCost:
		a.resting = energy < restThreshold*2
		return state.Idle, energy + idleRecovery
	case energy < restThreshold:
		a.resting = true
		return state.Idle, energy + idleRecovery
	case tick%jumpInterval == 0 && energy >= jumpCost:
		a.airborne = jumpDuration
		a.x += a.speed * dt.Seconds()
		return state.Jump, energy - jumpCost
	default:
		a.x += a.speed * dt.Seconds()
		return state.Run, energy - runCost
	}
}

// centre returns the avatar's centre for a ground line at ground.
func (a *avatar) centre(ground int) (float64, float64) {
	y := float64(ground) - avatarHeight/2
	if a.airborne > 0 {
		y -= jumpLift
	}
	return a.x, y
}

type simulation struct {
	cfg   *config.Config
	seed  int32
	ticks int
	dt    time.Duration
	speed float64
	trace string
}

type summary struct {
	Ticks    uint64
	X        float64
	Energy   float64
	Eaten    int
	Created  int
	Removed  int
	Entities int
	Trace    string
}

// run drives the world for the configured number of ticks, or until ctx is
// cancelled.
func run(ctx context.Context, sim simulation, logger *slog.Logger) (summary, error) {
	g, err := game.New(sim.cfg, sim.seed, logger)
	if err != nil {
		return summary{}, fmt.Errorf("initialise world: %w", err)
	}
	defer g.Close()

	var trace *traceWriter
	if sim.trace != "" {
		trace, err = newTraceWriter(sim.trace, sim.seed)
		if err != nil {
			return summary{}, err
		}
		defer func() {
			if err := trace.Close(); err != nil {
				logger.Warn("close trace", "path", trace.Path(), "error", err)
			}
		}()
	}

	var (
		out = summary{Created: g.Initial().CreatedCount()}
		a   = &avatar{speed: sim.speed}
	)
	if trace != nil {
		out.Trace = trace.Path()
	}

	for i := 0; i < sim.ticks; i++ {
		if err := ctx.Err(); err != nil {
			logger.Info("simulation interrupted", "tick", out.Ticks)
			break
		}

		s, energy := a.step(out.Ticks+1, g.State().Energy(), sim.dt)
		frame := g.Update(game.Input{
			AvatarX:      a.x,
			AvatarState:  s,
			AvatarEnergy: energy,
			Delta:        sim.dt,
		})
		out.Ticks = frame.Tick
		out.Created += frame.Diff.CreatedCount()
		out.Removed += frame.Diff.RemovedCount()

		x, y := a.centre(g.GroundHeightAt(a.x))
		for _, fruit := range g.ReachableFruit(x, y, fruitReach) {
			if gained, ok := g.Eat(fruit.Key); ok {
				out.Eaten++
				logger.Debug("fruit eaten", "fruit", fruit.Key.String(), "energy", gained)
			}
		}

		if trace != nil {
			minX, maxX := g.Deps().Window.Extent()
			if err := trace.Write(newTraceEntry(frame, a.x, s.String(), minX, maxX)); err != nil {
				logger.Warn("write trace", "tick", frame.Tick, "error", err)
			}
		}
	}

	out.X = a.x
	out.Energy = g.State().Energy()
	out.Entities = g.Deps().Window.Len()
	return out, nil
}
