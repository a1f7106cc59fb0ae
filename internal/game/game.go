// Package game wires the world core together and advances it one frame at a
// time on behalf of a host.
package game

import (
	"log/slog"
	"math"
	"time"

	"golang.org/x/exp/slices"

	"sidescroll/internal/config"
	"sidescroll/internal/daynight"
	"sidescroll/internal/flora"
	"sidescroll/internal/state"
	"sidescroll/internal/world"
)

// Input is what the host reports about the avatar each frame. The host owns
// the avatar, so its state and energy are taken as given.
type Input struct {
	AvatarX      float64
	AvatarState  state.AvatarState
	AvatarEnergy float64
	// Viewport falls back to the configured one when zero.
	Viewport config.Viewport
	Delta    time.Duration
}

// Frame is everything that changed in one Update.
type Frame struct {
	Tick         uint64
	Now          time.Duration
	Diff         world.Diff
	Consumed     []world.Key
	Respawned    []world.Key
	Finished     []world.Key
	Animations   []flora.Animation
	Hour         float64
	Phase        string
	Sun          daynight.Disc
	Halo         daynight.Disc
	NightOpacity float64
	Energy       float64
	EnergyLabel  string
}

type Game struct {
	deps *Deps
	log  *slog.Logger

	initial  world.Diff
	tick     uint64
	now      time.Duration
	consumed []world.Key
}

// New builds the standard dependencies and materializes the starting window.
func New(cfg *config.Config, seed int32, logger *slog.Logger) (*Game, error) {
	deps, err := NewDeps(cfg, seed, logger)
	if err != nil {
		return nil, err
	}
	return FromDeps(deps), nil
}

func FromDeps(deps *Deps) *Game {
	g := &Game{deps: deps, log: deps.Log}
	g.initial = deps.Window.Init(deps.Config.World.Viewport.Width)

	minX, maxX := deps.Window.Extent()
	g.log.Info("world ready",
		"seed", deps.Seed,
		"noise", deps.Config.Terrain.Noise,
		"min", minX,
		"max", maxX,
		"entities", deps.Window.Len())
	return g
}

// Initial returns the entities materialized by New, for the host's first draw.
func (g *Game) Initial() world.Diff {
	return g.initial
}

func (g *Game) Deps() *Deps {
	return g.deps
}

func (g *Game) State() *state.WorldState {
	return g.deps.State
}

func (g *Game) Now() time.Duration {
	return g.now
}

func (g *Game) GroundHeightAt(x float64) int {
	return g.deps.Terrain.GroundHeightAt(x)
}

// Update advances the world by one frame. State changes fan out first, then
// timers advance and the window follows the avatar. Animations advance last so
// the frame never reports one for an entity it just removed.
func (g *Game) Update(in Input) Frame {
	world.Invariantf(in.Delta >= 0, "negative frame delta %v", in.Delta)
	viewport := in.Viewport
	if viewport.Width == 0 && viewport.Height == 0 {
		viewport = g.deps.Config.World.Viewport
	}

	g.tick++
	g.deps.State.SetAvatarState(g, in.AvatarState)
	g.deps.State.SetEnergy(g, in.AvatarEnergy)

	g.now += in.Delta
	g.deps.Cycle.Advance(in.Delta)
	respawned := g.deps.Orchard.Advance(g.now)

	diff := g.deps.Window.Update(in.AvatarX, viewport.Width)
	if !diff.Empty() {
		g.log.Debug("frame changed window",
			"tick", g.tick,
			"x", in.AvatarX,
			"created", diff.CreatedCount(),
			"removed", diff.RemovedCount())
	}
	finished := g.deps.Reactor.Advance(in.Delta)

	frame := Frame{
		Tick:         g.tick,
		Now:          g.now,
		Diff:         diff,
		Consumed:     g.consumed,
		Respawned:    respawned,
		Finished:     finished,
		Animations:   g.deps.Reactor.Active(),
		Hour:         g.deps.State.Hour(),
		Phase:        daynight.PhaseForHour(g.deps.State.Hour()),
		Sun:          g.deps.Sun.Disc(),
		Halo:         g.deps.Sun.Halo(),
		NightOpacity: g.deps.Night.Opacity(),
		Energy:       g.deps.State.Energy(),
		EnergyLabel:  g.deps.Energy.Text(),
	}
	g.consumed = nil
	return frame
}

// Collectible reports whether key is a materialized fruit that can be eaten.
func (g *Game) Collectible(key world.Key) bool {
	if _, ok := g.deps.Window.Lookup(key); !ok {
		return false
	}
	return g.deps.Orchard.Collectible(key)
}

// Eat consumes a materialized fruit and credits its energy to the avatar. It
// returns the energy gained.
func (g *Game) Eat(key world.Key) (float64, bool) {
	if _, ok := g.deps.Window.Lookup(key); !ok {
		return 0, false
	}
	energy, ok := g.deps.Orchard.Consume(key, g.now)
	if !ok {
		return 0, false
	}
	g.deps.State.AddEnergy(g, energy)
	g.consumed = append(g.consumed, key)
	return energy, true
}

// ReachableFruit lists the collectible fruit whose centres lie within reach of
// (x, y), nearest first.
func (g *Game) ReachableFruit(x, y, reach float64) []world.Entity {
	type candidate struct {
		entity world.Entity
		dist   float64
	}
	var found []candidate
	for _, e := range g.deps.Window.Entities(world.LayerFruits) {
		if !g.deps.Orchard.Collectible(e.Key) {
			continue
		}
		cx, cy := e.Center()
		if d := math.Hypot(cx-x, cy-y); d <= reach {
			found = append(found, candidate{entity: e, dist: d})
		}
	}
	slices.SortStableFunc(found, func(a, b candidate) bool { return a.dist < b.dist })

	out := make([]world.Entity, 0, len(found))
	for _, c := range found {
		out = append(out, c.entity)
	}
	return out
}

func (g *Game) Close() {
	g.deps.Close()
}
