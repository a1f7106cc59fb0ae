package game

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sidescroll/internal/config"
	"sidescroll/internal/state"
	"sidescroll/internal/world"
)

const frame = 16 * time.Millisecond

func newGame(t *testing.T) *Game {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	g, err := New(config.Default(), 42, logger)
	require.NoError(t, err)
	t.Cleanup(g.Close)
	return g
}

func step(g *Game, x float64, s state.AvatarState) Frame {
	return g.Update(Input{
		AvatarX:      x,
		AvatarState:  s,
		AvatarEnergy: g.State().Energy(),
		Delta:        frame,
	})
}

func treeAnchors(entities []world.Entity) []int {
	out := []int{}
	for _, e := range entities {
		out = append(out, e.Anchor)
	}
	return out
}

func snapshot(g *Game) map[world.Key]world.Entity {
	out := map[world.Key]world.Entity{}
	for _, k := range g.Deps().Window.Keys() {
		e, _ := g.Deps().Window.Lookup(k)
		out[k] = e
	}
	return out
}

func TestNewMaterializesStartingWindow(t *testing.T) {
	g := newGame(t)

	minX, maxX := g.Deps().Window.Extent()
	assert.Equal(t, -810, minX)
	assert.Equal(t, 1620, maxX)

	initial := g.Initial()
	assert.Empty(t, initial.Removed)
	assert.Equal(t, []int{-510, -330, 0, 480, 720, 1140}, treeAnchors(initial.Created[world.LayerTrees]))
	assert.Len(t, initial.Created[world.LayerTerrain], len(g.Deps().Window.Entities(world.LayerTerrain)))
	assert.NotEmpty(t, initial.Created[world.LayerLeaves])
	assert.NotEmpty(t, initial.Created[world.LayerFruits])
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Terrain.Noise = "worley"
	_, err := New(cfg, 1, nil)
	require.Error(t, err)
}

func TestWalkingShiftsWindowAndComesBackIdentical(t *testing.T) {
	g := newGame(t)
	before := snapshot(g)

	f := step(g, 400, state.Run)
	assert.True(t, f.Diff.Empty())

	f = step(g, 1000, state.Run)
	assert.Equal(t, []int{-510, -330}, treeAnchors(f.Diff.Removed[world.LayerTrees]))
	assert.Equal(t, []int{1680, 1770, 1980, 2070}, treeAnchors(f.Diff.Created[world.LayerTrees]))

	f = step(g, 1700, state.Run)
	assert.Equal(t, []int{0, 480, 720}, treeAnchors(f.Diff.Removed[world.LayerTrees]))
	minX, maxX := g.Deps().Window.Extent()
	assert.Equal(t, [2]int{810, 3240}, [2]int{minX, maxX})

	step(g, 1000, state.Run)
	step(g, 400, state.Run)
	minX, maxX = g.Deps().Window.Extent()
	require.Equal(t, [2]int{-810, 1620}, [2]int{minX, maxX})

	assert.Equal(t, before, snapshot(g), "revisited range must regenerate identically")
}

func TestEveryMaterializedEntityIsInsideExtent(t *testing.T) {
	g := newGame(t)
	for x := 0.0; x < 12000; x += 400 {
		step(g, x, state.Run)
		minX, maxX := g.Deps().Window.Extent()
		for _, k := range g.Deps().Window.Keys() {
			e, _ := g.Deps().Window.Lookup(k)
			require.GreaterOrEqual(t, e.Anchor, minX)
			require.Less(t, e.Anchor, maxX)
		}
	}
}

func TestEatingFruitCreditsEnergyAndRespawns(t *testing.T) {
	g := newGame(t)
	g.State().SetEnergy(nil, 50)

	fruit := g.Deps().Window.Entities(world.LayerFruits)[0]
	require.True(t, g.Collectible(fruit.Key))

	gained, ok := g.Eat(fruit.Key)
	require.True(t, ok)
	assert.Equal(t, 10.0, gained)
	assert.Equal(t, 60.0, g.State().Energy())
	assert.False(t, g.Collectible(fruit.Key))

	_, ok = g.Eat(fruit.Key)
	assert.False(t, ok)

	f := step(g, 400, state.Idle)
	assert.Equal(t, []world.Key{fruit.Key}, f.Consumed)
	assert.Equal(t, "60%", f.EnergyLabel)

	f = step(g, 400, state.Idle)
	assert.Empty(t, f.Consumed, "consumption is reported once")

	var respawned []world.Key
	for g.Now() < 31*time.Second && respawned == nil {
		respawned = step(g, 400, state.Idle).Respawned
	}
	assert.Equal(t, []world.Key{fruit.Key}, respawned)
	assert.GreaterOrEqual(t, g.Now(), 30*time.Second)
	assert.True(t, g.Collectible(fruit.Key))
}

func TestEatenFruitStaysEatenAcrossEviction(t *testing.T) {
	g := newGame(t)

	var key world.Key
	for _, e := range g.Deps().Window.Entities(world.LayerFruits) {
		if e.Anchor == 0 {
			key = e.Key
			break
		}
	}
	require.Equal(t, world.KindFruit, key.Kind)
	_, ok := g.Eat(key)
	require.True(t, ok)

	step(g, 1000, state.Run)
	step(g, 1700, state.Run)
	_, present := g.Deps().Window.Lookup(key)
	require.False(t, present, "tree 0 should have scrolled out")
	_, ok = g.Eat(key)
	assert.False(t, ok, "evicted fruit cannot be eaten")

	step(g, 1000, state.Run)
	step(g, 400, state.Run)
	_, present = g.Deps().Window.Lookup(key)
	require.True(t, present)
	assert.False(t, g.Collectible(key), "regenerated fruit remembers it was eaten")
}

func TestJumpStartsAnimationsThatFinish(t *testing.T) {
	g := newGame(t)
	flora := len(g.Deps().Window.Entities(world.LayerTrees)) +
		len(g.Deps().Window.Entities(world.LayerLeaves)) +
		len(g.Deps().Window.Entities(world.LayerFruits))

	f := step(g, 400, state.Jump)
	assert.Len(t, f.Animations, flora)

	// Staying in the jump state does not restart anything.
	f = step(g, 400, state.Jump)
	for _, a := range f.Animations {
		assert.Equal(t, 2*frame, a.Elapsed)
	}

	finished := 0
	for i := 0; i < 600 && len(f.Animations) > 0; i++ {
		f = step(g, 400, state.Idle)
		finished += len(f.Finished)
	}
	assert.Empty(t, f.Animations)
	assert.Equal(t, flora, finished)
}

func TestShiftDropsAnimationsOfRemovedEntities(t *testing.T) {
	g := newGame(t)

	f := step(g, 400, state.Jump)
	require.NotEmpty(t, f.Animations)

	f = step(g, 1000, state.Idle)
	require.NotZero(t, f.Diff.RemovedCount(), "walking to x=1000 should shift the window")

	removed := map[world.Key]bool{}
	for _, list := range f.Diff.Removed {
		for _, e := range list {
			removed[e.Key] = true
		}
	}
	require.NotEmpty(t, f.Animations)
	for _, a := range f.Animations {
		assert.False(t, removed[a.Key], "animation reported for removed %s", a.Key)
		_, ok := g.Deps().Window.Lookup(a.Key)
		assert.True(t, ok, "animation reported for unloaded %s", a.Key)
	}
}

func TestFrameReportsSky(t *testing.T) {
	g := newGame(t)

	f := step(g, 400, state.Idle)
	assert.InDelta(t, 12, f.Hour, 0.1)
	assert.Equal(t, "day", f.Phase)
	assert.InDelta(t, 0, f.NightOpacity, 1e-3)
	ground := float64(g.GroundHeightAt(400))
	assert.Less(t, f.Sun.Center.Y(), ground)
	assert.Equal(t, f.Sun.Center, f.Halo.Center)

	var last Frame
	for g.Now() < 15*time.Second {
		last = step(g, 400, state.Idle)
	}
	assert.InDelta(t, 0, last.Hour, 0.1)
	assert.Equal(t, "night", last.Phase)
	assert.InDelta(t, 0.5, last.NightOpacity, 1e-3)
	assert.Greater(t, last.Sun.Center.Y(), ground)
}

func TestReachableFruitIsSortedByDistance(t *testing.T) {
	g := newGame(t)
	fruits := g.Deps().Window.Entities(world.LayerFruits)
	require.NotEmpty(t, fruits)
	x, y := fruits[0].Center()

	reachable := g.ReachableFruit(x, y, 60)
	require.NotEmpty(t, reachable)
	assert.Equal(t, fruits[0].Key, reachable[0].Key)

	prev := -1.0
	for _, e := range reachable {
		cx, cy := e.Center()
		d := (cx-x)*(cx-x) + (cy-y)*(cy-y)
		assert.GreaterOrEqual(t, d, prev)
		assert.LessOrEqual(t, d, 60.0*60.0)
		prev = d
	}

	_, ok := g.Eat(fruits[0].Key)
	require.True(t, ok)
	for _, e := range g.ReachableFruit(x, y, 60) {
		assert.NotEqual(t, fruits[0].Key, e.Key)
	}
}

func TestUpdateRejectsNegativeDelta(t *testing.T) {
	g := newGame(t)
	assert.Panics(t, func() {
		g.Update(Input{AvatarX: 0, Delta: -time.Millisecond})
	})
}
