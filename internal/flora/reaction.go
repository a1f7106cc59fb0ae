package flora

import (
	"time"

	"golang.org/x/exp/slices"

	"sidescroll/internal/bus"
	"sidescroll/internal/config"
	"sidescroll/internal/rng"
	"sidescroll/internal/state"
	"sidescroll/internal/world"
)

type AnimationKind int

const (
	// Recolor blends the entity colour from From to To.
	Recolor AnimationKind = iota
	// Spin turns the entity from FromAngle to ToAngle degrees.
	Spin
)

func (k AnimationKind) String() string {
	if k == Spin {
		return "spin"
	}
	return "recolor"
}

// Animation is a one-shot cosmetic effect on a materialized entity. When it
// completes the entity goes back to its descriptor's appearance.
type Animation struct {
	Key       world.Key
	Kind      AnimationKind
	Elapsed   time.Duration
	Duration  time.Duration
	From      world.Color
	To        world.Color
	FromAngle float64
	ToAngle   float64
}

// Progress returns how far the animation has run, in [0, 1].
func (a Animation) Progress() float64 {
	if a.Duration <= 0 || a.Elapsed >= a.Duration {
		return 1
	}
	return float64(a.Elapsed) / float64(a.Duration)
}

// Color interpolates linearly per channel.
func (a Animation) Color() world.Color {
	return world.Lerp(a.From, a.To, a.Progress())
}

// Angle eases in and out between FromAngle and ToAngle.
func (a Animation) Angle() float64 {
	t := a.Progress()
	eased := t * t * (3 - 2*t)
	return a.FromAngle + (a.ToAngle-a.FromAngle)*eased
}

func (a Animation) Done() bool {
	return a.Elapsed >= a.Duration
}

// View is the part of the world window the Reactor reads.
type View interface {
	Entities(layer world.Layer) []world.Entity
	Lookup(key world.Key) (world.Entity, bool)
}

// Reactor animates the materialized flora every time the avatar starts a
// jump.
type Reactor struct {
	cfg    config.ReactionConfig
	seed   int32
	salt   int
	view   View
	avatar bus.Subscription[state.AvatarState]
	handle bus.Handle

	jumps  int
	active map[world.Key]*Animation
}

// NewReactor subscribes to avatar state changes. Call Close to unsubscribe.
func NewReactor(cfg config.ReactionConfig, seed int32, salt int, view View, avatar bus.Subscription[state.AvatarState]) *Reactor {
	r := &Reactor{
		cfg:    cfg,
		seed:   seed,
		salt:   salt,
		view:   view,
		avatar: avatar,
		active: make(map[world.Key]*Animation),
	}
	r.handle = avatar.Subscribe(r.onAvatarState)
	return r
}

func (r *Reactor) Close() {
	r.avatar.Unsubscribe(r.handle)
}

func (r *Reactor) onAvatarState(_ any, change bus.Change[state.AvatarState]) {
	if change.New != state.Jump {
		return
	}
	r.jumps++
	for _, layer := range []world.Layer{world.LayerTrees, world.LayerLeaves, world.LayerFruits} {
		for _, e := range r.view.Entities(layer) {
			r.start(e)
		}
	}
}

// start begins or restarts the animation of e from its current look.
func (r *Reactor) start(e world.Entity) {
	k := e.Key
	s := rng.ForTuple(r.seed, r.salt, int(k.Kind), k.X, k.Y, k.DX, k.DY, r.jumps)
	prev, running := r.active[k]

	a := &Animation{Key: k, From: e.Color}
	if running {
		a.From = prev.Color()
		a.FromAngle = prev.Angle()
	}

	switch e.Layer {
	case world.LayerTrees:
		a.Kind = Recolor
		a.To = world.Jitter(world.Jitter(world.BaseColor(world.MaterialTrunk).Brighter(), s), s)
		a.Duration = between(s, r.cfg.TreeMin, r.cfg.TreeMax)
	case world.LayerLeaves:
		a.Kind = Spin
		a.To = a.From
		a.ToAngle = a.FromAngle + 360
		a.Duration = between(s, r.cfg.LeafMin, r.cfg.LeafMax)
	case world.LayerFruits:
		a.Kind = Recolor
		a.To = world.Jitter(world.BaseColor(world.MaterialBloom), s)
		a.Duration = between(s, r.cfg.FruitMin, r.cfg.FruitMax)
	default:
		return
	}
	r.active[k] = a
}

// Advance moves every running animation forward by dt and returns the keys of
// the ones that finished. Animations of entities no longer materialized are
// dropped without being reported.
func (r *Reactor) Advance(dt time.Duration) []world.Key {
	var finished []world.Key
	for key, a := range r.active {
		if _, ok := r.view.Lookup(key); !ok {
			delete(r.active, key)
			continue
		}
		a.Elapsed += dt
		if a.Done() {
			delete(r.active, key)
			finished = append(finished, key)
		}
	}
	slices.SortFunc(finished, func(a, b world.Key) bool { return a.Less(b) })
	return finished
}

// Active returns a snapshot of the running animations ordered by key.
func (r *Reactor) Active() []Animation {
	out := make([]Animation, 0, len(r.active))
	for _, a := range r.active {
		out = append(out, *a)
	}
	slices.SortFunc(out, func(a, b Animation) bool { return a.Key.Less(b.Key) })
	return out
}

func between(s *rng.Stream, lo, hi config.Duration) time.Duration {
	span := hi.Duration() - lo.Duration()
	if span <= 0 {
		return lo.Duration()
	}
	return lo.Duration() + time.Duration(s.Float64()*float64(span))
}
