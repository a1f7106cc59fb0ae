package flora

import (
	"log/slog"
	"time"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"sidescroll/internal/config"
	"sidescroll/internal/world"
)

// Orchard remembers which fruit has been eaten and when it grows back. It is
// keyed by fruit identity rather than by live entity, so a fruit eaten just
// before its tree scrolls out of view is still missing when the tree returns.
type Orchard struct {
	energy float64
	delay  time.Duration
	log    *slog.Logger

	awaiting map[world.Key]time.Duration
}

func NewOrchard(cfg config.FruitConfig, logger *slog.Logger) *Orchard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchard{
		energy:   cfg.Energy,
		delay:    cfg.RespawnDelay.Duration(),
		log:      logger,
		awaiting: make(map[world.Key]time.Duration),
	}
}

// Collectible reports whether the fruit with the given key is hanging on its
// tree.
func (o *Orchard) Collectible(key world.Key) bool {
	if key.Kind != world.KindFruit {
		return false
	}
	_, waiting := o.awaiting[key]
	return !waiting
}

// Consume eats the fruit at simulated time now and schedules its respawn. It
// returns the energy gained, or false when the fruit is already gone.
func (o *Orchard) Consume(key world.Key, now time.Duration) (float64, bool) {
	if !o.Collectible(key) {
		return 0, false
	}
	o.awaiting[key] = now + o.delay
	return o.energy, true
}

// Advance regrows every fruit whose deadline has been reached by now and
// returns their keys in order.
func (o *Orchard) Advance(now time.Duration) []world.Key {
	var respawned []world.Key
	for key, deadline := range o.awaiting {
		if now >= deadline {
			respawned = append(respawned, key)
		}
	}
	if len(respawned) == 0 {
		return nil
	}
	slices.SortFunc(respawned, func(a, b world.Key) bool { return a.Less(b) })
	for _, key := range respawned {
		delete(o.awaiting, key)
	}
	o.log.Debug("fruit respawned", "count", len(respawned), "pending", len(o.awaiting))
	return respawned
}

// Pending lists the fruit waiting to regrow.
func (o *Orchard) Pending() []world.Key {
	keys := maps.Keys(o.awaiting)
	slices.SortFunc(keys, func(a, b world.Key) bool { return a.Less(b) })
	return keys
}
