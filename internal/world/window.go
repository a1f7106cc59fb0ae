package world

import (
	"log/slog"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Source materializes every entity anchored in the half-open column range
// [minX, maxX). Implementations must be pure: the same range always yields the
// same entities, whatever was requested before.
type Source interface {
	Materialize(minX, maxX int) []Entity
}

// Diff lists the entities a single window update created and removed, per
// layer, ordered by identity key.
type Diff struct {
	Created map[Layer][]Entity
	Removed map[Layer][]Entity
}

func newDiff() Diff {
	return Diff{
		Created: make(map[Layer][]Entity),
		Removed: make(map[Layer][]Entity),
	}
}

// Empty reports whether the update changed nothing.
func (d Diff) Empty() bool {
	return d.CreatedCount() == 0 && d.RemovedCount() == 0
}

func (d Diff) CreatedCount() int {
	total := 0
	for _, list := range d.Created {
		total += len(list)
	}
	return total
}

func (d Diff) RemovedCount() int {
	total := 0
	for _, list := range d.Removed {
		total += len(list)
	}
	return total
}

// Window tracks the materialized extent [min, max) of the world around a moving
// position. It re-projects content from its sources on every shift and never
// keeps evicted entities around: a revisited range is regenerated from scratch.
type Window struct {
	blockSize int
	sources   []Source
	log       *slog.Logger

	initialized bool
	min         int
	max         int
	entities    map[Key]Entity
}

func NewWindow(blockSize int, sources []Source, logger *slog.Logger) *Window {
	Invariantf(blockSize > 0, "block size must be positive, got %d", blockSize)
	if logger == nil {
		logger = slog.Default()
	}
	return &Window{
		blockSize: blockSize,
		sources:   sources,
		log:       logger,
		entities:  make(map[Key]Entity),
	}
}

// Extent returns the materialized range [min, max).
func (w *Window) Extent() (int, int) {
	return w.min, w.max
}

func (w *Window) Len() int {
	return len(w.entities)
}

// Lookup returns the materialized entity with the given identity.
func (w *Window) Lookup(key Key) (Entity, bool) {
	e, ok := w.entities[key]
	return e, ok
}

// Keys returns every materialized identity, sorted.
func (w *Window) Keys() []Key {
	keys := maps.Keys(w.entities)
	slices.SortFunc(keys, func(a, b Key) bool { return a.Less(b) })
	return keys
}

// Entities returns the materialized entities on layer, sorted by key.
func (w *Window) Entities(layer Layer) []Entity {
	var out []Entity
	for _, e := range w.entities {
		if e.Layer == layer {
			out = append(out, e)
		}
	}
	sortEntities(out)
	return out
}

// Init materializes the starting extent [-width, 2*width) snapped outward to
// the block grid.
func (w *Window) Init(viewportWidth float64) Diff {
	Invariantf(Finite(viewportWidth) && viewportWidth > 0, "viewport width must be positive and finite, got %v", viewportWidth)
	Invariantf(!w.initialized, "window already initialised")

	w.min = SnapDown(-viewportWidth, w.blockSize)
	w.max = SnapUp(2*viewportWidth, w.blockSize)
	w.initialized = true

	diff := newDiff()
	w.materialize(w.min, w.max, diff)
	w.log.Debug("window initialised", "min", w.min, "max", w.max, "entities", len(w.entities))
	return diff
}

// Update compares position against the extent and slides the window by one
// viewport width (rounded up to the block grid) when position comes within a
// viewport of either edge.
func (w *Window) Update(position, viewportWidth float64) Diff {
	Invariantf(w.initialized, "window updated before Init")
	Invariantf(Finite(position), "position must be finite, got %v", position)
	Invariantf(Finite(viewportWidth) && viewportWidth > 0, "viewport width must be positive and finite, got %v", viewportWidth)
	Invariantf(w.min <= w.max, "window extent inverted: [%d, %d)", w.min, w.max)

	shift := SnapUp(viewportWidth, w.blockSize)
	switch {
	case position < float64(w.min)+viewportWidth:
		return w.shift(-shift)
	case position > float64(w.max)-viewportWidth:
		return w.shift(shift)
	default:
		return newDiff()
	}
}

func (w *Window) shift(delta int) Diff {
	diff := newDiff()
	oldMin, oldMax := w.min, w.max
	newMin, newMax := oldMin+delta, oldMax+delta

	w.evictOutside(newMin, newMax, diff)
	if delta < 0 {
		w.materialize(newMin, oldMin, diff)
	} else {
		w.materialize(oldMax, newMax, diff)
	}
	w.min, w.max = newMin, newMax
	Invariantf(w.min <= w.max, "window extent inverted: [%d, %d)", w.min, w.max)

	w.log.Debug("window shifted",
		"from", [2]int{oldMin, oldMax},
		"to", [2]int{newMin, newMax},
		"created", diff.CreatedCount(),
		"removed", diff.RemovedCount())
	return diff
}

func (w *Window) evictOutside(minX, maxX int, diff Diff) {
	for key, e := range w.entities {
		if e.Anchor >= minX && e.Anchor < maxX {
			continue
		}
		delete(w.entities, key)
		diff.Removed[e.Layer] = append(diff.Removed[e.Layer], e)
	}
	for layer := range diff.Removed {
		sortEntities(diff.Removed[layer])
	}
}

func (w *Window) materialize(minX, maxX int, diff Diff) {
	if minX >= maxX {
		return
	}
	for _, src := range w.sources {
		for _, e := range src.Materialize(minX, maxX) {
			Invariantf(e.Anchor >= minX && e.Anchor < maxX, "%s anchored at %d outside requested range [%d, %d)", e.Key, e.Anchor, minX, maxX)
			_, exists := w.entities[e.Key]
			Invariantf(!exists, "duplicate entity %s", e.Key)
			w.entities[e.Key] = e
			diff.Created[e.Layer] = append(diff.Created[e.Layer], e)
		}
	}
	for layer := range diff.Created {
		sortEntities(diff.Created[layer])
	}
}

func sortEntities(list []Entity) {
	slices.SortFunc(list, func(a, b Entity) bool { return a.Key.Less(b.Key) })
}
