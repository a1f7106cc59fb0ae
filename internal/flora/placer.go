// Package flora places trees on the terrain and grows leaves and fruit on
// them. Placement is a pure function of the seed and the tree's anchor
// column, so a revisited tree always comes back identical.
package flora

import (
	"github.com/google/uuid"

	"sidescroll/internal/config"
	"sidescroll/internal/rng"
	"sidescroll/internal/world"
)

// Ground reports the snapped ground height of the column containing x.
type Ground interface {
	GroundHeightAt(x float64) int
}

// Offset is a leaf or fruit position relative to its tree top, in leaf cells.
type Offset struct {
	DX int
	DY int
}

type Tree struct {
	ID     uuid.UUID
	X      int
	Ground int
	Height int
	Width  float64
	Color  world.Color
}

func (t Tree) Key() world.Key {
	return world.TreeKey(t.X)
}

// Top returns the centre of the top edge of the trunk.
func (t Tree) Top() (float64, float64) {
	return float64(t.X), float64(t.Ground - t.Height)
}

func (t Tree) Entity() world.Entity {
	return world.Entity{
		ID:     t.ID,
		Key:    t.Key(),
		Layer:  world.LayerTrees,
		Anchor: t.X,
		X:      float64(t.X) - t.Width/2,
		Y:      float64(t.Ground - t.Height),
		W:      t.Width,
		H:      float64(t.Height),
		Color:  t.Color,
	}
}

// Leaf belongs to the tree anchored at Tree; it does not own it.
type Leaf struct {
	ID     uuid.UUID
	Tree   int
	Offset Offset
	CX     float64
	CY     float64
	Size   float64
	Color  world.Color
	Sway   world.Sway
}

func (l Leaf) Key() world.Key {
	return world.LeafKey(l.Tree, l.Offset.DX, l.Offset.DY)
}

func (l Leaf) Entity() world.Entity {
	return world.Entity{
		ID:     l.ID,
		Key:    l.Key(),
		Layer:  world.LayerLeaves,
		Anchor: l.Tree,
		X:      l.CX - l.Size/2,
		Y:      l.CY - l.Size/2,
		W:      l.Size,
		H:      l.Size,
		Color:  l.Color,
		Sway:   l.Sway,
	}
}

type Fruit struct {
	ID     uuid.UUID
	Tree   int
	Offset Offset
	CX     float64
	CY     float64
	Size   float64
	Color  world.Color
}

func (f Fruit) Key() world.Key {
	return world.FruitKey(f.Tree, f.Offset.DX, f.Offset.DY)
}

func (f Fruit) Entity() world.Entity {
	return world.Entity{
		ID:     f.ID,
		Key:    f.Key(),
		Layer:  world.LayerFruits,
		Anchor: f.Tree,
		X:      f.CX - f.Size/2,
		Y:      f.CY - f.Size/2,
		W:      f.Size,
		H:      f.Size,
		Color:  f.Color,
	}
}

// Placer decides where trees grow and what hangs on them.
type Placer struct {
	cfg    config.FloraConfig
	seed   int32
	ground Ground
}

func NewPlacer(cfg config.FloraConfig, seed int32, ground Ground) *Placer {
	world.Invariantf(cfg.TreeStride > 0, "tree stride must be positive, got %d", cfg.TreeStride)
	world.Invariantf(cfg.TreeGate > 0, "tree gate must be positive, got %d", cfg.TreeGate)
	return &Placer{cfg: cfg, seed: seed, ground: ground}
}

// Trees returns the trees whose anchors lie in [minX, maxX). Candidate
// anchors are the multiples of the tree stride.
func (p *Placer) Trees(minX, maxX int) []Tree {
	var trees []Tree
	for x := world.CeilTo(minX, p.cfg.TreeStride); x < maxX; x += p.cfg.TreeStride {
		if t, ok := p.TreeAt(x); ok {
			trees = append(trees, t)
		}
	}
	return trees
}

// TreeAt reports whether a tree grows at anchor x, which must be a multiple
// of the tree stride.
func (p *Placer) TreeAt(x int) (Tree, bool) {
	s := rng.For(p.seed, p.cfg.TreeSalt, x)
	height := s.Range(p.cfg.TreeHeightMin, p.cfg.TreeHeightMax)
	if height < p.cfg.TreeMinHeight || height%p.cfg.TreeGate != 0 {
		return Tree{}, false
	}

	key := world.TreeKey(x)
	return Tree{
		ID:     world.EntityID(p.seed, key),
		X:      x,
		Ground: p.ground.GroundHeightAt(float64(x)),
		Height: height,
		Width:  p.cfg.TreeWidth,
		Color:  world.Jitter(world.BaseColor(world.MaterialTrunk), s),
	}, true
}

// Leaves grows the leaves of t. The canopy depends only on the seed and the
// tree's anchor.
func (p *Placer) Leaves(t Tree) []Leaf {
	s := rng.For(p.seed, p.cfg.LeafSalt, t.X)
	count := s.Range(p.cfg.LeafCountMin, p.cfg.LeafCountMax)
	offsets := p.newOffsetSampler(s)
	topX, topY := t.Top()
	base := world.BaseColor(world.MaterialLeaf)

	leaves := make([]Leaf, 0, count)
	for i := 0; i < count; i++ {
		off := offsets.next()
		leaf := Leaf{
			Tree:   t.X,
			Offset: off,
			CX:     topX + float64(off.DX)*p.cfg.LeafSize,
			CY:     topY + float64(off.DY)*p.cfg.LeafSize,
			Size:   p.cfg.LeafSize,
			Color:  world.Jitter(base, s),
			Sway: world.Sway{
				Angle:       p.cfg.SwayAngle,
				Period:      s.Uniform(p.cfg.SwayPeriodMin, p.cfg.SwayPeriodMax),
				WidthScale:  p.cfg.SwayWidth,
				WidthPeriod: s.Uniform(p.cfg.SwayPeriodMin, p.cfg.SwayPeriodMax),
			},
		}
		leaf.ID = world.EntityID(p.seed, leaf.Key())
		leaves = append(leaves, leaf)
	}
	return leaves
}

// Fruits hangs the fruit of t. Fruit cells are unique among themselves but
// may share a cell with a leaf.
func (p *Placer) Fruits(t Tree) []Fruit {
	s := rng.For(p.seed, p.cfg.FruitSalt, t.X)
	count := s.Range(p.cfg.FruitCountMin, p.cfg.FruitCountMax)
	offsets := p.newOffsetSampler(s)
	topX, topY := t.Top()
	base := world.BaseColor(world.MaterialFruit)

	fruits := make([]Fruit, 0, count)
	for i := 0; i < count; i++ {
		off := offsets.next()
		fruit := Fruit{
			Tree:   t.X,
			Offset: off,
			CX:     topX + float64(off.DX)*p.cfg.LeafSize,
			CY:     topY + float64(off.DY)*p.cfg.LeafSize,
			Size:   p.cfg.LeafSize,
			Color:  world.Jitter(base, s),
		}
		fruit.ID = world.EntityID(p.seed, fruit.Key())
		fruits = append(fruits, fruit)
	}
	return fruits
}

// Materialize implements world.Source for the tree, leaf and fruit layers.
// Leaves and fruit are anchored to their tree's column.
func (p *Placer) Materialize(minX, maxX int) []world.Entity {
	var out []world.Entity
	for _, t := range p.Trees(minX, maxX) {
		out = append(out, t.Entity())
		for _, l := range p.Leaves(t) {
			out = append(out, l.Entity())
		}
		for _, f := range p.Fruits(t) {
			out = append(out, f.Entity())
		}
	}
	return out
}

func (p *Placer) newOffsetSampler(s *rng.Stream) *offsetSampler {
	return &offsetSampler{
		stream:      s,
		xStd:        p.cfg.SpreadXStd,
		yMean:       p.cfg.SpreadYMean,
		yStd:        p.cfg.SpreadYStd,
		maxResample: p.cfg.MaxResample,
		taken:       make(map[Offset]struct{}),
	}
}
