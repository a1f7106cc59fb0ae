// Package terrain turns a seeded height field into grid-aligned ground blocks.
package terrain

import (
	"fmt"

	"sidescroll/internal/config"
	"sidescroll/internal/rng"
	"sidescroll/internal/world"
)

const blockSalt = 1

// Terrain generates ground columns. It holds no mutable state, so columns may
// be generated in any order, repeatedly, or concurrently.
type Terrain struct {
	seed      int32
	blockSize int
	fillDepth float64
	field     HeightField
	ground    world.Color
}

func New(field HeightField, seed int32, blockSize int, fillDepth float64) *Terrain {
	world.Invariantf(blockSize > 0, "block size must be positive, got %d", blockSize)
	return &Terrain{
		seed:      seed,
		blockSize: blockSize,
		fillDepth: fillDepth,
		field:     field,
		ground:    world.BaseColor(world.MaterialGround),
	}
}

// NewFromConfig wires the configured height field into a Terrain. The ground
// line sits at viewport height × groundRatio and blocks fill down to
// viewport height × fillRatio.
func NewFromConfig(cfg *config.Config, seed int32) (*Terrain, error) {
	base := cfg.World.Viewport.Height * cfg.World.GroundRatio
	field, err := NewHeightField(cfg.Terrain, seed, base)
	if err != nil {
		return nil, fmt.Errorf("build height field: %w", err)
	}
	return New(field, seed, cfg.World.BlockSize, cfg.World.Viewport.Height*cfg.World.FillRatio), nil
}

func (t *Terrain) BlockSize() int {
	return t.blockSize
}

// GroundHeightAt returns the top of the ground column containing x, snapped up
// to the block grid.
func (t *Terrain) GroundHeightAt(x float64) int {
	world.Invariantf(world.Finite(x), "ground height requested at non-finite x %v", x)
	column := world.SnapDown(x, t.blockSize)
	return world.SnapUp(t.field.Height(float64(column)), t.blockSize)
}

// CreateInRange emits every block of every column in [minX, maxX), with the
// bounds widened outward to the block grid.
func (t *Terrain) CreateInRange(minX, maxX int) []world.Block {
	lo := world.FloorTo(minX, t.blockSize)
	hi := world.CeilTo(maxX, t.blockSize)

	var blocks []world.Block
	for x := lo; x < hi; x += t.blockSize {
		blocks = t.appendColumn(blocks, x)
	}
	return blocks
}

func (t *Terrain) appendColumn(blocks []world.Block, x int) []world.Block {
	top := t.GroundHeightAt(float64(x))
	for y := top; float64(y) < t.fillDepth; y += t.blockSize {
		blocks = append(blocks, world.Block{
			X:     x,
			Y:     y,
			Size:  t.blockSize,
			Color: world.Jitter(t.ground, rng.For2(t.seed, blockSalt, x, y)),
		})
	}
	return blocks
}

// Materialize implements world.Source for the terrain layer.
func (t *Terrain) Materialize(minX, maxX int) []world.Entity {
	blocks := t.CreateInRange(minX, maxX)
	out := make([]world.Entity, 0, len(blocks))
	for _, b := range blocks {
		if b.X < minX || b.X >= maxX {
			continue
		}
		out = append(out, b.Entity(t.seed))
	}
	return out
}
