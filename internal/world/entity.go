package world

import (
	"fmt"

	"github.com/google/uuid"
)

// Layer is the presentation bucket an entity is rendered in.
type Layer int

const (
	LayerTerrain Layer = iota
	LayerTrees
	LayerLeaves
	LayerFruits
)

func (l Layer) String() string {
	switch l {
	case LayerTerrain:
		return "terrain"
	case LayerTrees:
		return "trees"
	case LayerLeaves:
		return "leaves"
	case LayerFruits:
		return "fruits"
	default:
		return fmt.Sprintf("layer(%d)", int(l))
	}
}

type Kind int

const (
	KindBlock Kind = iota
	KindTree
	KindLeaf
	KindFruit
)

func (k Kind) String() string {
	switch k {
	case KindBlock:
		return "block"
	case KindTree:
		return "tree"
	case KindLeaf:
		return "leaf"
	case KindFruit:
		return "fruit"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Key is the identity of a world entity, built only from snapped grid
// coordinates. Blocks use (X, Y); trees use X; leaves and fruit use the owning
// tree's anchor X plus their grid offset (DX, DY).
type Key struct {
	Kind Kind
	X    int
	Y    int
	DX   int
	DY   int
}

func BlockKey(x, y int) Key { return Key{Kind: KindBlock, X: x, Y: y} }

func TreeKey(anchor int) Key { return Key{Kind: KindTree, X: anchor} }

func LeafKey(anchor, dx, dy int) Key { return Key{Kind: KindLeaf, X: anchor, DX: dx, DY: dy} }

func FruitKey(anchor, dx, dy int) Key { return Key{Kind: KindFruit, X: anchor, DX: dx, DY: dy} }

func (k Key) String() string {
	switch k.Kind {
	case KindBlock:
		return fmt.Sprintf("block:%d,%d", k.X, k.Y)
	case KindTree:
		return fmt.Sprintf("tree:%d", k.X)
	default:
		return fmt.Sprintf("%s:%d:%d,%d", k.Kind, k.X, k.DX, k.DY)
	}
}

// Less orders keys by kind, then anchor, then the remaining coordinates.
func (k Key) Less(o Key) bool {
	if k.Kind != o.Kind {
		return k.Kind < o.Kind
	}
	if k.X != o.X {
		return k.X < o.X
	}
	if k.Y != o.Y {
		return k.Y < o.Y
	}
	if k.DX != o.DX {
		return k.DX < o.DX
	}
	return k.DY < o.DY
}

var idNamespace = uuid.MustParse("6f1c2a8e-3d4b-5e6f-8a9b-0c1d2e3f4a5b")

// EntityID derives a stable name-based UUID from the seed and identity key, so
// a regenerated entity always carries the same ID.
func EntityID(seed int32, key Key) uuid.UUID {
	return uuid.NewSHA1(idNamespace, []byte(fmt.Sprintf("%d/%s", seed, key)))
}

// Sway describes the idle back-and-forth motion of a leaf.
type Sway struct {
	Angle       float64 `json:"angle"`
	Period      float64 `json:"period"`
	WidthScale  float64 `json:"widthScale"`
	WidthPeriod float64 `json:"widthPeriod"`
}

// Entity is the descriptor handed to the host renderer. X and Y are the
// top-left corner; Anchor is the column the entity belongs to for window
// membership.
type Entity struct {
	ID     uuid.UUID `json:"id"`
	Key    Key       `json:"-"`
	Layer  Layer     `json:"layer"`
	Anchor int       `json:"anchor"`
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	W      float64   `json:"w"`
	H      float64   `json:"h"`
	Color  Color     `json:"color"`
	Sway   Sway      `json:"sway"`
}

// Center returns the centre point of the entity.
func (e Entity) Center() (float64, float64) {
	return e.X + e.W/2, e.Y + e.H/2
}

// Block is a grid-aligned terrain square whose top-left corner is (X, Y).
type Block struct {
	X     int
	Y     int
	Size  int
	Color Color
}

func (b Block) Key() Key {
	return BlockKey(b.X, b.Y)
}

// Entity converts the block into a terrain-layer descriptor.
func (b Block) Entity(seed int32) Entity {
	key := b.Key()
	return Entity{
		ID:     EntityID(seed, key),
		Key:    key,
		Layer:  LayerTerrain,
		Anchor: b.X,
		X:      float64(b.X),
		Y:      float64(b.Y),
		W:      float64(b.Size),
		H:      float64(b.Size),
		Color:  b.Color,
	}
}
