package flora

import "sidescroll/internal/rng"

// offsetSampler draws unique cell offsets around a tree top from a normal
// spread. A colliding draw is redrawn up to maxResample times; after that the
// nearest free cell around the last draw is taken, so sampling always ends.
type offsetSampler struct {
	stream      *rng.Stream
	xStd        float64
	yMean       float64
	yStd        float64
	maxResample int
	taken       map[Offset]struct{}
}

func (o *offsetSampler) next() Offset {
	off := o.draw()
	for attempt := 0; o.isTaken(off) && attempt < o.maxResample; attempt++ {
		off = o.draw()
	}
	if o.isTaken(off) {
		off = o.nearestFree(off)
	}
	o.taken[off] = struct{}{}
	return off
}

func (o *offsetSampler) draw() Offset {
	// Truncation toward zero, not flooring.
	return Offset{
		DX: int(o.stream.Normal(0, o.xStd)),
		DY: int(o.stream.Normal(o.yMean, o.yStd)),
	}
}

func (o *offsetSampler) isTaken(off Offset) bool {
	_, ok := o.taken[off]
	return ok
}

// nearestFree walks square rings of growing radius around from, row by row,
// and returns the first free cell.
func (o *offsetSampler) nearestFree(from Offset) Offset {
	for r := 1; ; r++ {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if abs(dx) != r && abs(dy) != r {
					continue
				}
				c := Offset{DX: from.DX + dx, DY: from.DY + dy}
				if !o.isTaken(c) {
					return c
				}
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
