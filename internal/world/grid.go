package world

import "math"

// FloorTo snaps v down to the nearest multiple of step.
func FloorTo(v, step int) int {
	return floorDiv(v, step) * step
}

// CeilTo snaps v up to the nearest multiple of step.
func CeilTo(v, step int) int {
	return -floorDiv(-v, step) * step
}

// SnapDown floors a real coordinate onto the grid.
func SnapDown(v float64, step int) int {
	return int(math.Floor(v/float64(step))) * step
}

// SnapUp ceils a real coordinate onto the grid.
func SnapUp(v float64, step int) int {
	return int(math.Ceil(v/float64(step))) * step
}

// Finite reports whether v is neither NaN nor infinite.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func floorDiv(value, size int) int {
	if size <= 0 {
		return 0
	}
	if value >= 0 {
		return value / size
	}
	return -((-value - 1) / size) - 1
}
