// Package rng provides the hashing and pseudo-random streams that every world
// generator draws from. Nothing here reads global state, so the same inputs
// always produce the same outputs.
package rng

// Hash3 mixes three integer coordinates into a well distributed 32-bit value.
func Hash3(x, y, z int) uint32 {
	h := uint32(x*374761393 + y*668265263 + z*2147483647)
	h = (h ^ (h >> 13)) * 1274126177
	return h ^ (h >> 16)
}

// For returns the stream keyed by hash(seed+salt, x).
func For(seed int32, salt int, x int) *Stream {
	return NewStream(Hash3(x, 0, int(seed)+salt))
}

// For2 is For with a second coordinate, used for per-cell streams.
func For2(seed int32, salt int, x, y int) *Stream {
	return NewStream(Hash3(x, y, int(seed)+salt))
}

// ForTuple folds an arbitrary coordinate tuple into a single stream key.
func ForTuple(seed int32, salt int, coords ...int) *Stream {
	z := int(seed) + salt
	h := uint32(z)
	for _, c := range coords {
		h = Hash3(int(h), c, z)
	}
	return NewStream(h)
}
