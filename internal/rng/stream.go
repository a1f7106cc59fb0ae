package rng

import "math"

const golden = 0x9e3779b97f4a7c15

// Stream is a xorshift64 generator. It is not safe for concurrent use; every
// caller derives its own stream from a key instead of sharing one.
type Stream struct {
	state uint64
}

func NewStream(key uint32) *Stream {
	state := scramble(uint64(key))
	if state == 0 {
		state = golden
	}
	return &Stream{state: state}
}

// scramble is the splitmix64 finalizer; it spreads low-entropy keys across the
// whole state before the first draw.
func scramble(z uint64) uint64 {
	z += golden
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

func (s *Stream) Next() uint64 {
	s.state ^= s.state << 7
	s.state ^= s.state >> 9
	s.state ^= s.state << 8
	return s.state
}

// Intn returns a value in [0, n). n <= 0 yields 0.
func (s *Stream) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(s.Next() % uint64(n))
}

// Range returns a value in [lo, hi). An empty range yields lo.
func (s *Stream) Range(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.Intn(hi-lo)
}

// Float64 returns a value in [0, 1).
func (s *Stream) Float64() float64 {
	return float64(s.Next()>>11) / (1 << 53)
}

// Uniform returns a value in [lo, hi).
func (s *Stream) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*s.Float64()
}

// Normal draws from N(mean, stddev) using the Box-Muller transform.
func (s *Stream) Normal(mean, stddev float64) float64 {
	u1 := 1 - s.Float64()
	u2 := s.Float64()
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return mean + stddev*z
}
