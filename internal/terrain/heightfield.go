package terrain

import (
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"
	opensimplex "github.com/ojrac/opensimplex-go"

	"sidescroll/internal/config"
	"sidescroll/internal/rng"
)

// HeightField maps a world x coordinate to a terrain height. Implementations
// are pure and safe for concurrent use.
type HeightField interface {
	Height(x float64) float64
}

// noise1D returns a value roughly in [-1, 1] for a position in noise units.
type noise1D func(x float64) float64

type field struct {
	base      float64
	amplitude float64
	scale     float64
	noise     noise1D
}

func (f *field) Height(x float64) float64 {
	n := f.noise(x / f.scale)
	if n > 1 {
		n = 1
	} else if n < -1 {
		n = -1
	}
	return f.base + f.amplitude*n
}

// NewHeightField builds the height field selected by cfg.Noise, centred on
// base and never further than cfg.Amplitude away from it.
func NewHeightField(cfg config.TerrainConfig, seed int32, base float64) (HeightField, error) {
	if cfg.Scale <= 0 {
		return nil, fmt.Errorf("terrain scale must be positive, got %v", cfg.Scale)
	}
	octaves := cfg.Octaves
	if octaves <= 0 {
		octaves = 1
	}

	var noise noise1D
	switch cfg.Noise {
	case "", "perlin":
		noise = perlinNoise(cfg, octaves, seed)
	case "simplex":
		noise = simplexNoise(cfg, octaves, seed)
	case "value":
		noise = valueNoise(cfg, octaves, seed)
	default:
		return nil, fmt.Errorf("unknown terrain noise %q", cfg.Noise)
	}

	return &field{
		base:      base,
		amplitude: cfg.Amplitude,
		scale:     cfg.Scale,
		noise:     noise,
	}, nil
}

func perlinNoise(cfg config.TerrainConfig, octaves int, seed int32) noise1D {
	alpha := 2.0
	if cfg.Persistence > 0 {
		alpha = 1 / cfg.Persistence
	}
	beta := cfg.Lacunarity
	if beta <= 0 {
		beta = 2
	}
	p := perlin.NewPerlin(alpha, beta, int32(octaves), int64(seed))
	return p.Noise1D
}

func simplexNoise(cfg config.TerrainConfig, octaves int, seed int32) noise1D {
	n := opensimplex.New(int64(seed))
	return func(x float64) float64 {
		return fractal(cfg, octaves, x, func(v float64) float64 {
			// Sample along a line off the lattice axis so integer
			// positions do not all land on zero.
			return n.Eval2(v, 0.5)
		})
	}
}

func valueNoise(cfg config.TerrainConfig, octaves int, seed int32) noise1D {
	return func(x float64) float64 {
		return fractal(cfg, octaves, x, func(v float64) float64 {
			return value1D(v, int(seed))
		})
	}
}

func fractal(cfg config.TerrainConfig, octaves int, x float64, sample noise1D) float64 {
	frequency := 1.0
	amplitude := 1.0
	noiseSum := 0.0
	maxAmplitude := 0.0

	for i := 0; i < octaves; i++ {
		noiseSum += sample(x*frequency) * amplitude
		maxAmplitude += amplitude
		amplitude *= cfg.Persistence
		frequency *= cfg.Lacunarity
	}

	if maxAmplitude == 0 {
		return 0
	}
	return noiseSum / maxAmplitude
}

func value1D(x float64, seed int) float64 {
	x0 := int(math.Floor(x))
	sx := smooth(x - float64(x0))
	return lerp(random1D(x0, seed), random1D(x0+1, seed), sx)
}

func smooth(t float64) float64 {
	return t * t * (3 - 2*t)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func random1D(x, seed int) float64 {
	return float64(rng.Hash3(x, 0, seed)&0xFFFF)/0x8000 - 1.0
}
