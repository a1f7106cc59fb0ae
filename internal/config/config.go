package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a JSON and YAML friendly wrapper around time.Duration that
// accepts human readable strings such as "30s" in configuration files while
// still allowing numeric nanosecond values.
type Duration time.Duration

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// MarshalJSON encodes the duration using the canonical string representation.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON decodes a duration from either a string (e.g. "250ms") or a
// numeric value representing nanoseconds. Empty strings and null values decode
// to zero.
func (d *Duration) UnmarshalJSON(b []byte) error {
	if len(b) == 0 {
		return fmt.Errorf("duration: empty value")
	}
	if string(b) == "null" {
		*d = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("duration: decode string: %w", err)
		}
		return d.parse(s)
	}
	var n int64
	if err := json.Unmarshal(b, &n); err == nil {
		*d = Duration(time.Duration(n))
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*d = Duration(time.Duration(f))
		return nil
	}
	return fmt.Errorf("duration: invalid value %s", string(b))
}

// MarshalYAML encodes the duration as its string form.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML accepts the same forms as UnmarshalJSON.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration: expected a scalar at line %d", node.Line)
	}
	switch node.Tag {
	case "!!null":
		*d = 0
		return nil
	case "!!int":
		var n int64
		if err := node.Decode(&n); err != nil {
			return fmt.Errorf("duration: decode int: %w", err)
		}
		*d = Duration(time.Duration(n))
		return nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return fmt.Errorf("duration: decode float: %w", err)
		}
		*d = Duration(time.Duration(f))
		return nil
	default:
		return d.parse(node.Value)
	}
}

func (d *Duration) parse(s string) error {
	if s == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration: parse %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config captures every tunable of the world core and its host.
type Config struct {
	World    WorldConfig    `json:"world" yaml:"world"`
	Terrain  TerrainConfig  `json:"terrain" yaml:"terrain"`
	Flora    FloraConfig    `json:"flora" yaml:"flora"`
	Fruit    FruitConfig    `json:"fruit" yaml:"fruit"`
	DayNight DayNightConfig `json:"dayNight" yaml:"dayNight"`
	Reaction ReactionConfig `json:"reaction" yaml:"reaction"`
}

type WorldConfig struct {
	BlockSize   int      `json:"blockSize" yaml:"blockSize"`
	Viewport    Viewport `json:"viewport" yaml:"viewport"`
	GroundRatio float64  `json:"groundRatio" yaml:"groundRatio"` // ground line at x=0 as a share of viewport height
	FillRatio   float64  `json:"fillRatio" yaml:"fillRatio"`     // terrain fill depth as a multiple of viewport height
}

type Viewport struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

type TerrainConfig struct {
	Seed        *int32  `json:"seed,omitempty" yaml:"seed,omitempty"` // nil derives a seed from the clock
	Noise       string  `json:"noise" yaml:"noise"`                   // perlin, simplex or value
	Scale       float64 `json:"scale" yaml:"scale"`                   // world units per noise unit
	Amplitude   float64 `json:"amplitude" yaml:"amplitude"`
	Octaves     int     `json:"octaves" yaml:"octaves"`
	Persistence float64 `json:"persistence" yaml:"persistence"`
	Lacunarity  float64 `json:"lacunarity" yaml:"lacunarity"`
}

type FloraConfig struct {
	TreeStride    int     `json:"treeStride" yaml:"treeStride"`
	TreeSalt      int     `json:"treeSalt" yaml:"treeSalt"`
	LeafSalt      int     `json:"leafSalt" yaml:"leafSalt"`
	FruitSalt     int     `json:"fruitSalt" yaml:"fruitSalt"`
	ReactionSalt  int     `json:"reactionSalt" yaml:"reactionSalt"`
	TreeHeightMin int     `json:"treeHeightMin" yaml:"treeHeightMin"`
	TreeHeightMax int     `json:"treeHeightMax" yaml:"treeHeightMax"`
	TreeMinHeight int     `json:"treeMinHeight" yaml:"treeMinHeight"` // shorter draws are rejected
	TreeGate      int     `json:"treeGate" yaml:"treeGate"`           // accepted heights are multiples of this
	TreeWidth     float64 `json:"treeWidth" yaml:"treeWidth"`
	LeafSize      float64 `json:"leafSize" yaml:"leafSize"`
	LeafCountMin  int     `json:"leafCountMin" yaml:"leafCountMin"`
	LeafCountMax  int     `json:"leafCountMax" yaml:"leafCountMax"`
	FruitCountMin int     `json:"fruitCountMin" yaml:"fruitCountMin"`
	FruitCountMax int     `json:"fruitCountMax" yaml:"fruitCountMax"`
	SpreadXStd    float64 `json:"spreadXStd" yaml:"spreadXStd"`
	SpreadYMean   float64 `json:"spreadYMean" yaml:"spreadYMean"`
	SpreadYStd    float64 `json:"spreadYStd" yaml:"spreadYStd"`
	MaxResample   int     `json:"maxResample" yaml:"maxResample"`
	SwayAngle     float64 `json:"swayAngle" yaml:"swayAngle"`
	SwayPeriodMin float64 `json:"swayPeriodMin" yaml:"swayPeriodMin"`
	SwayPeriodMax float64 `json:"swayPeriodMax" yaml:"swayPeriodMax"`
	SwayWidth     float64 `json:"swayWidth" yaml:"swayWidth"`
}

type FruitConfig struct {
	Energy       float64  `json:"energy" yaml:"energy"`
	RespawnDelay Duration `json:"respawnDelay" yaml:"respawnDelay"`
}

type DayNightConfig struct {
	CycleLength     Duration `json:"cycleLength" yaml:"cycleLength"`
	InitialHour     float64  `json:"initialHour" yaml:"initialHour"`
	SunRadius       float64  `json:"sunRadius" yaml:"sunRadius"`
	HaloRadius      float64  `json:"haloRadius" yaml:"haloRadius"`
	MidnightOpacity float64  `json:"midnightOpacity" yaml:"midnightOpacity"`
}

// ReactionConfig bounds the cosmetic animations started when the avatar jumps.
type ReactionConfig struct {
	TreeMin  Duration `json:"treeMin" yaml:"treeMin"`
	TreeMax  Duration `json:"treeMax" yaml:"treeMax"`
	LeafMin  Duration `json:"leafMin" yaml:"leafMin"`
	LeafMax  Duration `json:"leafMax" yaml:"leafMax"`
	FruitMin Duration `json:"fruitMin" yaml:"fruitMin"`
	FruitMax Duration `json:"fruitMax" yaml:"fruitMax"`
}

// Format selects the decoder used by Parse.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatForPath picks YAML for .yaml/.yml files and JSON otherwise.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads configuration from a JSON or YAML file if provided. An empty path
// returns defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data, FormatForPath(path))
}

// Parse decodes data on top of the defaults, checks it against the embedded
// schema and validates the result.
func Parse(data []byte, format Format) (*Config, error) {
	if err := ValidateDocument(data, format); err != nil {
		return nil, fmt.Errorf("check config schema: %w", err)
	}

	cfg := Default()
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func Default() *Config {
	return &Config{
		World: WorldConfig{
			BlockSize:   30,
			Viewport:    Viewport{Width: 800, Height: 600},
			GroundRatio: 0.7,
			FillRatio:   1.5,
		},
		Terrain: TerrainConfig{
			Noise:       "perlin",
			Scale:       150,
			Amplitude:   150,
			Octaves:     3,
			Persistence: 0.5,
			Lacunarity:  2.0,
		},
		Flora: FloraConfig{
			TreeStride:    30,
			TreeSalt:      2,
			LeafSalt:      3,
			FruitSalt:     4,
			ReactionSalt:  5,
			TreeHeightMin: 30,
			TreeHeightMax: 90,
			TreeMinHeight: 70,
			TreeGate:      5,
			TreeWidth:     30,
			LeafSize:      10,
			LeafCountMin:  60,
			LeafCountMax:  100,
			FruitCountMin: 5,
			FruitCountMax: 10,
			SpreadXStd:    1.8,
			SpreadYMean:   -2,
			SpreadYStd:    2.3,
			MaxResample:   16,
			SwayAngle:     20,
			SwayPeriodMin: 8,
			SwayPeriodMax: 14,
			SwayWidth:     0.7,
		},
		Fruit: FruitConfig{
			Energy:       10,
			RespawnDelay: Duration(30 * time.Second),
		},
		DayNight: DayNightConfig{
			CycleLength:     Duration(30 * time.Second),
			InitialHour:     12,
			SunRadius:       40,
			HaloRadius:      70,
			MidnightOpacity: 0.5,
		},
		Reaction: ReactionConfig{
			TreeMin:  Duration(2 * time.Second),
			TreeMax:  Duration(4 * time.Second),
			LeafMin:  Duration(2 * time.Second),
			LeafMax:  Duration(4 * time.Second),
			FruitMin: Duration(4 * time.Second),
			FruitMax: Duration(8 * time.Second),
		},
	}
}

func (c *Config) Validate() error {
	if c.World.BlockSize <= 0 {
		return errors.New("world.blockSize must be positive")
	}
	if c.World.Viewport.Width <= 0 || c.World.Viewport.Height <= 0 {
		return errors.New("world.viewport dimensions must be positive")
	}
	if c.World.FillRatio <= c.World.GroundRatio {
		return errors.New("world.fillRatio must exceed world.groundRatio")
	}
	switch c.Terrain.Noise {
	case "perlin", "simplex", "value":
	default:
		return fmt.Errorf("terrain.noise %q is not one of perlin, simplex, value", c.Terrain.Noise)
	}
	if c.Terrain.Scale <= 0 {
		return errors.New("terrain.scale must be positive")
	}
	if c.Terrain.Amplitude < 0 {
		return errors.New("terrain.amplitude cannot be negative")
	}
	if c.Terrain.Octaves <= 0 {
		return errors.New("terrain.octaves must be positive")
	}
	if c.Flora.TreeStride <= 0 {
		return errors.New("flora.treeStride must be positive")
	}
	if c.Flora.TreeHeightMax <= c.Flora.TreeHeightMin {
		return errors.New("flora.treeHeightMax must exceed flora.treeHeightMin")
	}
	if c.Flora.TreeGate <= 0 {
		return errors.New("flora.treeGate must be positive")
	}
	if c.Flora.LeafCountMin < 0 || c.Flora.LeafCountMax < c.Flora.LeafCountMin {
		return errors.New("flora leaf count range is invalid")
	}
	if c.Flora.FruitCountMin < 0 || c.Flora.FruitCountMax < c.Flora.FruitCountMin {
		return errors.New("flora fruit count range is invalid")
	}
	if c.Flora.LeafSize <= 0 {
		return errors.New("flora.leafSize must be positive")
	}
	if c.Flora.MaxResample < 0 {
		return errors.New("flora.maxResample cannot be negative")
	}
	if c.Fruit.Energy <= 0 {
		return errors.New("fruit.energy must be positive")
	}
	if c.Fruit.RespawnDelay <= 0 {
		return errors.New("fruit.respawnDelay must be positive")
	}
	if c.DayNight.CycleLength <= 0 {
		return errors.New("dayNight.cycleLength must be positive")
	}
	if c.DayNight.InitialHour < 0 || c.DayNight.InitialHour >= 24 {
		return errors.New("dayNight.initialHour must be within [0, 24)")
	}
	if c.DayNight.MidnightOpacity < 0 || c.DayNight.MidnightOpacity > 1 {
		return errors.New("dayNight.midnightOpacity must be within [0, 1]")
	}
	if c.Reaction.TreeMax < c.Reaction.TreeMin || c.Reaction.LeafMax < c.Reaction.LeafMin || c.Reaction.FruitMax < c.Reaction.FruitMin {
		return errors.New("reaction max durations must be >= their minimums")
	}
	return nil
}

// SeedOrClock returns the configured seed, or one derived from now when the
// seed was omitted. The derived seed does not reproduce across runs.
func (c *Config) SeedOrClock(now time.Time) int32 {
	if c.Terrain.Seed != nil {
		return *c.Terrain.Seed
	}
	return int32(now.UnixMilli() % (1<<31 - 1))
}
