package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDefaultConfig(t *testing.T) {
	require.NoError(t, Default().Validate(), "default configuration should be valid")
}

func TestValidateDetectsInvalidConfigurations(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name: "non positive block size",
			mutate: func(cfg *Config) {
				cfg.World.BlockSize = 0
			},
			wantErr: "world.blockSize must be positive",
		},
		{
			name: "empty viewport",
			mutate: func(cfg *Config) {
				cfg.World.Viewport.Height = 0
			},
			wantErr: "world.viewport dimensions must be positive",
		},
		{
			name: "fill above ground",
			mutate: func(cfg *Config) {
				cfg.World.FillRatio = 0.5
			},
			wantErr: "world.fillRatio must exceed world.groundRatio",
		},
		{
			name: "unknown noise",
			mutate: func(cfg *Config) {
				cfg.Terrain.Noise = "worley"
			},
			wantErr: `terrain.noise "worley" is not one of perlin, simplex, value`,
		},
		{
			name: "inverted tree heights",
			mutate: func(cfg *Config) {
				cfg.Flora.TreeHeightMax = cfg.Flora.TreeHeightMin
			},
			wantErr: "flora.treeHeightMax must exceed flora.treeHeightMin",
		},
		{
			name: "inverted leaf counts",
			mutate: func(cfg *Config) {
				cfg.Flora.LeafCountMax = 1
			},
			wantErr: "flora leaf count range is invalid",
		},
		{
			name: "missing respawn delay",
			mutate: func(cfg *Config) {
				cfg.Fruit.RespawnDelay = 0
			},
			wantErr: "fruit.respawnDelay must be positive",
		},
		{
			name: "hour out of range",
			mutate: func(cfg *Config) {
				cfg.DayNight.InitialHour = 24
			},
			wantErr: "dayNight.initialHour must be within [0, 24)",
		},
		{
			name: "inverted reaction durations",
			mutate: func(cfg *Config) {
				cfg.Reaction.FruitMax = Duration(time.Second)
			},
			wantErr: "reaction max durations must be >= their minimums",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			require.EqualError(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadReadsFileAndValidates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	seed := int32(42)
	cfg := Default()
	cfg.Terrain.Seed = &seed
	cfg.Terrain.Noise = "simplex"
	cfg.Fruit.RespawnDelay = Duration(45 * time.Second)

	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	doc := `
terrain:
  seed: 7
  noise: value
fruit:
  respawnDelay: 1m
dayNight:
  cycleLength: 90s
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	got, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, got.Terrain.Seed)
	assert.Equal(t, int32(7), *got.Terrain.Seed)
	assert.Equal(t, "value", got.Terrain.Noise)
	assert.Equal(t, time.Minute, got.Fruit.RespawnDelay.Duration())
	assert.Equal(t, 90*time.Second, got.DayNight.CycleLength.Duration())
	assert.Equal(t, Default().World.BlockSize, got.World.BlockSize, "untouched fields keep defaults")
}

func TestLoadInvalidConfiguration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := Default()
	cfg.World.FillRatio = 0.5

	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	_, err = Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate config: world.fillRatio must exceed world.groundRatio")
}

func TestSchemaRejectsUnknownAndMistypedFields(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		doc    string
	}{
		{name: "unknown top level", format: FormatJSON, doc: `{"server": {}}`},
		{name: "unknown nested", format: FormatYAML, doc: "flora:\n  treeCount: 3\n"},
		{name: "noise not in enum", format: FormatJSON, doc: `{"terrain": {"noise": "worley"}}`},
		{name: "negative block size", format: FormatYAML, doc: "world:\n  blockSize: -30\n"},
		{name: "malformed duration", format: FormatJSON, doc: `{"fruit": {"respawnDelay": "soon"}}`},
		{name: "seed out of range", format: FormatJSON, doc: `{"terrain": {"seed": 4294967296}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, ValidateDocument([]byte(tt.doc), tt.format))

			_, err := Parse([]byte(tt.doc), tt.format)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "check config schema")
		})
	}
}

func TestSchemaAcceptsEmptyYAML(t *testing.T) {
	cfg, err := Parse(nil, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestDurationDecodesStringsAndNumbers(t *testing.T) {
	var payload struct {
		A Duration `json:"a"`
		B Duration `json:"b"`
		C Duration `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"1.5s","b":2000000000,"c":null}`), &payload))
	assert.Equal(t, 1500*time.Millisecond, payload.A.Duration())
	assert.Equal(t, 2*time.Second, payload.B.Duration())
	assert.Zero(t, payload.C)

	assert.Error(t, json.Unmarshal([]byte(`{"a":"later"}`), &payload))
}

func TestSeedOrClock(t *testing.T) {
	cfg := Default()
	now := time.UnixMilli(1_700_000_000_123)
	assert.Equal(t, int32(now.UnixMilli()%(1<<31-1)), cfg.SeedOrClock(now))

	seed := int32(-5)
	cfg.Terrain.Seed = &seed
	assert.Equal(t, int32(-5), cfg.SeedOrClock(now))
}
