package game

import (
	"fmt"
	"log/slog"

	"sidescroll/internal/config"
	"sidescroll/internal/daynight"
	"sidescroll/internal/flora"
	"sidescroll/internal/hud"
	"sidescroll/internal/state"
	"sidescroll/internal/terrain"
	"sidescroll/internal/world"
)

// Deps lists every collaborator of a Game. NewDeps builds the standard set;
// tests may build their own.
type Deps struct {
	Config *config.Config
	Seed   int32
	Log    *slog.Logger

	State   *state.WorldState
	Terrain *terrain.Terrain
	Flora   *flora.Placer
	Window  *world.Window
	Orchard *flora.Orchard
	Reactor *flora.Reactor
	Cycle   *daynight.Cycle
	Sun     *daynight.Sun
	Night   *daynight.Night
	Energy  *hud.EnergyLabel
}

func NewDeps(cfg *config.Config, seed int32, logger *slog.Logger) (*Deps, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	ground, err := terrain.NewFromConfig(cfg, seed)
	if err != nil {
		return nil, err
	}
	ws := state.New(cfg.DayNight.InitialHour)
	placer := flora.NewPlacer(cfg.Flora, seed, ground)
	window := world.NewWindow(cfg.World.BlockSize, []world.Source{ground, placer}, logger.With("component", "window"))

	return &Deps{
		Config:  cfg,
		Seed:    seed,
		Log:     logger,
		State:   ws,
		Terrain: ground,
		Flora:   placer,
		Window:  window,
		Orchard: flora.NewOrchard(cfg.Fruit, logger.With("component", "orchard")),
		Reactor: flora.NewReactor(cfg.Reaction, seed, cfg.Flora.ReactionSalt, window, ws.AvatarStateChanged()),
		Cycle:   daynight.NewCycle(cfg.DayNight, ws),
		Sun:     daynight.NewSun(cfg.DayNight, cfg.World.Viewport, ground, ws.HourChanged()),
		Night:   daynight.NewNight(cfg.DayNight, ws.HourChanged()),
		Energy:  hud.NewEnergyLabel(ws.EnergyChanged()),
	}, nil
}

// Close detaches every listener from the world state.
func (d *Deps) Close() {
	d.Reactor.Close()
	d.Sun.Close()
	d.Night.Close()
	d.Energy.Close()
}
