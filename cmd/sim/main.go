// cmd/sim/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/opd-ai/go-spacebarge/pkg/config"
	"github.com/opd-ai/go-spacebarge/pkg/engine"
	"github.com/opd-ai/go-spacebarge/pkg/event"
	"github.com/opd-ai/go-spacebarge/pkg/health"
	"github.com/opd-ai/go-spacebarge/pkg/logging"
	"github.com/opd-ai/go-spacebarge/pkg/render"
	"github.com/opd-ai/go-spacebarge/pkg/resource"
	"github.com/opd-ai/go-spacebarge/pkg/validation"
)

type options struct {
	configPath    string
	createDefault bool
	levelName     string
	listLevels    bool
	ticks         int
	renderMode    string
	fps           int
	scale         float64
	destination   string
	healthAddr    string
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.configPath, "config", "config.json", "Path to configuration file (JSON or YAML)")
	flag.BoolVar(&o.createDefault, "default", false, "Create default configuration file and exit")
	flag.StringVar(&o.levelName, "level", "", "Level template to load over the configuration")
	flag.BoolVar(&o.listLevels, "list-levels", false, "List level templates and exit")
	flag.IntVar(&o.ticks, "ticks", 0, "Run this many fixed ticks as fast as possible; 0 runs in real time")
	flag.StringVar(&o.renderMode, "render", "none", "Renderer: 'none' or 'terminal'")
	flag.IntVar(&o.fps, "fps", 10, "Terminal frames per second in real-time mode")
	flag.Float64Var(&o.scale, "scale", 2, "World units per terminal cell")
	flag.StringVar(&o.destination, "dest", "", "Send the player's autopilot to \"x,z\" on start")
	flag.StringVar(&o.healthAddr, "health", "", "Serve /health and /ready on this address, e.g. :8080")
	flag.Parse()
	return o
}

func main() {
	logger := logging.NewLogger()
	opts := parseFlags()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error(ctx, "Simulation failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, logger *logging.Logger) error {
	if opts.listLevels {
		listLevels()
		return nil
	}

	if opts.createDefault {
		if err := config.SaveConfig(config.DefaultConfig(), opts.configPath); err != nil {
			return logging.WrapError(err, "create default configuration %s", opts.configPath)
		}
		logger.Info(ctx, "Created default configuration file", "config_path", opts.configPath)
		return nil
	}

	cfg, err := loadConfig(ctx, opts, logger)
	if err != nil {
		return err
	}

	bus := event.NewEventBus()
	level, err := engine.NewLevel(cfg, bus, logger)
	if err != nil {
		return logging.WrapError(err, "build level")
	}
	logger = logger.With("runID", level.RunID())
	subscribeLogging(ctx, bus, logger)
	level.Init()

	if opts.destination != "" {
		dest, err := validation.ParseDestination(opts.destination, cfg.WorldSize)
		if err != nil {
			return err
		}
		level.MovePlayerTo(dest)
		logger.Info(ctx, "Autopilot engaged", "x", dest.X, "z", dest.Z)
	}

	renderer, terminal, err := newRenderer(opts, logger)
	if err != nil {
		return err
	}

	if opts.ticks > 0 {
		if err := runFixed(level, renderer, opts.ticks, cfg.Simulation.TickRate); err != nil {
			return err
		}
	} else if err := runRealTime(ctx, level, renderer, terminal, opts, cfg.Simulation.TickRate, logger); err != nil {
		return err
	}

	logSummary(ctx, level, logger)
	return nil
}

func loadConfig(ctx context.Context, opts options, logger *logging.Logger) (*config.GameConfig, error) {
	var (
		cfg *config.GameConfig
		err error
	)
	switch {
	case opts.levelName != "":
		cfg, err = config.LoadConfigWithTemplate(opts.configPath, opts.levelName)
	default:
		if _, statErr := os.Stat(opts.configPath); os.IsNotExist(statErr) {
			logger.Info(ctx, "Configuration file not found, using default configuration",
				"config_path", opts.configPath,
			)
			cfg = config.DefaultConfig()
		} else {
			cfg, err = config.LoadConfig(opts.configPath)
		}
	}
	if err != nil {
		return nil, logging.WrapError(err, "load configuration %s", opts.configPath)
	}

	if err := config.ApplyEnvironmentOverrides(cfg); err != nil {
		return nil, logging.WrapError(err, "apply environment configuration")
	}
	return cfg, nil
}

func listLevels() {
	templates := config.ListLevelTemplates()
	keys := make([]string, 0, len(templates))
	for k := range templates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%-12s %s\n", k, templates[k])
	}
}

// subscribeLogging logs level events. Handlers run inside a tick, so they
// must not take the simulation lock.
func subscribeLogging(ctx context.Context, bus *event.Bus, logger *logging.Logger) {
	bus.Subscribe(event.RewardGranted, func(e event.Event) {
		if re, ok := e.(*event.RewardEvent); ok {
			logger.Info(ctx, "Reward granted", "flierID", re.FlierID, "amount", re.Amount, "score", re.Score)
		}
	})
	bus.Subscribe(event.FuelEmpty, func(e event.Event) {
		if fe, ok := e.(*event.FuelEvent); ok {
			logger.Warn(ctx, "Fuel tank empty", "canisters", fe.Canisters)
		}
	})
	bus.Subscribe(event.DestinationReached, func(e event.Event) {
		if fe, ok := e.(*event.FlierEvent); ok && fe.FlierID == engine.PlayerID {
			logger.Info(ctx, "Player reached destination")
		}
	})
}

func newRenderer(opts options, logger *logging.Logger) (render.Renderer, bool, error) {
	switch opts.renderMode {
	case "", "none":
		return render.NewNullRenderer(logger), false, nil
	case "terminal":
		r := render.NewTerminalRenderer(os.Stdout, 80, 24, opts.scale)
		r.SetClearScreen(opts.ticks == 0)
		return render.NewGuardedRenderer(r, render.DefaultGuardSettings(), logger), true, nil
	default:
		return nil, false, fmt.Errorf("unknown renderer %q", opts.renderMode)
	}
}

// runFixed advances the level by whole ticks and renders the final frame.
func runFixed(level *engine.Level, renderer render.Renderer, ticks, tickRate int) error {
	dt := 1 / float64(tickRate)
	for i := 0; i < ticks; i++ {
		level.Tick(dt)
	}
	return renderer.Render(level.Snapshot())
}

func runRealTime(ctx context.Context, level *engine.Level, renderer render.Renderer, terminal bool, opts options, tickRate int, logger *logging.Logger) error {
	mgr := resource.NewManager(ctx, resource.Options{MaxGoroutines: 4, Logger: logger})

	if opts.healthAddr != "" {
		checker := health.NewHealthChecker()
		checker.AddCheck(health.NewTickHealthCheck(func() uint64 { return level.Simulation().Clock().Tick }, 2*time.Second))
		checker.AddCheck(health.NewPlayerHealthCheck(level.PlayerAlive))
		checker.AddCheck(health.NewMemoryHealthCheck(500, health.HeapAllocMB))
		checker.AddCheck(resource.NewHealthCheck(mgr))
		if guarded, ok := renderer.(*render.GuardedRenderer); ok {
			checker.AddCheck(guarded)
		}

		if err := mgr.Go("health", func(ctx context.Context) error {
			return serveHealth(ctx, opts.healthAddr, checker, logger)
		}); err != nil {
			return err
		}
	}

	every := 1
	if !terminal {
		every = tickRate
	} else if opts.fps > 0 && opts.fps < tickRate {
		every = tickRate / opts.fps
	}

	if err := mgr.Go("simulation", func(ctx context.Context) error {
		return level.Simulation().Run(ctx, tickRate, func(clock engine.Clock) {
			if clock.Tick%uint64(every) != 0 {
				return
			}
			err := renderer.Render(level.Snapshot())
			if err != nil && !errors.Is(err, render.ErrFrameSkipped) {
				logger.Error(ctx, "Render failed", err)
			}
		})
	}); err != nil {
		return err
	}

	<-mgr.Done()
	logger.Info(ctx, "Shutting down")
	return mgr.Shutdown(context.Background())
}

func serveHealth(ctx context.Context, addr string, checker *health.HealthChecker, logger *logging.Logger) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      checker.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "Starting health check server", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return logging.WrapError(err, "shutdown health check server")
	}
	return nil
}

func logSummary(ctx context.Context, level *engine.Level, logger *logging.Logger) {
	state := level.Snapshot()
	alive := false
	for _, f := range state.Fliers {
		if f.Player {
			alive = f.Alive
		}
	}
	logger.Info(ctx, "Simulation finished",
		"ticks", state.Clock.Tick,
		"seconds", state.Clock.Total,
		"score", state.Score,
		"canisters", state.Fuel.Canisters,
		"fuel", state.Fuel.Band.String(),
		"player_alive", alive,
	)
}
