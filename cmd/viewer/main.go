// cmd/viewer/main.go
package main

import (
	"context"
	"flag"
	"os"

	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-spacebarge/pkg/config"
	"github.com/opd-ai/go-spacebarge/pkg/engine"
	"github.com/opd-ai/go-spacebarge/pkg/event"
	"github.com/opd-ai/go-spacebarge/pkg/logging"
	engorender "github.com/opd-ai/go-spacebarge/pkg/render/engo"
)

func main() {
	logger := logging.NewLogger()
	ctx := context.Background()

	configPath := flag.String("config", "config.json", "Path to configuration file (JSON or YAML)")
	levelName := flag.String("level", "", "Level template to load over the configuration")
	fullscreen := flag.Bool("fullscreen", false, "Run in fullscreen mode")
	width := flag.Int("width", 1024, "Window width")
	height := flag.Int("height", 768, "Window height")
	flag.Parse()

	var (
		cfg *config.GameConfig
		err error
	)
	if *levelName != "" {
		cfg, err = config.LoadConfigWithTemplate(*configPath, *levelName)
	} else if _, statErr := os.Stat(*configPath); os.IsNotExist(statErr) {
		logger.Info(ctx, "Configuration file not found, using default configuration",
			"config_path", *configPath,
		)
		cfg = config.DefaultConfig()
	} else {
		cfg, err = config.LoadConfig(*configPath)
	}
	if err != nil {
		logger.Error(ctx, "Failed to load configuration", err, "config_path", *configPath)
		os.Exit(1)
	}
	if err := config.ApplyEnvironmentOverrides(cfg); err != nil {
		logger.Error(ctx, "Failed to apply environment configuration", err)
		os.Exit(1)
	}

	level, err := engine.NewLevel(cfg, event.NewEventBus(), logger)
	if err != nil {
		logger.Error(ctx, "Failed to build level", err)
		os.Exit(1)
	}
	level.Init()

	opts := engo.RunOptions{
		Title:      "Spacebarge",
		Width:      *width,
		Height:     *height,
		Fullscreen: *fullscreen,
		VSync:      true,
	}
	engo.Run(opts, engorender.NewGameScene(level, logger.With("runID", level.RunID())))
}
