package opts

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/parcrypt/pkg/config"
	"github.com/walteh/parcrypt/pkg/log"
	"github.com/walteh/parcrypt/pkg/manifest"
	"github.com/walteh/parcrypt/pkg/report"
	"gitlab.com/tozd/go/errors"
)

// RootOpts carries the flag values shared by all commands
type RootOpts struct {
	ConfigFile string
	Debug      bool
}

// Runtime contains the initialized dependencies commands run against
type Runtime struct {
	Config     *config.Config
	Manifest   *manifest.Manager
	Reporter   *report.Manager
	UserLogger *log.Logger
}

// Load builds the runtime from the configured file: parsed and validated
// config, a manifest manager over the output directory with any existing lock
// file loaded, a fresh report manager, and the user-facing console logger.
func (o *RootOpts) Load(ctx context.Context) (*Runtime, error) {
	cfg, err := config.Load(ctx, o.ConfigFile)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}

	manifestManager, err := manifest.New(cfg.OutputDir)
	if err != nil {
		return nil, errors.Errorf("creating manifest manager: %w", err)
	}
	if err := manifestManager.Load(ctx); err != nil {
		return nil, errors.Errorf("loading manifest: %w", err)
	}

	level := zerolog.InfoLevel
	if o.Debug {
		level = zerolog.DebugLevel
	}
	userLogger := log.New(os.Stdout, level)

	return &Runtime{
		Config:     cfg,
		Manifest:   manifestManager,
		Reporter:   report.NewManager(),
		UserLogger: userLogger,
	}, nil
}
