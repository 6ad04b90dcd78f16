/*
Marionette plays an MD5 model and its animation through the headless
renderer. The configuration is read from config.toml when present.
*/
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/marionette/engine"
	"github.com/spaghettifunk/marionette/engine/config"
	"github.com/spaghettifunk/marionette/engine/core"
	"github.com/spaghettifunk/marionette/engine/renderer"
	"github.com/spaghettifunk/marionette/testbed"
)

const configPath = "config.toml"

func main() {
	cfg, err := config.Load(configPath)
	if errors.Is(err, os.ErrNotExist) {
		cfg, err = config.Default(), nil
	}
	if err != nil {
		core.LogFatal(err.Error())
	}
	level, _ := core.ParseLogLevel(cfg.Application.LogLevel)
	core.SetLogLevel(level)

	backend := renderer.NewHeadlessBackend()
	backend.LogEvery = uint64(cfg.Application.TargetFPS)

	tb := testbed.NewTestGame(cfg)
	e, err := engine.New(tb.Game, backend)
	if err != nil {
		core.LogFatal(err.Error())
	}

	if err := e.Initialize(); err != nil {
		_ = e.Shutdown()
		core.LogFatal(err.Error())
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		// capture sigterm and other system call here
		<-sigCh
		cancel()
	}()

	runErr := e.Run(ctx)
	if err := e.Shutdown(); err != nil {
		core.LogError(err.Error())
	}
	if runErr != nil {
		core.LogFatal(runErr.Error())
	}
}
