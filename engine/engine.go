package engine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spaghettifunk/marionette/engine/assets"
	"github.com/spaghettifunk/marionette/engine/core"
	"github.com/spaghettifunk/marionette/engine/renderer"
	"github.com/spaghettifunk/marionette/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
	// Engine released every system
	EngineStageStopped
)

func (s Stage) String() string {
	switch s {
	case EngineStageUninitialized:
		return "uninitialized"
	case EngineStageInitializing:
		return "initializing"
	case EngineStageInitialized:
		return "initialized"
	case EngineStageRunning:
		return "running"
	case EngineStageShuttingDown:
		return "shutting down"
	case EngineStageStopped:
		return "stopped"
	default:
		return fmt.Sprintf("stage(%d)", uint8(s))
	}
}

var ErrInvalidStage = errors.New("engine is not in the right stage")

type Engine struct {
	currentStage  Stage
	gameInstance  *Game
	assetManager  *assets.AssetManager
	systemManager *systems.SystemManager
	clock         *core.Clock
	metrics       *core.Metrics
	lastTime      float64
	ticks         int
	packet        renderer.RenderPacket
}

func New(g *Game, backend renderer.RendererBackend) (*Engine, error) {
	if err := g.ApplicationConfig.Validate(); err != nil {
		return nil, err
	}

	am, err := assets.NewAssetManager()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	sm, err := systems.NewSystemManager(g.ApplicationConfig.Application.Name, backend, am)
	if err != nil {
		core.LogError(err.Error())
		_ = am.Shutdown()
		return nil, err
	}
	g.SystemManager = sm

	return &Engine{
		currentStage:  EngineStageUninitialized,
		gameInstance:  g,
		assetManager:  am,
		systemManager: sm,
		clock:         core.NewClock(),
		metrics:       core.NewMetrics(),
	}, nil
}

// Initialize starts watching the directory holding the model and lets the
// game load its content.
func (e *Engine) Initialize() error {
	if e.currentStage != EngineStageUninitialized {
		return fmt.Errorf("initialize while %s: %w", e.currentStage, ErrInvalidStage)
	}
	e.currentStage = EngineStageInitializing

	cfg := e.gameInstance.ApplicationConfig
	if cfg.Model.HotReload {
		if err := e.assetManager.Initialize(filepath.Dir(cfg.Model.Mesh)); err != nil {
			return err
		}
	}

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			return err
		}
	}
	e.currentStage = EngineStageInitialized
	return nil
}

// Run ticks the level until ctx is done, the configured number of ticks is
// reached or the game fails. Each tick updates, renders and then sleeps
// whatever is left of the frame budget.
func (e *Engine) Run(ctx context.Context) error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("run while %s: %w", e.currentStage, ErrInvalidStage)
	}
	level := e.gameInstance.Level
	if level == nil {
		return errors.New("game has no level to run")
	}
	e.currentStage = EngineStageRunning

	cfg := e.gameInstance.ApplicationConfig
	targetFrameSeconds := cfg.FrameBudget()
	maxTicks := cfg.Application.MaxTicks

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	for {
		select {
		case <-ctx.Done():
			core.LogInfo("Stopping after %d ticks: %s", e.ticks, ctx.Err().Error())
			return nil
		default:
		}
		if maxTicks > 0 && e.ticks >= maxTicks {
			core.LogInfo("Stopping after %d ticks.", e.ticks)
			return nil
		}

		// Update clock and get delta time.
		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime
		frameStartTime := time.Now()

		if err := level.Update(delta); err != nil {
			core.LogError("Game update failed, shutting down: %s", err.Error())
			return err
		}

		e.packet.Reset(delta)
		if err := level.Draw(&e.packet); err != nil {
			core.LogError("Game draw failed, shutting down: %s", err.Error())
			return err
		}
		if err := e.systemManager.RendererSystem.DrawFrame(&e.packet); err != nil {
			return err
		}

		// Figure out how long the frame took and give the rest back to the OS.
		frameElapsedTime := time.Since(frameStartTime).Seconds()
		e.metrics.Update(frameElapsedTime)
		if remaining := targetFrameSeconds - frameElapsedTime; remaining > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(time.Duration(remaining * float64(time.Second))):
			}
		}

		e.ticks++
		e.lastTime = currentTime
	}
}

func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShuttingDown || e.currentStage == EngineStageStopped {
		return fmt.Errorf("shutdown while %s: %w", e.currentStage, ErrInvalidStage)
	}
	e.currentStage = EngineStageShuttingDown

	var errs []error
	if e.gameInstance.FnShutdown != nil {
		errs = append(errs, e.gameInstance.FnShutdown())
	}
	errs = append(errs, e.systemManager.Shutdown())
	errs = append(errs, e.assetManager.Shutdown())

	e.currentStage = EngineStageStopped
	core.LogInfo("Engine stopped. Average frame %.3fms, %d ticks.", e.metrics.FrameTime(), e.ticks)
	return errors.Join(errs...)
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

// Ticks returns how many frames Run completed.
func (e *Engine) Ticks() int {
	return e.ticks
}
