package engine

import (
	"github.com/spaghettifunk/marionette/engine/config"
	"github.com/spaghettifunk/marionette/engine/renderer"
	"github.com/spaghettifunk/marionette/engine/systems"
)

// Level is what the engine ticks. Update runs first on every tick, then
// Draw fills the packet the renderer submits for that tick.
type Level interface {
	Update(deltaTime float64) error
	Draw(packet *renderer.RenderPacket) error
}

// Game is what an application plugs into the Engine. SystemManager is set
// by engine.New before FnInitialize runs; Level must be set by the time
// Run is called.
type Game struct {
	ApplicationConfig *config.Config
	SystemManager     *systems.SystemManager
	State             interface{}
	Level             Level
	FnInitialize      Initialize
	FnShutdown        Shutdown
}

type Initialize func() error
type Shutdown func() error
