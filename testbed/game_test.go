package testbed

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/marionette/engine"
	"github.com/spaghettifunk/marionette/engine/config"
	"github.com/spaghettifunk/marionette/engine/math"
	"github.com/spaghettifunk/marionette/engine/remote"
	"github.com/spaghettifunk/marionette/engine/renderer"
	"github.com/spaghettifunk/marionette/engine/systems"
)

func barConfig() *config.Config {
	cfg := config.Default()
	cfg.Application.TargetFPS = 0
	cfg.Application.MaxTicks = 3
	cfg.Model.Mesh = filepath.Join("..", "engine", "assets", "loaders", "testdata", "bar.md5mesh")
	cfg.Model.Animation = filepath.Join("..", "engine", "assets", "loaders", "testdata", "bar.md5anim")
	cfg.Model.Instances = 2
	cfg.Sync.Interval = 0.1
	return cfg
}

func startGame(t *testing.T, cfg *config.Config) (*TestGame, *engine.Engine, *renderer.HeadlessBackend) {
	t.Helper()
	backend := renderer.NewHeadlessBackend()
	g := NewTestGame(cfg)
	e, err := engine.New(g.Game, backend)
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	t.Cleanup(func() { _ = e.Shutdown() })
	return g, e, backend
}

func TestGameDrawsEveryActor(t *testing.T) {
	cfg := barConfig()
	cfg.Sync.Interval = 1000
	g, e, backend := startGame(t, cfg)

	require.NoError(t, e.Run(context.Background()))

	st := g.state()
	require.Len(t, st.actors, 2)
	require.NotNil(t, st.mirror)
	frame := backend.LastFrame()
	assert.Equal(t, 3, frame.DrawCalls)
	assert.Equal(t, 9, frame.Vertices)
	assert.Equal(t, 3, frame.Triangles)
	assert.Equal(t, math.NewVec3(2, 0, 0), st.actors[1].transform.Position)
}

func TestGameWithoutSync(t *testing.T) {
	cfg := barConfig()
	cfg.Sync.Enabled = false
	g, _, _ := startGame(t, cfg)

	var packet renderer.RenderPacket
	require.NoError(t, g.Update(0.25))
	require.NoError(t, g.Draw(&packet))
	assert.Len(t, packet.Geometries, 2)
	assert.Nil(t, g.state().mirror)
	assert.InDelta(t, 0.25, g.state().actors[0].instance.Elapsed(), 1e-9)
}

func TestGameMirrorFollowsRemoteState(t *testing.T) {
	g, _, _ := startGame(t, barConfig())
	st := g.state()

	require.NoError(t, g.Update(0.06))
	require.NoError(t, g.Update(0.06))
	require.Eventually(t, func() bool { return st.mailbox.Len() == 1 }, 5*time.Second, time.Millisecond)
	assert.Zero(t, st.mirror.instance.Elapsed())

	require.NoError(t, g.Update(0))
	assert.InDelta(t, 0.12, st.mirror.instance.Elapsed(), 1e-6)
	assert.InDelta(t, 0.12, st.actors[0].instance.Elapsed(), 1e-9)
	assert.Equal(t, math.NewVec3(-2, 0, 0.25), st.mirror.transform.Position)

	// States for instances the game does not know are ignored.
	st.mailbox.Post(remote.State{Instance: uuid.New(), DeltaTime: 1, Translation: math.NewVec3(1, 1, 1)})
	require.NoError(t, g.Update(0))
	assert.InDelta(t, 0.12, st.mirror.instance.Elapsed(), 1e-6)
}

func TestGameSwapsReloadedModel(t *testing.T) {
	cfg := barConfig()
	g, _, _ := startGame(t, cfg)
	st := g.state()

	require.NoError(t, g.Update(0.125))
	reloaded, err := g.SystemManager.ModelLoaderSystem.Load(systems.ModelLoadParams{
		MeshPath: cfg.Model.Mesh,
		AnimPath: cfg.Model.Animation,
	})
	require.NoError(t, err)
	require.NotSame(t, st.model, reloaded)

	g.onModelLoaded(reloaded)
	require.NoError(t, g.Update(0))
	assert.Same(t, reloaded, st.model)
	for _, a := range g.allActors() {
		assert.Same(t, reloaded, a.instance.Model())
	}
	assert.InDelta(t, 0.125, st.actors[0].instance.Elapsed(), 1e-9)
}

func TestGameTickDoesNotAllocate(t *testing.T) {
	cfg := barConfig()
	cfg.Sync.Interval = 1000
	g, _, _ := startGame(t, cfg)
	st := g.state()

	actors := g.allActors()
	require.Len(t, actors, 3)
	assert.Same(t, st.mirror, actors[2])

	var packet renderer.RenderPacket
	allocs := testing.AllocsPerRun(20, func() {
		packet.Reset(0.01)
		_ = g.Update(0.01)
		_ = g.Draw(&packet)
	})
	assert.Zero(t, allocs)
	assert.Len(t, packet.Geometries, 3)
}
