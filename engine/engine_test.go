package engine

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/marionette/engine/config"
	"github.com/spaghettifunk/marionette/engine/renderer"
)

func testConfig(maxTicks int) *config.Config {
	cfg := config.Default()
	cfg.Application.TargetFPS = 0
	cfg.Application.MaxTicks = maxTicks
	cfg.Model.Mesh = filepath.Join("assets", "loaders", "testdata", "bar.md5mesh")
	cfg.Model.Animation = filepath.Join("assets", "loaders", "testdata", "bar.md5anim")
	return cfg
}

type countingGame struct {
	updates, renders int
	deltas           []float64
	failAt           int
}

func (c *countingGame) Update(deltaTime float64) error {
	c.updates++
	c.deltas = append(c.deltas, deltaTime)
	if c.failAt > 0 && c.updates == c.failAt {
		return errors.New("boom")
	}
	return nil
}

func (c *countingGame) Draw(packet *renderer.RenderPacket) error {
	c.renders++
	return nil
}

func (c *countingGame) game(cfg *config.Config) *Game {
	return &Game{
		ApplicationConfig: cfg,
		Level:             c,
	}
}

func TestEngineRunsUntilMaxTicks(t *testing.T) {
	cg := &countingGame{}
	backend := renderer.NewHeadlessBackend()
	e, err := New(cg.game(testConfig(5)), backend)
	require.NoError(t, err)
	require.NoError(t, e.Initialize())

	require.NoError(t, e.Run(context.Background()))
	assert.Equal(t, 5, e.Ticks())
	assert.Equal(t, 5, cg.updates)
	assert.Equal(t, 5, cg.renders)
	assert.Equal(t, uint64(5), backend.LastFrame().Frame)
	for _, d := range cg.deltas {
		assert.GreaterOrEqual(t, d, 0.0)
	}

	require.NoError(t, e.Shutdown())
	assert.Equal(t, EngineStageStopped, e.Stage())
	assert.ErrorIs(t, e.Shutdown(), ErrInvalidStage)
}

func TestEngineStopsOnCancel(t *testing.T) {
	cg := &countingGame{}
	e, err := New(cg.game(testConfig(0)), renderer.NewHeadlessBackend())
	require.NoError(t, err)
	require.NoError(t, e.Initialize())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, e.Run(ctx))
	assert.Zero(t, cg.updates)
	require.NoError(t, e.Shutdown())
}

func TestEngineStopsOnUpdateError(t *testing.T) {
	cg := &countingGame{failAt: 3}
	e, err := New(cg.game(testConfig(10)), renderer.NewHeadlessBackend())
	require.NoError(t, err)
	require.NoError(t, e.Initialize())

	assert.EqualError(t, e.Run(context.Background()), "boom")
	assert.Equal(t, 2, e.Ticks())
	assert.Equal(t, 2, cg.renders)
	require.NoError(t, e.Shutdown())
}

func TestEngineStages(t *testing.T) {
	cg := &countingGame{}
	e, err := New(cg.game(testConfig(1)), renderer.NewHeadlessBackend())
	require.NoError(t, err)
	assert.Equal(t, EngineStageUninitialized, e.Stage())
	assert.ErrorIs(t, e.Run(context.Background()), ErrInvalidStage)

	require.NoError(t, e.Initialize())
	assert.ErrorIs(t, e.Initialize(), ErrInvalidStage)
	require.NoError(t, e.Shutdown())
	assert.Equal(t, "stopped", e.Stage().String())
}

func TestEngineNeedsLevel(t *testing.T) {
	g := (&countingGame{}).game(testConfig(1))
	g.Level = nil
	e, err := New(g, renderer.NewHeadlessBackend())
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	assert.Error(t, e.Run(context.Background()))
	require.NoError(t, e.Shutdown())
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(1)
	cfg.Model.Instances = 0
	_, err := New((&countingGame{}).game(cfg), renderer.NewHeadlessBackend())
	assert.Error(t, err)
}
