package systems

import (
	"github.com/spaghettifunk/marionette/engine/assets"
	"github.com/spaghettifunk/marionette/engine/renderer"
)

type SystemManager struct {
	JobSystem         *JobSystem
	AssetManager      *assets.AssetManager
	ModelLoaderSystem *ModelLoaderSystem
	RendererSystem    *renderer.Renderer
}

func NewSystemManager(appName string, backend renderer.RendererBackend, am *assets.AssetManager) (*SystemManager, error) {
	js, err := NewJobSystem(1, 8)
	if err != nil {
		return nil, err
	}
	mls, err := NewModelLoaderSystem(js, am)
	if err != nil {
		return nil, err
	}
	r := renderer.New(backend)
	if err := r.Initialize(appName); err != nil {
		return nil, err
	}
	return &SystemManager{
		JobSystem:         js,
		AssetManager:      am,
		ModelLoaderSystem: mls,
		RendererSystem:    r,
	}, nil
}

func (sm *SystemManager) Shutdown() error {
	if err := sm.ModelLoaderSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.JobSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.RendererSystem.Shutdown(); err != nil {
		return err
	}
	return nil
}
