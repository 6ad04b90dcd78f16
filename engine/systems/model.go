package systems

import (
	"fmt"

	"github.com/spaghettifunk/marionette/engine/animation"
	"github.com/spaghettifunk/marionette/engine/assets"
	"github.com/spaghettifunk/marionette/engine/core"
	"github.com/spaghettifunk/marionette/engine/resources"
)

/** @brief The files a model is built from. */
type ModelLoadParams struct {
	MeshPath string
	AnimPath string
}

// ModelLoaderSystem builds animated models from assets, either on the
// calling goroutine or as a job.
type ModelLoaderSystem struct {
	jobSystem    *JobSystem
	assetManager *assets.AssetManager
}

func NewModelLoaderSystem(js *JobSystem, am *assets.AssetManager) (*ModelLoaderSystem, error) {
	if js == nil || am == nil {
		return nil, fmt.Errorf("model loader system needs a job system and an asset manager")
	}
	return &ModelLoaderSystem{
		jobSystem:    js,
		assetManager: am,
	}, nil
}

func (mls *ModelLoaderSystem) Shutdown() error {
	return nil
}

// Load parses both files and builds the model on the calling goroutine.
func (mls *ModelLoaderSystem) Load(params ModelLoadParams) (*animation.Model, error) {
	meshRes, err := mls.assetManager.LoadAsset(params.MeshPath, nil)
	if err != nil {
		return nil, err
	}
	defer mls.unload(meshRes)

	animRes, err := mls.assetManager.LoadAsset(params.AnimPath, nil)
	if err != nil {
		return nil, err
	}
	defer mls.unload(animRes)

	mesh, ok := meshRes.Data.(*resources.MeshDocument)
	if !ok {
		return nil, fmt.Errorf("%s is not a mesh", params.MeshPath)
	}
	anim, ok := animRes.Data.(*resources.AnimationDocument)
	if !ok {
		return nil, fmt.Errorf("%s is not an animation", params.AnimPath)
	}
	return animation.NewModel(mesh, anim)
}

// LoadAsync queues the model build as a job and returns without waiting
// for room in the queue. Exactly one of onLoaded and onFailed is called,
// from a job goroutine, unless the job system shuts down first.
func (mls *ModelLoaderSystem) LoadAsync(params ModelLoadParams, onLoaded func(*animation.Model), onFailed func(error)) {
	mls.jobSystem.AddWorkNonBlocking(JobTask{
		Name:        "load " + params.MeshPath,
		InputParams: params,
		OnStart: func(in interface{}, out chan<- interface{}) error {
			model, err := mls.Load(in.(ModelLoadParams))
			if err != nil {
				return err
			}
			out <- model
			return nil
		},
		OnComplete: func(result interface{}) {
			model := result.(*animation.Model)
			core.LogDebug("Successfully loaded model '%s'.", model.MeshPath)
			onLoaded(model)
		},
		OnFailure: func(err error) {
			core.LogError("Failed to load model '%s': %s", params.MeshPath, err.Error())
			if onFailed != nil {
				onFailed(err)
			}
		},
	})
}

func (mls *ModelLoaderSystem) unload(res *resources.Resource) {
	if err := mls.assetManager.UnloadAsset(res); err != nil {
		core.LogError(err.Error())
	}
}
