package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/marionette/engine/assets/loaders"
	"github.com/spaghettifunk/marionette/engine/core"
	"github.com/spaghettifunk/marionette/engine/resources"
)

var ErrManagerClosed = errors.New("asset manager already closed")

type AssetInfo struct {
	Path       string
	Type       resources.ResourceType
	LastLoaded time.Time
	Modified   time.Time
}

// AssetManager indexes the model files under a directory, loads them through
// the registered loaders and reports files that change on disk.
type AssetManager struct {
	assets  map[string]AssetInfo
	loaders map[resources.ResourceType]Loader

	mutex sync.RWMutex

	done     chan struct{}
	stopped  chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
	started  bool
	changes  chan AssetInfo
}

func NewAssetManager() (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	am := &AssetManager{
		assets:   make(map[string]AssetInfo),
		loaders:  make(map[resources.ResourceType]Loader),
		fsnotify: fsWatch,
		changes:  make(chan AssetInfo, 16),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}

	// Register loaders
	am.registerLoader(resources.ResourceTypeMD5Mesh, &loaders.MeshLoader{})
	am.registerLoader(resources.ResourceTypeMD5Anim, &loaders.AnimationLoader{})

	return am, nil
}

// Initialize indexes assetsDir and starts watching it and its sub-directories.
func (am *AssetManager) Initialize(assetsDir string) error {
	if err := am.addRecursive(assetsDir); err != nil {
		return err
	}
	am.mutex.Lock()
	am.started = true
	am.mutex.Unlock()
	go am.start()
	return nil
}

// Changes delivers the model files written or created since Initialize. A
// slow reader loses notifications rather than stalling the watcher.
func (am *AssetManager) Changes() <-chan AssetInfo {
	return am.changes
}

// AddRecursive starts watching the named directory and all sub-directories.
func (am *AssetManager) addRecursive(name string) error {
	am.mutex.RLock()
	closed := am.isClosed
	am.mutex.RUnlock()
	if closed {
		return ErrManagerClosed
	}
	return am.watchRecursive(name, false)
}

// Register loaders for each asset type
func (am *AssetManager) registerLoader(assetType resources.ResourceType, loader Loader) {
	am.loaders[assetType] = loader
}

// Assets returns the indexed files of the given type.
func (am *AssetManager) Assets(assetType resources.ResourceType) []AssetInfo {
	am.mutex.RLock()
	defer am.mutex.RUnlock()

	var out []AssetInfo
	for _, a := range am.assets {
		if a.Type == assetType {
			out = append(out, a)
		}
	}
	return out
}

// Load an asset using the appropriate loader
func (am *AssetManager) LoadAsset(path string, params interface{}) (*resources.Resource, error) {
	path = filepath.Clean(path)
	resourceType := determineAssetType(path)
	if resourceType == resources.ResourceTypeNone {
		return nil, fmt.Errorf("unknown resource type for %s", path)
	}

	am.mutex.RLock()
	loader, loaderExists := am.loaders[resourceType]
	am.mutex.RUnlock()
	if !loaderExists {
		return nil, fmt.Errorf("no loader registered for asset type: %s", resourceType)
	}

	res, err := loader.Load(path, resourceType, params)
	if err != nil {
		return nil, err
	}

	am.mutex.Lock()
	asset := am.assets[path]
	asset.Path = path
	asset.Type = resourceType
	asset.LastLoaded = time.Now()
	am.assets[path] = asset
	am.mutex.Unlock()

	return res, nil
}

func (am *AssetManager) UnloadAsset(asset *resources.Resource) error {
	am.mutex.RLock()
	loader, ok := am.loaders[asset.Type]
	am.mutex.RUnlock()
	if !ok {
		return fmt.Errorf("no loader registered for asset type: %s", asset.Type)
	}
	return loader.Unload(asset)
}

// Shutdown stops the watcher goroutine and closes the Changes channel.
func (am *AssetManager) Shutdown() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return ErrManagerClosed
	}
	am.isClosed = true
	started := am.started
	am.mutex.Unlock()

	if !started {
		close(am.changes)
		return am.fsnotify.Close()
	}
	close(am.done)
	<-am.stopped
	return nil
}

func (am *AssetManager) start() {
	defer close(am.stopped)
	for {
		select {

		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					if err := am.watchRecursive(e.Name, false); err != nil {
						core.LogWarn("cannot watch %s: %s", e.Name, err.Error())
					}
				}
				continue
			}
			// Handle create or modify events
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				if info, ok := am.handleFileEvent(e.Name); ok {
					am.notify(info)
				}
			}
			// Can't stat a deleted path, drop it from the index and the watch list.
			if e.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				am.removeAsset(e.Name)
				am.fsnotify.Remove(e.Name)
			}

		case e, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError(e.Error())

		case <-am.done:
			am.fsnotify.Close()
			close(am.changes)
			return
		}
	}
}

func (am *AssetManager) notify(info AssetInfo) {
	select {
	case am.changes <- info:
		core.LogInfo("asset changed: %s", info.Path)
	default:
		core.LogWarn("asset change for %s dropped, nobody is listening", info.Path)
	}
}

// watchRecursive adds all directories under the given one to the watch list
// and indexes the files it finds.
func (am *AssetManager) watchRecursive(path string, unWatch bool) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if unWatch {
				return am.fsnotify.Remove(walkPath)
			}
			return am.fsnotify.Add(walkPath)
		}
		am.handleFileEvent(walkPath)
		return nil
	})
}

// Handle the creation or modification of a file
func (am *AssetManager) handleFileEvent(path string) (AssetInfo, bool) {
	path = filepath.Clean(path)
	assetType := determineAssetType(path)
	if assetType == resources.ResourceTypeNone {
		return AssetInfo{}, false
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()

	asset := am.assets[path]
	asset.Path = path
	asset.Type = assetType
	asset.Modified = time.Now()
	am.assets[path] = asset
	return asset, true
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	delete(am.assets, filepath.Clean(path))
}

func determineAssetType(path string) resources.ResourceType {
	switch filepath.Ext(path) {
	case ".md5mesh":
		return resources.ResourceTypeMD5Mesh
	case ".md5anim":
		return resources.ResourceTypeMD5Anim
	default:
		return resources.ResourceTypeNone
	}
}
