package loaders

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spaghettifunk/marionette/engine/core"
	"github.com/spaghettifunk/marionette/engine/resources"
)

// LoadMeshFile opens and parses a .md5mesh file.
func LoadMeshFile(path string) (*resources.MeshDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &core.FileError{Path: path, Err: err}
	}
	defer f.Close()

	doc, err := ParseMesh(f, path)
	if err != nil {
		return nil, err
	}
	core.LogDebug("loaded %s: %d joints, %d meshes", path, len(doc.Joints), len(doc.Meshes))
	return doc, nil
}

// LoadAnimationFile opens and parses a .md5anim file.
func LoadAnimationFile(path string) (*resources.AnimationDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &core.FileError{Path: path, Err: err}
	}
	defer f.Close()

	doc, err := ParseAnimation(f, path)
	if err != nil {
		return nil, err
	}
	core.LogDebug("loaded %s: %d joints, %d frames at %d fps", path, len(doc.Hierarchy), len(doc.Frames), doc.FrameRate)
	return doc, nil
}

type MeshLoader struct{}

func (ml *MeshLoader) Load(path string, assetType resources.ResourceType, params interface{}) (*resources.Resource, error) {
	if assetType != resources.ResourceTypeMD5Mesh {
		return nil, fmt.Errorf("mesh loader cannot load %s resources", assetType)
	}
	doc, err := LoadMeshFile(path)
	if err != nil {
		return nil, err
	}
	return &resources.Resource{
		Type:     assetType,
		Name:     resourceName(path, params),
		FullPath: path,
		Data:     doc,
	}, nil
}

func (ml *MeshLoader) Unload(res *resources.Resource) error {
	res.Data = nil
	return nil
}

type AnimationLoader struct{}

func (al *AnimationLoader) Load(path string, assetType resources.ResourceType, params interface{}) (*resources.Resource, error) {
	if assetType != resources.ResourceTypeMD5Anim {
		return nil, fmt.Errorf("animation loader cannot load %s resources", assetType)
	}
	doc, err := LoadAnimationFile(path)
	if err != nil {
		return nil, err
	}
	return &resources.Resource{
		Type:     assetType,
		Name:     resourceName(path, params),
		FullPath: path,
		Data:     doc,
	}, nil
}

func (al *AnimationLoader) Unload(res *resources.Resource) error {
	res.Data = nil
	return nil
}

// resourceName takes the name from params["name"] when given, otherwise the
// file name without its extension.
func resourceName(path string, params interface{}) string {
	if p, ok := params.(map[string]string); ok && p["name"] != "" {
		return p["name"]
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
