package assets

import "github.com/spaghettifunk/marionette/engine/resources"

type Loader interface {
	Load(path string, assetType resources.ResourceType, params interface{}) (*resources.Resource, error) // `interface{}` here allows loaders to take loader specific options
	Unload(*resources.Resource) error
}
