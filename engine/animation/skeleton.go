package animation

import (
	"github.com/spaghettifunk/marionette/engine/math"
	"github.com/spaghettifunk/marionette/engine/resources"
)

// BuildFrameSkeletons resolves every frame of anim into model space. The
// result is computed once per animation and shared by all instances.
func BuildFrameSkeletons(anim *resources.AnimationDocument) []resources.Skeleton {
	skeletons := make([]resources.Skeleton, len(anim.Frames))
	for i := range anim.Frames {
		skeletons[i] = make(resources.Skeleton, len(anim.Hierarchy))
		buildFrameSkeleton(anim.Hierarchy, anim.BaseFrame, anim.Frames[i].Parameters, skeletons[i])
	}
	return skeletons
}

// buildFrameSkeleton applies one frame's animated components on top of the
// base frame and composes each joint with its already resolved parent.
func buildFrameSkeleton(hierarchy []resources.HierarchyEntry, base []resources.BasePose, params []float32, out resources.Skeleton) {
	for i, entry := range hierarchy {
		position := base[i].Position
		orientation := base[i].Orientation

		next := entry.StartIndex
		take := func(flag uint8, dst *float32) {
			if entry.Flags&flag != 0 {
				*dst = params[next]
				next++
			}
		}
		take(resources.FlagPositionX, &position.X)
		take(resources.FlagPositionZ, &position.Z)
		take(resources.FlagPositionY, &position.Y)
		take(resources.FlagOrientX, &orientation.X)
		take(resources.FlagOrientZ, &orientation.Z)
		take(resources.FlagOrientY, &orientation.Y)

		orientation.W = math.QuatComputeW(orientation.X, orientation.Y, orientation.Z)

		joint := resources.Joint{
			Name:        entry.Name,
			Parent:      entry.Parent,
			Position:    position,
			Orientation: orientation,
		}
		if entry.Parent >= 0 {
			parent := out[entry.Parent]
			joint.Position = parent.Position.Add(parent.Orientation.Rotate(position))
			joint.Orientation = parent.Orientation.Mul(orientation).Normalize()
		}
		out[i] = joint
	}
}
