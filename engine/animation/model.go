package animation

import (
	"fmt"

	"github.com/spaghettifunk/marionette/engine/assets/loaders"
	"github.com/spaghettifunk/marionette/engine/core"
	"github.com/spaghettifunk/marionette/engine/math"
	"github.com/spaghettifunk/marionette/engine/resources"
)

// weightSumTolerance is how far a vertex's bias sum may drift from one
// before the model is reported as suspicious.
const weightSumTolerance = 1e-3

/**
 * @brief The immutable bind-time data of an animated model. A Model is
 * never written after NewModel returns and may be shared by any number
 * of instances.
 */
type Model struct {
	MeshPath string
	AnimPath string
	/** @brief Bind pose joints from the mesh file, in model space. */
	Joints    []resources.Joint
	Hierarchy []resources.HierarchyEntry
	/** @brief Meshes with bind positions, normals, tangents and weight normals filled in. */
	Meshes    []resources.Mesh
	Bounds    []resources.Bound
	FrameRate int
	/** @brief One resolved skeleton per animation frame. */
	Frames []resources.Skeleton
}

// Load parses both files and builds a Model from them. Any failure is
// returned as one of the core load errors and no Model is produced.
func Load(meshPath, animPath string) (*Model, error) {
	mesh, err := loaders.LoadMeshFile(meshPath)
	if err != nil {
		return nil, err
	}
	anim, err := loaders.LoadAnimationFile(animPath)
	if err != nil {
		return nil, err
	}
	return NewModel(mesh, anim)
}

// NewModel builds a Model from parsed documents. The documents are not
// modified and are not retained.
func NewModel(mesh *resources.MeshDocument, anim *resources.AnimationDocument) (*Model, error) {
	if err := checkCompatible(mesh, anim); err != nil {
		return nil, err
	}

	m := &Model{
		MeshPath:  mesh.Path,
		AnimPath:  anim.Path,
		Joints:    append([]resources.Joint(nil), mesh.Joints...),
		Hierarchy: append([]resources.HierarchyEntry(nil), anim.Hierarchy...),
		Meshes:    make([]resources.Mesh, len(mesh.Meshes)),
		Bounds:    append([]resources.Bound(nil), anim.Bounds...),
		FrameRate: anim.FrameRate,
		Frames:    BuildFrameSkeletons(anim),
	}

	for i := range mesh.Meshes {
		src := &mesh.Meshes[i]
		m.Meshes[i] = resources.Mesh{
			Shader:    src.Shader,
			Vertices:  append([]resources.Vertex(nil), src.Vertices...),
			Triangles: append([]resources.Triangle(nil), src.Triangles...),
			Weights:   append([]resources.Weight(nil), src.Weights...),
			Indices:   append([]uint32(nil), src.Indices...),
		}
		prepareBindPose(m.Joints, &m.Meshes[i])
		m.checkWeights(i)
	}

	core.LogDebug("model %s built: %d meshes, %d frames, %.2fs loop", m.MeshPath, len(m.Meshes), len(m.Frames), m.Duration())
	return m, nil
}

// checkCompatible rejects an animation that was authored for another skeleton.
func checkCompatible(mesh *resources.MeshDocument, anim *resources.AnimationDocument) error {
	if len(anim.Frames) == 0 || anim.FrameRate <= 0 {
		return &core.IntegrityError{Path: anim.Path, Section: "playable frames", Declared: anim.FrameRate, Actual: len(anim.Frames)}
	}
	if len(anim.Bounds) != len(anim.Frames) {
		return &core.IntegrityError{Path: anim.Path, Section: "bounds", Declared: len(anim.Frames), Actual: len(anim.Bounds)}
	}
	if len(anim.BaseFrame) != len(anim.Hierarchy) {
		return &core.IntegrityError{Path: anim.Path, Section: "baseframe", Declared: len(anim.Hierarchy), Actual: len(anim.BaseFrame)}
	}
	if len(anim.Hierarchy) != len(mesh.Joints) {
		return &core.IntegrityError{Path: anim.Path, Section: "numJoints against " + mesh.Path, Declared: len(mesh.Joints), Actual: len(anim.Hierarchy)}
	}
	for i, entry := range anim.Hierarchy {
		joint := mesh.Joints[i]
		if entry.Parent != joint.Parent {
			return &core.IntegrityError{Path: anim.Path, Section: fmt.Sprintf("joint %d parent", i), Declared: joint.Parent, Actual: entry.Parent}
		}
		if entry.Name != joint.Name {
			core.LogWarn("%s: joint %d is %q, %s calls it %q", anim.Path, i, entry.Name, mesh.Path, joint.Name)
		}
	}
	return nil
}

// checkWeights logs vertices whose weights do not add up to one. Such
// content still skins, it just drifts towards or away from the origin.
func (m *Model) checkWeights(meshIndex int) {
	mesh := &m.Meshes[meshIndex]
	off := 0
	for v := range mesh.Vertices {
		sum := mesh.WeightSum(v)
		if sum < 1-weightSumTolerance || sum > 1+weightSumTolerance {
			off++
		}
	}
	if off > 0 {
		core.LogWarn("%s: mesh %d (%s): %d of %d vertices have a bias sum off by more than %g", m.MeshPath, meshIndex, mesh.Shader, off, len(mesh.Vertices), weightSumTolerance)
	}
}

// NumFrames returns the number of animation frames.
func (m *Model) NumFrames() int {
	return len(m.Frames)
}

// FrameTime returns the duration of one frame in seconds.
func (m *Model) FrameTime() float64 {
	return 1 / float64(m.FrameRate)
}

// Duration returns the length of one loop of the animation in seconds.
func (m *Model) Duration() float64 {
	return float64(len(m.Frames)) * m.FrameTime()
}

// BindExtents returns the box around the bind pose of every mesh.
func (m *Model) BindExtents() math.Extents3D {
	var positions []math.Vec3
	for i := range m.Meshes {
		for _, v := range m.Meshes[i].Vertices {
			positions = append(positions, v.Position)
		}
	}
	return math.GeometryExtents(positions)
}
