package animation

import (
	"github.com/google/uuid"

	"github.com/spaghettifunk/marionette/engine/math"
	"github.com/spaghettifunk/marionette/engine/resources"
)

/**
 * @brief The deformed state of one mesh of an instance, handed to the
 * renderer. Vertices is owned by the instance and is only valid until
 * the next Advance.
 */
type DeformedMesh struct {
	Shader   string
	Vertices []math.Vertex3D
	Indices  []uint32
}

/**
 * @brief One animated copy of a Model. It owns a clock, the interpolated
 * pose and the skinned vertex buffers; the Model itself is shared.
 * An Instance is not safe for concurrent use.
 */
type Instance struct {
	ID uuid.UUID

	model *Model

	elapsed          float64
	speed            float64
	normalizeNormals bool

	frame0, frame1 int
	alpha          float32

	pose   resources.Skeleton
	meshes []DeformedMesh
}

// NewInstance creates an instance of model posed at time zero.
func NewInstance(model *Model) *Instance {
	inst := &Instance{
		ID:               uuid.New(),
		speed:            1,
		normalizeNormals: true,
	}
	inst.SetModel(model)
	return inst
}

// SetModel rebinds the instance to another model, keeping its clock, and
// poses it immediately. Output buffers are reallocated.
func (inst *Instance) SetModel(model *Model) {
	inst.model = model
	inst.pose = make(resources.Skeleton, len(model.Joints))
	inst.meshes = make([]DeformedMesh, len(model.Meshes))
	for i := range model.Meshes {
		mesh := &model.Meshes[i]
		vertices := make([]math.Vertex3D, len(mesh.Vertices))
		for v := range mesh.Vertices {
			vertices[v] = math.Vertex3D{
				Position: mesh.Vertices[v].Position,
				Normal:   mesh.Vertices[v].Normal,
				Texcoord: mesh.Vertices[v].Texcoord,
				Tangent:  mesh.Vertices[v].Tangent,
			}
		}
		inst.meshes[i] = DeformedMesh{
			Shader:   mesh.Shader,
			Vertices: vertices,
			Indices:  mesh.Indices,
		}
	}
	inst.elapsed = WrapTime(inst.elapsed, model.Duration())
	inst.update()
}

func (inst *Instance) Model() *Model {
	return inst.model
}

// Advance moves the clock by deltaTime seconds, scaled by the playback
// speed, then re-poses and re-skins the instance in place.
func (inst *Instance) Advance(deltaTime float64) {
	inst.elapsed = WrapTime(inst.elapsed+deltaTime*inst.speed, inst.model.Duration())
	inst.update()
}

// Seek sets the clock to t seconds, wrapped into the loop, and re-poses.
func (inst *Instance) Seek(t float64) {
	inst.elapsed = WrapTime(t, inst.model.Duration())
	inst.update()
}

// Reset rewinds the clock to the first frame.
func (inst *Instance) Reset() {
	inst.Seek(0)
}

// SetSpeed sets the playback rate. 1 is normal speed, negative values play backwards.
func (inst *Instance) SetSpeed(speed float64) {
	inst.speed = speed
}

func (inst *Instance) Speed() float64 {
	return inst.speed
}

// SetNormalizeNormals controls whether skinned normals are renormalized.
// It takes effect on the next Advance or Seek.
func (inst *Instance) SetNormalizeNormals(normalize bool) {
	inst.normalizeNormals = normalize
}

// Elapsed returns the position of the clock within the loop, in seconds.
func (inst *Instance) Elapsed() float64 {
	return inst.elapsed
}

// Pose returns the interpolated skeleton of the last update. The slice
// is reused by the next Advance.
func (inst *Instance) Pose() resources.Skeleton {
	return inst.pose
}

// DeformedMeshes returns the skinned meshes of the last update. The view
// is reused by the next Advance and must not be modified.
func (inst *Instance) DeformedMeshes() []DeformedMesh {
	return inst.meshes
}

// Bounds returns the animation bounding box interpolated to the current
// time, or the bind pose box when the model carries no per-frame bounds.
func (inst *Instance) Bounds() math.Extents3D {
	bounds := inst.model.Bounds
	if len(bounds) == 0 {
		return inst.model.BindExtents()
	}
	return bounds[inst.frame0].Lerp(bounds[inst.frame1], inst.alpha)
}

func (inst *Instance) update() {
	m := inst.model
	inst.frame0, inst.frame1, inst.alpha = FrameAt(inst.elapsed, m.FrameRate, len(m.Frames))
	InterpolateSkeletons(m.Frames[inst.frame0], m.Frames[inst.frame1], inst.alpha, inst.pose)

	for i := range m.Meshes {
		SkinMesh(&m.Meshes[i], inst.pose, inst.meshes[i].Vertices, inst.normalizeNormals)
	}
}
