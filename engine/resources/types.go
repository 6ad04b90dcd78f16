package resources

import "github.com/spaghettifunk/marionette/engine/math"

type ResourceType int

/** @brief Pre-defined resource types. */
const (
	/** @brief Unknown or unsupported file. */
	ResourceTypeNone ResourceType = iota
	/** @brief Skinned mesh definition (.md5mesh). */
	ResourceTypeMD5Mesh
	/** @brief Skeletal animation definition (.md5anim). */
	ResourceTypeMD5Anim
)

func (t ResourceType) String() string {
	switch t {
	case ResourceTypeMD5Mesh:
		return "md5mesh"
	case ResourceTypeMD5Anim:
		return "md5anim"
	default:
		return "none"
	}
}

/**
 * @brief A generic structure for a resource. All resource loaders
 * load data into these.
 */
type Resource struct {
	/** @brief The type of the loader which handled this resource. */
	Type ResourceType
	/** @brief The name of the resource. */
	Name string
	/** @brief The full file path of the resource. */
	FullPath string
	/** @brief The resource data, *MeshDocument or *AnimationDocument. */
	Data interface{}
}

// Hierarchy flag bits. Bits are consumed in this order, each one taking the
// next float from the frame's parameter block.
const (
	FlagPositionX   uint8 = 1 << 0
	FlagPositionZ   uint8 = 1 << 1
	FlagPositionY   uint8 = 1 << 2
	FlagOrientX     uint8 = 1 << 3
	FlagOrientZ     uint8 = 1 << 4
	FlagOrientY     uint8 = 1 << 5
	FlagAllAnimated uint8 = 0x3f
)

/**
 * @brief A node of the skeleton. Position and orientation are either
 * relative to the parent (hierarchy/base frame) or fully resolved in
 * model space (mesh bind pose, frame skeletons).
 */
type Joint struct {
	Name string
	/** @brief Index of the parent joint, -1 for a root. Always lower than the joint's own index. */
	Parent      int
	Position    math.Vec3
	Orientation math.Quaternion
}

/**
 * @brief Describes how one joint is animated.
 */
type HierarchyEntry struct {
	Name   string
	Parent int
	/** @brief Bitmask of animated components, see FlagPositionX and friends. */
	Flags uint8
	/** @brief Offset of the joint's first animated value in Frame.Parameters. */
	StartIndex int
}

// AnimatedCount returns how many frame parameters the entry consumes.
func (h HierarchyEntry) AnimatedCount() int {
	n := 0
	for f := h.Flags & FlagAllAnimated; f != 0; f &= f - 1 {
		n++
	}
	return n
}

/** @brief Default local pose of a joint before per-frame overrides. */
type BasePose struct {
	Position    math.Vec3
	Orientation math.Quaternion
}

/** @brief A bounding box for one animation frame. */
type Bound = math.Extents3D

/** @brief The flat animated parameters of one frame. */
type Frame struct {
	Index      int
	Parameters []float32
}

/** @brief A fully resolved pose, one joint per hierarchy entry. */
type Skeleton []Joint

/**
 * @brief A bind-time vertex. Position and normal are filled by skinning,
 * everything else is immutable after load.
 */
type Vertex struct {
	Position    math.Vec3
	Texcoord    math.Vec2
	Normal      math.Vec3
	Tangent     math.Vec3
	StartWeight int
	CountWeight int
}

/** @brief The contribution of one joint to a vertex. */
type Weight struct {
	Joint int
	Bias  float32
	/** @brief Offset of the vertex in the joint's local frame. */
	Position math.Vec3
	/** @brief Bind normal in the joint's local frame, derived at load. */
	Normal math.Vec3
}

type Triangle struct {
	Indices [3]uint32
}

/** @brief One drawable part of a model. */
type Mesh struct {
	Shader    string
	Vertices  []Vertex
	Triangles []Triangle
	Weights   []Weight
	/** @brief The flattened triangle list, three entries per triangle. */
	Indices []uint32
}

// WeightSum returns the total bias of the weights bound to vertex v.
func (m *Mesh) WeightSum(v int) float32 {
	vert := m.Vertices[v]
	sum := float32(0)
	for _, w := range m.Weights[vert.StartWeight : vert.StartWeight+vert.CountWeight] {
		sum += w.Bias
	}
	return sum
}

/** @brief The parsed content of a .md5mesh file. */
type MeshDocument struct {
	/** @brief Where the document was read from, used in error messages. */
	Path        string
	Version     int
	CommandLine string
	Joints      []Joint
	Meshes      []Mesh
}

/** @brief The parsed content of a .md5anim file. */
type AnimationDocument struct {
	/** @brief Where the document was read from, used in error messages. */
	Path                  string
	Version               int
	CommandLine           string
	FrameRate             int
	NumAnimatedComponents int
	Hierarchy             []HierarchyEntry
	Bounds                []Bound
	BaseFrame             []BasePose
	Frames                []Frame
}
