package animation

import (
	"fmt"

	"github.com/spaghettifunk/marionette/engine/math"
	"github.com/spaghettifunk/marionette/engine/resources"
)

// NormalSign is applied to every rotated weight normal during skinning. The
// bind normals are derived with the same winding, so the pair must change
// together or not at all.
const NormalSign float32 = -1

// SkinMesh recomputes the position and normal of every vertex of mesh from
// pose and writes them to out, which must hold one entry per vertex. Other
// fields of out are left untouched. It does not allocate.
func SkinMesh(mesh *resources.Mesh, pose resources.Skeleton, out []math.Vertex3D, normalize bool) {
	if len(out) != len(mesh.Vertices) {
		panic(fmt.Sprintf("skinning %q: output holds %d vertices, mesh has %d", mesh.Shader, len(out), len(mesh.Vertices)))
	}

	for i := range mesh.Vertices {
		vert := &mesh.Vertices[i]

		var position, normal math.Vec3
		for w := vert.StartWeight; w < vert.StartWeight+vert.CountWeight; w++ {
			weight := &mesh.Weights[w]
			joint := &pose[weight.Joint]

			offset := joint.Position.Add(joint.Orientation.Rotate(weight.Position))
			position = position.Add(offset.MulScalar(weight.Bias))

			rotated := joint.Orientation.Rotate(weight.Normal)
			normal = normal.Add(rotated.MulScalar(NormalSign * weight.Bias))
		}
		if normalize {
			normal = normal.Normalize()
		}

		out[i].Position = position
		out[i].Normal = normal
	}
}
