package animation

import (
	"github.com/spaghettifunk/marionette/engine/math"
	"github.com/spaghettifunk/marionette/engine/resources"
)

// bindPositions evaluates every vertex against the bind pose joints.
func bindPositions(joints []resources.Joint, mesh *resources.Mesh) []math.Vec3 {
	positions := make([]math.Vec3, len(mesh.Vertices))
	for i := range mesh.Vertices {
		vert := &mesh.Vertices[i]
		for w := vert.StartWeight; w < vert.StartWeight+vert.CountWeight; w++ {
			weight := &mesh.Weights[w]
			joint := &joints[weight.Joint]
			offset := joint.Position.Add(joint.Orientation.Rotate(weight.Position))
			positions[i] = positions[i].Add(offset.MulScalar(weight.Bias))
		}
	}
	return positions
}

// prepareBindPose fills the bind-time vertex data the files leave out:
// positions, smooth normals and tangents. Each weight also receives the
// normal of its vertex expressed in its joint's frame, which skinning
// rotates back out every tick.
func prepareBindPose(joints []resources.Joint, mesh *resources.Mesh) {
	positions := bindPositions(joints, mesh)

	texcoords := make([]math.Vec2, len(mesh.Vertices))
	for i := range mesh.Vertices {
		texcoords[i] = mesh.Vertices[i].Texcoord
	}

	normals := math.GeometryGenerateNormals(positions, mesh.Indices)
	tangents := math.GeometryGenerateTangents(positions, texcoords, mesh.Indices)

	for i := range mesh.Weights {
		mesh.Weights[i].Normal = math.NewVec3Zero()
	}
	for i := range mesh.Vertices {
		vert := &mesh.Vertices[i]
		vert.Position = positions[i]
		vert.Normal = normals[i]
		vert.Tangent = tangents[i]

		for w := vert.StartWeight; w < vert.StartWeight+vert.CountWeight; w++ {
			weight := &mesh.Weights[w]
			local := joints[weight.Joint].Orientation.Conjugate().Rotate(normals[i])
			weight.Normal = weight.Normal.Add(local)
		}
	}
}
