package math

// GeometryGenerateNormals computes smooth per-vertex normals from an indexed
// triangle list. Each face contributes cross(p0-p2, p2-p1) to its three
// vertices and the sums are normalized; unreferenced vertices get a zero normal.
func GeometryGenerateNormals(positions []Vec3, indices []uint32) []Vec3 {
	normals := make([]Vec3, len(positions))
	for i := 0; i+2 < len(indices); i += 3 {
		i0 := indices[i+0]
		i1 := indices[i+1]
		i2 := indices[i+2]

		edge1 := positions[i0].Sub(positions[i2])
		edge2 := positions[i2].Sub(positions[i1])

		face := edge1.Cross(edge2)

		normals[i0] = normals[i0].Add(face)
		normals[i1] = normals[i1].Add(face)
		normals[i2] = normals[i2].Add(face)
	}
	for i := range normals {
		normals[i] = normals[i].Normalize()
	}
	return normals
}

// GeometryGenerateTangents computes per-vertex tangents from positions and
// texture coordinates. Faces with a degenerate uv mapping are skipped.
func GeometryGenerateTangents(positions []Vec3, texcoords []Vec2, indices []uint32) []Vec3 {
	tangents := make([]Vec3, len(positions))
	for i := 0; i+2 < len(indices); i += 3 {
		i0 := indices[i+0]
		i1 := indices[i+1]
		i2 := indices[i+2]

		edge1 := positions[i1].Sub(positions[i0])
		edge2 := positions[i2].Sub(positions[i0])

		deltaU1 := texcoords[i1].X - texcoords[i0].X
		deltaV1 := texcoords[i1].Y - texcoords[i0].Y

		deltaU2 := texcoords[i2].X - texcoords[i0].X
		deltaV2 := texcoords[i2].Y - texcoords[i0].Y

		dividend := (deltaU1*deltaV2 - deltaU2*deltaV1)
		if dividend > -K_FLOAT_EPSILON && dividend < K_FLOAT_EPSILON {
			continue
		}
		fc := 1.0 / dividend

		tangent := Vec3{
			(fc * (deltaV2*edge1.X - deltaV1*edge2.X)),
			(fc * (deltaV2*edge1.Y - deltaV1*edge2.Y)),
			(fc * (deltaV2*edge1.Z - deltaV1*edge2.Z))}

		tangents[i0] = tangents[i0].Add(tangent)
		tangents[i1] = tangents[i1].Add(tangent)
		tangents[i2] = tangents[i2].Add(tangent)
	}
	for i := range tangents {
		tangents[i] = tangents[i].Normalize()
	}
	return tangents
}

// GeometryExtents returns the axis aligned box enclosing every position.
// An empty slice yields a zero box.
func GeometryExtents(positions []Vec3) Extents3D {
	if len(positions) == 0 {
		return Extents3D{}
	}
	ext := Extents3D{Min: positions[0], Max: positions[0]}
	for _, p := range positions[1:] {
		ext.Min = ext.Min.Min(p)
		ext.Max = ext.Max.Max(p)
	}
	return ext
}

// Center returns the midpoint of the extents.
func (e Extents3D) Center() Vec3 {
	return e.Min.Add(e.Max).MulScalar(0.5)
}

// Lerp interpolates both corners of the box.
func (e Extents3D) Lerp(other Extents3D, t float32) Extents3D {
	return Extents3D{Min: e.Min.Lerp(other.Min, t), Max: e.Max.Lerp(other.Max, t)}
}
