package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeometryGenerateNormals(t *testing.T) {
	positions := []Vec3{
		NewVec3(0, 0, 0),
		NewVec3(1, 0, 0),
		NewVec3(0, 1, 0),
		NewVec3(5, 5, 5),
	}
	indices := []uint32{0, 1, 2}

	normals := GeometryGenerateNormals(positions, indices)
	// cross(p0-p2, p2-p1) for a counter-clockwise triangle in the xy plane points down -z
	for i := 0; i < 3; i++ {
		assertVec3(t, NewVec3(0, 0, -1), normals[i])
	}
	assert.Equal(t, NewVec3Zero(), normals[3])
}

func TestGeometryGenerateTangents(t *testing.T) {
	positions := []Vec3{
		NewVec3(0, 0, 0),
		NewVec3(1, 0, 0),
		NewVec3(0, 1, 0),
	}
	uvs := []Vec2{NewVec2(0, 0), NewVec2(1, 0), NewVec2(0, 1)}
	tangents := GeometryGenerateTangents(positions, uvs, []uint32{0, 1, 2})
	for _, tg := range tangents {
		assertVec3(t, NewVec3(1, 0, 0), tg)
	}

	flat := []Vec2{NewVec2(0, 0), NewVec2(0, 0), NewVec2(0, 0)}
	for _, tg := range GeometryGenerateTangents(positions, flat, []uint32{0, 1, 2}) {
		assert.Equal(t, NewVec3Zero(), tg)
	}
}

func TestGeometryExtents(t *testing.T) {
	ext := GeometryExtents([]Vec3{NewVec3(1, -2, 3), NewVec3(-1, 4, 0)})
	assert.Equal(t, NewVec3(-1, -2, 0), ext.Min)
	assert.Equal(t, NewVec3(1, 4, 3), ext.Max)
	assert.Equal(t, NewVec3(0, 1, 1.5), ext.Center())
	assert.Equal(t, Extents3D{}, GeometryExtents(nil))
}
