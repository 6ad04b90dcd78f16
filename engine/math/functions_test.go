package math

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

const standardTol = float32(1.0e-5)

func assertVec3(t *testing.T, want, got Vec3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, float64(standardTol))
	assert.InDelta(t, want.Y, got.Y, float64(standardTol))
	assert.InDelta(t, want.Z, got.Z, float64(standardTol))
}

func TestQuatComputeW(t *testing.T) {
	assert.Equal(t, float32(-1), QuatComputeW(0, 0, 0))
	assert.Equal(t, float32(0), QuatComputeW(1, 1, 0))
	assert.InDelta(t, -math32.Sqrt(0.5), QuatComputeW(0.5, 0.5, 0), 1e-6)

	q := NewQuatFromXYZ(0.1, 0.2, 0.3)
	assert.InDelta(t, 1.0, q.Normal(), 1e-6)
	assert.Less(t, q.W, float32(0))
}

func TestQuatRotate(t *testing.T) {
	q := NewQuatFromAxisAngle(NewVec3(0, 0, 1), DegToRad(90), true)
	assertVec3(t, NewVec3(0, 1, 0), q.Rotate(NewVec3(1, 0, 0)))

	// the negated quaternion encodes the same rotation
	neg := Quaternion{-q.X, -q.Y, -q.Z, -q.W}
	assertVec3(t, NewVec3(0, 1, 0), neg.Rotate(NewVec3(1, 0, 0)))

	assertVec3(t, NewVec3(1, 2, 3), NewQuatIdentity().Rotate(NewVec3(1, 2, 3)))
}

func TestQuatMulComposes(t *testing.T) {
	a := NewQuatFromAxisAngle(NewVec3(0, 0, 1), DegToRad(90), true)
	b := NewQuatFromAxisAngle(NewVec3(1, 0, 0), DegToRad(90), true)
	v := NewVec3(0, 1, 0)
	assertVec3(t, a.Rotate(b.Rotate(v)), a.Mul(b).Rotate(v))
}

func TestSlerpIdentityLaw(t *testing.T) {
	q := NewQuatFromAxisAngle(NewVec3(1, 1, 0).Normalize(), DegToRad(40), true)
	for _, alpha := range []float32{0, 0.25, 0.5, 0.75, 1} {
		assert.Equal(t, q, q.Slerp(q, alpha))
	}
}

func TestSlerpMidpoint(t *testing.T) {
	a := NewQuatIdentity()
	b := NewQuatFromAxisAngle(NewVec3(0, 1, 0), DegToRad(90), true)
	want := NewQuatFromAxisAngle(NewVec3(0, 1, 0), DegToRad(45), true)
	assert.True(t, want.Compare(a.Slerp(b, 0.5), standardTol))

	assert.Equal(t, a, a.Slerp(b, 0))
	assert.True(t, b.Compare(a.Slerp(b, 1), standardTol))
}

func TestSlerpShorterArc(t *testing.T) {
	a := NewQuatIdentity()
	b := NewQuatFromAxisAngle(NewVec3(0, 1, 0), DegToRad(90), true)
	negB := Quaternion{-b.X, -b.Y, -b.Z, -b.W}

	mid := a.Slerp(negB, 0.5)
	want := NewQuatFromAxisAngle(NewVec3(0, 1, 0), DegToRad(45), true)
	assertVec3(t, want.Rotate(NewVec3(1, 0, 0)), mid.Rotate(NewVec3(1, 0, 0)))
}

func TestNormalizeDegenerate(t *testing.T) {
	assert.Equal(t, NewVec3Zero(), NewVec3Zero().Normalize())
	assert.Equal(t, NewQuatIdentity(), Quaternion{}.Normalize())
	assertVec3(t, NewVec3(0, 0, 1), NewVec3(0, 0, 5).Normalize())
}

func TestVec3Lerp(t *testing.T) {
	a := NewVec3(0, 0, 1)
	b := NewVec3(0, 0, 2)
	assert.Equal(t, a, a.Lerp(b, 0))
	assertVec3(t, NewVec3(0, 0, 1.5), a.Lerp(b, 0.5))
	assertVec3(t, b, a.Lerp(b, 1))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, float32(0), Clamp(float32(-1), 0, 1))
	assert.Equal(t, 3, Clamp(7, 0, 3))
	assert.Equal(t, 0.5, Clamp(0.5, 0.0, 1.0))
}

func TestTransformApply(t *testing.T) {
	tr := TransformFromPosition(NewVec3(1, 0, 0))
	assertVec3(t, NewVec3(1, 1, 0), tr.Apply(NewVec3(0, 1, 0)))

	tr.Rotate(NewQuatFromAxisAngle(NewVec3(0, 0, 1), DegToRad(90), true))
	tr.Scale = NewVec3(2, 2, 2)
	assertVec3(t, NewVec3(1, 2, 0), tr.Apply(NewVec3(1, 0, 0)))
}
