package math

func TransformCreate() Transform {
	return TransformFromPositionRotationScale(NewVec3Zero(), NewQuatIdentity(), NewVec3One())
}

func TransformFromPosition(position Vec3) Transform {
	return TransformFromPositionRotationScale(position, NewQuatIdentity(), NewVec3One())
}

func TransformFromPositionRotationScale(position Vec3, rotation Quaternion, scale Vec3) Transform {
	return Transform{
		Position: position,
		Rotation: rotation,
		Scale:    scale,
	}
}

func (t *Transform) SetPosition(position Vec3) {
	t.Position = position
}

func (t *Transform) Translate(translation Vec3) {
	t.Position = t.Position.Add(translation)
}

func (t *Transform) Rotate(rotation Quaternion) {
	t.Rotation = t.Rotation.Mul(rotation).Normalize()
}

// Apply maps a local-space point into world space: scale, then rotate, then translate.
func (t Transform) Apply(point Vec3) Vec3 {
	return t.Rotation.Rotate(point.Mul(t.Scale)).Add(t.Position)
}
