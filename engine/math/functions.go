package math

import (
	"github.com/chewxy/math32"
)

const (
	/** @brief An approximate representation of PI. */
	K_PI float32 = 3.14159265358979323846
	/** @brief A multiplier used to convert degrees to radians. */
	K_DEG2RAD_MULTIPLIER float32 = K_PI / 180.0
	/** @brief Smallest positive number where 1.0 + FLOAT_EPSILON != 0 */
	K_FLOAT_EPSILON float32 = 1.192092896e-07
	/**
	 * @brief Lengths below this are treated as degenerate when normalizing.
	 * Normalizing such a vector yields zero, such a quaternion yields identity.
	 */
	K_NORMALIZE_EPSILON float32 = 1e-8
)

// ------------------------------------------
// Vector 2
// ------------------------------------------

/**
 * @brief Creates and returns a new 2-element vector using the supplied values.
 *
 * @param x The x value.
 * @param y The y value.
 * @return A new 2-element vector.
 */
func NewVec2(x, y float32) Vec2 {
	return Vec2{
		X: x,
		Y: y,
	}
}

// ------------------------------------------
// Vector 3
// ------------------------------------------

/**
 * @brief Creates and returns a new 3-element vector using the supplied values.
 *
 * @param x The x value.
 * @param y The y value.
 * @param z The z value.
 * @return A new 3-element vector.
 */
func NewVec3(x, y, z float32) Vec3 {
	return Vec3{x, y, z}
}

/**
 * @brief Creates and returns a 3-component vector with all components set to 0.0f.
 */
func NewVec3Zero() Vec3 {
	return Vec3{0.0, 0.0, 0.0}
}

/**
 * @brief Creates and returns a 3-component vector with all components set to 1.0f.
 */
func NewVec3One() Vec3 {
	return Vec3{1.0, 1.0, 1.0}
}

/**
 * @brief Adds other to v and returns a copy of the result.
 */
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{
		v.X + other.X,
		v.Y + other.Y,
		v.Z + other.Z}
}

/**
 * @brief Subtracts other from v and returns a copy of the result.
 */
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{
		v.X - other.X,
		v.Y - other.Y,
		v.Z - other.Z}
}

/**
 * @brief Multiplies v by other component-wise and returns a copy of the result.
 */
func (v Vec3) Mul(other Vec3) Vec3 {
	return Vec3{
		v.X * other.X,
		v.Y * other.Y,
		v.Z * other.Z}
}

/**
 * @brief Multiplies all elements of v by scalar and returns a copy of the result.
 *
 * @param scalar The scalar value.
 * @return A copy of the resulting vector.
 */
func (v Vec3) MulScalar(scalar float32) Vec3 {
	return Vec3{
		v.X * scalar,
		v.Y * scalar,
		v.Z * scalar}
}

/**
 * @brief Returns the squared length of the provided vector.
 */
func (v Vec3) LengthSquared() float32 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

/**
 * @brief Returns the length of the provided vector.
 */
func (v Vec3) Length() float32 {
	return math32.Sqrt(v.LengthSquared())
}

/**
 * @brief Returns a unit length copy of the vector. A degenerate
 * (near zero length) vector normalizes to the zero vector.
 */
func (v Vec3) Normalize() Vec3 {
	length := v.Length()
	if length < K_NORMALIZE_EPSILON {
		return NewVec3Zero()
	}
	return Vec3{
		v.X / length,
		v.Y / length,
		v.Z / length}
}

/**
 * @brief Calculates and returns the cross product of the supplied vectors.
 * The cross product is a new vector which is orthoganal to both provided vectors.
 */
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X}
}

/**
 * @brief Linearly interpolates between v and other.
 *
 * @param other The target vector.
 * @param t The interpolation factor. 0 returns v unchanged, 1 returns other.
 * @return The interpolated vector.
 */
func (v Vec3) Lerp(other Vec3, t float32) Vec3 {
	if t == 0 {
		return v
	}
	s := 1 - t
	return Vec3{
		v.X*s + other.X*t,
		v.Y*s + other.Y*t,
		v.Z*s + other.Z*t}
}

// Min returns the component-wise minimum of v and other.
func (v Vec3) Min(other Vec3) Vec3 {
	return Vec3{min(v.X, other.X), min(v.Y, other.Y), min(v.Z, other.Z)}
}

// Max returns the component-wise maximum of v and other.
func (v Vec3) Max(other Vec3) Vec3 {
	return Vec3{max(v.X, other.X), max(v.Y, other.Y), max(v.Z, other.Z)}
}

/**
 * @brief Compares all elements of v and other and ensures the difference
 * is less than tolerance.
 *
 * @param other The second vector.
 * @param tolerance The difference tolerance. Typically K_FLOAT_EPSILON or similar.
 * @return True if within tolerance; otherwise false.
 */
func (v Vec3) Compare(other Vec3, tolerance float32) bool {
	if math32.Abs(v.X-other.X) > tolerance {
		return false
	}

	if math32.Abs(v.Y-other.Y) > tolerance {
		return false
	}

	if math32.Abs(v.Z-other.Z) > tolerance {
		return false
	}

	return true
}

// ------------------------------------------
// Quaternion
// ------------------------------------------

/**
 * @brief Creates an identity quaternion.
 *
 * @return An identity quaternion.
 */
func NewQuatIdentity() Quaternion {
	return Quaternion{0, 0, 0, 1.0}
}

/**
 * @brief Reconstructs the w component of a unit quaternion from its
 * x, y and z components. The negative root is taken; when the imaginary
 * part is already longer than one, w is zero.
 */
func QuatComputeW(x, y, z float32) float32 {
	t := 1.0 - x*x - y*y - z*z
	if t < 0 {
		return 0
	}
	return -math32.Sqrt(t)
}

/**
 * @brief Creates a quaternion from its imaginary part, deriving w
 * with QuatComputeW.
 */
func NewQuatFromXYZ(x, y, z float32) Quaternion {
	return Quaternion{x, y, z, QuatComputeW(x, y, z)}
}

/**
 * @brief Returns the normal of the provided quaternion.
 *
 * @return The normal of the provided quaternion.
 */
func (q Quaternion) Normal() float32 {
	return math32.Sqrt(
		q.X*q.X +
			q.Y*q.Y +
			q.Z*q.Z +
			q.W*q.W)
}

/**
 * @brief Returns a normalized copy of the provided quaternion. A degenerate
 * quaternion normalizes to identity.
 *
 * @return A normalized copy of the provided quaternion.
 */
func (q Quaternion) Normalize() Quaternion {
	normal := q.Normal()
	if normal < K_NORMALIZE_EPSILON {
		return NewQuatIdentity()
	}
	return Quaternion{
		q.X / normal,
		q.Y / normal,
		q.Z / normal,
		q.W / normal}
}

/**
 * @brief Returns the conjugate of the provided quaternion. That is,
 * The x, y and z elements are negated, but the w element is untouched.
 *
 * @return The conjugate quaternion.
 */
func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{-q.X, -q.Y, -q.Z, q.W}
}

/**
 * @brief Multiplies the provided quaternions (Hamilton product q * other).
 *
 * @param other The second quaternion.
 * @return The multiplied quaternion.
 */
func (q Quaternion) Mul(other Quaternion) Quaternion {
	out_quaternion := Quaternion{}

	out_quaternion.X = q.X*other.W +
		q.Y*other.Z -
		q.Z*other.Y +
		q.W*other.X

	out_quaternion.Y = -q.X*other.Z +
		q.Y*other.W +
		q.Z*other.X +
		q.W*other.Y

	out_quaternion.Z = q.X*other.Y -
		q.Y*other.X +
		q.Z*other.W +
		q.W*other.Z

	out_quaternion.W = -q.X*other.X -
		q.Y*other.Y -
		q.Z*other.Z +
		q.W*other.W

	return out_quaternion
}

/**
 * @brief Calculates the dot product of the provided quaternions.
 */
func (q Quaternion) Dot(other Quaternion) float32 {
	return q.X*other.X +
		q.Y*other.Y +
		q.Z*other.Z +
		q.W*other.W
}

/**
 * @brief Rotates v by the unit quaternion q, computed as q * (v, 0) * conj(q).
 *
 * @param v The vector to rotate.
 * @return The rotated vector.
 */
func (q Quaternion) Rotate(v Vec3) Vec3 {
	p := Quaternion{v.X, v.Y, v.Z, 0}
	r := q.Mul(p).Mul(q.Conjugate())
	return Vec3{r.X, r.Y, r.Z}
}

/**
 * @brief Compares all elements of q and other against tolerance.
 */
func (q Quaternion) Compare(other Quaternion, tolerance float32) bool {
	return math32.Abs(q.X-other.X) <= tolerance &&
		math32.Abs(q.Y-other.Y) <= tolerance &&
		math32.Abs(q.Z-other.Z) <= tolerance &&
		math32.Abs(q.W-other.W) <= tolerance
}

/**
 * @brief Creates a quaternion from the given axis and angle.
 *
 * @param axis The axis of rotation.
 * @param angle The angle of rotation.
 * @param normalize Indicates if the quaternion should be normalized.
 * @return A new quaternion.
 */
func NewQuatFromAxisAngle(axis Vec3, angle float32, normalize bool) Quaternion {
	half_angle := 0.5 * angle
	s := math32.Sin(half_angle)
	c := math32.Cos(half_angle)

	q := Quaternion{s * axis.X, s * axis.Y, s * axis.Z, c}
	if normalize {
		q = q.Normalize()
	}
	return q
}

/**
 * @brief Calculates spherical linear interpolation of a given percentage
 * between two quaternions, taking the shorter arc.
 *
 * @param other The second quaternion.
 * @param percentage The percentage of interpolation, typically a value from 0.0f-1.0f.
 * @return An interpolated quaternion. A percentage of 0, or identical inputs,
 * return q unchanged.
 */
func (q Quaternion) Slerp(other Quaternion, percentage float32) Quaternion {
	if percentage == 0 || q == other {
		return q
	}

	// Source: https://en.Wikipedia.org/wiki/Slerp
	// Only unit quaternions are valid rotations.
	// Normalize to avoid undefined behavior.
	v0 := q.Normalize()
	v1 := other.Normalize()

	// Compute the cosine of the angle between the two vectors.
	dot := v0.Dot(v1)

	// If the dot product is negative, slerp won't take
	// the shorter path. Note that v1 and -v1 are equivalent when
	// the negation is applied to all four components. Fix by
	// reversing one quaternion.
	if dot < 0.0 {
		v1.X = -v1.X
		v1.Y = -v1.Y
		v1.Z = -v1.Z
		v1.W = -v1.W
		dot = -dot
	}

	DOT_THRESHOLD := float32(0.9995)
	if dot > DOT_THRESHOLD {
		// If the inputs are too close for comfort, linearly interpolate
		// and normalize the result.
		qt := Quaternion{
			v0.X + ((v1.X - v0.X) * percentage),
			v0.Y + ((v1.Y - v0.Y) * percentage),
			v0.Z + ((v1.Z - v0.Z) * percentage),
			v0.W + ((v1.W - v0.W) * percentage)}

		return qt.Normalize()
	}

	// Since dot is in range [0, DOT_THRESHOLD], acos is safe
	theta_0 := math32.Acos(dot)   // theta_0 = angle between input vectors
	theta := theta_0 * percentage // theta = angle between v0 and result
	sin_theta := math32.Sin(theta)
	sin_theta_0 := math32.Sin(theta_0)

	s0 := math32.Cos(theta) - dot*sin_theta/sin_theta_0 // == sin(theta_0 - theta) / sin(theta_0)
	s1 := sin_theta / sin_theta_0

	return Quaternion{
		(v0.X * s0) + (v1.X * s1),
		(v0.Y * s0) + (v1.Y * s1),
		(v0.Z * s0) + (v1.Z * s1),
		(v0.W * s0) + (v1.W * s1)}
}

/**
 * @brief Converts provided degrees to radians.
 *
 * @param degrees The degrees to be converted.
 * @return The amount in radians.
 */
func DegToRad(degrees float32) float32 {
	return degrees * K_DEG2RAD_MULTIPLIER
}

