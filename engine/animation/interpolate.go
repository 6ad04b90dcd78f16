package animation

import (
	gomath "math"

	"github.com/spaghettifunk/marionette/engine/math"
	"github.com/spaghettifunk/marionette/engine/resources"
)

// frameSnapEpsilon absorbs the rounding of t*frameRate so that sampling at
// an exact multiple of the frame time lands on that frame with alpha 0.
const frameSnapEpsilon = 1e-9

// WrapTime maps t into [0, duration). Negative times wrap backwards.
func WrapTime(t, duration float64) float64 {
	if duration <= 0 {
		return 0
	}
	t = gomath.Mod(t, duration)
	if t < 0 {
		t += duration
	}
	if t >= duration {
		t = 0
	}
	return t
}

// FrameAt returns the two frames surrounding the wrapped time t and the blend
// factor between them. The second frame wraps to 0 after the last one.
func FrameAt(t float64, frameRate, numFrames int) (frame0, frame1 int, alpha float32) {
	duration := float64(numFrames) / float64(frameRate)
	current := WrapTime(t, duration) * float64(frameRate)
	if r := gomath.Round(current); gomath.Abs(current-r) < frameSnapEpsilon {
		current = r
	}

	whole := gomath.Floor(current)
	frame0 = int(whole) % numFrames
	frame1 = (frame0 + 1) % numFrames
	alpha = math.Clamp(float32(current-whole), 0, 1)
	return frame0, frame1, alpha
}

// InterpolateSkeletons blends a towards b into out: positions linearly,
// orientations with slerp. With alpha 0 out is an exact copy of a.
func InterpolateSkeletons(a, b resources.Skeleton, alpha float32, out resources.Skeleton) {
	for i := range a {
		out[i] = resources.Joint{
			Name:        a[i].Name,
			Parent:      a[i].Parent,
			Position:    a[i].Position.Lerp(b[i].Position, alpha),
			Orientation: a[i].Orientation.Slerp(b[i].Orientation, alpha),
		}
	}
}
