package renderer

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/marionette/engine/core"
	"github.com/spaghettifunk/marionette/engine/math"
)

var ErrFrameNotStarted = errors.New("no frame in progress")

// FrameStats summarizes what one frame submitted.
type FrameStats struct {
	Frame     uint64
	DrawCalls int
	Vertices  int
	Triangles int
	// Extents encloses every submitted vertex in world space.
	Extents math.Extents3D
}

// HeadlessBackend draws nothing. It checks every submission the way a GPU
// backend would have to and keeps statistics, which makes it usable in
// tests and on machines without a display.
type HeadlessBackend struct {
	appName string
	// LogEvery logs the frame statistics every that many frames; 0 disables it.
	LogEvery uint64

	inFrame bool
	current FrameStats
	last    FrameStats
}

func NewHeadlessBackend() *HeadlessBackend {
	return &HeadlessBackend{}
}

func (hb *HeadlessBackend) Initialize(appName string) error {
	hb.appName = appName
	core.LogInfo("%s: headless renderer initialized", appName)
	return nil
}

func (hb *HeadlessBackend) Shutdown() error {
	core.LogInfo("%s: headless renderer shut down after %d frames", hb.appName, hb.last.Frame)
	return nil
}

func (hb *HeadlessBackend) BeginFrame(deltaTime float64) error {
	if hb.inFrame {
		return errors.New("frame already in progress")
	}
	hb.inFrame = true
	hb.current = FrameStats{Frame: hb.last.Frame + 1}
	return nil
}

func (hb *HeadlessBackend) DrawGeometry(data *GeometryRenderData) error {
	if !hb.inFrame {
		return ErrFrameNotStarted
	}
	if len(data.Indices)%3 != 0 {
		return fmt.Errorf("%s: index count %d is not a multiple of 3", data.Shader, len(data.Indices))
	}
	for _, idx := range data.Indices {
		if int(idx) >= len(data.Vertices) {
			return fmt.Errorf("%s: index %d out of range [0, %d)", data.Shader, idx, len(data.Vertices))
		}
	}

	for i := range data.Vertices {
		p := data.Transform.Apply(data.Vertices[i].Position)
		if hb.current.Vertices == 0 && i == 0 {
			hb.current.Extents = math.Extents3D{Min: p, Max: p}
		} else {
			hb.current.Extents.Min = hb.current.Extents.Min.Min(p)
			hb.current.Extents.Max = hb.current.Extents.Max.Max(p)
		}
	}
	hb.current.DrawCalls++
	hb.current.Vertices += len(data.Vertices)
	hb.current.Triangles += len(data.Indices) / 3
	return nil
}

func (hb *HeadlessBackend) EndFrame(deltaTime float64) error {
	if !hb.inFrame {
		return ErrFrameNotStarted
	}
	hb.inFrame = false
	hb.last = hb.current
	if hb.LogEvery > 0 && hb.last.Frame%hb.LogEvery == 0 {
		core.LogDebug("frame %d: %d draws, %d vertices, %d triangles, extents %v..%v",
			hb.last.Frame, hb.last.DrawCalls, hb.last.Vertices, hb.last.Triangles, hb.last.Extents.Min, hb.last.Extents.Max)
	}
	return nil
}

// LastFrame returns the statistics of the last completed frame.
func (hb *HeadlessBackend) LastFrame() FrameStats {
	return hb.last
}
