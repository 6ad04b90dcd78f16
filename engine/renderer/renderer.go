package renderer

import (
	"github.com/google/uuid"

	"github.com/spaghettifunk/marionette/engine/core"
	"github.com/spaghettifunk/marionette/engine/math"
)

type RendererBackend interface {
	Initialize(appName string) error
	Shutdown() error
	BeginFrame(deltaTime float64) error
	DrawGeometry(data *GeometryRenderData) error
	EndFrame(deltaTime float64) error
}

/**
 * @brief One skinned mesh ready to draw. Vertices and Indices are borrowed
 * from the animation instance and only valid for the current frame.
 */
type GeometryRenderData struct {
	InstanceID uuid.UUID
	/** @brief Where the instance stands in the world. */
	Transform math.Transform
	/** @brief Texture or shader the mesh was authored with. */
	Shader   string
	Vertices []math.Vertex3D
	Indices  []uint32
}

type RenderPacket struct {
	DeltaTime  float64
	Geometries []GeometryRenderData
}

// Reset empties the packet, keeping its storage for the next frame.
func (p *RenderPacket) Reset(deltaTime float64) {
	p.DeltaTime = deltaTime
	p.Geometries = p.Geometries[:0]
}

type Renderer struct {
	backend RendererBackend
}

func New(backend RendererBackend) *Renderer {
	return &Renderer{backend: backend}
}

func (r *Renderer) Initialize(appName string) error {
	return r.backend.Initialize(appName)
}

func (r *Renderer) Shutdown() error {
	return r.backend.Shutdown()
}

func (r *Renderer) DrawFrame(renderPacket *RenderPacket) error {
	if err := r.backend.BeginFrame(renderPacket.DeltaTime); err != nil {
		core.LogError(err.Error())
		return err
	}
	for i := range renderPacket.Geometries {
		if err := r.backend.DrawGeometry(&renderPacket.Geometries[i]); err != nil {
			core.LogError("drawing %s failed: %s", renderPacket.Geometries[i].Shader, err.Error())
			return err
		}
	}
	if err := r.backend.EndFrame(renderPacket.DeltaTime); err != nil {
		core.LogError("RendererEndFrame failed. Application shutting down...")
		return err
	}
	return nil
}
