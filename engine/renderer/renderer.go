package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-2d/common"
	"github.com/Carmen-Shannon/oxy-2d/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-2d/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-2d/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// renderer is the implementation of the Renderer interface.
// It wraps a GPU backend and maintains a cache of registered pipelines keyed by name.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
}

// Renderer defines the interface for the rendering system.
//
// This is a high-level API designed to simplify rendering tasks into a streamlined and idiomatic flow.
// The Renderer manages a cache of pipelines, allowing for easy retrieval and management of these resources.
// The Renderer also implements a backend which allows for multiple backend API implementations to exist.
type Renderer interface {
	// Backend returns the underlying RendererBackend for direct access when needed.
	//
	// Returns:
	//   - RendererBackend: the active backend
	Backend() RendererBackend

	// Pipeline retrieves the cached Pipeline associated with the given key.
	// If the Pipeline does not exist, this will return nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the cached pipeline, or nil if no pipeline is registered under the key
	Pipeline(key string) pipeline.Pipeline

	// RegisterPipelines creates GPU render pipelines for every pipeline in the cache.
	// Must be called after the surface is configured and before any draw calls.
	//
	// Returns:
	//   - error: an error if any pipeline could not be created, otherwise nil
	RegisterPipelines() error

	// ConfigureSurface reconfigures the render surface to the given dimensions.
	// Call when the window is resized; the in-flight frame is dropped and rendering
	// resumes at the new size on the next frame.
	//
	// Parameters:
	//   - width: the new surface width in pixels
	//   - height: the new surface height in pixels
	ConfigureSurface(width, height int)

	// InitMeshBuffers creates and uploads vertex and index buffers for a mesh.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the buffers on
	//   - vertexData: the raw vertex data bytes
	//   - indexData: the raw index data bytes (uint16 indices)
	//   - indexCount: the number of indices in indexData
	//
	// Returns:
	//   - error: an error if buffer creation failed, otherwise nil
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitInstanceBuffer creates a per-instance vertex buffer with the given byte capacity.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the instance buffer on
	//   - capacity: the initial byte capacity
	//
	// Returns:
	//   - error: an error if buffer creation failed, otherwise nil
	InitInstanceBuffer(provider bind_group_provider.BindGroupProvider, capacity uint64) error

	// UploadInstances writes per-instance data to the provider's instance buffer, growing
	// the buffer when needed, and records the instance count for draw calls.
	//
	// Parameters:
	//   - provider: the BindGroupProvider holding the instance buffer
	//   - data: the raw per-instance bytes
	//   - instanceCount: the number of instances represented in data
	//
	// Returns:
	//   - error: an error if the buffer needed to grow and recreation failed
	UploadInstances(provider bind_group_provider.BindGroupProvider, data []byte, instanceCount int) error

	// InitBindGroup creates the GPU resources and bind group described by the provider's layout.
	//
	// Parameters:
	//   - provider: the BindGroupProvider describing the bind group
	//   - descriptor: the layout descriptor for the bind group
	//   - bufferUsageOverrides: optional per-binding buffer usage flags
	//   - bufferSizeOverrides: optional per-binding buffer sizes
	//
	// Returns:
	//   - error: an error if the bind group could not be created, otherwise nil
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error

	// InitTextureView creates a GPU texture and view from staging data.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the texture view on
	//   - bindingKey: the bind group layout entry key for the texture
	//   - stagingData: the raw texture data and dimensions
	//
	// Returns:
	//   - error: an error if texture creation failed, otherwise nil
	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error

	// InitSampler creates a GPU sampler from staging data.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the sampler on
	//   - bindingKey: the bind group layout entry key for the sampler
	//   - stagingData: the sampler configuration
	//
	// Returns:
	//   - error: an error if sampler creation failed, otherwise nil
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.SamplerStagingData) error

	// WriteBuffers writes all staged buffer writes to the GPU queue.
	//
	// Parameters:
	//   - writes: the buffer writes to apply
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the next swapchain texture and begins the frame's render pass.
	// On error (surface lost, resize in flight) the caller should skip the frame.
	//
	// Returns:
	//   - error: an error if the frame could not be started
	BeginFrame() error

	// DrawCall encodes a single instanced draw within the current frame.
	//
	// Parameters:
	//   - pipelineKey: the key of the pipeline to draw with
	//   - meshProvider: the BindGroupProvider holding the mesh and instance buffers
	//   - instanceCount: the number of instances to draw
	//   - bindGroups: the bind group providers to set, in group index order
	//
	// Returns:
	//   - error: an error if the pipeline key is not registered
	DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndFrame ends the render pass and submits the frame's commands to the GPU.
	EndFrame()

	// Present presents the completed frame to the display.
	Present()
}

var _ Renderer = &renderer{}

// NewRenderer is the entry point to create a new Renderer interface.
// It creates the GPU backend for the given window surface, applies any builder options,
// and configures the surface to the window's current size. Backend creation panics on
// failure since the engine cannot run without a device.
//
// Parameters:
//   - win: the window providing the surface descriptor and dimensions
//   - backendType: the RendererBackendType selecting the GPU API
//   - opts: a variadic list of RendererBuilderOption functions
//
// Returns:
//   - Renderer: a new Renderer instance
func NewRenderer(win window.Window, backendType RendererBackendType, opts ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
	}
	for _, opt := range opts {
		opt(r)
	}

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	r.backend.ConfigureSurface(win.Width(), win.Height())

	return r
}

func (r *renderer) Backend() RendererBackend {
	return r.backend
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) RegisterPipelines() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, p := range r.pipelineCache {
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return fmt.Errorf("failed to register pipeline %q: %w", key, err)
		}
	}
	return nil
}

func (r *renderer) ConfigureSurface(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	return r.backend.InitMeshBuffers(provider, vertexData, indexData, indexCount)
}

func (r *renderer) InitInstanceBuffer(provider bind_group_provider.BindGroupProvider, capacity uint64) error {
	return r.backend.InitInstanceBuffer(provider, capacity)
}

func (r *renderer) UploadInstances(provider bind_group_provider.BindGroupProvider, data []byte, instanceCount int) error {
	return r.backend.UploadInstances(provider, data, instanceCount)
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error {
	return r.backend.InitBindGroup(provider, descriptor, bufferUsageOverrides, bufferSizeOverrides)
}

func (r *renderer) InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error {
	return r.backend.InitTextureView(provider, bindingKey, stagingData)
}

func (r *renderer) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.SamplerStagingData) error {
	return r.backend.InitSampler(provider, bindingKey, stagingData)
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.backend.WriteBuffers(writes)
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	r.mu.Lock()
	p, ok := r.pipelineCache[pipelineKey]
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("render pipeline %q not found in cache", pipelineKey)
	}

	r.backend.DrawCall(p, meshProvider, instanceCount, bindGroups)
	return nil
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}
