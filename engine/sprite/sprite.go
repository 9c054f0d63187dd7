package sprite

import (
	"fmt"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-2d/common"
	"github.com/Carmen-Shannon/oxy-2d/engine/camera"
	"github.com/Carmen-Shannon/oxy-2d/engine/renderer"
	"github.com/Carmen-Shannon/oxy-2d/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-2d/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-2d/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-2d/engine/renderer/shader"
)

// PipelineKey is the renderer cache key for the sprite render pipeline.
const PipelineKey = "sprite"

// defaultInstanceCapacity is the initial instance buffer capacity in instances.
// The buffer grows automatically when a frame stages more.
const defaultInstanceCapacity = 64

// batchCount is an atomic counter used to generate unique bind group provider names for each batch.
var batchCount atomic.Uint64

// SpriteParams describes a single sprite submission for the current frame.
type SpriteParams struct {
	// Position is the world-space position of the sprite's lower-left corner.
	Position [2]float32

	// Scale is the sprite's world-space size along each axis.
	Scale [2]float32

	// Rotation is the counter-clockwise rotation in radians.
	Rotation float32

	// Layer orders sprites within the batch: lower layers draw first (behind).
	// Sprites on the same layer draw in submission order.
	Layer int
}

// batch is the implementation of the Batch interface.
type batch struct {
	mu *sync.Mutex

	name         string
	material     material.Material
	meshProvider bind_group_provider.BindGroupProvider
	camera       camera.Camera2D

	staged           []SpriteParams
	instanceCapacity int

	initialized bool
}

// Batch defines the interface for a sprite batch: a set of instanced quads that
// share one texture and one draw call. Sprites are pushed per frame, sorted by
// layer, marshaled to the instance buffer in a single upload, and drawn with the
// sprite pipeline (camera view-projection applied, standard alpha blending).
type Batch interface {
	// Name retrieves the batch identifier.
	//
	// Returns:
	//   - string: the batch name
	Name() string

	// Material retrieves the batch's material (texture + sampler bindings).
	//
	// Returns:
	//   - material.Material: the material
	Material() material.Material

	// MeshProvider retrieves the BindGroupProvider holding the quad mesh and instance buffer.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the mesh provider
	MeshProvider() bind_group_provider.BindGroupProvider

	// Push stages one sprite for the current frame.
	//
	// Parameters:
	//   - params: the sprite's position, scale, rotation, and layer
	Push(params SpriteParams)

	// Clear drops all staged sprites. Called after each frame's upload so the
	// next frame starts from an empty list.
	Clear()

	// StagedCount returns the number of sprites staged for the current frame.
	//
	// Returns:
	//   - int: the staged sprite count
	StagedCount() int

	// InitGPU creates all GPU resources for the batch: quad mesh buffers, the
	// instance buffer, the texture view + sampler bind group (group 0), and the
	// shared camera uniform bind group (group 1) if the camera has not been
	// initialized yet. Must be called once before Upload/Draw, after the sprite
	// pipeline is registered.
	//
	// Parameters:
	//   - r: the renderer
	//   - cam: the camera whose uniform the sprite pipeline reads
	//
	// Returns:
	//   - error: an error if any GPU resource could not be created
	InitGPU(r renderer.Renderer, cam camera.Camera2D) error

	// MarshalInstances stable-sorts the staged sprites by layer and serializes
	// them into the per-instance wire format. CPU-only, safe to run concurrently
	// with other batches' marshaling.
	//
	// Returns:
	//   - []byte: the serialized instance data
	//   - int: the instance count
	MarshalInstances() ([]byte, int)

	// Upload marshals the staged sprites and writes them to the instance buffer
	// in one upload, recording the instance count for Draw.
	//
	// Parameters:
	//   - r: the renderer
	//
	// Returns:
	//   - error: an error if the upload failed
	Upload(r renderer.Renderer) error

	// Draw encodes the batch's single instanced draw call. A batch with zero
	// uploaded instances is a no-op.
	//
	// Parameters:
	//   - r: the renderer
	//
	// Returns:
	//   - error: an error if the draw could not be encoded
	Draw(r renderer.Renderer) error
}

var _ Batch = &batch{}

// NewBatch creates a new sprite Batch with the specified options applied.
// A texture must be provided via WithTexture or WithMaterial before InitGPU.
//
// Parameters:
//   - options: a variadic list of BatchBuilderOption functions to configure the batch
//
// Returns:
//   - Batch: a new Batch instance
func NewBatch(options ...BatchBuilderOption) Batch {
	n := batchCount.Load()
	b := &batch{
		mu:               &sync.Mutex{},
		name:             "sprite_batch_" + strconv.FormatUint(n, 10),
		meshProvider:     bind_group_provider.NewBindGroupProvider("sprite_mesh_bgp_" + strconv.FormatUint(n, 10)),
		instanceCapacity: defaultInstanceCapacity,
	}
	for _, opt := range options {
		opt(b)
	}
	batchCount.Add(1)
	return b
}

// NewPipeline builds the sprite render pipeline configuration from the embedded
// WGSL source: triangle list, CCW front faces, no culling, standard alpha
// blending (src-alpha / one-minus-src-alpha color, one / one-minus-src-alpha
// alpha) so translucent sprite texels composite over what is already drawn.
//
// Returns:
//   - pipeline.Pipeline: the sprite pipeline, ready to register with the renderer
func NewPipeline() pipeline.Pipeline {
	vs := shader.NewShader("sprite_vs", shader.ShaderTypeVertex, SpriteShaderSource)
	fs := shader.NewShader("sprite_fs", shader.ShaderTypeFragment, SpriteShaderSource)
	return pipeline.NewPipeline(PipelineKey,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithBlendEnabled(true),
	)
}

func (b *batch) Name() string {
	return b.name
}

func (b *batch) Material() material.Material {
	return b.material
}

func (b *batch) MeshProvider() bind_group_provider.BindGroupProvider {
	return b.meshProvider
}

func (b *batch) Push(params SpriteParams) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.staged = append(b.staged, params)
}

func (b *batch) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.staged = b.staged[:0]
}

func (b *batch) StagedCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.staged)
}

func (b *batch) InitGPU(r renderer.Renderer, cam camera.Camera2D) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}
	if b.material == nil || b.material.Texture() == nil {
		return fmt.Errorf("batch %s has no texture material", b.name)
	}

	p := r.Pipeline(PipelineKey)
	if p == nil {
		return fmt.Errorf("sprite pipeline not registered — call RegisterPipelines first")
	}
	vs := p.Shader(shader.ShaderTypeVertex)
	fs := p.Shader(shader.ShaderTypeFragment)

	// Quad mesh
	vertices := QuadVertices()
	vertexData := make([]byte, 0, len(vertices)*16)
	for i := range vertices {
		vertexData = append(vertexData, vertices[i].Marshal()...)
	}
	indices := QuadIndices()
	indexData := common.SliceToBytes(indices)
	if err := r.InitMeshBuffers(b.meshProvider, vertexData, indexData, len(indices)); err != nil {
		return fmt.Errorf("failed to init quad mesh for batch %s: %w", b.name, err)
	}

	// Instance buffer
	inst := GPUSpriteInstance{}
	capacity := uint64(b.instanceCapacity * inst.Size())
	if err := r.InitInstanceBuffer(b.meshProvider, capacity); err != nil {
		return fmt.Errorf("failed to init instance buffer for batch %s: %w", b.name, err)
	}

	// Texture + sampler bind group (group 0)
	pixels, width, height, err := b.material.Texture().Decode()
	if err != nil {
		return fmt.Errorf("failed to decode texture for batch %s: %w", b.name, err)
	}
	matProvider := b.material.BindGroupProvider()
	if err := r.InitTextureView(matProvider, 0, common.TextureStagingData{
		Pixels: pixels,
		Width:  width,
		Height: height,
	}); err != nil {
		return fmt.Errorf("failed to init texture view for batch %s: %w", b.name, err)
	}
	samplerData := common.SamplerStagingData{}
	if b.material.Texture().SamplerData != nil {
		samplerData = *b.material.Texture().SamplerData
	}
	if err := r.InitSampler(matProvider, 1, samplerData); err != nil {
		return fmt.Errorf("failed to init sampler for batch %s: %w", b.name, err)
	}
	if err := r.InitBindGroup(matProvider, fs.BindGroupLayoutDescriptor(0), nil, nil); err != nil {
		return fmt.Errorf("failed to init material bind group for batch %s: %w", b.name, err)
	}
	b.material.SetPipelineKey(PipelineKey)

	// Camera uniform bind group (group 1), shared across batches: only the
	// first batch to initialize creates it.
	camProvider := cam.BindGroupProvider()
	if camProvider.BindGroup() == nil {
		if err := r.InitBindGroup(camProvider, vs.BindGroupLayoutDescriptor(1), nil, nil); err != nil {
			return fmt.Errorf("failed to init camera bind group: %w", err)
		}
		r.WriteBuffers([]bind_group_provider.BufferWrite{
			{Provider: camProvider, Binding: 0, Offset: 0, Data: cam.GPUUniform().Marshal()},
		})
	}

	b.camera = cam
	b.initialized = true
	return nil
}

func (b *batch) MarshalInstances() ([]byte, int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Stable sort keeps submission order within a layer.
	sort.SliceStable(b.staged, func(i, j int) bool {
		return b.staged[i].Layer < b.staged[j].Layer
	})

	inst := GPUSpriteInstance{}
	data := make([]byte, 0, len(b.staged)*inst.Size())
	for i := range b.staged {
		s := &b.staged[i]
		common.Compose2D(inst.Model[:], s.Position[0], s.Position[1], s.Rotation, s.Scale[0], s.Scale[1])
		data = append(data, inst.Marshal()...)
	}
	return data, len(b.staged)
}

func (b *batch) Upload(r renderer.Renderer) error {
	data, count := b.MarshalInstances()
	if err := r.UploadInstances(b.meshProvider, data, count); err != nil {
		return fmt.Errorf("failed to upload %d instances for batch %s: %w", count, b.name, err)
	}
	return nil
}

func (b *batch) Draw(r renderer.Renderer) error {
	b.mu.Lock()
	cam := b.camera
	initialized := b.initialized
	b.mu.Unlock()

	if !initialized {
		return fmt.Errorf("batch %s not initialized — call InitGPU first", b.name)
	}

	count := b.meshProvider.InstanceCount()
	if count == 0 {
		return nil
	}

	return r.DrawCall(PipelineKey, b.meshProvider, uint32(count), []bind_group_provider.BindGroupProvider{
		b.material.BindGroupProvider(),
		cam.BindGroupProvider(),
	})
}
