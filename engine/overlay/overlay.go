package overlay

import (
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-2d/common"
	"github.com/Carmen-Shannon/oxy-2d/engine/renderer"
	"github.com/Carmen-Shannon/oxy-2d/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-2d/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-2d/engine/renderer/shader"
)

// PipelineKey is the renderer cache key for the overlay render pipeline.
const PipelineKey = "overlay"

// defaultInstanceCapacity is the initial per-shape instance buffer capacity in instances.
const defaultInstanceCapacity = 32

// overlayCount is an atomic counter used to generate unique bind group provider names.
var overlayCount atomic.Uint64

// OverlayParams describes a single overlay shape submission for the current frame.
// Position and scale are in clip space: the overlay pipeline applies no camera,
// so shapes land at fixed screen positions regardless of camera movement or zoom.
type OverlayParams struct {
	// Position is the clip-space position of the shape's center.
	Position [2]float32

	// Scale is the shape's clip-space size along each axis.
	Scale [2]float32

	// Rotation is the counter-clockwise rotation in radians.
	Rotation float32

	// Color is the flat RGB fill color. The fragment shader forces alpha to 1.0.
	Color [3]float32
}

// shapeBucket holds the GPU mesh and per-frame staging for one overlay shape kind.
type shapeBucket struct {
	provider bind_group_provider.BindGroupProvider
	staged   []OverlayParams
}

// overlay is the implementation of the Overlay interface.
type overlay struct {
	mu *sync.Mutex

	squares   shapeBucket
	triangles shapeBucket

	instanceCapacity int
	initialized      bool
}

// Overlay defines the interface for the debug overlay: flat-colored unit shapes
// (squares and triangles) drawn in clip space on top of the scene. The overlay
// pipeline reads no camera uniform and blends opaquely — every fragment is fully
// opaque, so overlay markers are always visible over whatever they cover.
type Overlay interface {
	// PushSquare stages one square for the current frame.
	//
	// Parameters:
	//   - params: the square's position, scale, rotation, and color
	PushSquare(params OverlayParams)

	// PushTriangle stages one triangle for the current frame.
	//
	// Parameters:
	//   - params: the triangle's position, scale, rotation, and color
	PushTriangle(params OverlayParams)

	// Clear drops all staged shapes. Called after each frame's upload so the
	// next frame starts from an empty list.
	Clear()

	// StagedCount returns the total number of shapes staged for the current frame.
	//
	// Returns:
	//   - int: the staged shape count across both kinds
	StagedCount() int

	// InitGPU creates the GPU resources for both shape meshes and their instance
	// buffers. Must be called once before Upload/Draw, after the overlay pipeline
	// is registered.
	//
	// Parameters:
	//   - r: the renderer
	//
	// Returns:
	//   - error: an error if any GPU resource could not be created
	InitGPU(r renderer.Renderer) error

	// MarshalInstances serializes the staged shapes of both kinds into the
	// per-instance wire format. CPU-only, safe to run concurrently with sprite
	// batch marshaling.
	//
	// Returns:
	//   - squares: serialized square instance data
	//   - squareCount: the square instance count
	//   - triangles: serialized triangle instance data
	//   - triangleCount: the triangle instance count
	MarshalInstances() (squares []byte, squareCount int, triangles []byte, triangleCount int)

	// Upload marshals the staged shapes and writes each kind to its instance
	// buffer in one upload, recording instance counts for Draw.
	//
	// Parameters:
	//   - r: the renderer
	//
	// Returns:
	//   - error: an error if an upload failed
	Upload(r renderer.Renderer) error

	// Draw encodes the overlay draw calls: squares first, then triangles.
	// A shape kind with zero uploaded instances is a no-op.
	//
	// Parameters:
	//   - r: the renderer
	//
	// Returns:
	//   - error: an error if a draw could not be encoded
	Draw(r renderer.Renderer) error
}

var _ Overlay = &overlay{}

// NewOverlay creates a new Overlay with the specified options applied.
//
// Parameters:
//   - options: a variadic list of OverlayBuilderOption functions to configure the overlay
//
// Returns:
//   - Overlay: a new Overlay instance
func NewOverlay(options ...OverlayBuilderOption) Overlay {
	n := overlayCount.Load()
	o := &overlay{
		mu: &sync.Mutex{},
		squares: shapeBucket{
			provider: bind_group_provider.NewBindGroupProvider("overlay_square_bgp_" + strconv.FormatUint(n, 10)),
		},
		triangles: shapeBucket{
			provider: bind_group_provider.NewBindGroupProvider("overlay_triangle_bgp_" + strconv.FormatUint(n, 10)),
		},
		instanceCapacity: defaultInstanceCapacity,
	}
	for _, opt := range options {
		opt(o)
	}
	overlayCount.Add(1)
	return o
}

// NewPipeline builds the overlay render pipeline configuration from the embedded
// WGSL source: triangle list, CCW front faces, no culling, blending disabled —
// the fragment shader forces alpha to 1.0, so overlay output replaces whatever
// is underneath.
//
// Returns:
//   - pipeline.Pipeline: the overlay pipeline, ready to register with the renderer
func NewPipeline() pipeline.Pipeline {
	vs := shader.NewShader("overlay_vs", shader.ShaderTypeVertex, OverlayShaderSource)
	fs := shader.NewShader("overlay_fs", shader.ShaderTypeFragment, OverlayShaderSource)
	return pipeline.NewPipeline(PipelineKey,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
	)
}

func (o *overlay) PushSquare(params OverlayParams) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.squares.staged = append(o.squares.staged, params)
}

func (o *overlay) PushTriangle(params OverlayParams) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.triangles.staged = append(o.triangles.staged, params)
}

func (o *overlay) Clear() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.squares.staged = o.squares.staged[:0]
	o.triangles.staged = o.triangles.staged[:0]
}

func (o *overlay) StagedCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.squares.staged) + len(o.triangles.staged)
}

func (o *overlay) InitGPU(r renderer.Renderer) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.initialized {
		return nil
	}
	if r.Pipeline(PipelineKey) == nil {
		return fmt.Errorf("overlay pipeline not registered — call RegisterPipelines first")
	}

	if err := o.initShape(r, o.squares.provider, SquareVertices(), SquareIndices()); err != nil {
		return fmt.Errorf("failed to init overlay square mesh: %w", err)
	}
	if err := o.initShape(r, o.triangles.provider, TriangleVertices(), TriangleIndices()); err != nil {
		return fmt.Errorf("failed to init overlay triangle mesh: %w", err)
	}

	o.initialized = true
	return nil
}

// initShape uploads one shape's mesh buffers and creates its instance buffer.
// Caller must hold the mutex.
func (o *overlay) initShape(r renderer.Renderer, provider bind_group_provider.BindGroupProvider, vertices []GPUOverlayVertex, indices []uint16) error {
	vertexData := make([]byte, 0, len(vertices)*8)
	for i := range vertices {
		vertexData = append(vertexData, vertices[i].Marshal()...)
	}
	indexData := common.SliceToBytes(indices)
	if err := r.InitMeshBuffers(provider, vertexData, indexData, len(indices)); err != nil {
		return err
	}

	inst := GPUOverlayInstance{}
	return r.InitInstanceBuffer(provider, uint64(o.instanceCapacity*inst.Size()))
}

func (o *overlay) MarshalInstances() (squares []byte, squareCount int, triangles []byte, triangleCount int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	squares = marshalShapes(o.squares.staged)
	triangles = marshalShapes(o.triangles.staged)
	return squares, len(o.squares.staged), triangles, len(o.triangles.staged)
}

// marshalShapes serializes staged overlay params in submission order.
func marshalShapes(staged []OverlayParams) []byte {
	inst := GPUOverlayInstance{}
	data := make([]byte, 0, len(staged)*inst.Size())
	for i := range staged {
		p := &staged[i]
		common.Compose2D(inst.Model[:], p.Position[0], p.Position[1], p.Rotation, p.Scale[0], p.Scale[1])
		inst.Color = p.Color
		data = append(data, inst.Marshal()...)
	}
	return data
}

func (o *overlay) Upload(r renderer.Renderer) error {
	squares, squareCount, triangles, triangleCount := o.MarshalInstances()

	if err := r.UploadInstances(o.squares.provider, squares, squareCount); err != nil {
		return fmt.Errorf("failed to upload %d overlay squares: %w", squareCount, err)
	}
	if err := r.UploadInstances(o.triangles.provider, triangles, triangleCount); err != nil {
		return fmt.Errorf("failed to upload %d overlay triangles: %w", triangleCount, err)
	}
	return nil
}

func (o *overlay) Draw(r renderer.Renderer) error {
	o.mu.Lock()
	initialized := o.initialized
	o.mu.Unlock()

	if !initialized {
		return fmt.Errorf("overlay not initialized — call InitGPU first")
	}

	if count := o.squares.provider.InstanceCount(); count > 0 {
		if err := r.DrawCall(PipelineKey, o.squares.provider, uint32(count), nil); err != nil {
			return err
		}
	}
	if count := o.triangles.provider.InstanceCount(); count > 0 {
		if err := r.DrawCall(PipelineKey, o.triangles.provider, uint32(count), nil); err != nil {
			return err
		}
	}
	return nil
}
