package sprite

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-2d/common"
	"github.com/Carmen-Shannon/oxy-2d/engine/camera"
	"github.com/Carmen-Shannon/oxy-2d/engine/renderer"
	"github.com/Carmen-Shannon/oxy-2d/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-2d/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-2d/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

func TestQuadGeometry(t *testing.T) {
	vertices := QuadVertices()
	if len(vertices) != 4 {
		t.Fatalf("vertex count = %d, want 4", len(vertices))
	}

	// Positions span the unit square with the origin at the lower-left.
	wantPositions := [][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	for i, v := range vertices {
		if v.Position != wantPositions[i] {
			t.Errorf("vertex %d position = %v, want %v", i, v.Position, wantPositions[i])
		}
	}

	// V is flipped: the top of the quad (y=1) samples the top of the image (v=0).
	for i, v := range vertices {
		if wantV := 1 - v.Position[1]; v.TexCoords[1] != wantV {
			t.Errorf("vertex %d has v = %v, want %v", i, v.TexCoords[1], wantV)
		}
		if v.TexCoords[0] != v.Position[0] {
			t.Errorf("vertex %d has u = %v, want %v", i, v.TexCoords[0], v.Position[0])
		}
	}

	indices := QuadIndices()
	if len(indices) != 6 {
		t.Fatalf("index count = %d, want 6", len(indices))
	}

	// Both triangles must wind counter-clockwise (positive signed area).
	for tri := 0; tri < 2; tri++ {
		a := vertices[indices[tri*3]].Position
		b := vertices[indices[tri*3+1]].Position
		c := vertices[indices[tri*3+2]].Position
		cross := (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
		if cross <= 0 {
			t.Errorf("triangle %d winds clockwise (cross = %v)", tri, cross)
		}
	}
}

func TestGPUTypesMatchShaderLayout(t *testing.T) {
	vs := shader.NewShader("sprite_vs", shader.ShaderTypeVertex, SpriteShaderSource)
	layouts := vs.VertexLayouts()
	if len(layouts) != 2 {
		t.Fatalf("vertex buffer slot count = %d, want 2", len(layouts))
	}

	v := GPUSpriteVertex{}
	mesh := layouts[0][0]
	if int(mesh.ArrayStride) != v.Size() {
		t.Errorf("mesh stride %d != GPUSpriteVertex size %d", mesh.ArrayStride, v.Size())
	}
	if mesh.StepMode != wgpu.VertexStepModeVertex {
		t.Errorf("mesh step mode = %v, want vertex", mesh.StepMode)
	}

	inst := GPUSpriteInstance{}
	instLayout := layouts[1][0]
	if int(instLayout.ArrayStride) != inst.Size() {
		t.Errorf("instance stride %d != GPUSpriteInstance size %d", instLayout.ArrayStride, inst.Size())
	}
	if instLayout.StepMode != wgpu.VertexStepModeInstance {
		t.Errorf("instance step mode = %v, want instance", instLayout.StepMode)
	}
}

func TestGPUSpriteInstanceMarshal(t *testing.T) {
	inst := GPUSpriteInstance{}
	if inst.Size() != 36 {
		t.Fatalf("Size() = %d, want 36", inst.Size())
	}
	for i := range inst.Model {
		inst.Model[i] = float32(i) * 0.5
	}
	data := inst.Marshal()
	if len(data) != 36 {
		t.Fatalf("Marshal() produced %d bytes, want 36", len(data))
	}
	for i := 0; i < 9; i++ {
		bits := binary.LittleEndian.Uint32(data[i*4:])
		if got := math.Float32frombits(bits); got != float32(i)*0.5 {
			t.Errorf("element %d = %v, want %v", i, got, float32(i)*0.5)
		}
	}
}

func TestBatchPushClearStagedCount(t *testing.T) {
	b := NewBatch(WithName("test"))
	if b.StagedCount() != 0 {
		t.Fatalf("new batch staged count = %d, want 0", b.StagedCount())
	}

	b.Push(SpriteParams{Position: [2]float32{1, 2}, Scale: [2]float32{3, 4}})
	b.Push(SpriteParams{Position: [2]float32{5, 6}, Scale: [2]float32{7, 8}})
	if b.StagedCount() != 2 {
		t.Errorf("staged count = %d, want 2", b.StagedCount())
	}

	b.Clear()
	if b.StagedCount() != 0 {
		t.Errorf("staged count after clear = %d, want 0", b.StagedCount())
	}
}

func TestMarshalInstancesAppliesTransform(t *testing.T) {
	b := NewBatch(WithName("transform"))
	b.Push(SpriteParams{
		Position: [2]float32{100, 50},
		Scale:    [2]float32{32, 64},
	})

	data, count := b.MarshalInstances()
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
	if len(data) != 36 {
		t.Fatalf("data length = %d, want 36", len(data))
	}

	var m [9]float32
	for i := range m {
		m[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}

	// The unit quad's far corner lands at position + scale.
	x, y := common.TransformPoint2D(m[:], 1, 1)
	if x != 132 || y != 114 {
		t.Errorf("transformed corner = (%v, %v), want (132, 114)", x, y)
	}
	// Third matrix row stays (0, 0, 1).
	if m[2] != 0 || m[5] != 0 || m[8] != 1 {
		t.Errorf("third row = (%v, %v, %v), want (0, 0, 1)", m[2], m[5], m[8])
	}
}

func TestMarshalInstancesSortsByLayerStable(t *testing.T) {
	b := NewBatch(WithName("layers"))
	// Distinct x positions identify each sprite after sorting.
	b.Push(SpriteParams{Position: [2]float32{3, 0}, Scale: [2]float32{1, 1}, Layer: 2})
	b.Push(SpriteParams{Position: [2]float32{1, 0}, Scale: [2]float32{1, 1}, Layer: 0})
	b.Push(SpriteParams{Position: [2]float32{4, 0}, Scale: [2]float32{1, 1}, Layer: 2})
	b.Push(SpriteParams{Position: [2]float32{2, 0}, Scale: [2]float32{1, 1}, Layer: 0})

	data, count := b.MarshalInstances()
	if count != 4 {
		t.Fatalf("count = %d, want 4", count)
	}

	// Translation x is column 2's first element: flat index 6.
	var gotOrder []float32
	for i := 0; i < count; i++ {
		tx := math.Float32frombits(binary.LittleEndian.Uint32(data[i*36+6*4:]))
		gotOrder = append(gotOrder, tx)
	}
	want := []float32{1, 2, 3, 4}
	for i := range want {
		if gotOrder[i] != want[i] {
			t.Fatalf("instance order = %v, want %v", gotOrder, want)
		}
	}
}

func TestMarshalInstancesEmpty(t *testing.T) {
	b := NewBatch(WithName("empty"))
	data, count := b.MarshalInstances()
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
	if len(data) != 0 {
		t.Errorf("data length = %d, want 0", len(data))
	}
}

func TestNewBatchDefaults(t *testing.T) {
	b := NewBatch()
	if b.Name() == "" {
		t.Error("batch has empty default name")
	}
	if b.MeshProvider() == nil {
		t.Error("batch has nil mesh provider")
	}

	other := NewBatch()
	if other.Name() == b.Name() {
		t.Errorf("two batches share the name %q", b.Name())
	}
}

// recordingRenderer satisfies renderer.Renderer without a GPU. UploadInstances
// performs the same count bookkeeping as the wgpu backend so the upload/draw
// contract can be checked end to end.
type recordingRenderer struct {
	uploads []int
	draws   []uint32
}

var _ renderer.Renderer = &recordingRenderer{}

func (r *recordingRenderer) Backend() renderer.RendererBackend { return nil }
func (r *recordingRenderer) Pipeline(key string) pipeline.Pipeline {
	if key == PipelineKey {
		return NewPipeline()
	}
	return nil
}
func (r *recordingRenderer) RegisterPipelines() error           { return nil }
func (r *recordingRenderer) ConfigureSurface(width, height int) {}
func (r *recordingRenderer) InitMeshBuffers(bind_group_provider.BindGroupProvider, []byte, []byte, int) error {
	return nil
}
func (r *recordingRenderer) InitInstanceBuffer(bind_group_provider.BindGroupProvider, uint64) error {
	return nil
}
func (r *recordingRenderer) UploadInstances(provider bind_group_provider.BindGroupProvider, data []byte, instanceCount int) error {
	provider.SetInstanceCount(instanceCount)
	r.uploads = append(r.uploads, instanceCount)
	return nil
}
func (r *recordingRenderer) InitBindGroup(bind_group_provider.BindGroupProvider, wgpu.BindGroupLayoutDescriptor, map[int]wgpu.BufferUsage, map[int]uint64) error {
	return nil
}
func (r *recordingRenderer) InitTextureView(bind_group_provider.BindGroupProvider, int, common.TextureStagingData) error {
	return nil
}
func (r *recordingRenderer) InitSampler(bind_group_provider.BindGroupProvider, int, common.SamplerStagingData) error {
	return nil
}
func (r *recordingRenderer) WriteBuffers([]bind_group_provider.BufferWrite) {}
func (r *recordingRenderer) BeginFrame() error                              { return nil }
func (r *recordingRenderer) DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	r.draws = append(r.draws, instanceCount)
	return nil
}
func (r *recordingRenderer) EndFrame() {}
func (r *recordingRenderer) Present()  {}

func testTexturePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{255, 255, 255, 255})
	img.Set(1, 1, color.RGBA{255, 0, 0, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode texture: %v", err)
	}
	return buf.Bytes()
}

func newInitializedBatch(t *testing.T, r renderer.Renderer, name string) Batch {
	t.Helper()
	b := NewBatch(
		WithName(name),
		WithTexture(&common.TextureSource{Name: name, Data: testTexturePNG(t)}),
	)
	if err := b.InitGPU(r, camera.NewCamera()); err != nil {
		t.Fatalf("InitGPU failed: %v", err)
	}
	return b
}

func TestDrawUsesLatestUploadCount(t *testing.T) {
	r := &recordingRenderer{}
	b := newInitializedBatch(t, r, "counts")

	for i := 0; i < 5; i++ {
		b.Push(SpriteParams{Position: [2]float32{float32(i), 0}, Scale: [2]float32{1, 1}})
	}
	if err := b.Upload(r); err != nil {
		t.Fatalf("first upload failed: %v", err)
	}
	if err := b.Draw(r); err != nil {
		t.Fatalf("first draw failed: %v", err)
	}

	// A smaller second upload shrinks the draw: nothing from the larger
	// upload's tail is referenced.
	b.Clear()
	b.Push(SpriteParams{Position: [2]float32{10, 0}, Scale: [2]float32{1, 1}})
	b.Push(SpriteParams{Position: [2]float32{20, 0}, Scale: [2]float32{1, 1}})
	if err := b.Upload(r); err != nil {
		t.Fatalf("second upload failed: %v", err)
	}
	if err := b.Draw(r); err != nil {
		t.Fatalf("second draw failed: %v", err)
	}

	wantUploads := []int{5, 2}
	if len(r.uploads) != len(wantUploads) {
		t.Fatalf("uploads = %v, want %v", r.uploads, wantUploads)
	}
	for i := range wantUploads {
		if r.uploads[i] != wantUploads[i] {
			t.Errorf("upload %d count = %d, want %d", i, r.uploads[i], wantUploads[i])
		}
	}
	wantDraws := []uint32{5, 2}
	if len(r.draws) != len(wantDraws) {
		t.Fatalf("draws = %v, want %v", r.draws, wantDraws)
	}
	for i := range wantDraws {
		if r.draws[i] != wantDraws[i] {
			t.Errorf("draw %d count = %d, want %d", i, r.draws[i], wantDraws[i])
		}
	}
	if got := b.MeshProvider().InstanceCount(); got != 2 {
		t.Errorf("recorded instance count = %d, want 2", got)
	}
}

func TestDrawSkipsWhenNoInstances(t *testing.T) {
	r := &recordingRenderer{}
	b := newInitializedBatch(t, r, "idle")

	// An empty upload records a zero count and the draw becomes a no-op.
	if err := b.Upload(r); err != nil {
		t.Fatalf("empty upload failed: %v", err)
	}
	if err := b.Draw(r); err != nil {
		t.Fatalf("draw failed: %v", err)
	}
	if len(r.draws) != 0 {
		t.Errorf("draw calls issued with zero instances: %v", r.draws)
	}
}

func TestDrawFailsBeforeInit(t *testing.T) {
	r := &recordingRenderer{}
	b := NewBatch(WithName("uninitialized"))
	if err := b.Draw(r); err == nil {
		t.Error("Draw on an uninitialized batch did not fail")
	}
}

func TestWithTextureCreatesMaterial(t *testing.T) {
	tex := &common.TextureSource{Name: "player", Path: "player.png"}
	b := NewBatch(WithTexture(tex))
	if b.Material() == nil {
		t.Fatal("WithTexture did not create a material")
	}
	if b.Material().Texture() != tex {
		t.Error("material texture does not match the provided source")
	}
}
