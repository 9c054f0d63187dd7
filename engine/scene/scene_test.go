package scene

import (
	"errors"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-2d/common"
	"github.com/Carmen-Shannon/oxy-2d/engine/camera"
	"github.com/Carmen-Shannon/oxy-2d/engine/overlay"
	"github.com/Carmen-Shannon/oxy-2d/engine/renderer"
	"github.com/Carmen-Shannon/oxy-2d/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-2d/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-2d/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-2d/engine/sprite"
	"github.com/cogentcore/webgpu/wgpu"
)

// eventLog records renderer and batch activity in call order across goroutines.
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(event string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

func (l *eventLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

func (l *eventLog) index(event string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, e := range l.events {
		if e == event {
			return i
		}
	}
	return -1
}

// fakeRenderer satisfies renderer.Renderer without touching a GPU.
type fakeRenderer struct {
	log      *eventLog
	beginErr error
}

var _ renderer.Renderer = &fakeRenderer{}

func (f *fakeRenderer) Backend() renderer.RendererBackend  { return nil }
func (f *fakeRenderer) Pipeline(string) pipeline.Pipeline  { return nil }
func (f *fakeRenderer) RegisterPipelines() error           { return nil }
func (f *fakeRenderer) ConfigureSurface(width, height int) {}
func (f *fakeRenderer) InitMeshBuffers(bind_group_provider.BindGroupProvider, []byte, []byte, int) error {
	return nil
}
func (f *fakeRenderer) InitInstanceBuffer(bind_group_provider.BindGroupProvider, uint64) error {
	return nil
}
func (f *fakeRenderer) UploadInstances(bind_group_provider.BindGroupProvider, []byte, int) error {
	return nil
}
func (f *fakeRenderer) InitBindGroup(bind_group_provider.BindGroupProvider, wgpu.BindGroupLayoutDescriptor, map[int]wgpu.BufferUsage, map[int]uint64) error {
	return nil
}
func (f *fakeRenderer) InitTextureView(bind_group_provider.BindGroupProvider, int, common.TextureStagingData) error {
	return nil
}
func (f *fakeRenderer) InitSampler(bind_group_provider.BindGroupProvider, int, common.SamplerStagingData) error {
	return nil
}
func (f *fakeRenderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	f.log.add("write_buffers")
}
func (f *fakeRenderer) BeginFrame() error {
	if f.beginErr != nil {
		return f.beginErr
	}
	f.log.add("begin")
	return nil
}
func (f *fakeRenderer) DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	f.log.add("drawcall:" + pipelineKey)
	return nil
}
func (f *fakeRenderer) EndFrame() { f.log.add("end") }
func (f *fakeRenderer) Present()  { f.log.add("present") }

// fakeBatch satisfies sprite.Batch and records lifecycle calls.
type fakeBatch struct {
	log       *eventLog
	name      string
	provider  bind_group_provider.BindGroupProvider
	uploadErr error
}

var _ sprite.Batch = &fakeBatch{}

func newFakeBatch(log *eventLog, name string) *fakeBatch {
	return &fakeBatch{
		log:      log,
		name:     name,
		provider: bind_group_provider.NewBindGroupProvider(name + "_bgp"),
	}
}

func (f *fakeBatch) Name() string               { return f.name }
func (f *fakeBatch) Material() material.Material { return nil }
func (f *fakeBatch) MeshProvider() bind_group_provider.BindGroupProvider {
	return f.provider
}
func (f *fakeBatch) Push(sprite.SpriteParams) {}
func (f *fakeBatch) Clear()                   { f.log.add("clear:" + f.name) }
func (f *fakeBatch) StagedCount() int         { return 0 }
func (f *fakeBatch) InitGPU(renderer.Renderer, camera.Camera2D) error {
	f.log.add("init:" + f.name)
	return nil
}
func (f *fakeBatch) MarshalInstances() ([]byte, int) { return nil, 0 }
func (f *fakeBatch) Upload(renderer.Renderer) error {
	f.log.add("upload:" + f.name)
	return f.uploadErr
}
func (f *fakeBatch) Draw(renderer.Renderer) error {
	f.log.add("draw:" + f.name)
	return nil
}

// fakeOverlay satisfies overlay.Overlay and records lifecycle calls.
type fakeOverlay struct {
	log *eventLog
}

var _ overlay.Overlay = &fakeOverlay{}

func (f *fakeOverlay) PushSquare(overlay.OverlayParams)   {}
func (f *fakeOverlay) PushTriangle(overlay.OverlayParams) {}
func (f *fakeOverlay) Clear()                             { f.log.add("clear:overlay") }
func (f *fakeOverlay) StagedCount() int                   { return 0 }
func (f *fakeOverlay) InitGPU(renderer.Renderer) error {
	f.log.add("init:overlay")
	return nil
}
func (f *fakeOverlay) MarshalInstances() ([]byte, int, []byte, int) { return nil, 0, nil, 0 }
func (f *fakeOverlay) Upload(renderer.Renderer) error {
	f.log.add("upload:overlay")
	return nil
}
func (f *fakeOverlay) Draw(renderer.Renderer) error {
	f.log.add("draw:overlay")
	return nil
}

func newTestScene(t *testing.T, log *eventLog, r renderer.Renderer) Scene {
	t.Helper()
	return NewScene("test", camera.NewCamera(), r,
		WithActive(true),
		WithOverlay(&fakeOverlay{log: log}),
		WithMarshalWorkers(2),
	)
}

func TestNewScenePanicsOnNilArguments(t *testing.T) {
	log := &eventLog{}
	r := &fakeRenderer{log: log}

	for _, tt := range []struct {
		name string
		fn   func()
	}{
		{"nil camera", func() { NewScene("s", nil, r) }},
		{"nil renderer", func() { NewScene("s", camera.NewCamera(), nil) }},
	} {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("NewScene did not panic")
				}
			}()
			tt.fn()
		})
	}
}

func TestAddBatchRejectsDuplicateNames(t *testing.T) {
	log := &eventLog{}
	sc := newTestScene(t, log, &fakeRenderer{log: log})

	if err := sc.AddBatch(newFakeBatch(log, "ships")); err != nil {
		t.Fatalf("first AddBatch failed: %v", err)
	}
	if err := sc.AddBatch(newFakeBatch(log, "ships")); err == nil {
		t.Error("duplicate AddBatch did not fail")
	}
	if sc.BatchCount() != 1 {
		t.Errorf("batch count = %d, want 1", sc.BatchCount())
	}
	if sc.Batch("ships") == nil {
		t.Error("Batch(ships) = nil, want the registered batch")
	}
}

func TestRemoveBatch(t *testing.T) {
	log := &eventLog{}
	sc := newTestScene(t, log, &fakeRenderer{log: log})

	_ = sc.AddBatch(newFakeBatch(log, "a"))
	_ = sc.AddBatch(newFakeBatch(log, "b"))

	sc.RemoveBatch("a")
	if sc.BatchCount() != 1 {
		t.Errorf("batch count = %d, want 1", sc.BatchCount())
	}
	if sc.Batch("a") != nil {
		t.Error("removed batch still retrievable")
	}
	sc.RemoveBatch("missing") // no-op
}

func TestPrepareFrameUploadsThenClears(t *testing.T) {
	log := &eventLog{}
	sc := newTestScene(t, log, &fakeRenderer{log: log})
	_ = sc.AddBatch(newFakeBatch(log, "a"))
	_ = sc.AddBatch(newFakeBatch(log, "b"))

	if err := sc.PrepareFrame(); err != nil {
		t.Fatalf("PrepareFrame failed: %v", err)
	}

	// Every sprite upload completes before the overlay upload starts, and each
	// batch is cleared after its upload.
	overlayIdx := log.index("upload:overlay")
	if overlayIdx < 0 {
		t.Fatal("overlay upload never happened")
	}
	for _, name := range []string{"a", "b"} {
		upIdx := log.index("upload:" + name)
		if upIdx < 0 {
			t.Fatalf("batch %s never uploaded", name)
		}
		if upIdx > overlayIdx {
			t.Errorf("batch %s uploaded after the overlay", name)
		}
		if clearIdx := log.index("clear:" + name); clearIdx < upIdx {
			t.Errorf("batch %s cleared before upload", name)
		}
	}
	if log.index("clear:overlay") < overlayIdx {
		t.Error("overlay cleared before upload")
	}
}

func TestPrepareFrameSurfacesBatchError(t *testing.T) {
	log := &eventLog{}
	sc := newTestScene(t, log, &fakeRenderer{log: log})

	broken := newFakeBatch(log, "broken")
	broken.uploadErr = errors.New("buffer allocation failed")
	_ = sc.AddBatch(broken)

	if err := sc.PrepareFrame(); err == nil {
		t.Error("PrepareFrame swallowed the upload error")
	}
}

func TestRenderFrameDrawOrder(t *testing.T) {
	log := &eventLog{}
	sc := newTestScene(t, log, &fakeRenderer{log: log})
	_ = sc.AddBatch(newFakeBatch(log, "background"))
	_ = sc.AddBatch(newFakeBatch(log, "foreground"))

	if err := sc.RenderFrame(); err != nil {
		t.Fatalf("RenderFrame failed: %v", err)
	}

	want := []string{
		"init:background", "init:foreground",
		"begin",
		"draw:background", "draw:foreground", "draw:overlay",
		"end", "present",
	}
	got := log.snapshot()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d = %q, want %q (full log: %v)", i, got[i], want[i], got)
		}
	}
}

func TestRenderFrameDropsFrameOnBeginError(t *testing.T) {
	log := &eventLog{}
	r := &fakeRenderer{log: log, beginErr: errors.New("surface lost")}
	sc := newTestScene(t, log, r)
	_ = sc.AddBatch(newFakeBatch(log, "a"))

	// A failed BeginFrame drops the frame without failing the render loop.
	if err := sc.RenderFrame(); err != nil {
		t.Fatalf("RenderFrame returned %v, want nil on dropped frame", err)
	}
	for _, e := range log.snapshot() {
		if e == "draw:a" || e == "draw:overlay" || e == "end" || e == "present" {
			t.Errorf("event %q happened on a dropped frame", e)
		}
	}
}

func TestSceneActiveToggle(t *testing.T) {
	log := &eventLog{}
	sc := newTestScene(t, log, &fakeRenderer{log: log})
	if !sc.Active() {
		t.Error("scene built with WithActive(true) is inactive")
	}
	sc.SetActive(false)
	if sc.Active() {
		t.Error("SetActive(false) did not deactivate")
	}
}
