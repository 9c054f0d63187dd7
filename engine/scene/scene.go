package scene

import (
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-2d/engine/camera"
	"github.com/Carmen-Shannon/oxy-2d/engine/overlay"
	"github.com/Carmen-Shannon/oxy-2d/engine/renderer"
	"github.com/Carmen-Shannon/oxy-2d/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-2d/engine/sprite"
)

// Scene orchestrates a frame: it owns the camera, a set of named sprite batches,
// and the debug overlay, and drives the fixed per-frame sequence — camera uniform
// write, instance uploads, then the render pass with sprites drawn first and the
// overlay composited on top. Scenes can be hot-swapped via the Active flag.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering.
	SetActive(active bool)

	// Camera returns the scene's camera.
	Camera() camera.Camera2D

	// SetCamera replaces the scene's camera.
	//
	// Parameters:
	//   - cam: the new camera
	SetCamera(cam camera.Camera2D)

	// Renderer returns the scene's renderer.
	Renderer() renderer.Renderer

	// SetRenderer replaces the scene's renderer.
	//
	// Parameters:
	//   - r: the new renderer
	SetRenderer(r renderer.Renderer)

	// Overlay returns the scene's debug overlay.
	Overlay() overlay.Overlay

	// InitGPU initializes the overlay's GPU resources. Must be called after the
	// renderer's pipelines are registered and before the first frame.
	//
	// Returns:
	//   - error: an error if overlay resources could not be created
	InitGPU() error

	// AddBatch registers a sprite batch with the scene and initializes its GPU
	// resources (mesh, instance buffer, texture bind group, and the shared camera
	// bind group on first add). Must be called after the renderer's pipelines are
	// registered.
	//
	// Parameters:
	//   - b: the batch to add
	//
	// Returns:
	//   - error: an error if a batch with the same name exists or GPU init failed
	AddBatch(b sprite.Batch) error

	// Batch retrieves a registered sprite batch by name.
	// Returns nil if not found.
	//
	// Parameters:
	//   - name: the batch name
	//
	// Returns:
	//   - sprite.Batch: the batch or nil
	Batch(name string) sprite.Batch

	// RemoveBatch unregisters a sprite batch by name and releases its GPU resources.
	//
	// Parameters:
	//   - name: the batch name
	RemoveBatch(name string)

	// BatchCount returns the number of registered sprite batches.
	//
	// Returns:
	//   - int: the batch count
	BatchCount() int

	// PrepareFrame runs the pre-pass phase of the frame in its fixed order:
	// (1) write the camera uniform if the view-projection changed since the last
	// write; (2) marshal and upload sprite instances (parallelized across batches
	// via the worker pool), then overlay instances. Staged lists are cleared after
	// upload so the next frame starts empty. Kinds with zero staged instances
	// record a zero count and skip their draw.
	//
	// Returns:
	//   - error: an error if an upload failed
	PrepareFrame() error

	// RenderFrame runs the render pass: BeginFrame, sprite draws in registration
	// order, overlay draws on top, EndFrame, Present. A BeginFrame error (surface
	// lost or mid-resize) drops the frame — it is logged and nil is returned so
	// the loop continues at the next frame.
	//
	// Returns:
	//   - error: an error if a draw call failed
	RenderFrame() error
}

type scene struct {
	mu *sync.RWMutex

	name   string
	active bool

	cam camera.Camera2D
	r   renderer.Renderer

	batches    map[string]sprite.Batch
	batchOrder []string
	ov         overlay.Overlay

	// lastViewProj tracks the camera uniform last written to the GPU so unchanged
	// frames skip the buffer write.
	lastViewProj   [16]float32
	uniformWritten bool

	// marshalPool manages a bounded set of reusable goroutines for the parallel
	// CPU marshal phase of PrepareFrame. Workers persist across frames, avoiding
	// per-frame goroutine spawn/teardown overhead.
	marshalPool    worker.DynamicWorkerPool
	marshalWorkers int
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene creates a new Scene with the given camera and renderer. Both are
// required and NewScene panics if either is nil. The scene starts inactive with
// an empty batch set and a fresh overlay.
//
// Parameters:
//   - name: the name of the scene
//   - cam: the camera to attach (must not be nil)
//   - r: the renderer to attach (must not be nil)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, cam camera.Camera2D, r renderer.Renderer, options ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera2D")
	}
	if r == nil {
		panic("scene: NewScene requires a non-nil Renderer")
	}

	s := &scene{
		mu:             &sync.RWMutex{},
		name:           name,
		active:         false,
		cam:            cam,
		r:              r,
		batches:        make(map[string]sprite.Batch),
		ov:             overlay.NewOverlay(),
		marshalWorkers: max(runtime.NumCPU()-1, 1),
	}

	for _, option := range options {
		option(s)
	}

	// Initialize the marshal pool after options so WithMarshalWorkers can override the default.
	// Queue size of 64 accommodates typical batch counts with headroom.
	s.marshalPool = worker.NewDynamicWorkerPool(s.marshalWorkers, 64, 1*time.Second)

	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Camera() camera.Camera2D {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) SetCamera(cam camera.Camera2D) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
	s.uniformWritten = false
}

func (s *scene) Renderer() renderer.Renderer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.r
}

func (s *scene) SetRenderer(r renderer.Renderer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.r = r
}

func (s *scene) Overlay() overlay.Overlay {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ov
}

func (s *scene) InitGPU() error {
	s.mu.RLock()
	ov, r := s.ov, s.r
	s.mu.RUnlock()
	return ov.InitGPU(r)
}

func (s *scene) AddBatch(b sprite.Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := b.Name()
	if _, exists := s.batches[name]; exists {
		return fmt.Errorf("scene %s already has a batch named %s", s.name, name)
	}
	if err := b.InitGPU(s.r, s.cam); err != nil {
		return err
	}
	s.batches[name] = b
	s.batchOrder = append(s.batchOrder, name)
	return nil
}

func (s *scene) Batch(name string) sprite.Batch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.batches[name]
}

func (s *scene) RemoveBatch(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, exists := s.batches[name]
	if !exists {
		return
	}
	delete(s.batches, name)
	for i, n := range s.batchOrder {
		if n == name {
			s.batchOrder = append(s.batchOrder[:i], s.batchOrder[i+1:]...)
			break
		}
	}
	b.MeshProvider().Release()
	if m := b.Material(); m != nil && m.BindGroupProvider() != nil {
		m.BindGroupProvider().Release()
	}
}

func (s *scene) BatchCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.batches)
}

func (s *scene) PrepareFrame() error {
	s.mu.Lock()
	cam, r, ov := s.cam, s.r, s.ov
	batches := make([]sprite.Batch, 0, len(s.batchOrder))
	for _, name := range s.batchOrder {
		batches = append(batches, s.batches[name])
	}

	// Camera uniform write, at most once per frame and only when the matrix changed.
	vp := cam.ViewProjectionMatrix()
	writeUniform := !s.uniformWritten || vp != s.lastViewProj
	if writeUniform {
		s.lastViewProj = vp
		s.uniformWritten = true
	}
	s.mu.Unlock()

	if writeUniform && cam.BindGroupProvider().BindGroup() != nil {
		r.WriteBuffers([]bind_group_provider.BufferWrite{
			{Provider: cam.BindGroupProvider(), Binding: 0, Offset: 0, Data: cam.GPUUniform().Marshal()},
		})
	}

	// Sprite uploads: marshal work fans out across the pool, one task per batch.
	// The WaitGroup provides per-frame barrier sync — all sprite instance data
	// is on the queue before the overlay uploads and before BeginFrame.
	var wg sync.WaitGroup
	errs := make([]error, len(batches))
	for i, b := range batches {
		wg.Add(1)
		bCap := b
		idx := i
		s.marshalPool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				errs[idx] = bCap.Upload(r)
				bCap.Clear()
				return nil, nil
			},
		})
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	// Overlay uploads follow sprite uploads.
	if err := ov.Upload(r); err != nil {
		return err
	}
	ov.Clear()

	return nil
}

func (s *scene) RenderFrame() error {
	s.mu.RLock()
	r, ov := s.r, s.ov
	batches := make([]sprite.Batch, 0, len(s.batchOrder))
	for _, name := range s.batchOrder {
		batches = append(batches, s.batches[name])
	}
	s.mu.RUnlock()

	// A failed acquire means the surface is lost or mid-resize: drop this frame
	// and let the loop continue at the new surface configuration.
	if err := r.BeginFrame(); err != nil {
		log.Printf("scene %s: dropping frame: %v", s.Name(), err)
		return nil
	}

	var drawErr error
	for _, b := range batches {
		if err := b.Draw(r); err != nil && drawErr == nil {
			drawErr = err
		}
	}
	if err := ov.Draw(r); err != nil && drawErr == nil {
		drawErr = err
	}

	r.EndFrame()
	r.Present()

	return drawErr
}
