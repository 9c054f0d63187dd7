package game_object

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-2d/engine/sprite"
)

type gameObject struct {
	id        uint64
	enabled   atomic.Bool
	ephemeral bool
	batch     sprite.Batch

	position [2]float32
	scale    [2]float32
	rotation float32
	layer    int

	velocity        [2]float32
	angularVelocity float32
}

// GameObject defines the interface for a scene entity backed by a sprite Batch.
// A game object owns its transform on the CPU side; each tick it integrates its
// velocity and stages one instance into its batch for the next frame.
type GameObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Enabled returns whether this object is enabled for rendering.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// Ephemeral returns whether this object is ephemeral.
	// Ephemeral objects are not persisted in a registry when added to a scene.
	//
	// Returns:
	//   - bool: true if ephemeral
	Ephemeral() bool

	// Batch returns the sprite Batch this object stages into, or nil if not set.
	//
	// Returns:
	//   - sprite.Batch: the associated batch or nil
	Batch() sprite.Batch

	// Position returns the object's current world-space position.
	//
	// Returns:
	//   - x, y: position components
	Position() (x, y float32)

	// Scale returns the object's current scale.
	//
	// Returns:
	//   - sx, sy: scale components
	Scale() (sx, sy float32)

	// Rotation returns the object's current rotation in radians.
	//
	// Returns:
	//   - float32: the rotation angle
	Rotation() float32

	// Layer returns the object's draw-order layer within its batch.
	//
	// Returns:
	//   - int: the layer (lower draws first)
	Layer() int

	// Velocity returns the object's linear velocity in world units per second.
	//
	// Returns:
	//   - vx, vy: velocity components
	Velocity() (vx, vy float32)

	// AngularVelocity returns the object's angular velocity in radians per second.
	//
	// Returns:
	//   - float32: the angular velocity
	AngularVelocity() float32

	// SetID sets the object's unique identifier.
	//
	// Parameters:
	//   - id: the ID to assign
	SetID(id uint64)

	// SetEnabled sets whether the object is enabled for rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// SetBatch assigns the sprite Batch this object stages into.
	//
	// Parameters:
	//   - b: the batch to associate
	SetBatch(b sprite.Batch)

	// SetPosition sets the object's world-space position.
	//
	// Parameters:
	//   - x, y: new position components
	SetPosition(x, y float32)

	// SetScale sets the object's scale.
	//
	// Parameters:
	//   - sx, sy: new scale factors
	SetScale(sx, sy float32)

	// SetRotation sets the object's rotation in radians.
	//
	// Parameters:
	//   - radians: the new rotation angle
	SetRotation(radians float32)

	// SetLayer sets the object's draw-order layer within its batch.
	//
	// Parameters:
	//   - layer: the layer (lower draws first)
	SetLayer(layer int)

	// SetVelocity sets the object's linear velocity in world units per second.
	//
	// Parameters:
	//   - vx, vy: new velocity components
	SetVelocity(vx, vy float32)

	// SetAngularVelocity sets the object's angular velocity in radians per second.
	//
	// Parameters:
	//   - radiansPerSecond: the new angular velocity
	SetAngularVelocity(radiansPerSecond float32)

	// Update integrates the object's velocity and angular velocity over the
	// elapsed time. Disabled objects are not updated.
	//
	// Parameters:
	//   - deltaTime: elapsed time in seconds
	Update(deltaTime float32)

	// Stage pushes one instance with the object's current transform into its
	// batch. No-op when the object is disabled or has no batch.
	Stage()
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new GameObject configured with the given options.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		scale: [2]float32{1, 1},
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) Ephemeral() bool {
	return g.ephemeral
}

func (g *gameObject) Batch() sprite.Batch {
	return g.batch
}

func (g *gameObject) Position() (x, y float32) {
	return g.position[0], g.position[1]
}

func (g *gameObject) Scale() (sx, sy float32) {
	return g.scale[0], g.scale[1]
}

func (g *gameObject) Rotation() float32 {
	return g.rotation
}

func (g *gameObject) Layer() int {
	return g.layer
}

func (g *gameObject) Velocity() (vx, vy float32) {
	return g.velocity[0], g.velocity[1]
}

func (g *gameObject) AngularVelocity() float32 {
	return g.angularVelocity
}

func (g *gameObject) SetID(id uint64) {
	g.id = id
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) SetBatch(b sprite.Batch) {
	g.batch = b
}

func (g *gameObject) SetPosition(x, y float32) {
	g.position = [2]float32{x, y}
}

func (g *gameObject) SetScale(sx, sy float32) {
	g.scale = [2]float32{sx, sy}
}

func (g *gameObject) SetRotation(radians float32) {
	g.rotation = radians
}

func (g *gameObject) SetLayer(layer int) {
	g.layer = layer
}

func (g *gameObject) SetVelocity(vx, vy float32) {
	g.velocity = [2]float32{vx, vy}
}

func (g *gameObject) SetAngularVelocity(radiansPerSecond float32) {
	g.angularVelocity = radiansPerSecond
}

func (g *gameObject) Update(deltaTime float32) {
	if !g.enabled.Load() {
		return
	}
	g.position[0] += g.velocity[0] * deltaTime
	g.position[1] += g.velocity[1] * deltaTime
	g.rotation += g.angularVelocity * deltaTime
}

func (g *gameObject) Stage() {
	if !g.enabled.Load() || g.batch == nil {
		return
	}
	g.batch.Push(sprite.SpriteParams{
		Position: g.position,
		Scale:    g.scale,
		Rotation: g.rotation,
		Layer:    g.layer,
	})
}
