package game_object

import (
	"github.com/Carmen-Shannon/oxy-2d/engine/sprite"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithID sets the ID of the GameObject.
//
// Parameters:
//   - id: unique identifier for the GameObject
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the ID
func WithID(id uint64) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.id = id
	}
}

// WithEnabled sets whether the GameObject is enabled for rendering.
//
// Parameters:
//   - enabled: true to render the object, false to skip it
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.enabled.Store(enabled)
	}
}

// WithEphemeral marks the GameObject as ephemeral. Ephemeral objects are not
// persisted in a registry when added to a scene.
//
// Parameters:
//   - ephemeral: true to mark as ephemeral
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Ephemeral flag
func WithEphemeral(ephemeral bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.ephemeral = ephemeral
	}
}

// WithBatch sets the sprite Batch this GameObject stages into.
//
// Parameters:
//   - b: the batch to associate
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Batch
func WithBatch(b sprite.Batch) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.batch = b
	}
}

// WithPosition sets the initial position of the GameObject.
//
// Parameters:
//   - x: the x position
//   - y: the y position
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the initial position
func WithPosition(x, y float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.position = [2]float32{x, y}
	}
}

// WithScale sets the initial scale of the GameObject.
//
// Parameters:
//   - sx: the x scale factor
//   - sy: the y scale factor
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the initial scale
func WithScale(sx, sy float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.scale = [2]float32{sx, sy}
	}
}

// WithRotation sets the initial rotation of the GameObject in radians.
//
// Parameters:
//   - radians: the rotation angle
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the initial rotation
func WithRotation(radians float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.rotation = radians
	}
}

// WithLayer sets the draw-order layer of the GameObject within its batch.
//
// Parameters:
//   - layer: the layer (lower draws first)
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the layer
func WithLayer(layer int) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.layer = layer
	}
}

// WithVelocity sets the initial linear velocity of the GameObject in world
// units per second.
//
// Parameters:
//   - vx: the x velocity
//   - vy: the y velocity
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the velocity
func WithVelocity(vx, vy float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.velocity = [2]float32{vx, vy}
	}
}

// WithAngularVelocity sets the initial angular velocity of the GameObject in
// radians per second.
//
// Parameters:
//   - radiansPerSecond: the angular velocity
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the angular velocity
func WithAngularVelocity(radiansPerSecond float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.angularVelocity = radiansPerSecond
	}
}
