package game_object

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-2d/engine/sprite"
)

func TestNewGameObjectDefaults(t *testing.T) {
	obj := NewGameObject()

	if !obj.Enabled() {
		t.Error("new object is disabled")
	}
	if obj.Ephemeral() {
		t.Error("new object is ephemeral")
	}
	if sx, sy := obj.Scale(); sx != 1 || sy != 1 {
		t.Errorf("default scale = (%v, %v), want (1, 1)", sx, sy)
	}
	if obj.Batch() != nil {
		t.Error("new object has a batch")
	}
}

func TestBuilderOptions(t *testing.T) {
	b := sprite.NewBatch()
	obj := NewGameObject(
		WithID(42),
		WithEnabled(false),
		WithEphemeral(true),
		WithBatch(b),
		WithPosition(10, 20),
		WithScale(2, 3),
		WithRotation(1.5),
		WithLayer(7),
		WithVelocity(-5, 5),
		WithAngularVelocity(0.5),
	)

	if obj.ID() != 42 {
		t.Errorf("ID = %d, want 42", obj.ID())
	}
	if obj.Enabled() {
		t.Error("WithEnabled(false) did not disable")
	}
	if !obj.Ephemeral() {
		t.Error("WithEphemeral(true) not applied")
	}
	if obj.Batch() != b {
		t.Error("WithBatch not applied")
	}
	if x, y := obj.Position(); x != 10 || y != 20 {
		t.Errorf("position = (%v, %v), want (10, 20)", x, y)
	}
	if sx, sy := obj.Scale(); sx != 2 || sy != 3 {
		t.Errorf("scale = (%v, %v), want (2, 3)", sx, sy)
	}
	if obj.Rotation() != 1.5 {
		t.Errorf("rotation = %v, want 1.5", obj.Rotation())
	}
	if obj.Layer() != 7 {
		t.Errorf("layer = %d, want 7", obj.Layer())
	}
	if vx, vy := obj.Velocity(); vx != -5 || vy != 5 {
		t.Errorf("velocity = (%v, %v), want (-5, 5)", vx, vy)
	}
	if obj.AngularVelocity() != 0.5 {
		t.Errorf("angular velocity = %v, want 0.5", obj.AngularVelocity())
	}
}

func TestUpdateIntegratesVelocity(t *testing.T) {
	obj := NewGameObject(
		WithPosition(100, 200),
		WithVelocity(10, -20),
		WithAngularVelocity(2),
	)

	obj.Update(0.5)

	if x, y := obj.Position(); x != 105 || y != 190 {
		t.Errorf("position = (%v, %v), want (105, 190)", x, y)
	}
	if obj.Rotation() != 1 {
		t.Errorf("rotation = %v, want 1", obj.Rotation())
	}
}

func TestUpdateSkipsDisabledObject(t *testing.T) {
	obj := NewGameObject(
		WithEnabled(false),
		WithPosition(1, 2),
		WithVelocity(100, 100),
		WithAngularVelocity(100),
	)

	obj.Update(1)

	if x, y := obj.Position(); x != 1 || y != 2 {
		t.Errorf("disabled object moved to (%v, %v)", x, y)
	}
	if obj.Rotation() != 0 {
		t.Errorf("disabled object rotated to %v", obj.Rotation())
	}
}

func TestStagePushesTransform(t *testing.T) {
	b := sprite.NewBatch()
	obj := NewGameObject(
		WithBatch(b),
		WithPosition(5, 6),
		WithScale(2, 2),
		WithRotation(0.25),
		WithLayer(3),
	)

	obj.Stage()
	obj.Stage()

	if b.StagedCount() != 2 {
		t.Errorf("staged count = %d, want 2", b.StagedCount())
	}
}

func TestStageSkipsDisabledOrBatchless(t *testing.T) {
	b := sprite.NewBatch()

	disabled := NewGameObject(WithBatch(b), WithEnabled(false))
	disabled.Stage()
	if b.StagedCount() != 0 {
		t.Errorf("disabled object staged %d instances", b.StagedCount())
	}

	// No batch attached: Stage must not panic.
	NewGameObject().Stage()
}

func TestSettersAfterConstruction(t *testing.T) {
	obj := NewGameObject()

	obj.SetPosition(1, 2)
	obj.SetVelocity(3, 4)
	obj.SetEnabled(false)
	obj.SetEnabled(true)
	obj.Update(1)

	if x, y := obj.Position(); x != 4 || y != 6 {
		t.Errorf("position = (%v, %v), want (4, 6)", x, y)
	}
}
