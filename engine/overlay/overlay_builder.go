package overlay

// OverlayBuilderOption is a functional option applied to an overlay during construction via NewOverlay.
type OverlayBuilderOption func(*overlay)

// WithInstanceCapacity sets the initial per-shape instance buffer capacity in instances.
// The buffers still grow automatically when a frame stages more.
//
// Parameters:
//   - capacity: the initial capacity in instances
//
// Returns:
//   - OverlayBuilderOption: a function that applies the capacity option to an overlay
func WithInstanceCapacity(capacity int) OverlayBuilderOption {
	return func(o *overlay) {
		if capacity > 0 {
			o.instanceCapacity = capacity
		}
	}
}
