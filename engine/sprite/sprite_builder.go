package sprite

import (
	"strconv"

	"github.com/Carmen-Shannon/oxy-2d/common"
	"github.com/Carmen-Shannon/oxy-2d/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-2d/engine/renderer/material"
)

// BatchBuilderOption is a functional option applied to a batch during construction via NewBatch.
type BatchBuilderOption func(*batch)

// WithName sets the batch identifier.
//
// Parameters:
//   - name: the batch name
//
// Returns:
//   - BatchBuilderOption: a function that applies the name option to a batch
func WithName(name string) BatchBuilderOption {
	return func(b *batch) {
		b.name = name
	}
}

// WithTexture creates a material for the batch from a texture source.
// The material's bind group provider is created alongside it.
//
// Parameters:
//   - texture: the texture source (file path or embedded bytes)
//
// Returns:
//   - BatchBuilderOption: a function that applies the texture option to a batch
func WithTexture(texture *common.TextureSource) BatchBuilderOption {
	return func(b *batch) {
		b.material = material.NewMaterial(
			material.WithName(texture.Name),
			material.WithTexture(texture),
			material.WithBindGroupProvider(bind_group_provider.NewBindGroupProvider(
				"sprite_material_bgp_"+strconv.FormatUint(batchCount.Load(), 10),
			)),
		)
	}
}

// WithMaterial sets a pre-built material on the batch. The material must carry
// a texture and a bind group provider.
//
// Parameters:
//   - m: the material to use
//
// Returns:
//   - BatchBuilderOption: a function that applies the material option to a batch
func WithMaterial(m material.Material) BatchBuilderOption {
	return func(b *batch) {
		b.material = m
	}
}

// WithInstanceCapacity sets the initial instance buffer capacity in instances.
// The buffer still grows automatically when a frame stages more.
//
// Parameters:
//   - capacity: the initial capacity in instances
//
// Returns:
//   - BatchBuilderOption: a function that applies the capacity option to a batch
func WithInstanceCapacity(capacity int) BatchBuilderOption {
	return func(b *batch) {
		if capacity > 0 {
			b.instanceCapacity = capacity
		}
	}
}
