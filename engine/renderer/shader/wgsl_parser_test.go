package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

const texturedSource = `
struct CameraUniform {
    view_proj: mat4x4<f32>,
};

@group(1) @binding(0)
var<uniform> camera: CameraUniform;

struct VertexInput {
    @location(0) position: vec2<f32>,
    @location(1) tex_coords: vec2<f32>,
};

struct QuadInstance {
    @location(2) model_0: vec3<f32>,
    @location(3) model_1: vec3<f32>,
    @location(4) model_2: vec3<f32>,
};

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) tex_coords: vec2<f32>,
};

@vertex
fn vs_main(vertex: VertexInput, instance: QuadInstance) -> VertexOutput {
    var out: VertexOutput;
    return out;
}

@group(0) @binding(0)
var t_diffuse: texture_2d<f32>;
@group(0) @binding(1)
var s_diffuse: sampler;

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return textureSample(t_diffuse, s_diffuse, in.tex_coords);
}
`

const flatColorSource = `
struct VertexInput {
    @location(0) position: vec2<f32>,
};

struct ShapeInstance {
    @location(2) model_0: vec3<f32>,
    @location(3) model_1: vec3<f32>,
    @location(4) model_2: vec3<f32>,
    @location(5) color: vec3<f32>,
};

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) color: vec3<f32>,
};

@vertex
fn vs_main(vertex: VertexInput, instance: ShapeInstance) -> VertexOutput {
    var out: VertexOutput;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return vec4<f32>(in.color, 1.0);
}
`

func TestParseVertexLayoutsTexturedInstanced(t *testing.T) {
	s := NewShader("textured_vs", ShaderTypeVertex, texturedSource)

	layouts := s.VertexLayouts()
	if len(layouts) != 2 {
		t.Fatalf("got %d vertex buffer slots, want 2", len(layouts))
	}

	// Slot 0: per-vertex mesh data.
	mesh := layouts[0][0]
	if mesh.ArrayStride != 16 {
		t.Errorf("mesh stride = %d, want 16", mesh.ArrayStride)
	}
	if mesh.StepMode != wgpu.VertexStepModeVertex {
		t.Errorf("mesh step mode = %v, want vertex", mesh.StepMode)
	}
	if len(mesh.Attributes) != 2 {
		t.Fatalf("mesh attribute count = %d, want 2", len(mesh.Attributes))
	}
	for i, want := range []struct {
		location uint32
		offset   uint64
		format   wgpu.VertexFormat
	}{
		{0, 0, wgpu.VertexFormatFloat32x2},
		{1, 8, wgpu.VertexFormatFloat32x2},
	} {
		attr := mesh.Attributes[i]
		if attr.ShaderLocation != want.location || attr.Offset != want.offset || attr.Format != want.format {
			t.Errorf("mesh attr %d = {loc %d, off %d, fmt %v}, want {loc %d, off %d, fmt %v}",
				i, attr.ShaderLocation, attr.Offset, attr.Format, want.location, want.offset, want.format)
		}
	}

	// Slot 1: per-instance transform, three vec3 columns.
	inst := layouts[1][0]
	if inst.ArrayStride != 36 {
		t.Errorf("instance stride = %d, want 36", inst.ArrayStride)
	}
	if inst.StepMode != wgpu.VertexStepModeInstance {
		t.Errorf("instance step mode = %v, want instance", inst.StepMode)
	}
	if len(inst.Attributes) != 3 {
		t.Fatalf("instance attribute count = %d, want 3", len(inst.Attributes))
	}
	for i, attr := range inst.Attributes {
		if attr.ShaderLocation != uint32(2+i) {
			t.Errorf("instance attr %d location = %d, want %d", i, attr.ShaderLocation, 2+i)
		}
		if attr.Offset != uint64(i*12) {
			t.Errorf("instance attr %d offset = %d, want %d", i, attr.Offset, i*12)
		}
		if attr.Format != wgpu.VertexFormatFloat32x3 {
			t.Errorf("instance attr %d format = %v, want float32x3", i, attr.Format)
		}
	}
}

func TestParseVertexLayoutsFlatColorInstanced(t *testing.T) {
	s := NewShader("flat_vs", ShaderTypeVertex, flatColorSource)

	layouts := s.VertexLayouts()
	if len(layouts) != 2 {
		t.Fatalf("got %d vertex buffer slots, want 2", len(layouts))
	}

	mesh := layouts[0][0]
	if mesh.ArrayStride != 8 {
		t.Errorf("mesh stride = %d, want 8", mesh.ArrayStride)
	}
	if mesh.StepMode != wgpu.VertexStepModeVertex {
		t.Errorf("mesh step mode = %v, want vertex", mesh.StepMode)
	}

	inst := layouts[1][0]
	if inst.ArrayStride != 48 {
		t.Errorf("instance stride = %d, want 48", inst.ArrayStride)
	}
	if inst.StepMode != wgpu.VertexStepModeInstance {
		t.Errorf("instance step mode = %v, want instance", inst.StepMode)
	}
	if len(inst.Attributes) != 4 {
		t.Fatalf("instance attribute count = %d, want 4", len(inst.Attributes))
	}
	color := inst.Attributes[3]
	if color.ShaderLocation != 5 || color.Offset != 36 || color.Format != wgpu.VertexFormatFloat32x3 {
		t.Errorf("color attr = {loc %d, off %d, fmt %v}, want {loc 5, off 36, fmt float32x3}",
			color.ShaderLocation, color.Offset, color.Format)
	}
}

func TestVertexOutputStructExcludedFromLayouts(t *testing.T) {
	s := NewShader("textured_vs", ShaderTypeVertex, texturedSource)

	// VertexOutput mixes @builtin(position) with @location fields and must not
	// claim a vertex buffer slot; CameraUniform has no @location fields at all.
	for slot, layouts := range s.VertexLayouts() {
		for _, l := range layouts {
			if l.ArrayStride != 16 && l.ArrayStride != 36 {
				t.Errorf("slot %d has unexpected stride %d", slot, l.ArrayStride)
			}
		}
	}
}

func TestParseBindGroupLayouts(t *testing.T) {
	vs := NewShader("textured_vs", ShaderTypeVertex, texturedSource)

	camGroup := vs.BindGroupLayoutDescriptor(1)
	if len(camGroup.Entries) != 1 {
		t.Fatalf("camera group entry count = %d, want 1", len(camGroup.Entries))
	}
	cam := camGroup.Entries[0]
	if cam.Binding != 0 {
		t.Errorf("camera binding = %d, want 0", cam.Binding)
	}
	if cam.Buffer.Type != wgpu.BufferBindingTypeUniform {
		t.Errorf("camera buffer type = %v, want uniform", cam.Buffer.Type)
	}
	if cam.Buffer.MinBindingSize != 64 {
		t.Errorf("camera MinBindingSize = %d, want 64 (mat4x4<f32>)", cam.Buffer.MinBindingSize)
	}
	if cam.Visibility != wgpu.ShaderStageVertex {
		t.Errorf("camera visibility = %v, want vertex", cam.Visibility)
	}

	fs := NewShader("textured_fs", ShaderTypeFragment, texturedSource)

	texGroup := fs.BindGroupLayoutDescriptor(0)
	if len(texGroup.Entries) != 2 {
		t.Fatalf("texture group entry count = %d, want 2", len(texGroup.Entries))
	}
	tex := texGroup.Entries[0]
	if tex.Binding != 0 || tex.Texture.ViewDimension != wgpu.TextureViewDimension2D {
		t.Errorf("texture entry = {binding %d, dim %v}, want {binding 0, 2D}", tex.Binding, tex.Texture.ViewDimension)
	}
	if tex.Texture.SampleType != wgpu.TextureSampleTypeFloat {
		t.Errorf("texture sample type = %v, want float", tex.Texture.SampleType)
	}
	samp := texGroup.Entries[1]
	if samp.Binding != 1 || samp.Sampler.Type != wgpu.SamplerBindingTypeFiltering {
		t.Errorf("sampler entry = {binding %d, type %v}, want {binding 1, filtering}", samp.Binding, samp.Sampler.Type)
	}
}

func TestFlatColorShaderHasNoBindGroups(t *testing.T) {
	vs := NewShader("flat_vs", ShaderTypeVertex, flatColorSource)
	if got := len(vs.BindGroupLayoutDescriptors()); got != 0 {
		t.Errorf("vertex bind group count = %d, want 0", got)
	}
	fs := NewShader("flat_fs", ShaderTypeFragment, flatColorSource)
	if got := len(fs.BindGroupLayoutDescriptors()); got != 0 {
		t.Errorf("fragment bind group count = %d, want 0", got)
	}
}

func TestParseEntryPoints(t *testing.T) {
	vs := NewShader("textured_vs", ShaderTypeVertex, texturedSource)
	if vs.EntryPoint() != "vs_main" {
		t.Errorf("vertex entry point = %q, want vs_main", vs.EntryPoint())
	}
	fs := NewShader("textured_fs", ShaderTypeFragment, texturedSource)
	if fs.EntryPoint() != "fs_main" {
		t.Errorf("fragment entry point = %q, want fs_main", fs.EntryPoint())
	}
}

func TestBindGroupVarNames(t *testing.T) {
	fs := NewShader("textured_fs", ShaderTypeFragment, texturedSource)

	if name := fs.BindGroupVarName(0, 0); name != "t_diffuse" {
		t.Errorf("group 0 binding 0 var = %q, want t_diffuse", name)
	}
	if name := fs.BindGroupVarName(0, 1); name != "s_diffuse" {
		t.Errorf("group 0 binding 1 var = %q, want s_diffuse", name)
	}
	if binding, ok := fs.BindGroupFromVarName(0, "s_diffuse"); !ok || binding != 1 {
		t.Errorf("BindGroupFromVarName(s_diffuse) = (%d, %v), want (1, true)", binding, ok)
	}
	if _, ok := fs.BindGroupFromVarName(0, "missing"); ok {
		t.Error("BindGroupFromVarName(missing) reported found")
	}
}
