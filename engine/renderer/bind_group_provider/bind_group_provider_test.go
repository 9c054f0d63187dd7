package bind_group_provider

import "testing"

func TestNewBindGroupProviderDefaults(t *testing.T) {
	p := NewBindGroupProvider("test_bgp")
	if p.Label() != "test_bgp" {
		t.Errorf("label = %q, want %q", p.Label(), "test_bgp")
	}
	if p.BindGroup() != nil {
		t.Error("new provider has a bind group")
	}
	if p.InstanceCapacity() != 0 {
		t.Errorf("instance capacity = %d, want 0", p.InstanceCapacity())
	}
	if p.InstanceCount() != 0 {
		t.Errorf("instance count = %d, want 0", p.InstanceCount())
	}
}

func TestInstanceCountTracksLatestUpload(t *testing.T) {
	p := NewBindGroupProvider("instances")

	// The recorded count is what draw calls consume, so it must follow every
	// upload exactly, including shrinking ones.
	for _, count := range []int{5, 2, 0, 7} {
		p.SetInstanceCount(count)
		if got := p.InstanceCount(); got != count {
			t.Errorf("instance count = %d, want %d", got, count)
		}
	}
}

func TestSetInstanceBufferRecordsCapacity(t *testing.T) {
	p := NewBindGroupProvider("capacity")
	p.SetInstanceBuffer(nil, 2304)
	if got := p.InstanceCapacity(); got != 2304 {
		t.Errorf("instance capacity = %d, want 2304", got)
	}
}

func TestIndexCountBookkeeping(t *testing.T) {
	p := NewBindGroupProvider("mesh")
	p.SetIndexCount(6)
	if got := p.IndexCount(); got != 6 {
		t.Errorf("index count = %d, want 6", got)
	}
}
