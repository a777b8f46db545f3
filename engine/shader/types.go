package shader

import "fmt"

// Type describes how one bound value appears to WGSL source: for each resource
// slot it carries the var<> qualifier (e.g. "<uniform>", "<storage, read>") and
// the WGSL type name interpolated into the generated declaration. The two
// slices are parallel and must have equal length; slot i of a binding's
// resource list is declared with VarTypes[i] and WGSLTypes[i].
//
// A Type is pure metadata: it is never executed, only compared and substituted
// into shader source text by Library.Parse.
type Type struct {
	// VarTypes holds the var<> address-space qualifier per slot, including the
	// angle brackets, or "" for handle types (textures, samplers) that are
	// declared without a qualifier.
	VarTypes []string

	// WGSLTypes holds the WGSL type name per slot (e.g. "Camera",
	// "array<Instance>", "texture_2d<f32>").
	WGSLTypes []string
}

// Len returns the number of resource slots this type declares.
//
// Returns:
//   - int: the slot count
func (t Type) Len() int {
	return len(t.VarTypes)
}

// UniformType builds a single-slot Type for a uniform buffer of the given WGSL
// struct name.
//
// Parameters:
//   - wgslName: the WGSL struct name (e.g. "Camera")
//
// Returns:
//   - Type: a one-slot var<uniform> type
func UniformType(wgslName string) Type {
	return Type{
		VarTypes:  []string{"<uniform>"},
		WGSLTypes: []string{wgslName},
	}
}

// BufferType builds a single-slot Type for a runtime-sized storage array of the
// given element type.
//
// Parameters:
//   - writable: whether the buffer is declared read_write instead of read
//   - innerType: the WGSL element type of the array
//
// Returns:
//   - Type: a one-slot storage-buffer type declaring array<innerType>
func BufferType(writable bool, innerType string) Type {
	varType := "<storage, read>"
	if writable {
		varType = "<storage, read_write>"
	}
	return Type{
		VarTypes:  []string{varType},
		WGSLTypes: []string{fmt.Sprintf("array<%s>", innerType)},
	}
}

// MultiBufferType builds a Type with one storage-array slot per element of the
// input slices. The writable and innerTypes slices are parallel; the call
// panics if their lengths differ, since a mismatched Type would desynchronize
// resource slots from layout entries.
//
// Parameters:
//   - writable: per-slot read_write flag
//   - innerTypes: per-slot WGSL element type of the array
//
// Returns:
//   - Type: a multi-slot storage-buffer type
func MultiBufferType(writable []bool, innerTypes []string) Type {
	if len(writable) != len(innerTypes) {
		panic(fmt.Sprintf("shader: MultiBufferType slot mismatch: %d writable flags, %d inner types", len(writable), len(innerTypes)))
	}
	t := Type{
		VarTypes:  make([]string, len(writable)),
		WGSLTypes: make([]string, len(innerTypes)),
	}
	for i, w := range writable {
		if w {
			t.VarTypes[i] = "<storage, read_write>"
		} else {
			t.VarTypes[i] = "<storage, read>"
		}
		t.WGSLTypes[i] = fmt.Sprintf("array<%s>", innerTypes[i])
	}
	return t
}

// TextureType builds the two-slot Type for a sampled texture binding: a
// texture view followed by its sampler, in that fixed order. The slot order
// must match the resource order produced by the texture's binding
// implementation.
//
// Returns:
//   - Type: a two-slot texture+sampler type
func TextureType() Type {
	return Type{
		VarTypes:  []string{"", ""},
		WGSLTypes: []string{"texture_2d<f32>", "sampler"},
	}
}

// AtomicCounterType builds a single-slot Type for a read_write storage
// atomic<u32> counter, as used by compute passes that append results.
//
// Returns:
//   - Type: a one-slot atomic counter type
func AtomicCounterType() Type {
	return Type{
		VarTypes:  []string{"<storage, read_write>"},
		WGSLTypes: []string{"atomic<u32>"},
	}
}
