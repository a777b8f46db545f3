package shader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNoPlaceholders(t *testing.T) {
	lib := NewLibrary()
	source := "fn helper() -> f32 { return 1.0; }"

	parsed := lib.Parse(source, nil)

	assert.Contains(t, parsed, source, "marker-free source should pass through unchanged")
	assert.Contains(t, parsed, "struct Camera", "global types should be prepended")
	assert.Contains(t, parsed, "struct AABB")
}

func TestParseUniformPlaceholder(t *testing.T) {
	lib := NewLibrary()

	parsed := lib.Parse("my_cam$0;", []Type{UniformType("Camera")})

	assert.Contains(t, parsed, "@group(0) @binding(0) var<uniform> my_cam Camera;")
	assert.NotContains(t, parsed, "$")
}

func TestParseMultiSlotPlaceholders(t *testing.T) {
	lib := NewLibrary()
	source := "instances$0;\nculled$0,1;\ncount$1;"
	types := []Type{
		MultiBufferType([]bool{false, true}, []string{"Instance", "Instance"}),
		AtomicCounterType(),
	}

	parsed := lib.Parse(source, types)

	assert.Contains(t, parsed, "@group(0) @binding(0) var<storage, read> instances array<Instance>;")
	assert.Contains(t, parsed, "@group(0) @binding(1) var<storage, read_write> culled array<Instance>;")
	assert.Contains(t, parsed, "@group(1) @binding(0) var<storage, read_write> count atomic<u32>;")
}

func TestParseLeavesOutOfRangePlaceholders(t *testing.T) {
	lib := NewLibrary()
	types := []Type{UniformType("Camera")}

	// Group index beyond the supplied types.
	parsed := lib.Parse("cam$0;\nbad$5;", types)
	assert.Contains(t, parsed, "@group(0) @binding(0) var<uniform> cam Camera;")
	assert.Contains(t, parsed, "bad$5;", "unresolvable group should be left untouched")

	// Binding index beyond the type's slot count.
	parsed = lib.Parse("bad$0,3;", types)
	assert.Contains(t, parsed, "bad$0,3;")

	// Malformed indices.
	parsed = lib.Parse("bad$x;\nworse$0, 1;", types)
	assert.Contains(t, parsed, "bad$x;")
	assert.Contains(t, parsed, "worse$0, 1;")
}

func TestParseTerminatesOnManyUnresolvableMarkers(t *testing.T) {
	lib := NewLibrary()
	source := strings.Repeat("x$99;\n", 2*maxSubstitutions)

	parsed := lib.Parse(source, []Type{UniformType("Camera")})

	assert.Contains(t, parsed, "x$99;", "markers past the scan cap remain in the output")
}

func TestParseIncludesCustomTypes(t *testing.T) {
	lib := NewLibrary(WithCustomTypes("struct Particle { velocity: vec3<f32>, }\n"))

	parsed := lib.Parse("particles$0;", []Type{BufferType(false, "Particle")})

	assert.Contains(t, parsed, "struct Particle")
	assert.Contains(t, parsed, "@group(0) @binding(0) var<storage, read> particles array<Particle>;")
}

func TestRegisterCustomTypesAppends(t *testing.T) {
	lib := NewLibrary()
	lib.RegisterCustomTypes("struct Foo { x: f32, }")
	lib.RegisterCustomTypes("struct Bar { y: f32, }")

	custom := lib.CustomTypes()
	assert.Contains(t, custom, "struct Foo")
	assert.Contains(t, custom, "struct Bar")
	assert.Less(t, strings.Index(custom, "Foo"), strings.Index(custom, "Bar"))
}

func TestShouldValidate(t *testing.T) {
	assert.False(t, NewLibrary().ShouldValidate())
	assert.True(t, NewLibrary(WithValidation()).ShouldValidate())
}

func TestValidateGeneratedSource(t *testing.T) {
	lib := NewLibrary()

	parsed := lib.Parse("my_cam: $0;", []Type{UniformType("Camera")})
	require.NoError(t, lib.Validate(parsed))
}

func TestValidateRejectsUnresolvedPlaceholder(t *testing.T) {
	lib := NewLibrary()

	parsed := lib.Parse("bad$9;", []Type{UniformType("Camera")})
	assert.Error(t, lib.Validate(parsed))
}
