package culling

import (
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelmonaskarion/bespoke-engine/common"
	"github.com/pixelmonaskarion/bespoke-engine/engine/camera"
	"github.com/pixelmonaskarion/bespoke-engine/engine/shader"
)

// camera at (0, 0, 5) facing down -Z with a 60 degree vertical field of view.
func testCamera() *camera.Camera {
	return &camera.Camera{
		Eye:    math32.Vec3(0, 0, 5),
		Aspect: 1,
		FovY:   60,
		ZNear:  0.1,
		ZFar:   100,
		Ground: -math32.Pi / 2,
		Sky:    0,
	}
}

func translation(x, y, z float32) *math32.Matrix4 {
	m := math32.Identity4()
	m[12], m[13], m[14] = x, y, z
	return m
}

func TestCalculateBoundingBox(t *testing.T) {
	box := CalculateBoundingBox([]math32.Vector3{
		math32.Vec3(1, 1, 0),
		math32.Vec3(-1, 1, 0),
		math32.Vec3(1, -1, 0),
		math32.Vec3(-1, -1, 0),
	})
	assert.Equal(t, AABB{Dimensions: [3]float32{1, 1, 0}}, box)

	// Dimensions come from the largest absolute coordinate, never negative.
	box = CalculateBoundingBox([]math32.Vector3{math32.Vec3(-3, -0.5, -2)})
	assert.Equal(t, AABB{Dimensions: [3]float32{3, 0.5, 2}}, box)

	assert.Equal(t, AABB{}, CalculateBoundingBox(nil))
}

func TestAABBMarshal(t *testing.T) {
	box := AABB{Dimensions: [3]float32{1, 2, 3}}
	buf := box.Marshal()
	require.Len(t, buf, 12)

	for i, want := range []float32{1, 2, 3} {
		got := math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
		assert.Equal(t, want, got)
	}
}

func TestAABBCorners(t *testing.T) {
	box := AABB{Dimensions: [3]float32{1, 2, 3}}
	corners := box.Corners()

	seen := map[math32.Vector3]bool{}
	for _, c := range corners {
		assert.Equal(t, float32(1), math32.Abs(c.X))
		assert.Equal(t, float32(2), math32.Abs(c.Y))
		assert.Equal(t, float32(3), math32.Abs(c.Z))
		seen[c] = true
	}
	assert.Len(t, seen, 8, "all sign combinations should be distinct")
}

func TestDispatchGroups(t *testing.T) {
	assert.Equal(t, [3]uint32{1, 1, 1}, DispatchGroups(1))
	assert.Equal(t, [3]uint32{100, 1, 1}, DispatchGroups(100))
	assert.Equal(t, [3]uint32{65535, 1, 1}, DispatchGroups(65535))
	assert.Equal(t, [3]uint32{65535, 2, 1}, DispatchGroups(65536))
	assert.Equal(t, [3]uint32{65535, 2, 1}, DispatchGroups(131070))
	assert.Equal(t, [3]uint32{65535, 3, 1}, DispatchGroups(131071))
}

func TestCulled(t *testing.T) {
	cam := testCamera()
	box := AABB{Dimensions: [3]float32{0.5, 0.5, 0.5}}

	// Straight ahead of the camera.
	assert.False(t, Culled(box, translation(0, 0, 0), cam))

	// Behind the camera.
	assert.True(t, Culled(box, translation(0, 0, 10), cam))

	// Beyond the far plane.
	assert.True(t, Culled(box, translation(0, 0, -300), cam))

	// Far off to the side.
	assert.True(t, Culled(box, translation(500, 0, 0), cam))
}

func TestBatchCullerMatchesFrustumTest(t *testing.T) {
	cam := testCamera()
	vp := cam.BuildViewProjectionMatrix()

	box := AABB{Dimensions: [3]float32{1, 1, 1}}
	items := []BatchItem{
		{Box: box, Transform: *translation(0, 0, 0)},
		{Box: box, Transform: *translation(0, 0, 50)},
		{Box: box, Transform: *translation(0, 0, -200)},
		{Box: box, Transform: *translation(500, 0, 0)},
		{Box: box, Transform: *translation(0, 0, 4.95)},
	}

	culler := NewBatchCuller(WithChunkSize(2))
	visible := culler.CullView(&vp, items)
	require.Len(t, visible, len(items))

	frustum := common.ExtractFrustum(&vp)
	for i := range items {
		want := itemVisible(&frustum, &items[i])
		assert.Equal(t, want, visible[i], "item %d", i)
	}

	assert.True(t, visible[0])
	assert.False(t, visible[1])
	assert.False(t, visible[2])
	assert.False(t, visible[3])
	assert.True(t, visible[4])
}

func TestBatchCullerEmptyInput(t *testing.T) {
	cam := testCamera()
	vp := cam.BuildViewProjectionMatrix()

	culler := NewBatchCuller()
	assert.Empty(t, culler.CullView(&vp, nil))
}

func TestBatchCullerManyItems(t *testing.T) {
	cam := testCamera()
	vp := cam.BuildViewProjectionMatrix()
	box := AABB{Dimensions: [3]float32{0.5, 0.5, 0.5}}

	// Alternate between a spot ahead of the camera and one behind it, across
	// enough items to span several chunks.
	items := make([]BatchItem, 1000)
	for i := range items {
		z := float32(0)
		if i%2 == 1 {
			z = 50
		}
		items[i] = BatchItem{Box: box, Transform: *translation(0, 0, z)}
	}

	visible := NewBatchCuller(WithChunkSize(64)).CullView(&vp, items)
	require.Len(t, visible, len(items))
	for i, v := range visible {
		assert.Equal(t, i%2 == 0, v, "item %d", i)
	}
}

func TestCullingShaderSourceParses(t *testing.T) {
	lib := shader.NewLibrary()

	instanceStruct := "struct Instance {\n\ttransform: mat4x4<f32>,\n}\n"
	source := instanceStruct + "\n" +
		strings.ReplaceAll(cullingShaderSource, instanceMatrixToken, "transform")

	parsed := lib.Parse(source, []shader.Type{
		shader.MultiBufferType([]bool{false, true}, []string{"Instance", "Instance"}),
		shader.AtomicCounterType(),
		shader.UniformType("Camera"),
		shader.UniformType("u32"),
		shader.UniformType("AABB"),
	})

	assert.NotContains(t, parsed, "$", "all placeholders should be resolved")
	assert.NotContains(t, parsed, instanceMatrixToken)
	assert.Contains(t, parsed, "@group(2) @binding(0) var<uniform> camera:")
	assert.Contains(t, parsed, "@group(4) @binding(0) var<uniform> bounding_box:")

	require.NoError(t, lib.Validate(parsed))
}
