package culling

import (
	"runtime"
	"sync"
	"time"

	"cogentcore.org/core/math32"
	"github.com/Carmen-Shannon/automation/tools/worker"

	"github.com/pixelmonaskarion/bespoke-engine/common"
)

// BatchItem is one culling candidate: a bounding box placed in the world by
// an instance transform.
type BatchItem struct {
	// Box is the candidate's origin-centered bounding box.
	Box AABB

	// Transform is the candidate's model-to-world transform.
	Transform math32.Matrix4
}

// batchCuller is the unexported implementation of BatchCuller.
type batchCuller struct {
	// pool manages a bounded set of reusable goroutines for the parallel
	// chunk tests.
	pool worker.DynamicWorkerPool

	// chunkSize is the number of items tested per pool task.
	chunkSize int
}

// BatchCuller tests many culling candidates against one camera in parallel.
// It extracts the camera's frustum planes once per call and fans the
// plane-vs-box tests out over a worker pool, which pays off from a few
// thousand candidates up.
type BatchCuller interface {
	// CullView tests every item against the frustum of the given
	// view-projection matrix. The test is the conservative most-positive
	// corner test: a false result means definitely outside, a true result
	// means possibly visible.
	//
	// Parameters:
	//   - viewProj: the camera's combined view-projection matrix
	//   - items: the candidates to test
	//
	// Returns:
	//   - []bool: visible[i] is false when items[i] is fully outside the
	//     frustum, aligned with the input slice
	CullView(viewProj *math32.Matrix4, items []BatchItem) []bool
}

// Compile-time check that batchCuller implements BatchCuller
var _ BatchCuller = &batchCuller{}

// BatchCullerOption configures a BatchCuller at construction.
type BatchCullerOption func(*batchCuller)

// WithChunkSize sets how many items each pool task tests. Smaller chunks
// spread uneven work better; larger chunks reduce scheduling overhead.
//
// Parameters:
//   - size: items per task (must be > 0)
//
// Returns:
//   - BatchCullerOption: the configured option
func WithChunkSize(size int) BatchCullerOption {
	return func(b *batchCuller) {
		if size > 0 {
			b.chunkSize = size
		}
	}
}

// NewBatchCuller creates a batch culler backed by a worker pool sized to the
// machine's CPU count.
//
// Parameters:
//   - options: a variadic list of options to configure the culler
//
// Returns:
//   - BatchCuller: the configured culler
func NewBatchCuller(options ...BatchCullerOption) BatchCuller {
	b := &batchCuller{
		pool:      worker.NewDynamicWorkerPool(runtime.NumCPU(), 256, 1*time.Second),
		chunkSize: 256,
	}
	for _, opt := range options {
		opt(b)
	}
	return b
}

func (b *batchCuller) CullView(viewProj *math32.Matrix4, items []BatchItem) []bool {
	visible := make([]bool, len(items))
	if len(items) == 0 {
		return visible
	}

	frustum := common.ExtractFrustum(viewProj)

	var wg sync.WaitGroup
	taskID := 0
	for start := 0; start < len(items); start += b.chunkSize {
		end := start + b.chunkSize
		if end > len(items) {
			end = len(items)
		}
		chunkStart, chunkEnd := start, end
		id := taskID
		taskID++

		wg.Add(1)
		b.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				for i := chunkStart; i < chunkEnd; i++ {
					visible[i] = itemVisible(&frustum, &items[i])
				}
				return nil, nil
			},
		})
	}
	wg.Wait()

	return visible
}

// itemVisible tests one placed box against the frustum. The transformed box
// is conservatively re-enclosed in a world axis-aligned box: the center is
// the transform's translation and each world half-extent is the absolute
// row sum of the rotation/scale part weighted by the model half-extents.
func itemVisible(frustum *common.Frustum, item *BatchItem) bool {
	m := &item.Transform
	d := item.Box.Dimensions

	center := math32.Vec3(m[12], m[13], m[14])
	halfExtents := math32.Vec3(
		abs(m[0])*d[0]+abs(m[4])*d[1]+abs(m[8])*d[2],
		abs(m[1])*d[0]+abs(m[5])*d[1]+abs(m[9])*d[2],
		abs(m[2])*d[0]+abs(m[6])*d[1]+abs(m[10])*d[2],
	)

	return frustum.ContainsBox(center, halfExtents)
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
