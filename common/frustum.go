package common

import (
	"math"

	"cogentcore.org/core/math32"
)

// Plane represents a plane in 3D space using the equation: ax + by + cz + d = 0
// where (a, b, c) is the normal and d is the distance from origin.
type Plane struct {
	Normal   [3]float32
	Distance float32
}

// Frustum represents the six planes of a view frustum for culling.
// Planes are oriented so that positive half-space is inside the frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumPlane indices for clarity
const (
	FrustumLeft   = 0
	FrustumRight  = 1
	FrustumBottom = 2
	FrustumTop    = 3
	FrustumNear   = 4
	FrustumFar    = 5
)

// ExtractFrustum extracts frustum planes from a combined view-projection
// matrix using the Gribb/Hartmann method.
//
// Reference: https://www8.cs.umu.se/kurser/5DV051/HT12/lab/plane_extraction.pdf
//
// Parameters:
//   - viewProj: the combined view-projection matrix (column-major)
//
// Returns:
//   - Frustum: the extracted frustum with normalized planes
func ExtractFrustum(viewProj *math32.Matrix4) Frustum {
	var f Frustum
	m := viewProj

	// For column-major matrix M, element M[row][col] is at index col*4 + row.

	// Left plane: row3 + row0
	f.Planes[FrustumLeft].Normal[0] = m[3] + m[0]
	f.Planes[FrustumLeft].Normal[1] = m[7] + m[4]
	f.Planes[FrustumLeft].Normal[2] = m[11] + m[8]
	f.Planes[FrustumLeft].Distance = m[15] + m[12]

	// Right plane: row3 - row0
	f.Planes[FrustumRight].Normal[0] = m[3] - m[0]
	f.Planes[FrustumRight].Normal[1] = m[7] - m[4]
	f.Planes[FrustumRight].Normal[2] = m[11] - m[8]
	f.Planes[FrustumRight].Distance = m[15] - m[12]

	// Bottom plane: row3 + row1
	f.Planes[FrustumBottom].Normal[0] = m[3] + m[1]
	f.Planes[FrustumBottom].Normal[1] = m[7] + m[5]
	f.Planes[FrustumBottom].Normal[2] = m[11] + m[9]
	f.Planes[FrustumBottom].Distance = m[15] + m[13]

	// Top plane: row3 - row1
	f.Planes[FrustumTop].Normal[0] = m[3] - m[1]
	f.Planes[FrustumTop].Normal[1] = m[7] - m[5]
	f.Planes[FrustumTop].Normal[2] = m[11] - m[9]
	f.Planes[FrustumTop].Distance = m[15] - m[13]

	// Near plane: row3 + row2
	f.Planes[FrustumNear].Normal[0] = m[3] + m[2]
	f.Planes[FrustumNear].Normal[1] = m[7] + m[6]
	f.Planes[FrustumNear].Normal[2] = m[11] + m[10]
	f.Planes[FrustumNear].Distance = m[15] + m[14]

	// Far plane: row3 - row2
	f.Planes[FrustumFar].Normal[0] = m[3] - m[2]
	f.Planes[FrustumFar].Normal[1] = m[7] - m[6]
	f.Planes[FrustumFar].Normal[2] = m[11] - m[10]
	f.Planes[FrustumFar].Distance = m[15] - m[14]

	// Normalize all planes
	for i := range f.Planes {
		f.normalizePlane(i)
	}

	return f
}

// ContainsBox reports whether an axis-aligned box intersects the frustum.
// The test is conservative: it checks the box's most-positive corner against
// each plane, so a box is only rejected when it lies fully outside at least
// one plane. Some boxes outside the frustum near its corners pass the test.
//
// Parameters:
//   - center: box center in world space
//   - halfExtents: half the box dimensions along each axis
//
// Returns:
//   - bool: false if the box is fully outside any frustum plane
func (f *Frustum) ContainsBox(center, halfExtents math32.Vector3) bool {
	for i := range f.Planes {
		p := &f.Planes[i]
		// Distance from the corner of the box furthest along the plane normal.
		d := p.Normal[0]*center.X + p.Normal[1]*center.Y + p.Normal[2]*center.Z +
			abs32(p.Normal[0])*halfExtents.X +
			abs32(p.Normal[1])*halfExtents.Y +
			abs32(p.Normal[2])*halfExtents.Z +
			p.Distance
		if d < 0 {
			return false
		}
	}
	return true
}

// normalizePlane normalizes a frustum plane so that the normal has unit length.
func (f *Frustum) normalizePlane(index int) {
	p := &f.Planes[index]
	length := float32(math.Sqrt(float64(
		p.Normal[0]*p.Normal[0] +
			p.Normal[1]*p.Normal[1] +
			p.Normal[2]*p.Normal[2],
	)))

	if length > 0 {
		invLen := 1.0 / length
		p.Normal[0] *= invLen
		p.Normal[1] *= invLen
		p.Normal[2] *= invLen
		p.Distance *= invLen
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
