// Package render implements the tile-based software pipeline: camera,
// frustum culling, near-plane and screen-edge clipping, the bounded
// triangle queue and the per-tile scanline rasterizer.
package render

import (
	"math"

	"github.com/taigrr/voxtile/pkg/math3d"
)

// Plane is a point on the plane plus a unit normal pointing into the
// visible half-space.
type Plane struct {
	Point  math3d.Vec3
	Normal math3d.Vec3
}

// NewPlane creates a plane, normalizing n.
func NewPlane(point, n math3d.Vec3) Plane {
	return Plane{Point: point, Normal: n.Normalize()}
}

// SignedDistance returns normal·(p - point). Inside is >= 0.
func (p Plane) SignedDistance(point math3d.Vec3) float64 {
	return p.Normal.Dot(point.Sub(p.Point))
}

// FrustumPlane indices.
const (
	FrustumNear = iota
	FrustumFar
	FrustumLeft
	FrustumRight
	FrustumTop
	FrustumBottom
)

// Frustum is the six-plane view volume of a camera.
type Frustum struct {
	Planes [6]Plane
}

// NewFrustum derives the frustum planes from the camera position, its basis
// vectors and its projection parameters. The near and side planes all pass
// through the camera position, so a box enclosing the camera is never
// culled.
func NewFrustum(c *Camera) Frustum {
	pos := c.Position
	front := c.Forward()
	right, up := math3d.Basis(front, math3d.Up())

	halfV := c.Far * math.Tan(c.FOV/2)
	halfH := halfV * c.AspectRatio
	frontFar := front.Scale(c.Far)

	var f Frustum
	f.Planes[FrustumNear] = NewPlane(pos, front)
	f.Planes[FrustumFar] = NewPlane(pos.Add(frontFar), front.Negate())
	f.Planes[FrustumLeft] = NewPlane(pos, frontFar.Sub(right.Scale(halfH)).Cross(up))
	f.Planes[FrustumRight] = NewPlane(pos, up.Cross(frontFar.Add(right.Scale(halfH))))
	f.Planes[FrustumTop] = NewPlane(pos, frontFar.Add(up.Scale(halfV)).Cross(right))
	f.Planes[FrustumBottom] = NewPlane(pos, right.Cross(frontFar.Sub(up.Scale(halfV))))
	return f
}

// IsAABBInFrustum reports whether the box [min, max] may be visible. A box
// is rejected only when all eight corners are strictly outside one plane,
// so the test never rejects a visible box but may accept some invisible
// ones near the frustum corners.
func (f Frustum) IsAABBInFrustum(min, max math3d.Vec3) bool {
	corners := NewAABB(min, max).Corners()
	for _, plane := range f.Planes {
		out := 0
		for _, c := range corners {
			if plane.SignedDistance(c) < 0 {
				out++
			}
		}
		if out == len(corners) {
			return false
		}
	}
	return true
}

// ContainsPoint reports whether p is inside or on every plane.
func (f Frustum) ContainsPoint(p math3d.Vec3) bool {
	for _, plane := range f.Planes {
		if plane.SignedDistance(p) < 0 {
			return false
		}
	}
	return true
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// NewAABB creates a box from two opposite corners in any order.
func NewAABB(a, b math3d.Vec3) AABB {
	return AABB{Min: a.Min(b), Max: a.Max(b)}
}

// Center returns the box center.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Corners returns the eight corners of the box.
func (b AABB) Corners() [8]math3d.Vec3 {
	return [8]math3d.Vec3{
		{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Max.Z},
	}
}

// ContainsPoint reports whether p lies inside the box (inclusive).
func (b AABB) ContainsPoint(p math3d.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}
