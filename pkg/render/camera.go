package render

import (
	"math"

	"github.com/taigrr/voxtile/pkg/math3d"
)

// Default projection settings for the 320x240 target display.
const (
	DefaultFOV  = math.Pi / 4
	DefaultNear = 1.0
	DefaultFar  = 1000.0
)

// Camera holds a position and a pitch/yaw orientation and derives the view
// and projection matrices from them.
type Camera struct {
	Position math3d.Vec3

	// Orientation in radians. Yaw 0 looks down -Z, yaw π down +Z.
	Pitch float64
	Yaw   float64

	FOV         float64 // vertical, radians
	AspectRatio float64
	Near        float64
	Far         float64

	viewMatrix math3d.Mat4
	projMatrix math3d.Mat4
	viewDirty  bool
	projDirty  bool
	moved      bool
}

// NewCamera creates a camera at the origin for the given aspect ratio.
func NewCamera(aspect float64) *Camera {
	return &Camera{
		FOV:         DefaultFOV,
		AspectRatio: aspect,
		Near:        DefaultNear,
		Far:         DefaultFar,
		viewDirty:   true,
		projDirty:   true,
		moved:       true,
	}
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	if pos != c.Position {
		c.moved = true
	}
	c.Position = pos
	c.viewDirty = true
}

// SetRotation sets pitch and yaw in radians.
func (c *Camera) SetRotation(pitch, yaw float64) {
	if pitch != c.Pitch || yaw != c.Yaw {
		c.moved = true
	}
	c.Pitch = pitch
	c.Yaw = yaw
	c.viewDirty = true
}

// SetFOV sets the vertical field of view and invalidates the projection.
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
	c.projDirty = true
}

// SetClipPlanes sets the near and far clipping distances.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near = near
	c.Far = far
	c.projDirty = true
}

// Forward returns the unit look direction.
func (c *Camera) Forward() math3d.Vec3 {
	return math3d.Forward(c.Pitch, c.Yaw)
}

// Right returns the unit right vector.
func (c *Camera) Right() math3d.Vec3 {
	r, _ := math3d.Basis(c.Forward(), math3d.Up())
	return r
}

// Up returns the unit up vector orthogonal to Forward and Right.
func (c *Camera) Up() math3d.Vec3 {
	_, u := math3d.Basis(c.Forward(), math3d.Up())
	return u
}

// ViewMatrix returns the world-to-camera matrix: the inverse of the
// point-at matrix built from position, position+forward and world up.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		pointAt := math3d.PointAt(c.Position, c.Position.Add(c.Forward()), math3d.Up())
		c.viewMatrix, _ = pointAt.Inverse()
		c.viewDirty = false
	}
	return c.viewMatrix
}

// ProjectionMatrix returns the perspective projection matrix.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.projMatrix = math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
		c.projDirty = false
	}
	return c.projMatrix
}

// MoveForward moves along the look direction.
func (c *Camera) MoveForward(distance float64) {
	c.SetPosition(c.Position.Add(c.Forward().Scale(distance)))
}

// Rotate adds to pitch and yaw. Pitch is clamped to straight up/down.
func (c *Camera) Rotate(deltaPitch, deltaYaw float64) {
	pitch := math.Max(-math.Pi/2, math.Min(math.Pi/2, c.Pitch+deltaPitch))
	c.SetRotation(pitch, c.Yaw+deltaYaw)
}

// LookAt orients the camera towards target.
func (c *Camera) LookAt(target math3d.Vec3) {
	dir := target.Sub(c.Position).Normalize()
	c.SetRotation(math.Asin(dir.Y), math.Atan2(-dir.X, -dir.Z))
}

// HasMoved reports whether position or orientation changed since the last
// call to ClearMoved.
func (c *Camera) HasMoved() bool {
	return c.moved
}

// ClearMoved resets the moved flag.
func (c *Camera) ClearMoved() {
	c.moved = false
}
