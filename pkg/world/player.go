package world

import (
	"math"

	"github.com/taigrr/voxtile/pkg/math3d"
	"github.com/taigrr/voxtile/pkg/mesh"
	"github.com/taigrr/voxtile/pkg/render"
)

// Player constants.
const (
	EyeHeight = 1.6
	FlySpeed  = 6.0 // blocks/s
	TurnSpeed = 2.0 // radians/s
)

// Player is the viewpoint the world is rendered from. It targets the block
// under the crosshair every Update.
type Player struct {
	Position math3d.Vec3 // feet
	Pitch    float64
	Yaw      float64

	target RaycastResult
}

// NewPlayer creates a player standing at pos and looking down -Z.
func NewPlayer(pos math3d.Vec3) *Player {
	return &Player{Position: pos}
}

// Eye returns the camera position.
func (p *Player) Eye() math3d.Vec3 {
	return p.Position.Add(math3d.V3(0, EyeHeight, 0))
}

// Forward returns the look direction.
func (p *Player) Forward() math3d.Vec3 {
	return math3d.Forward(p.Pitch, p.Yaw)
}

// Move flies the player relative to its yaw. forward and right move in the
// horizontal plane, up moves along world up.
func (p *Player) Move(forward, right, up float64) {
	sin, cos := math.Sincos(p.Yaw)
	p.Position.X += -sin*forward + cos*right
	p.Position.Z += -cos*forward - sin*right
	p.Position.Y += up
}

// Turn adds to pitch and yaw. Pitch stops just short of straight up and
// down.
func (p *Player) Turn(deltaPitch, deltaYaw float64) {
	const limit = math.Pi/2 - 1e-3
	p.Pitch = math.Max(-limit, math.Min(limit, p.Pitch+deltaPitch))
	p.Yaw = math.Mod(p.Yaw+deltaYaw, 2*math.Pi)
}

// ApplyCamera copies the eye position and orientation into c.
func (p *Player) ApplyCamera(c *render.Camera) {
	c.SetPosition(p.Eye())
	c.SetRotation(p.Pitch, p.Yaw)
}

// Update retargets the block under the crosshair.
func (p *Player) Update(src BlockSource) RaycastResult {
	p.target = Raycast(src, p.Eye(), p.Forward(), MaxReachDistance)
	return p.target
}

// Target returns the result of the last Update.
func (p *Player) Target() RaycastResult {
	return p.target
}

// Marker returns the outline quad drawn over the targeted face and the
// world position its coordinates are relative to. It is empty when no
// block is targeted.
func (p *Player) Marker() ([]mesh.Quad, math3d.Vec3) {
	if !p.target.Hit {
		return nil, math3d.Zero3()
	}
	h := p.target.HitPosition
	quad := mesh.Quad{W: 1, H: 1, Dir: p.target.Face, Texture: render.TextureOutline}
	return []mesh.Quad{quad}, math3d.V3(float64(h[0]), float64(h[1]), float64(h[2]))
}

// BreakBlock removes the targeted block and drops it as an item entity.
func (p *Player) BreakBlock(w *World) bool {
	if !p.target.Hit {
		return false
	}
	h := p.target.HitPosition
	if !w.SetBlock(h[0], h[1], h[2], mesh.BlockAir) {
		return false
	}
	center := math3d.V3(float64(h[0]), float64(h[1]), float64(h[2])).Add(math3d.Splat3(0.5))
	w.AddEntity(NewItemEntity(center, p.target.Block))
	p.target = RaycastResult{}
	return true
}

// PlaceBlock puts b in the empty block in front of the targeted face.
func (p *Player) PlaceBlock(w *World, b mesh.Block) bool {
	if !p.target.Hit || b.IsAir() {
		return false
	}
	a := p.target.AdjacentPosition
	if cur, ok := w.Block(a[0], a[1], a[2]); !ok || !cur.IsAir() {
		return false
	}
	if p.occupies(a) {
		return false
	}
	return w.SetBlock(a[0], a[1], a[2], b)
}

// occupies reports whether the player's body overlaps block pos.
func (p *Player) occupies(pos [3]int) bool {
	fx, fz := int(math.Floor(p.Position.X)), int(math.Floor(p.Position.Z))
	fy := int(math.Floor(p.Position.Y))
	return pos[0] == fx && pos[2] == fz && (pos[1] == fy || pos[1] == fy+1)
}
