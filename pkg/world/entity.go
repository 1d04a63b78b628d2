package world

import (
	"math"

	"github.com/taigrr/voxtile/pkg/math3d"
	"github.com/taigrr/voxtile/pkg/mesh"
	"github.com/taigrr/voxtile/pkg/render"
)

// EntityKind tags the payload an entity carries.
type EntityKind uint8

const (
	EntityItem EntityKind = iota + 1
)

// Entity physics.
const (
	Gravity         = 16.0 // blocks/s²
	TerminalSpeed   = 40.0
	ItemEntitySize  = 0.25
	itemGroundSnap  = ItemEntitySize / 2
	entityFallLimit = -64.0
	groundEpsilon   = 1e-6
)

// ItemData is the payload of an EntityItem.
type ItemData struct {
	Block mesh.Block
	Count int
}

// Entity is a renderable object living in the world. Only the payload
// matching Kind is meaningful.
type Entity struct {
	Kind     EntityKind
	Position math3d.Vec3
	Velocity math3d.Vec3
	OnGround bool

	Item ItemData
}

// NewItemEntity creates a dropped block centred at pos.
func NewItemEntity(pos math3d.Vec3, b mesh.Block) Entity {
	return Entity{
		Kind:     EntityItem,
		Position: pos,
		Item:     ItemData{Block: b, Count: 1},
	}
}

// Bounds returns the entity's bounding box.
func (e Entity) Bounds() render.AABB {
	half := math3d.Splat3(ItemEntitySize / 2)
	return render.NewAABB(e.Position.Sub(half), e.Position.Add(half))
}

// Billboard returns the sprite drawn for the entity.
func (e Entity) Billboard() (render.Billboard, bool) {
	switch e.Kind {
	case EntityItem:
		tex := e.Item.Block.TextureID(mesh.Top)
		if tex == render.TextureAir {
			return render.Billboard{}, false
		}
		return render.Billboard{Position: e.Position, Texture: tex}, true
	}
	return render.Billboard{}, false
}

// Update applies gravity and stops the entity on top of solid blocks.
// Entities over unloaded chunks stay where they are.
func (e *Entity) Update(dt float64, w *World) {
	bx, bz := int(math.Floor(e.Position.X)), int(math.Floor(e.Position.Z))
	bottom := e.Position.Y - itemGroundSnap
	if _, ok := w.Block(bx, int(math.Floor(bottom-groundEpsilon)), bz); !ok {
		return
	}

	e.Velocity.Y = math.Max(e.Velocity.Y-Gravity*dt, -TerminalSpeed)
	next := e.Position.Add(e.Velocity.Scale(dt))
	nextBottom := next.Y - itemGroundSnap

	// Sweep the cells between the old and new bottom so fast falls do not
	// tunnel through the ground.
	e.OnGround = false
	from := int(math.Floor(bottom - groundEpsilon))
	to := int(math.Floor(nextBottom - groundEpsilon))
	for y := from; y >= to; y-- {
		if b, ok := w.Block(bx, y, bz); ok && !b.IsAir() {
			next.Y = float64(y+1) + itemGroundSnap
			e.Velocity.Y = 0
			e.OnGround = true
			break
		}
	}
	if next.Y < entityFallLimit {
		next.Y = entityFallLimit
		e.Velocity.Y = 0
	}
	e.Position = next
}
