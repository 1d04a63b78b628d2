package world

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/taigrr/voxtile/pkg/math3d"
	"github.com/taigrr/voxtile/pkg/mesh"
	"github.com/taigrr/voxtile/pkg/render"
)

func newFlatWorld(t testing.TB) (*World, *Player) {
	t.Helper()
	w := New(FlatGenerator{Height: DefaultGroundHeight})
	p := NewPlayer(math3d.V3(4.5, DefaultGroundHeight, 4.5))
	w.LoadAround(p.Position, 1)
	return w, p
}

func lookDown(p *Player) {
	p.Turn(-math.Pi, 0)
}

func TestPlayerMove(t *testing.T) {
	tests := []struct {
		name               string
		yaw                float64
		forward, right, up float64
		want               math3d.Vec3
	}{
		{"forward at yaw 0", 0, 1, 0, 0, math3d.V3(0, 0, -1)},
		{"right at yaw 0", 0, 0, 1, 0, math3d.V3(1, 0, 0)},
		{"forward at yaw π/2", math.Pi / 2, 1, 0, 0, math3d.V3(-1, 0, 0)},
		{"forward at yaw π", math.Pi, 2, 0, 0, math3d.V3(0, 0, 2)},
		{"up", 1.3, 0, 0, 3, math3d.V3(0, 3, 0)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPlayer(math3d.Zero3())
			p.Yaw = tc.yaw
			p.Move(tc.forward, tc.right, tc.up)
			require.InDelta(t, 0, p.Position.Distance(tc.want), 1e-9, "position %v", p.Position)
		})
	}
}

func TestPlayerTurnClampsPitch(t *testing.T) {
	p := NewPlayer(math3d.Zero3())
	p.Turn(10, 0)
	require.Less(t, p.Pitch, math.Pi/2)
	require.Greater(t, p.Forward().Y, 0.99)

	p.Turn(-20, 0)
	require.Greater(t, p.Pitch, -math.Pi/2)
}

func TestPlayerApplyCamera(t *testing.T) {
	p := NewPlayer(math3d.V3(1, 2, 3))
	p.Turn(0.2, 0.5)
	cam := render.NewCamera(4.0 / 3.0)
	cam.ClearMoved()

	p.ApplyCamera(cam)
	require.True(t, cam.HasMoved())
	require.InDelta(t, 0, cam.Position.Distance(math3d.V3(1, 2+EyeHeight, 3)), 1e-12)
	require.InDelta(t, 0, cam.Forward().Distance(p.Forward()), 1e-12)
}

func TestPlayerMarker(t *testing.T) {
	w, p := newFlatWorld(t)

	quads, _ := p.Marker()
	require.Empty(t, quads, "no marker before the first update")

	lookDown(p)
	res := p.Update(w)
	require.True(t, res.Hit)
	require.Equal(t, [3]int{4, DefaultGroundHeight - 1, 4}, res.HitPosition)
	require.Equal(t, mesh.Top, res.Face)
	require.Equal(t, mesh.BlockGrass, res.Block)

	quads, origin := p.Marker()
	require.Len(t, quads, 1)
	require.Equal(t, mesh.Top, quads[0].Dir)
	require.Equal(t, render.TextureOutline, quads[0].Texture)
	require.Equal(t, [2]uint8{1, 1}, [2]uint8{quads[0].W, quads[0].H}, "the marker covers one block face")
	require.Equal(t, math3d.V3(4, DefaultGroundHeight-1, 4), origin)

	// The marker sits on the top face of the targeted block.
	for _, c := range quads[0].Corners(origin) {
		require.InDelta(t, DefaultGroundHeight, c.Y, 1e-12)
	}
}

func TestPlayerMarkerOutOfReach(t *testing.T) {
	w, p := newFlatWorld(t)
	p.Position.Y += 10
	lookDown(p)
	require.False(t, p.Update(w).Hit)
	quads, _ := p.Marker()
	require.Empty(t, quads)
}

func TestPlayerBreakAndPlace(t *testing.T) {
	w, p := newFlatWorld(t)
	lookDown(p)

	require.False(t, p.BreakBlock(w), "nothing targeted yet")

	p.Update(w)
	require.True(t, p.BreakBlock(w))
	b, ok := w.Block(4, 3, 4)
	require.True(t, ok)
	require.True(t, b.IsAir())

	ents := w.Entities()
	require.Len(t, ents, 1)
	require.Equal(t, EntityItem, ents[0].Kind)
	require.Equal(t, mesh.BlockGrass, ents[0].Item.Block)

	res := p.Update(w)
	require.Equal(t, [3]int{4, 2, 4}, res.HitPosition)
	require.Equal(t, [3]int{4, 3, 4}, res.AdjacentPosition)
	require.True(t, p.PlaceBlock(w, mesh.BlockStone))
	b, _ = w.Block(4, 3, 4)
	require.Equal(t, mesh.BlockStone, b)

	// The block the player stands in cannot be filled.
	p.Update(w)
	p.target.AdjacentPosition = [3]int{4, DefaultGroundHeight, 4}
	require.False(t, p.PlaceBlock(w, mesh.BlockDirt))
	require.False(t, p.PlaceBlock(w, mesh.BlockAir))
}

func TestItemEntityFalls(t *testing.T) {
	w, _ := newFlatWorld(t)
	w.AddEntity(NewItemEntity(math3d.V3(2.5, 7.5, 2.5), mesh.BlockDirt))

	for range 40 {
		w.UpdateEntities(0.05)
	}
	e := w.Entities()[0]
	require.True(t, e.OnGround)
	require.InDelta(t, DefaultGroundHeight+ItemEntitySize/2, e.Position.Y, 1e-9)
	require.Zero(t, e.Velocity.Y)

	// Resting items stay put.
	w.UpdateEntities(0.05)
	require.Equal(t, e.Position, w.Entities()[0].Position)
}

func TestItemEntityFastFall(t *testing.T) {
	w, _ := newFlatWorld(t)
	e := NewItemEntity(math3d.V3(2.5, 6, 2.5), mesh.BlockStone)
	e.Velocity.Y = -TerminalSpeed
	// One step would move it 4 blocks, through the ground.
	e.Update(0.1, w)
	require.True(t, e.OnGround)
	require.InDelta(t, DefaultGroundHeight+ItemEntitySize/2, e.Position.Y, 1e-9)
}

func TestItemEntityOverUnloaded(t *testing.T) {
	w := New(nil)
	e := NewItemEntity(math3d.V3(0.5, 0.5, 0.5), mesh.BlockStone)
	e.Update(1, w)
	require.Equal(t, math3d.V3(0.5, 0.5, 0.5), e.Position)
}

func TestEntityBillboards(t *testing.T) {
	w := New(nil)
	w.AddEntity(NewItemEntity(math3d.V3(1, 2, 3), mesh.BlockGrass))
	w.AddEntity(NewItemEntity(math3d.V3(4, 5, 6), mesh.BlockAir))
	w.AddEntity(Entity{Position: math3d.V3(7, 8, 9)})

	bbs := w.Billboards()
	require.Len(t, bbs, 1)
	require.Equal(t, render.TextureGrass, bbs[0].Texture)
	require.Equal(t, math3d.V3(1, 2, 3), bbs[0].Position)

	box := w.Entities()[0].Bounds()
	require.True(t, box.ContainsPoint(math3d.V3(1, 2, 3)))
	require.False(t, box.ContainsPoint(math3d.V3(1, 2.2, 3)))
}
