package mesh

import (
	"testing"

	"github.com/taigrr/voxtile/pkg/render"
)

// testVolume is a 4x4x4 cube with a configurable world outside it.
type testVolume struct {
	blocks  [4][4][4]Block
	outside func(x, y, z int) (Block, bool)
}

func (v *testVolume) Size() int               { return 4 }
func (v *testVolume) At(x, y, z int) Block    { return v.blocks[x][y][z] }
func (v *testVolume) Neighbor(x, y, z int) (Block, bool) {
	if v.outside == nil {
		return BlockAir, true
	}
	return v.outside(x, y, z)
}

func TestBuildSingleBlock(t *testing.T) {
	v := &testVolume{}
	v.blocks[1][1][1] = BlockStone

	quads := Build(v)
	if len(quads) != 6 {
		t.Fatalf("got %d quads, want 6", len(quads))
	}

	seen := make(map[Direction]bool)
	for _, q := range quads {
		seen[q.Dir] = true
		if q.X != 1 || q.Y != 1 || q.Z != 1 {
			t.Errorf("quad at %d,%d,%d", q.X, q.Y, q.Z)
		}
		if q.W != 1 || q.H != 1 {
			t.Errorf("quad size %dx%d, want 1x1", q.W, q.H)
		}
		if q.Texture != render.TextureStone {
			t.Errorf("texture = %d", q.Texture)
		}
		// 1+1+1 is odd, so no checkerboard darkening.
		if q.Light != q.Dir.Light() {
			t.Errorf("%v light = %d, want %d", q.Dir, q.Light, q.Dir.Light())
		}
	}
	if len(seen) != 6 {
		t.Errorf("directions = %v", seen)
	}
}

func TestBuildCheckerboard(t *testing.T) {
	v := &testVolume{}
	v.blocks[0][0][0] = BlockStone

	for _, q := range Build(v) {
		if q.Light != q.Dir.Light()-checkerDarken {
			t.Errorf("%v light = %d, want %d", q.Dir, q.Light, q.Dir.Light()-checkerDarken)
		}
	}
}

func TestBuildHidesSharedFaces(t *testing.T) {
	v := &testVolume{}
	v.blocks[1][1][1] = BlockStone
	v.blocks[2][1][1] = BlockDirt

	quads := Build(v)
	if len(quads) != 10 {
		t.Fatalf("got %d quads, want 10", len(quads))
	}
	for _, q := range quads {
		if q.X == 1 && q.Dir == Right || q.X == 2 && q.Dir == Left {
			t.Errorf("shared face %v emitted", q.Dir)
		}
	}
}

func TestBuildGrassTextures(t *testing.T) {
	v := &testVolume{}
	v.blocks[1][1][1] = BlockGrass

	for _, q := range Build(v) {
		want := render.TextureDirt
		if q.Dir == Top {
			want = render.TextureGrass
		}
		if q.Texture != want {
			t.Errorf("%v texture = %d, want %d", q.Dir, q.Texture, want)
		}
	}
}

func TestBuildChunkBorder(t *testing.T) {
	tests := []struct {
		name    string
		outside func(x, y, z int) (Block, bool)
		want    int
	}{
		{"air around", func(int, int, int) (Block, bool) { return BlockAir, true }, 6},
		{"solid around", func(int, int, int) (Block, bool) { return BlockStone, true }, 3},
		{"unloaded around", func(int, int, int) (Block, bool) { return BlockAir, false }, 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Corner block: three faces border the outside world.
			v := &testVolume{outside: tc.outside}
			v.blocks[0][0][0] = BlockStone
			if got := len(Build(v)); got != tc.want {
				t.Errorf("got %d quads, want %d", got, tc.want)
			}
		})
	}
}

func TestBuildFullVolume(t *testing.T) {
	v := &testVolume{}
	for x := range 4 {
		for y := range 4 {
			for z := range 4 {
				v.blocks[x][y][z] = BlockStone
			}
		}
	}
	// Only the outer shell: 6 sides of 4x4 faces.
	if got := len(Build(v)); got != 6*16 {
		t.Errorf("got %d quads, want %d", got, 6*16)
	}
}

func BenchmarkBuild(b *testing.B) {
	v := &testVolume{}
	for x := range 4 {
		for z := range 4 {
			for y := range 2 {
				v.blocks[x][y][z] = BlockDirt
			}
			v.blocks[x][2][z] = BlockGrass
		}
	}
	for b.Loop() {
		_ = Build(v)
	}
}
