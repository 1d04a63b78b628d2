package mesh

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/voxtile/pkg/math3d"
	"github.com/taigrr/voxtile/pkg/render"
)

// Primitive extras keys carrying the shading of every face in a primitive.
const (
	extrasTexture = "texture"
	extrasLight   = "light"
)

type shading struct {
	texture, light uint8
}

// SaveGLB writes meshes to a binary glTF file, one node per mesh. Faces
// are grouped into one primitive per texture and light pair, recorded in
// the primitive extras so LoadGLB can restore them. Vertex colors hold the
// shaded color for other viewers and TEXCOORD_0 the cell coordinates.
func SaveGLB(path string, meshes ...*Mesh) error {
	doc := gltf.NewDocument()

	for _, m := range meshes {
		if len(m.Faces) == 0 {
			continue
		}

		positions := make([][3]float32, len(m.Vertices))
		normals := make([][3]float32, len(m.Vertices))
		uvs := make([][2]float32, len(m.Vertices))
		for i, v := range m.Vertices {
			positions[i] = [3]float32{float32(v.Position.X), float32(v.Position.Y), float32(v.Position.Z)}
			normals[i] = [3]float32{float32(v.Normal.X), float32(v.Normal.Y), float32(v.Normal.Z)}
			uvs[i] = [2]float32{float32(v.UV.X), float32(v.UV.Y)}
		}

		colors := make([][3]uint8, len(m.Vertices))
		groups := make(map[shading][]uint32)
		for _, f := range m.Faces {
			key := shading{f.Texture, f.Light}
			c := render.ShadeColor(f.Texture, f.Light).ToRGBA()
			for _, vi := range f.V {
				groups[key] = append(groups[key], uint32(vi))
				colors[vi] = [3]uint8{c.R, c.G, c.B}
			}
		}

		posAcc := modeler.WritePosition(doc, positions)
		normAcc := modeler.WriteNormal(doc, normals)
		colAcc := modeler.WriteColor(doc, colors)
		uvAcc := modeler.WriteTextureCoord(doc, uvs)

		keys := make([]shading, 0, len(groups))
		for k := range groups {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			if keys[i].texture != keys[j].texture {
				return keys[i].texture < keys[j].texture
			}
			return keys[i].light < keys[j].light
		})

		gm := &gltf.Mesh{Name: m.Name}
		for _, k := range keys {
			idx := modeler.WriteIndices(doc, groups[k])
			gm.Primitives = append(gm.Primitives, &gltf.Primitive{
				Mode:    gltf.PrimitiveTriangles,
				Indices: gltf.Index(idx),
				Attributes: map[string]int{
					gltf.POSITION:   posAcc,
					gltf.NORMAL:     normAcc,
					gltf.COLOR_0:    colAcc,
					gltf.TEXCOORD_0: uvAcc,
				},
				Extras: map[string]any{
					extrasTexture: k.texture,
					extrasLight:   k.light,
				},
			})
		}

		doc.Meshes = append(doc.Meshes, gm)
		doc.Nodes = append(doc.Nodes, &gltf.Node{Name: m.Name, Mesh: gltf.Index(len(doc.Meshes) - 1)})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
	}

	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("save glb: %w", err)
	}
	return nil
}

// LoadGLB reads every triangle primitive of a glTF or GLB file into one
// mesh. Primitives without shading extras are drawn as stone at full
// light.
func LoadGLB(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	m := NewMesh(filepath.Base(path))
	for _, gm := range doc.Meshes {
		if err := appendPrimitives(doc, gm, m); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", gm.Name, err)
		}
	}
	m.CalculateBounds()
	return m, nil
}

func appendPrimitives(doc *gltf.Document, gm *gltf.Mesh, m *Mesh) error {
	for _, prim := range gm.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Skip lines and points
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var indices []uint32
		if prim.Indices != nil {
			indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		var uvs [][2]float32
		if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[uvIdx], nil)
			if err != nil {
				return fmt.Errorf("read texture coordinates: %w", err)
			}
		}

		sh := primitiveShading(prim)
		base := len(m.Vertices)
		for i, p := range positions {
			v := Vertex{Position: math3d.V3(float64(p[0]), float64(p[1]), float64(p[2]))}
			if i < len(uvs) {
				v.UV = math3d.V2(float64(uvs[i][0]), float64(uvs[i][1]))
			}
			m.Vertices = append(m.Vertices, v)
		}
		for i := 0; i+2 < len(indices); i += 3 {
			f := Face{
				V:       [3]int{base + int(indices[i]), base + int(indices[i+1]), base + int(indices[i+2])},
				Texture: sh.texture,
				Light:   sh.light,
			}
			for _, vi := range f.V {
				if vi >= len(m.Vertices) {
					return fmt.Errorf("index %d out of range", vi-base)
				}
			}
			m.Faces = append(m.Faces, f)
		}
	}
	m.CalculateNormals()
	return nil
}

func primitiveShading(prim *gltf.Primitive) shading {
	sh := shading{texture: render.TextureStone, light: render.MaxLight}
	extras, ok := prim.Extras.(map[string]any)
	if !ok {
		return sh
	}
	if v, ok := extras[extrasTexture].(float64); ok {
		sh.texture = uint8(v)
	}
	if v, ok := extras[extrasLight].(float64); ok {
		sh.light = uint8(v)
	}
	return sh
}
