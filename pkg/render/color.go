package render

import "image/color"

// Color565 is a packed 16-bit RGB color: 5 bits red, 6 green, 5 blue.
type Color565 uint16

// NewColor565 packs 5/6/5-bit components.
func NewColor565(r, g, b uint8) Color565 {
	return Color565(uint16(r&0x1F)<<11 | uint16(g&0x3F)<<5 | uint16(b&0x1F))
}

// RGB converts 8-bit components to the nearest Color565.
func RGB(r, g, b uint8) Color565 {
	return NewColor565(r>>3, g>>2, b>>3)
}

// Components returns the raw 5/6/5-bit components.
func (c Color565) Components() (r, g, b uint8) {
	return uint8(c>>11) & 0x1F, uint8(c>>5) & 0x3F, uint8(c) & 0x1F
}

// ApplyLight scales every component by level/255.
func (c Color565) ApplyLight(level uint8) Color565 {
	r, g, b := c.Components()
	l := uint16(level)
	return NewColor565(
		uint8(uint16(r)*l/255),
		uint8(uint16(g)*l/255),
		uint8(uint16(b)*l/255),
	)
}

// ToRGBA expands the color to 8 bits per channel.
func (c Color565) ToRGBA() color.RGBA {
	r, g, b := c.Components()
	return color.RGBA{
		R: uint8(uint16(r) * 255 / 31),
		G: uint8(uint16(g) * 255 / 63),
		B: uint8(uint16(b) * 255 / 31),
		A: 0xFF,
	}
}

// Texture ids with a fixed meaning.
const (
	TextureAir     uint8 = 0
	TextureStone   uint8 = 1
	TextureGrass   uint8 = 2
	TextureDirt    uint8 = 3
	TextureOutline uint8 = 255
)

// MaxLight is the brightest per-face light level.
const MaxLight uint8 = 15

var (
	// Background is the sky color every tile is cleared to.
	Background = NewColor565(0b01110, 0b110110, 0b11111)
	// OutlineColor is used for block-marker edges.
	OutlineColor = NewColor565(0b11111, 0, 0)

	ColorBlack = Color565(0x0000)
	ColorWhite = Color565(0xFFFF)
)

// TextureColor maps a texture id to its base color. Unknown ids are black.
func TextureColor(id uint8) Color565 {
	switch id {
	case TextureStone:
		return NewColor565(0b10000, 0b100000, 0b10000)
	case TextureGrass:
		return NewColor565(0b00001, 0b111011, 0b00000)
	case TextureDirt:
		return NewColor565(0b01101, 0b011010, 0b10010)
	case TextureOutline:
		return ColorWhite
	default:
		return ColorBlack
	}
}

// ShadeLevel converts a light level in [0, MaxLight] to the ApplyLight
// scale.
func ShadeLevel(light uint8) uint8 {
	return min(light, MaxLight) * 17
}

// ShadeColor returns the fill color for a triangle with the given texture
// id and light level in [0, MaxLight].
func ShadeColor(id, light uint8) Color565 {
	return TextureColor(id).ApplyLight(ShadeLevel(light))
}
