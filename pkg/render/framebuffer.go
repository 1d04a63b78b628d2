package render

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"sync"

	"golang.org/x/image/draw"
)

// Display receives finished tiles. PushRect copies a fully resolved block of
// pixels (row-major, r.Dx() per row) to the absolute screen region r.
type Display interface {
	PushRect(r image.Rectangle, pixels []Color565) error
}

// VSyncer is implemented by displays that can wait for the vertical blank.
type VSyncer interface {
	WaitForVBlank()
}

// Framebuffer is an in-memory RGB565 display. It is the host stand-in for
// the device screen and the source for terminal, window and PNG output.
type Framebuffer struct {
	Width  int
	Height int

	mu     sync.RWMutex
	pixels []Color565
	pushes int
}

// NewFramebuffer creates a framebuffer with the given dimensions.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		pixels: make([]Color565, width*height),
	}
}

// PushRect implements Display.
func (fb *Framebuffer) PushRect(r image.Rectangle, pixels []Color565) error {
	if !r.In(image.Rect(0, 0, fb.Width, fb.Height)) {
		return fmt.Errorf("rect %v outside %dx%d screen", r, fb.Width, fb.Height)
	}
	if len(pixels) < r.Dx()*r.Dy() {
		return fmt.Errorf("rect %v needs %d pixels, got %d", r, r.Dx()*r.Dy(), len(pixels))
	}

	fb.mu.Lock()
	defer fb.mu.Unlock()
	w := r.Dx()
	for y := range r.Dy() {
		dst := fb.pixels[(r.Min.Y+y)*fb.Width+r.Min.X:]
		copy(dst[:w], pixels[y*w:(y+1)*w])
	}
	fb.pushes++
	return nil
}

// Pushes returns how many rectangles have been pushed so far.
func (fb *Framebuffer) Pushes() int {
	fb.mu.RLock()
	defer fb.mu.RUnlock()
	return fb.pushes
}

// Clear fills the framebuffer with c.
func (fb *Framebuffer) Clear(c Color565) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	for i := range fb.pixels {
		fb.pixels[i] = c
	}
}

// Pixel returns the color at (x, y), or 0 when out of bounds.
func (fb *Framebuffer) Pixel(x, y int) Color565 {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return 0
	}
	fb.mu.RLock()
	defer fb.mu.RUnlock()
	return fb.pixels[y*fb.Width+x]
}

// Snapshot copies the current pixels into dst, growing it if needed.
func (fb *Framebuffer) Snapshot(dst []Color565) []Color565 {
	fb.mu.RLock()
	defer fb.mu.RUnlock()
	if cap(dst) < len(fb.pixels) {
		dst = make([]Color565, len(fb.pixels))
	}
	dst = dst[:len(fb.pixels)]
	copy(dst, fb.pixels)
	return dst
}

// ToImage converts the framebuffer to an RGBA image.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	fb.mu.RLock()
	defer fb.mu.RUnlock()
	for y := range fb.Height {
		for x := range fb.Width {
			img.SetRGBA(x, y, fb.pixels[y*fb.Width+x].ToRGBA())
		}
	}
	return img
}

// SavePNG writes the framebuffer to path, upscaled by an integer factor
// with nearest-neighbour sampling.
func (fb *Framebuffer) SavePNG(path string, scale int) error {
	var img image.Image = fb.ToImage()
	if scale > 1 {
		dst := image.NewRGBA(image.Rect(0, 0, fb.Width*scale, fb.Height*scale))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
		img = dst
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}
