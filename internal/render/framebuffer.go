package render

import "image/color"

// FrameBuffer is a CPU-side RGBA canvas the shell and controls are painted
// into before it is uploaded to the window.
type FrameBuffer struct {
	W      int
	H      int
	Pixels []uint8 // RGBA
}

func NewFrameBuffer(w, h int) *FrameBuffer {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &FrameBuffer{W: w, H: h, Pixels: make([]uint8, w*h*4)}
}

func (fb *FrameBuffer) Clear(c color.RGBA) {
	for i := 0; i < len(fb.Pixels); i += 4 {
		fb.Pixels[i+0] = c.R
		fb.Pixels[i+1] = c.G
		fb.Pixels[i+2] = c.B
		fb.Pixels[i+3] = c.A
	}
}

// clip intersects a rectangle with the buffer bounds.
func (fb *FrameBuffer) clip(x, y, w, h int) (int, int, int, int, bool) {
	if x < 0 {
		w += x
		x = 0
	}
	if y < 0 {
		h += y
		y = 0
	}
	if x+w > fb.W {
		w = fb.W - x
	}
	if y+h > fb.H {
		h = fb.H - y
	}
	return x, y, w, h, w > 0 && h > 0
}

func (fb *FrameBuffer) FillRect(x, y, w, h int, c color.RGBA) {
	x, y, w, h, ok := fb.clip(x, y, w, h)
	if !ok {
		return
	}
	for row := 0; row < h; row++ {
		off := ((y+row)*fb.W + x) * 4
		for col := 0; col < w; col++ {
			idx := off + col*4
			fb.Pixels[idx+0] = c.R
			fb.Pixels[idx+1] = c.G
			fb.Pixels[idx+2] = c.B
			fb.Pixels[idx+3] = c.A
		}
	}
}

// BlendRect mixes c over the existing pixels using c.A as coverage.
func (fb *FrameBuffer) BlendRect(x, y, w, h int, c color.RGBA) {
	x, y, w, h, ok := fb.clip(x, y, w, h)
	if !ok {
		return
	}
	a := uint32(c.A)
	for row := 0; row < h; row++ {
		off := ((y+row)*fb.W + x) * 4
		for col := 0; col < w; col++ {
			idx := off + col*4
			fb.Pixels[idx+0] = uint8((uint32(c.R)*a + uint32(fb.Pixels[idx+0])*(255-a)) / 255)
			fb.Pixels[idx+1] = uint8((uint32(c.G)*a + uint32(fb.Pixels[idx+1])*(255-a)) / 255)
			fb.Pixels[idx+2] = uint8((uint32(c.B)*a + uint32(fb.Pixels[idx+2])*(255-a)) / 255)
			fb.Pixels[idx+3] = 0xFF
		}
	}
}

func (fb *FrameBuffer) StrokeRect(x, y, w, h, line int, c color.RGBA) {
	if line <= 0 {
		line = 1
	}
	fb.FillRect(x, y, w, line, c)
	fb.FillRect(x, y+h-line, w, line, c)
	fb.FillRect(x, y, line, h, c)
	fb.FillRect(x+w-line, y, line, h, c)
}

// Swatch paints a framed color chip.
func (fb *FrameBuffer) Swatch(x, y, size int, fill, frame color.RGBA) {
	fb.FillRect(x, y, size, size, fill)
	fb.StrokeRect(x, y, size, size, 1, frame)
}
