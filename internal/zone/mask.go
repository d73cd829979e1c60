package zone

import "image"

// BoundingBox is the tight rectangle around a mask's true pixels. Both corners
// are inclusive.
type BoundingBox struct {
	X1, Y1, X2, Y2 int
}

func (b BoundingBox) W() int { return b.X2 - b.X1 + 1 }
func (b BoundingBox) H() int { return b.Y2 - b.Y1 + 1 }

// Rect returns the box as a half-open image.Rectangle.
func (b BoundingBox) Rect() image.Rectangle {
	return image.Rect(b.X1, b.Y1, b.X2+1, b.Y2+1)
}

func (b BoundingBox) Center() image.Point {
	return image.Pt((b.X1+b.X2+1)/2, (b.Y1+b.Y2+1)/2)
}

// Mask is a boolean grid with origin (0,0), sized to the template it was
// detected in.
type Mask struct {
	W, H  int
	bits  []bool
	count int
}

func NewMask(w, h int) *Mask {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Mask{W: w, H: h, bits: make([]bool, w*h)}
}

func (m *Mask) At(x, y int) bool {
	if m == nil || x < 0 || y < 0 || x >= m.W || y >= m.H {
		return false
	}
	return m.bits[y*m.W+x]
}

func (m *Mask) Set(x, y int, v bool) {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return
	}
	i := y*m.W + x
	if m.bits[i] == v {
		return
	}
	m.bits[i] = v
	if v {
		m.count++
	} else {
		m.count--
	}
}

// SetRect marks every cell of r, clipped to the mask.
func (m *Mask) SetRect(r image.Rectangle) {
	r = r.Intersect(image.Rect(0, 0, m.W, m.H))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			m.Set(x, y, true)
		}
	}
}

func (m *Mask) Count() int {
	if m == nil {
		return 0
	}
	return m.count
}

// Bounds returns the tight bounding box of the true cells regardless of any
// presence threshold.
func (m *Mask) Bounds() (BoundingBox, bool) {
	if m.Count() == 0 {
		return BoundingBox{}, false
	}
	box := BoundingBox{X1: m.W, Y1: m.H, X2: -1, Y2: -1}
	for y := 0; y < m.H; y++ {
		row := m.bits[y*m.W : (y+1)*m.W]
		for x, v := range row {
			if !v {
				continue
			}
			box.X1 = min(box.X1, x)
			box.X2 = max(box.X2, x)
			box.Y1 = min(box.Y1, y)
			box.Y2 = max(box.Y2, y)
		}
	}
	return box, true
}

func (m *Mask) Clone() *Mask {
	out := &Mask{W: m.W, H: m.H, bits: make([]bool, len(m.bits)), count: m.count}
	copy(out.bits, m.bits)
	return out
}

// Dilate applies a square max filter of side 2*radius+1.
func (m *Mask) Dilate(radius int) *Mask {
	if radius <= 0 || m.Count() == 0 {
		return m.Clone()
	}
	w, h := m.W, m.H

	horiz := make([]bool, w*h)
	prefix := make([]int, w+1)
	for y := 0; y < h; y++ {
		row := m.bits[y*w : (y+1)*w]
		for x, v := range row {
			prefix[x+1] = prefix[x]
			if v {
				prefix[x+1]++
			}
		}
		for x := 0; x < w; x++ {
			lo := max(0, x-radius)
			hi := min(w, x+radius+1)
			horiz[y*w+x] = prefix[hi]-prefix[lo] > 0
		}
	}

	out := NewMask(w, h)
	col := make([]int, h+1)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			col[y+1] = col[y]
			if horiz[y*w+x] {
				col[y+1]++
			}
		}
		for y := 0; y < h; y++ {
			lo := max(0, y-radius)
			hi := min(h, y+radius+1)
			if col[hi]-col[lo] > 0 {
				out.Set(x, y, true)
			}
		}
	}
	return out
}

// Minus returns the cells set in m but not in other.
func (m *Mask) Minus(other *Mask) *Mask {
	out := NewMask(m.W, m.H)
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			if m.bits[y*m.W+x] && !other.At(x, y) {
				out.Set(x, y, true)
			}
		}
	}
	return out
}

// Alpha renders the mask as an 8-bit stencil, 255 where true.
func (m *Mask) Alpha() *image.Alpha {
	a := image.NewAlpha(image.Rect(0, 0, m.W, m.H))
	for i, v := range m.bits {
		if v {
			a.Pix[i] = 255
		}
	}
	return a
}

// Each calls fn for every true cell in row-major order.
func (m *Mask) Each(fn func(x, y int)) {
	for y := 0; y < m.H; y++ {
		row := m.bits[y*m.W : (y+1)*m.W]
		for x, v := range row {
			if v {
				fn(x, y)
			}
		}
	}
}
