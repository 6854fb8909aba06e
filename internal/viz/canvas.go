package viz

import (
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
const brailleBase = 0x2800

var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille pixel grid of Width×Height cells, each holding 2×4
// sub-pixels. A parallel Tint grid records which style each cell is drawn in.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Tint          [][]uint8
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Tint:   make([][]uint8, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Tint[i] = make([]uint8, w)
	}
	c.Clear()
	return c
}

// PixelSize is the canvas size in sub-pixels.
func (c *Canvas) PixelSize() (w, h int) {
	return c.Width * 2, c.Height * 4
}

func (c *Canvas) cell(x, y int) (row, col int, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	col, row = x/2, y/4
	if col >= c.Width || row >= c.Height {
		return 0, 0, false
	}
	return row, col, true
}

// Set lights the sub-pixel (x, y). A cell keeps the highest tint drawn into it.
func (c *Canvas) Set(x, y int, tint uint8) {
	row, col, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] |= pixelMap[y%4][x%2]
	if tint > c.Tint[row][col] {
		c.Tint[row][col] = tint
	}
}

// Unset clears a pixel
func (c *Canvas) Unset(x, y int) {
	row, col, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] &^= pixelMap[y%4][x%2]
}

// Get reports whether the sub-pixel is lit.
func (c *Canvas) Get(x, y int) bool {
	row, col, ok := c.cell(x, y)
	if !ok {
		return false
	}
	return c.Grid[row][col]&pixelMap[y%4][x%2] != 0
}

// Lit counts lit sub-pixels.
func (c *Canvas) Lit() int {
	n := 0
	for _, row := range c.Grid {
		for _, r := range row {
			for bits := r - brailleBase; bits != 0; bits &= bits - 1 {
				n++
			}
		}
	}
	return n
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBase
			c.Tint[i][j] = 0
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, tint uint8) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0, tint)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// String renders the grid without styling.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render styles every cell by its tint.
func (c *Canvas) Render(style func(tint uint8, s string) string) string {
	var b strings.Builder
	for i, row := range c.Grid {
		start := 0
		for j := 1; j <= len(row); j++ {
			// group runs of equal tint to keep the escape sequences short
			if j < len(row) && c.Tint[i][j] == c.Tint[i][start] {
				continue
			}
			b.WriteString(style(c.Tint[i][start], string(row[start:j])))
			start = j
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Viewport maps world coordinates onto canvas sub-pixels, preserving the
// aspect ratio of the world rectangle.
type Viewport struct {
	Width, Height float64 // world size
	scale         float64
	offX, offY    float64
}

// NewViewport fits the world rectangle into c. A braille cell is about twice
// as tall as wide and holds 2×4 dots, so one scale serves both axes.
func NewViewport(worldW, worldH float64, c *Canvas) Viewport {
	pw, ph := c.PixelSize()
	v := Viewport{Width: worldW, Height: worldH}
	if worldW <= 0 || worldH <= 0 {
		return v
	}
	v.scale = min(float64(pw)/worldW, float64(ph)/worldH)
	v.offX = (float64(pw) - worldW*v.scale) / 2
	v.offY = (float64(ph) - worldH*v.scale) / 2
	return v
}

// ToPixel maps a world point to a sub-pixel.
func (v Viewport) ToPixel(x, y float64) (int, int) {
	return int(v.offX + x*v.scale), int(v.offY + y*v.scale)
}

// ToWorld maps a sub-pixel back to world coordinates.
func (v Viewport) ToWorld(px, py float64) (float64, float64) {
	if v.scale == 0 {
		return 0, 0
	}
	return (px - v.offX) / v.scale, (py - v.offY) / v.scale
}

// CellToWorld maps the centre of terminal cell (col, row) to world coordinates.
func (v Viewport) CellToWorld(col, row int) (float64, float64) {
	return v.ToWorld(float64(col)*2+1, float64(row)*4+2)
}

// Scale is the number of sub-pixels per world unit.
func (v Viewport) Scale() float64 { return v.scale }
