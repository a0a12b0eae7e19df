package viz

import (
	"math"
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBase = 0x2800

// DotBit returns the bit for sub-pixel (dx, dy) within one braille cell.
func DotBit(dx, dy int) int {
	return pixelMap[dy][dx]
}

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBase
		}
	}
	return c
}

// Set sets a pixel at (x, y) where x,y are in "sub-pixel" coordinates.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// Dots returns the dot pattern of the cell at (col, row), 0 when empty or
// out of range.
func (c *Canvas) Dots(col, row int) int {
	if col < 0 || row < 0 || col >= c.Width || row >= c.Height {
		return 0
	}
	return int(c.Grid[row][col] - brailleBase)
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBase
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
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
		c.Set(x0, y0)
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

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Viewport maps world metres onto canvas sub-pixels with one scale for both
// axes. World y grows upward; canvas y grows downward.
type Viewport struct {
	cx, cy float64
	scale  float64
	w, h   int
}

// FitViewport centres the given points on the canvas, leaving a margin.
func FitViewport(c *Canvas, xs, ys []float64) Viewport {
	w, h := c.Width*2, c.Height*4
	v := Viewport{w: w, h: h, scale: 1}
	if len(xs) == 0 {
		return v
	}

	minX, maxX := xs[0], xs[0]
	minY, maxY := ys[0], ys[0]
	for i := range xs {
		minX, maxX = math.Min(minX, xs[i]), math.Max(maxX, xs[i])
		minY, maxY = math.Min(minY, ys[i]), math.Max(maxY, ys[i])
	}

	spanX := math.Max(maxX-minX, 0.5)
	spanY := math.Max(maxY-minY, 0.5)
	v.cx, v.cy = (minX+maxX)/2, (minY+maxY)/2
	v.scale = 0.8 * math.Min(float64(w)/spanX, float64(h)/spanY)
	return v
}

// Project returns the sub-pixel position of world point (x, y).
func (v Viewport) Project(x, y float64) (int, int) {
	px := float64(v.w)/2 + (x-v.cx)*v.scale
	py := float64(v.h)/2 - (y-v.cy)*v.scale
	return int(math.Round(px)), int(math.Round(py))
}

// DrawPath connects successive world points.
func (c *Canvas) DrawPath(v Viewport, xs, ys []float64) {
	for i := 1; i < len(xs); i++ {
		x0, y0 := v.Project(xs[i-1], ys[i-1])
		x1, y1 := v.Project(xs[i], ys[i])
		c.DrawLine(x0, y0, x1, y1)
	}
}

// DrawArrow draws a heading arrow of the given sub-pixel length at a world
// pose.
func (c *Canvas) DrawArrow(v Viewport, x, y, theta float64, length int) {
	px, py := v.Project(x, y)
	l := float64(length)
	tipX := px + int(math.Round(l*math.Cos(theta)))
	tipY := py - int(math.Round(l*math.Sin(theta)))
	c.DrawLine(px, py, tipX, tipY)

	for _, side := range []float64{-1, 1} {
		back := theta + math.Pi - side*math.Pi/6
		wx := tipX + int(math.Round(l/2*math.Cos(back)))
		wy := tipY - int(math.Round(l/2*math.Sin(back)))
		c.DrawLine(tipX, tipY, wx, wy)
	}
}

// DrawCross marks a world point with an X of the given sub-pixel radius.
func (c *Canvas) DrawCross(v Viewport, x, y float64, r int) {
	px, py := v.Project(x, y)
	c.DrawLine(px-r, py-r, px+r, py+r)
	c.DrawLine(px-r, py+r, px+r, py-r)
}
