package face

// Drawing primitives on the 8x8 frame. Coordinates outside the canvas
// are clipped silently, matching the forgiving behaviour of a canvas
// library; only the pixel command range-checks explicitly.

// Set lights or clears one pixel, ignoring out-of-range coordinates.
func (f *Frame) Set(x, y int, on bool) {
	if x < 0 || x > 7 || y < 0 || y > 7 {
		return
	}
	if on {
		f[y][x] = 1
	} else {
		f[y][x] = 0
	}
}

// At returns the pixel value, 0 for out-of-range coordinates.
func (f *Frame) At(x, y int) uint8 {
	if x < 0 || x > 7 || y < 0 || y > 7 {
		return 0
	}
	return f[y][x]
}

// Clear turns every pixel off.
func (f *Frame) Clear() {
	*f = Frame{}
}

// Invert flips every pixel.
func (f *Frame) Invert() {
	for y := range f {
		for x := range f[y] {
			f[y][x] ^= 1
		}
	}
}

// Line draws a line between two points using Bresenham's algorithm.
func (f *Frame) Line(x1, y1, x2, y2 int) {
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx + dy
	for {
		f.Set(x1, y1, true)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x1 += sx
		}
		if e2 <= dx {
			err += dx
			y1 += sy
		}
	}
}

// Rect draws a rectangle between two corners, filled or outlined.
func (f *Frame) Rect(x1, y1, x2, y2 int, fill bool) {
	x1, x2 = ordered(x1, x2)
	y1, y2 = ordered(y1, y2)
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			if fill || x == x1 || x == x2 || y == y1 || y == y2 {
				f.Set(x, y, true)
			}
		}
	}
}

// Ellipse draws an ellipse inscribed in the bounding box, filled or
// outlined.
func (f *Frame) Ellipse(x1, y1, x2, y2 int, fill bool) {
	x1, x2 = ordered(x1, x2)
	y1, y2 = ordered(y1, y2)
	cx := float64(x1+x2) / 2
	cy := float64(y1+y2) / 2
	rx := float64(x2-x1) / 2
	ry := float64(y2-y1) / 2
	if rx == 0 || ry == 0 {
		f.Line(x1, y1, x2, y2)
		return
	}
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			dx := (float64(x) - cx) / rx
			dy := (float64(y) - cy) / ry
			d := dx*dx + dy*dy
			if fill {
				if d <= 1.0 {
					f.Set(x, y, true)
				}
				continue
			}
			// Outline: inside the ellipse but with at least one
			// 4-neighbour outside it.
			if d > 1.0 {
				continue
			}
			edge := false
			for _, n := range [4][2]int{{x - 1, y}, {x + 1, y}, {x, y - 1}, {x, y + 1}} {
				ndx := (float64(n[0]) - cx) / rx
				ndy := (float64(n[1]) - cy) / ry
				if ndx*ndx+ndy*ndy > 1.0 {
					edge = true
					break
				}
			}
			if edge {
				f.Set(x, y, true)
			}
		}
	}
}

// glyphs is a 3x5 pixel font, one byte per row, bit 2 leftmost.
var glyphs = map[rune][5]uint8{
	'0': {0b111, 0b101, 0b101, 0b101, 0b111},
	'1': {0b010, 0b110, 0b010, 0b010, 0b111},
	'2': {0b111, 0b001, 0b111, 0b100, 0b111},
	'3': {0b111, 0b001, 0b011, 0b001, 0b111},
	'4': {0b101, 0b101, 0b111, 0b001, 0b001},
	'5': {0b111, 0b100, 0b111, 0b001, 0b111},
	'6': {0b111, 0b100, 0b111, 0b101, 0b111},
	'7': {0b111, 0b001, 0b010, 0b010, 0b010},
	'8': {0b111, 0b101, 0b111, 0b101, 0b111},
	'9': {0b111, 0b101, 0b111, 0b001, 0b111},
	'A': {0b010, 0b101, 0b111, 0b101, 0b101},
	'B': {0b110, 0b101, 0b110, 0b101, 0b110},
	'C': {0b011, 0b100, 0b100, 0b100, 0b011},
	'D': {0b110, 0b101, 0b101, 0b101, 0b110},
	'E': {0b111, 0b100, 0b110, 0b100, 0b111},
	'F': {0b111, 0b100, 0b110, 0b100, 0b100},
	'G': {0b011, 0b100, 0b101, 0b101, 0b011},
	'H': {0b101, 0b101, 0b111, 0b101, 0b101},
	'I': {0b111, 0b010, 0b010, 0b010, 0b111},
	'J': {0b001, 0b001, 0b001, 0b101, 0b010},
	'K': {0b101, 0b110, 0b100, 0b110, 0b101},
	'L': {0b100, 0b100, 0b100, 0b100, 0b111},
	'M': {0b101, 0b111, 0b111, 0b101, 0b101},
	'N': {0b101, 0b111, 0b111, 0b111, 0b101},
	'O': {0b010, 0b101, 0b101, 0b101, 0b010},
	'P': {0b110, 0b101, 0b110, 0b100, 0b100},
	'Q': {0b010, 0b101, 0b101, 0b110, 0b011},
	'R': {0b110, 0b101, 0b110, 0b110, 0b101},
	'S': {0b011, 0b100, 0b010, 0b001, 0b110},
	'T': {0b111, 0b010, 0b010, 0b010, 0b010},
	'U': {0b101, 0b101, 0b101, 0b101, 0b111},
	'V': {0b101, 0b101, 0b101, 0b101, 0b010},
	'W': {0b101, 0b101, 0b111, 0b111, 0b101},
	'X': {0b101, 0b101, 0b010, 0b101, 0b101},
	'Y': {0b101, 0b101, 0b010, 0b010, 0b010},
	'Z': {0b111, 0b001, 0b010, 0b100, 0b111},
}

// Glyph draws one character at (x, y) in the built-in 3x5 font.
// Lowercase maps to uppercase; unknown characters draw nothing.
func (f *Frame) Glyph(x, y int, ch rune) {
	if ch >= 'a' && ch <= 'z' {
		ch -= 'a' - 'A'
	}
	rows, ok := glyphs[ch]
	if !ok {
		return
	}
	for dy, row := range rows {
		for dx := 0; dx < 3; dx++ {
			if row&(1<<(2-dx)) != 0 {
				f.Set(x+dx, y+dy, true)
			}
		}
	}
}

// parseGrid converts a decoded JSON grid into a Frame. Any non-zero
// number lights the pixel.
func parseGrid(grid []any) (Frame, error) {
	var f Frame
	if len(grid) != 8 {
		return f, ErrBadGrid
	}
	for y, rowAny := range grid {
		row, ok := rowAny.([]any)
		if !ok || len(row) != 8 {
			return f, ErrBadGrid
		}
		for x, v := range row {
			switch n := v.(type) {
			case float64:
				if n != 0 {
					f[y][x] = 1
				}
			case bool:
				if n {
					f[y][x] = 1
				}
			default:
				return f, ErrBadGrid
			}
		}
	}
	return f, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func ordered(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}
