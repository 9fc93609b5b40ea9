package board

import "math"

// ringPoint returns the i-th of n points evenly spaced on an ellipse.
func ringPoint(cx, cy, rx, ry, i, n int) (int, int) {
	a := 2 * math.Pi * float64(i) / float64(n)
	x := cx + int(math.Round(float64(rx)*math.Cos(a)))
	y := cy + int(math.Round(float64(ry)*math.Sin(a)))
	return x, y
}
