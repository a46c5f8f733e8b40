package pgrid

import(
	"fmt"
	"image"
	"math"

	"gonum.org/v1/gonum/floats"
)

// A Grid is a rectangular block of float64 samples, stored row-major.
// It holds raw detector counts when first loaded from a science frame,
// and display intensities once scaled.
type Grid struct {
	stride int
	values []float64
}

func New(w, h int) *Grid {
	return &Grid{
		stride: w,
		values: make([]float64, w*h),
	}
}

func (g *Grid)Set(x, y int, v float64) { g.values[g.stride*y + x] = v }
func (g *Grid)Get(x, y int) float64    { return g.values[g.stride*y + x] }
func (g *Grid)Dx() int                 { return g.stride }
func (g *Grid)Bounds() image.Rectangle { return image.Rect(0, 0, g.Dx(), g.Dy()) }

func (g *Grid)Dy() int {
	if g.stride == 0 {
		return 0
	}
	return len(g.values) / g.stride
}

// Values exposes the row-major backing slice, shared not copied.
func (g *Grid)Values() []float64 { return g.values }

func (g *Grid)Copy() *Grid {
	g2 := Grid{stride: g.stride, values: make([]float64, len(g.values))}
	copy(g2.values, g.values)
	return &g2
}

// Rebin returns a grid reduced by the given binning factor, each cell
// holding the mean of its binning x binning block of samples. Rows and
// columns beyond the last full block are dropped.
func (g *Grid)Rebin(binning int) *Grid {
	width := g.Dx() / binning
	height := g.Dy() / binning
	g2 := New(width, height)

	for y:=0; y<height; y++ {
		for x:=0; x<width; x++ {
			sum := 0.0
			for j:=0; j<binning; j++ {
				for i:=0; i<binning; i++ {
					sum += g.Get(binning*x+i, binning*y+j)
				}
			}
			g2.Set(x, y, sum / float64(binning*binning))
		}
	}

	return g2
}

// ArgMax returns the position of the largest sample. Ties go to the
// first occurrence in row-major order (top row first, left to right).
func (g *Grid)ArgMax() (int, int) {
	i := floats.MaxIdx(g.values)
	return i % g.stride, i / g.stride
}

func (g *Grid)Max() float64 { return floats.Max(g.values) }

// Scale multiplies every sample by k, in place.
func (g *Grid)Scale(k float64) { floats.Scale(k, g.values) }

// Crop copies out the samples inside r, clamped to the grid bounds.
// The result is smaller than r when r overhangs an edge.
func (g *Grid)Crop(r image.Rectangle) *Grid {
	r = r.Intersect(g.Bounds())
	g2 := New(r.Dx(), r.Dy())

	for y:=r.Min.Y; y<r.Max.Y; y++ {
		for x:=r.Min.X; x<r.Max.X; x++ {
			g2.Set(x-r.Min.X, y-r.Min.Y, g.Get(x, y))
		}
	}

	return g2
}

func (g *Grid)Stats() string {
	min := math.MaxFloat64
	max := -1.0 * min

	for i:=0; i<len(g.values); i++ {
		if g.values[i] > max { max = g.values[i] }
		if g.values[i] < min { min = g.values[i] }
	}
	return fmt.Sprintf("grid[%dx%d, vals{%f,%f}]", g.Dx(), g.Dy(), min, max)
}
