package pgrid

import(
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
)

// ToImg writes a grayscale PNG of the grid, normalized over the range
// of values present and gamma expanded so it looks normal to human
// vision. Debugging aid.
func (g *Grid)ToImg(title, filename string) error {
	min := math.MaxFloat64
	max := -1.0 * min

	for i:=0; i<len(g.values); i++ {
		if g.values[i] > max { max = g.values[i] }
		if g.values[i] < min { min = g.values[i] }
	}
	if max <= min { max = min + 1.0 } // flat grid, avoid div by zero

	img := image.NewRGBA64(image.Rectangle{Max:image.Point{g.Dx(), g.Dy()}})
	for x:=0; x<g.Dx(); x++ {
		for y:=0; y<g.Dy(); y++ {
			gray := GammaExpand((g.Get(x,y) - min) / (max - min))
			col := color.RGBA64{uint16(gray * 65535.0), uint16(gray * 65535.0), uint16(gray * 65535.0), 0xFFFF}
			img.Set(x, y, col)
		}
	}

	dc := gg.NewContextForImage(img)
	dc.SetRGB(1, 1, 1)
	dc.DrawString(title, 50, 50)
	return dc.SavePNG(filename)
}

// https://www.sjbrown.co.uk/posts/gamma-correct-rendering/ - "linear RGB to sRGB"
// The input is assumed to be in the range [0,1]
func GammaExpand(f float64) float64 {
	if f <= 0.0031308 {
		return 12.92 * f
	}
	return 1.055 * math.Pow(f, 1.0/2.4) - 0.055
}
