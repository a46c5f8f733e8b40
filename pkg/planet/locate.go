package planet

import(
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/obsarchive/planetthumb/pkg/pgrid"
)

// FindPlanet crops the frame to the window around its brightest
// region. The frame is rebinned 3x so single hot pixels don't win,
// the brightest block picked (first in row-major order on ties), and
// a window of +/-300 full resolution pixels cut around it. The window
// is clamped to the frame bounds, so near an edge the result comes
// out smaller than 600x600. Both frame dimensions must be at least
// the binning factor.
func FindPlanet(g *pgrid.Grid) *pgrid.Grid {
	return g.Crop(planetWindow(g))
}

// planetWindow returns the crop rectangle, unclamped.
func planetWindow(g *pgrid.Grid) image.Rectangle {
	x, y := g.Rebin(Binning).ArgMax()
	cx, cy := Binning*x, Binning*y
	return image.Rect(cx-CropRadius, cy-CropRadius, cx+CropRadius, cy+CropRadius)
}

// WriteLocatorImage renders the frame as gamma-corrected grayscale
// with the detected window and its center drawn over it. Debug aid
// for thumbnails that come out centered on a satellite trail or a
// cosmic ray hit instead of the planet.
func WriteLocatorImage(g *pgrid.Grid, filename string) error {
	w := planetWindow(g)
	center := image.Point{(w.Min.X + w.Max.X) / 2, (w.Min.Y + w.Max.Y) / 2}

	max := g.Max()
	if max <= 0 { max = 1.0 }

	img := image.NewGray(image.Rect(0, 0, g.Dx(), g.Dy()))
	for y:=0; y<g.Dy(); y++ {
		for x:=0; x<g.Dx(); x++ {
			gray := pgrid.GammaExpand(g.Get(x,y) / max)
			img.SetGray(x, y, color.Gray{Y: uint8(gray * 255.0)})
		}
	}

	w = w.Intersect(g.Bounds())
	dc := gg.NewContextForImage(img)
	dc.SetRGB(1, 0, 0)
	dc.SetLineWidth(2)
	dc.DrawRectangle(float64(w.Min.X), float64(w.Min.Y), float64(w.Dx()), float64(w.Dy()))
	dc.Stroke()
	dc.DrawLine(float64(center.X-8), float64(center.Y), float64(center.X+8), float64(center.Y))
	dc.DrawLine(float64(center.X), float64(center.Y-8), float64(center.X), float64(center.Y+8))
	dc.Stroke()

	return dc.SavePNG(filename)
}
