package planet

import(
	"fmt"
	"image"
	"image/color"

	"github.com/obsarchive/planetthumb/pkg/pgrid"
)

// stackRGB composites three scaled frames into an RGB image, one frame
// per channel in argument order. The frames must share dimensions;
// edge clamping can trim channels unevenly when the per-channel peaks
// disagree, and that surfaces here as an error.
func stackRGB(frames []*pgrid.Grid) (image.Image, error) {
	r, g, b := frames[0], frames[1], frames[2]
	if r.Dx() != g.Dx() || r.Dy() != g.Dy() || r.Dx() != b.Dx() || r.Dy() != b.Dy() {
		return nil, fmt.Errorf("channel frames differ in size: %dx%d, %dx%d, %dx%d",
			r.Dx(), r.Dy(), g.Dx(), g.Dy(), b.Dx(), b.Dy())
	}

	img := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: display8(r.Get(x, y)),
				G: display8(g.Get(x, y)),
				B: display8(b.Get(x, y)),
				A: 0xff,
			})
		}
	}

	return img, nil
}

// grayImage renders a single scaled frame as 8-bit grayscale.
func grayImage(g *pgrid.Grid) image.Image {
	img := image.NewGray(image.Rect(0, 0, g.Dx(), g.Dy()))
	for y := 0; y < g.Dy(); y++ {
		for x := 0; x < g.Dx(); x++ {
			img.SetGray(x, y, color.Gray{Y: display8(g.Get(x, y))})
		}
	}
	return img
}

// display8 truncates a display intensity to its 8-bit pixel value.
// Scaled frames are already within [0,255].
func display8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
