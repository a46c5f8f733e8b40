package planet

import(
	"errors"
	"fmt"
	"image"
	"image/draw"
	"os"

	"github.com/disintegration/imaging"
	log "github.com/sirupsen/logrus"

	"github.com/obsarchive/planetthumb/pkg/pgrid"
)

// ErrFrameCount is returned when the input list is not exactly 1 or 3
// files.
var ErrFrameCount = errors.New("planet thumbnail needs exactly 1 or 3 input frames")

// ToJPG builds a thumbnail JPEG from one FITS file (grayscale) or
// three (RGB, input order = channel order). Requested sizes of
// 600x600 or less zoom in on the located planet; larger requests keep
// the whole frame. The output fits within width x height with aspect
// preserved, and is never upscaled.
func ToJPG(filenames []string, outputPath string, height, width int) error {
	zoom := height <= ZoomMax && width <= ZoomMax

	var img image.Image
	switch len(filenames) {

	case 3:
		frames := make([]*pgrid.Grid, 0, 3)
		for _, filename := range filenames {
			g, err := LoadPlanetFrame(filename, true)
			if err != nil {
				return err
			}
			if zoom {
				g = FindPlanet(g)
			}
			frames = append(frames, g)
		}

		var err error
		if img, err = stackRGB(frames); err != nil {
			return err
		}

	case 1:
		g, err := LoadPlanetFrame(filenames[0], false)
		if err != nil {
			return err
		}
		if zoom {
			g = FindPlanet(g)
		}
		img = grayImage(g)

	default:
		return fmt.Errorf("%w: got %d", ErrFrameCount, len(filenames))
	}

	var thumb image.Image = imaging.Fit(img, width, height, imaging.Lanczos)
	if len(filenames) == 1 {
		thumb = toGray(thumb) // keep mono output single channel
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create '%s': %w", outputPath, err)
	}
	defer out.Close()

	if err := imaging.Encode(out, thumb, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return fmt.Errorf("encode '%s': %w", outputPath, err)
	}

	log.WithFields(log.Fields{
		"output": outputPath,
		"size":   fmt.Sprintf("%dx%d", thumb.Bounds().Dx(), thumb.Bounds().Dy()),
		"inputs": len(filenames),
		"zoom":   zoom,
	}).Info("wrote planet thumbnail")

	return nil
}

// toGray collapses a resampled image back to 8-bit grayscale; the
// resizer always hands back RGBA.
func toGray(img image.Image) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(b)
	draw.Draw(out, b, img, b.Min, draw.Src)
	return out
}
