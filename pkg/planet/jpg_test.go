package planet

import (
	"errors"
	"image"
	"image/color"
	_ "image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/obsarchive/planetthumb/pkg/fits"
	"github.com/obsarchive/planetthumb/pkg/pgrid"
)

// writeSciFixture writes a single-extension FITS file holding a dim
// frame with a bright 11x11 disc centered on (cx,cy).
func writeSciFixture(t *testing.T, path, object, filter string, w, h, cx, cy int) {
	t.Helper()

	g := pgrid.New(w, h)
	for y := cy - 5; y <= cy+5; y++ {
		for x := cx - 5; x <= cx+5; x++ {
			g.Set(x, y, 30000)
		}
	}
	g.Set(cx, cy, 40000)

	u := fits.Unit{
		Name:   "sci",
		Header: fits.Header{"FILTER": filter, "OBJECT": object},
		Data:   g,
	}
	if err := fits.WriteFile(path, u); err != nil {
		t.Fatalf("write fixture %s: %v", path, err)
	}
}

func decodeConfig(t *testing.T, path string) (image.Config, string) {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return cfg, format
}

func TestToJPGColorZoom(t *testing.T) {
	dir := t.TempDir()

	var paths []string
	for _, filter := range []string{"rp", "V", "B"} {
		p := filepath.Join(dir, filter+".fits")
		writeSciFixture(t, p, "Jupiter", filter, 900, 900, 450, 450)
		paths = append(paths, p)
	}

	out := filepath.Join(dir, "thumb.jpg")
	if err := ToJPG(paths, out, 300, 300); err != nil {
		t.Fatalf("ToJPG: %v", err)
	}

	cfg, format := decodeConfig(t, out)
	if format != "jpeg" {
		t.Errorf("format = %q, want jpeg", format)
	}
	// The 600x600 zoom crop scales down to exactly the requested size.
	if cfg.Width != 300 || cfg.Height != 300 {
		t.Errorf("thumbnail is %dx%d, want 300x300", cfg.Width, cfg.Height)
	}
	if cfg.ColorModel != color.YCbCrModel {
		t.Errorf("three inputs should produce a color JPEG")
	}
}

func TestToJPGMonoFullFrame(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "mars.fits")
	writeSciFixture(t, p, "Mars", "R", 800, 600, 400, 300)

	out := filepath.Join(dir, "thumb.jpg")
	if err := ToJPG([]string{p}, out, 1000, 1000); err != nil {
		t.Fatalf("ToJPG: %v", err)
	}

	cfg, format := decodeConfig(t, out)
	if format != "jpeg" {
		t.Errorf("format = %q, want jpeg", format)
	}
	// Over the zoom threshold, so the whole 800x600 frame is kept, and
	// it is never upscaled to the requested 1000x1000.
	if cfg.Width != 800 || cfg.Height != 600 {
		t.Errorf("thumbnail is %dx%d, want 800x600", cfg.Width, cfg.Height)
	}
	if cfg.ColorModel != color.GrayModel {
		t.Errorf("one input should produce a grayscale JPEG")
	}
}

func TestToJPGRectangularRequest(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "mars.fits")
	writeSciFixture(t, p, "Mars", "R", 800, 400, 400, 200)

	out := filepath.Join(dir, "thumb.jpg")
	if err := ToJPG([]string{p}, out, 300, 1000); err != nil {
		t.Fatalf("ToJPG: %v", err)
	}

	cfg, _ := decodeConfig(t, out)
	// The 2:1 frame scales down until the height limit of 300 binds,
	// leaving the width at 600, well under its own limit of 1000. A
	// swapped width/height would come out 300x150 instead.
	if cfg.Width != 600 || cfg.Height != 300 {
		t.Errorf("thumbnail is %dx%d, want 600x300", cfg.Width, cfg.Height)
	}
}

func TestToJPGRejectsBadCounts(t *testing.T) {
	out := filepath.Join(t.TempDir(), "thumb.jpg")
	for _, n := range []int{0, 2, 4} {
		filenames := make([]string, n)
		for i := range filenames {
			filenames[i] = "frame.fits"
		}
		err := ToJPG(filenames, out, 300, 300)
		if !errors.Is(err, ErrFrameCount) {
			t.Errorf("%d inputs: err = %v, want ErrFrameCount", n, err)
		}
	}
}

func TestStackRGBSizeMismatch(t *testing.T) {
	frames := []*pgrid.Grid{pgrid.New(4, 4), pgrid.New(4, 4), pgrid.New(5, 4)}
	if _, err := stackRGB(frames); err == nil {
		t.Errorf("mismatched channel sizes should be rejected")
	}
}

func TestStackRGBChannelOrder(t *testing.T) {
	r, g, b := pgrid.New(2, 1), pgrid.New(2, 1), pgrid.New(2, 1)
	r.Set(0, 0, 255)
	g.Set(1, 0, 100)
	b.Set(0, 0, 50)

	img, err := stackRGB([]*pgrid.Grid{r, g, b})
	if err != nil {
		t.Fatalf("stackRGB: %v", err)
	}

	if got, want := img.At(0, 0), (color.RGBA{255, 0, 50, 255}); got != want {
		t.Errorf("pixel (0,0) = %v, want %v", got, want)
	}
	if got, want := img.At(1, 0), (color.RGBA{0, 100, 0, 255}); got != want {
		t.Errorf("pixel (1,0) = %v, want %v", got, want)
	}
}

func TestDisplay8Truncates(t *testing.T) {
	tests := []struct {
		in   float64
		want uint8
	}{
		{254.7, 254},
		{255, 255},
		{256.2, 255},
		{-3, 0},
		{0.9, 0},
	}
	for _, tt := range tests {
		if got := display8(tt.in); got != tt.want {
			t.Errorf("display8(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
