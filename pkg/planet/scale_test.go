package planet

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/obsarchive/planetthumb/pkg/fits"
	"github.com/obsarchive/planetthumb/pkg/pgrid"
)

func TestScaleFactors(t *testing.T) {
	tests := []struct {
		name       string
		object     string
		filter     string
		colour     bool
		wantPlanet float64
		wantN      float64
	}{
		{"jupiter R mono", "JUPITER", "R", false, 1.4, 1.0},
		{"uranus B colour", "uranus", "B", true, 0.5, 1.5},
		{"uranus B mono", "uranus", "B", false, 0.5, 1.5},
		{"uranus resets colour gain", "Uranus", "V", true, 0.5, 1.0},
		{"saturn", "Saturn", "R", false, 5.0, 1.0},
		{"mars", "MARS", "ip", true, 5.0, 1.0},
		{"h-alpha matches any case when colour", "jupiter", "H-Alpha", true, 1.4, 1.1},
		{"V matches exact case when colour", "neptune", "V", true, 1.0, 1.1},
		{"lowercase v does not match", "neptune", "v", true, 1.0, 1.0},
		{"V without colour", "neptune", "V", false, 1.0, 1.0},
		{"unknown target", "moon", "B", false, 1.0, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			planet, n := ScaleFactors(tt.object, tt.filter, tt.colour)
			if planet != tt.wantPlanet || n != tt.wantN {
				t.Errorf("ScaleFactors(%q, %q, %v) = (%v, %v), want (%v, %v)",
					tt.object, tt.filter, tt.colour, planet, n, tt.wantPlanet, tt.wantN)
			}
		})
	}
}

func TestSuppressBackgroundIdempotent(t *testing.T) {
	g := pgrid.New(4, 1)
	g.Set(0, 0, 199.9)
	g.Set(1, 0, 200)
	g.Set(2, 0, 0)
	g.Set(3, 0, 65535)

	want := []float64{0, 200, 0, 65535}
	SuppressBackground(g, BackgroundCutoff)
	for i, w := range want {
		if got := g.Values()[i]; got != w {
			t.Errorf("after one pass, sample %d = %v, want %v", i, got, w)
		}
	}

	SuppressBackground(g, BackgroundCutoff)
	for i, w := range want {
		if got := g.Values()[i]; got != w {
			t.Errorf("after two passes, sample %d = %v, want %v", i, got, w)
		}
	}
}

func TestScaleFrameMonotonic(t *testing.T) {
	g := pgrid.New(3, 1)
	g.Set(0, 0, 200)
	g.Set(1, 0, 5000)
	g.Set(2, 0, 60000)

	ScaleFrame(g, "jupiter", "R", false)

	v := g.Values()
	if !(v[0] <= v[1] && v[1] <= v[2]) {
		t.Errorf("scaled values not monotonic: %v", v)
	}
	if v[2] != 255 {
		t.Errorf("max sample = %v, want exactly 255 after rescale", v[2])
	}
}

func TestScaleFrameEmptyData(t *testing.T) {
	g := pgrid.New(0, 0)
	ScaleFrame(g, "jupiter", "R", false)
	if len(g.Values()) != 0 {
		t.Errorf("empty frame gained samples: %v", g.Values())
	}
}

func TestLoadPlanetFrameEmptyData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.fits")
	u := fits.Unit{
		Name:   "sci",
		Header: fits.Header{"FILTER": "R", "OBJECT": "Mars"},
		Data:   pgrid.New(0, 0),
	}
	if err := fits.WriteFile(path, u); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := LoadPlanetFrame(path, false); err == nil {
		t.Errorf("LoadPlanetFrame() accepted a 0x0 science frame, want error")
	}
}

func TestScaleFrameNormalization(t *testing.T) {
	// Max display value under 255: left as computed.
	g := pgrid.New(2, 1)
	g.Set(0, 0, 400)   // sqrt -> 20
	g.Set(1, 0, 10000) // sqrt -> 100
	ScaleFrame(g, "pluto", "R", false)
	if got := g.Values()[0]; got != 20 {
		t.Errorf("low sample = %v, want 20", got)
	}
	if got := g.Values()[1]; got != 100 {
		t.Errorf("max sample = %v, want 100", got)
	}

	// Max over 255: linear rescale pins the max to exactly 255.
	g = pgrid.New(2, 1)
	g.Set(0, 0, 400)
	g.Set(1, 0, 66049) // sqrt -> 257
	ScaleFrame(g, "pluto", "R", false)
	if got := g.Values()[1]; got != 255 {
		t.Errorf("max sample = %v, want exactly 255", got)
	}
	if got, want := g.Values()[0], 20.0/257.0*255.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("low sample = %v, want %v", got, want)
	}
}
