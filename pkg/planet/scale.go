package planet

import(
	"fmt"
	"math"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/skypies/util/histogram"

	"github.com/obsarchive/planetthumb/pkg/fits"
	"github.com/obsarchive/planetthumb/pkg/pgrid"
)

// ScaleFactors returns the brightness multipliers for a target body
// and filter. Target names match any case. The filter comparisons are
// asymmetric on purpose: "h-alpha" matches any case, "V" and "B" match
// exact case only.
func ScaleFactors(object, filter string, colour bool) (planet, n float64) {
	n = 1.0
	if colour && (strings.ToLower(filter) == "h-alpha" || filter == "V") {
		n = 1.1
	}

	switch strings.ToLower(object) {
	case "saturn":
		planet = 5.0
	case "jupiter":
		planet = 1.4
	case "mars":
		planet = 5.0
	case "uranus":
		planet = 0.5
		n = 1.0
		if filter == "B" {
			n = 1.5
		}
	default:
		planet = 1.0
	}

	return planet, n
}

// SuppressBackground zeroes counts strictly below cutoff, in place,
// removing the scattered light glow. Idempotent.
func SuppressBackground(g *pgrid.Grid, cutoff float64) {
	vals := g.Values()
	for i, v := range vals {
		if v < cutoff {
			vals[i] = 0
		}
	}
}

// ScaleFrame converts raw counts to display intensities in place: a
// square root to compress dynamic range, the target/filter gain, then
// a linear rescale so the maximum lands on exactly 255 whenever it
// would overshoot 8 bits.
func ScaleFrame(g *pgrid.Grid, object, filter string, colour bool) {
	vals := g.Values()
	if len(vals) == 0 {
		return
	}

	planet, n := ScaleFactors(object, filter, colour)
	for i, v := range vals {
		vals[i] = math.Sqrt(v)
	}
	g.Scale(planet * n)

	if max := g.Max(); max > 255 {
		for i := range vals {
			vals[i] = vals[i] / max * 255
		}
	}
}

// LoadPlanetFrame reads the science extension of a FITS file and
// returns its display-scaled grid. colour selects the extra gain some
// filters get in three-channel stacks.
func LoadPlanetFrame(filename string, colour bool) (*pgrid.Grid, error) {
	f, err := fits.Open(filename)
	if err != nil {
		return nil, err
	}

	sci, err := f.Unit(sciExtName)
	if err != nil {
		return nil, fmt.Errorf("'%s': %w", filename, err)
	}
	if sci.Data == nil {
		return nil, fmt.Errorf("'%s': science HDU has no 2D data", filename)
	}

	filter, ok := sci.Header.Get("FILTER")
	if !ok {
		return nil, fmt.Errorf("'%s': missing FILTER card", filename)
	}
	object, ok := sci.Header.Get("OBJECT")
	if !ok {
		return nil, fmt.Errorf("'%s': missing OBJECT card", filename)
	}

	g := sci.Data
	SuppressBackground(g, BackgroundCutoff)
	ScaleFrame(g, object, filter, colour)

	if log.IsLevelEnabled(log.DebugLevel) {
		log.WithFields(log.Fields{
			"file":   filename,
			"object": object,
			"filter": filter,
			"colour": colour,
			"grid":   g.Stats(),
			"hist":   displayHistogram(g),
		}).Debug("scaled planet frame")
	}

	return g, nil
}

// displayHistogram summarizes the distribution of nonzero display
// values, for debug logs.
func displayHistogram(g *pgrid.Grid) string {
	h := histogram.Histogram{NumBuckets: 16, ValMin: 0, ValMax: 256}
	for _, v := range g.Values() {
		if v > 0 {
			h.Add(histogram.ScalarVal(int(v)))
		}
	}
	return fmt.Sprintf("%v", h)
}
