// Package planet turns raw planetary science frames into display
// thumbnails: locate the target in the frame, scale raw counts to
// display brightness per target body and filter, composite color
// stacks, resize, and write JPEGs.
package planet

const (
	// Binning is the downsample factor applied before peak search.
	Binning = 3

	// CropRadius is the half-size, in full resolution pixels, of the
	// window cut around the located planet.
	CropRadius = 300

	// BackgroundCutoff is the raw count below which a pixel is treated
	// as scattered light glow and zeroed.
	BackgroundCutoff = 200.0

	// ZoomMax is the largest requested thumbnail edge that still zooms
	// in on the planet; anything bigger keeps the whole frame.
	ZoomMax = 600

	sciExtName  = "sci"
	jpegQuality = 75
)
