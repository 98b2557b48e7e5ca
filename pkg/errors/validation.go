package errors

import (
	"math"
	"strings"
	"unicode"
)

// MaxCells bounds width*height for mazes requested over the network.
// The CLI does not apply it.
const MaxCells = 1 << 20

// MaxPixels bounds the pixel area of a rendering for requests that are
// held to MaxCells. A maze of MaxCells cells at 16 pixels per cell fits.
const MaxPixels = 1 << 28

// ValidateDimensions checks that both maze dimensions are positive and that
// their product does not overflow an int.
func ValidateDimensions(width, height int) error {
	if width < 1 {
		return New(ErrCodeInvalidDimensions, "width must be at least 1, got %d", width)
	}
	if height < 1 {
		return New(ErrCodeInvalidDimensions, "height must be at least 1, got %d", height)
	}
	if width > math.MaxInt/height {
		return New(ErrCodeInvalidDimensions, "maze of %dx%d cells is too large", width, height)
	}
	return nil
}

// ValidateCellLimit rejects mazes with more than limit cells.
// Call it after ValidateDimensions.
func ValidateCellLimit(width, height, limit int) error {
	if width*height > limit {
		return New(ErrCodeInvalidDimensions, "maze of %dx%d cells exceeds the limit of %d cells", width, height, limit)
	}
	return nil
}

// ValidateResolution checks that a cell block has room for its walls plus
// an interior for the accent overlay.
func ValidateResolution(resolution int) error {
	if resolution < 2 {
		return New(ErrCodeInvalidResolution, "resolution must be at least 2 pixels per cell, got %d", resolution)
	}
	return nil
}

// ValidateImageSize checks that width x height cells drawn at pixelsPerCell
// pixels each can back an RGBA image: neither side nor the four bytes per
// pixel may overflow an int.
func ValidateImageSize(width, height, pixelsPerCell int) error {
	w, okW := mulNonNeg(width, pixelsPerCell)
	h, okH := mulNonNeg(height, pixelsPerCell)
	if !okW || !okH {
		return New(ErrCodeInvalidResolution, "%dx%d cells at %d pixels per cell overflow the image size", width, height, pixelsPerCell)
	}
	area, ok := mulNonNeg(w, h)
	if ok {
		_, ok = mulNonNeg(area, 4)
	}
	if !ok {
		return New(ErrCodeInvalidResolution, "image of %dx%d pixels is too large", w, h)
	}
	return nil
}

// ValidatePixelLimit rejects renderings of a width x height maze whose
// final raster, after drawing at resolution and upscaling by scale, has
// more than limit pixels. Call it after ValidateResolution and ValidateScale.
func ValidatePixelLimit(width, height, resolution, scale, limit int) error {
	factor, ok := mulNonNeg(resolution, scale)
	if !ok {
		return New(ErrCodeInvalidResolution, "resolution %d at scale %d is too large", resolution, scale)
	}
	if err := ValidateImageSize(width, height, factor); err != nil {
		return err
	}
	if w, h := width*factor, height*factor; w*h > limit {
		return New(ErrCodeInvalidResolution, "image of %dx%d pixels exceeds the limit of %d pixels", w, h, limit)
	}
	return nil
}

func mulNonNeg(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a != 0 && b > math.MaxInt/a {
		return 0, false
	}
	return a * b, true
}

// ValidateScale checks the integer upscaling factor applied after rasterizing.
func ValidateScale(scale int) error {
	if scale < 1 {
		return New(ErrCodeInvalidInput, "scale must be at least 1, got %d", scale)
	}
	return nil
}

// ValidateOutputPath validates an output path supplied on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
//   - Path cannot end in a separator
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "output path cannot be empty")
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "output path contains invalid control characters")
		}
	}
	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, "\\") {
		return New(ErrCodeInvalidInput, "output path %q is a directory", path)
	}
	return nil
}
