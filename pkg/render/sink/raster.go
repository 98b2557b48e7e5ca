package sink

import (
	"bytes"
	"image"
	"io"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/labyrinth/pkg/errors"
)

// RasterOption configures raster encoding.
type RasterOption func(*rasterEncoder)

type rasterEncoder struct {
	scale       int
	jpegQuality int
}

// WithScale enlarges the image by an integer factor with nearest-neighbour
// sampling, so every source pixel becomes a crisp n x n square.
func WithScale(n int) RasterOption { return func(e *rasterEncoder) { e.scale = n } }

// WithJPEGQuality sets the JPEG quality (1-100, default 95).
func WithJPEGQuality(q int) RasterOption { return func(e *rasterEncoder) { e.jpegQuality = q } }

// IsRaster reports whether format names a raster encoding ("png", "jpg",
// "jpeg", "gif", "bmp", "tif", "tiff").
func IsRaster(format string) bool {
	_, err := imaging.FormatFromExtension(format)
	return err == nil
}

// EncodeRaster writes img to w in the given raster format.
func EncodeRaster(w io.Writer, img image.Image, format string, opts ...RasterOption) error {
	e := rasterEncoder{scale: 1, jpegQuality: 95}
	for _, opt := range opts {
		opt(&e)
	}
	if err := errors.ValidateScale(e.scale); err != nil {
		return err
	}

	f, err := imaging.FormatFromExtension(strings.ToLower(format))
	if err != nil {
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported raster format %q", format)
	}

	if e.scale > 1 {
		b := img.Bounds()
		if err := errors.ValidateImageSize(b.Dx(), b.Dy(), e.scale); err != nil {
			return err
		}
		img = imaging.Resize(img, b.Dx()*e.scale, b.Dy()*e.scale, imaging.NearestNeighbor)
	}
	if err := imaging.Encode(w, img, f, imaging.JPEGQuality(e.jpegQuality)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode %s", format)
	}
	return nil
}

// RasterBytes is EncodeRaster into a byte slice.
func RasterBytes(img image.Image, format string, opts ...RasterOption) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeRaster(&buf, img, format, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
