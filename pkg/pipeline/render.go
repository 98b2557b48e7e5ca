package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"

	mazeio "github.com/matzehuels/labyrinth/pkg/io"
	"github.com/matzehuels/labyrinth/pkg/render"
	"github.com/matzehuels/labyrinth/pkg/render/sink"
)

// RenderArtifacts encodes src in every requested format. The raster image
// is drawn once and shared by all raster formats.
func RenderArtifacts(ctx context.Context, src mazeio.Source, opts Options) (map[string][]byte, error) {
	renderOpts, err := opts.RenderOptions()
	if err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var img *image.RGBA

	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = sink.RenderSVG(src, opts.Resolution, renderOpts...)
		case FormatText:
			data = sink.RenderText(src)
		case FormatJSON:
			var buf bytes.Buffer
			err = mazeio.WriteJSON(src, &buf)
			data = buf.Bytes()
		case FormatDOT:
			data = []byte(sink.ToDOT(src, renderOpts...))
		case FormatTree:
			data, err = sink.RenderTreeSVG(ctx, sink.ToDOT(src, renderOpts...))
		default:
			if !sink.IsRaster(format) {
				return nil, fmt.Errorf("unsupported format: %s", format)
			}
			if img == nil {
				img, err = render.Render(src, opts.Resolution, renderOpts...)
				if err != nil {
					return nil, fmt.Errorf("render %s: %w", format, err)
				}
			}
			data, err = sink.RasterBytes(img, format, sink.WithScale(opts.Scale))
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
