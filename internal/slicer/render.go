package slicer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"
	"strings"
)

// renderTile draws the cell rectangle onto a fresh canvas and encodes it
// as PNG. The cell is given in the image's normalized coordinate space
// (top-left at 0,0); parts of the cell outside the image are clipped, so
// they stay transparent, or show the fill when padding is on. Returns the
// encoded bytes and the final canvas dimensions.
func renderTile(src image.Image, cell image.Rectangle, fill color.Color, pad bool) ([]byte, int, int, error) {
	cellW, cellH := cell.Dx(), cell.Dy()

	canvasW, canvasH := cellW, cellH
	offX, offY := 0, 0
	if pad {
		side := max(cellW, cellH)
		offX = (side - cellW) / 2
		offY = (side - cellH) / 2
		canvasW, canvasH = side, side
	}

	canvas := image.NewRGBA(image.Rect(0, 0, canvasW, canvasH))
	if pad {
		draw.Draw(canvas, canvas.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)
	}

	srcBounds := image.Rect(0, 0, src.Bounds().Dx(), src.Bounds().Dy())
	visible := cell.Intersect(srcBounds)
	if !visible.Empty() {
		dst := visible.Sub(cell.Min).Add(image.Pt(offX, offY))
		srcPt := visible.Min.Add(src.Bounds().Min)
		draw.Draw(canvas, dst, src, srcPt, draw.Over)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, 0, 0, fmt.Errorf("encode tile: %w", err)
	}

	return buf.Bytes(), canvasW, canvasH, nil
}

// ParseHexColor parses #RGB or #RRGGBB (the leading # optional) into an
// opaque color.
func ParseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")

	switch len(hex) {
	case 3:
		expanded := make([]byte, 6)
		for i := 0; i < 3; i++ {
			expanded[2*i] = hex[i]
			expanded[2*i+1] = hex[i]
		}
		hex = string(expanded)
	case 6:
	default:
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrBadFillColor, s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrBadFillColor, s)
	}

	return color.NRGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xFF,
	}, nil
}
