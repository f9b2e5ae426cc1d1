// Package slicer cuts a raster image into rectangular tiles along
// user-placed horizontal and vertical cut lines, optionally letterboxing
// each tile onto a square canvas.
package slicer

import (
	"fmt"
	"image"
	"io"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/xy2yp/Artify/pkg/logger"
)

type Axis string

const (
	Horizontal Axis = "horizontal"
	Vertical   Axis = "vertical"
)

const (
	DefaultGridRows = 3
	DefaultGridCols = 3

	DefaultFillColor = "#FFFFFF"
)

// PaddingPolicy decides whether tiles are centered on a square canvas
// filled with FillColor (#RGB or #RRGGBB).
type PaddingPolicy struct {
	Enabled   bool
	FillColor string
}

// Tile is one rendered sub-image, encoded as PNG. SequenceIndex numbers
// emitted tiles 1..n in row-major order; skipped degenerate cells do not
// consume an index. Width and Height are the nominal cell size; the canvas
// dimensions differ when padding is on.
type Tile struct {
	SequenceIndex int
	Row           int
	Col           int
	X             int
	Y             int
	Width         int
	Height        int
	CanvasWidth   int
	CanvasHeight  int
	Data          []byte
}

// Filename names the export artifact for this tile.
func (t Tile) Filename() string {
	return fmt.Sprintf("slice_%03d.png", t.SequenceIndex)
}

// Slicer holds one source image and its cut-line state. It is not safe
// for concurrent use; callers construct one per slicing session.
type Slicer struct {
	img    image.Image
	hLines []int
	vLines []int
	tiles  []Tile
	logger logger.Logger
}

func New(l logger.Logger) *Slicer {
	return &Slicer{logger: l}
}

// LoadImage decodes the source, replaces any current image, resets the
// cut lines and applies the default 3x3 grid. A decode failure leaves the
// previous state untouched.
func (s *Slicer) LoadImage(r io.Reader) error {
	img, format, err := image.Decode(r)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrImageDecode, err)
	}

	if err := s.SetImage(img); err != nil {
		return err
	}

	b := img.Bounds()
	s.logger.Debug("image loaded", "format", format, "width", b.Dx(), "height", b.Dy())

	return nil
}

// SetImage installs an already decoded image, resetting cut lines and
// applying the default grid like LoadImage.
func (s *Slicer) SetImage(img image.Image) error {
	s.img = img
	s.hLines = nil
	s.vLines = nil
	s.tiles = nil

	return s.AutoGrid(DefaultGridRows, DefaultGridCols)
}

// AddLine appends a cut offset on the given axis. Offsets are not bounds
// checked; out-of-range or duplicate lines produce degenerate cells that
// Process skips. No-op when no image is loaded.
func (s *Slicer) AddLine(axis Axis, offset int) {
	if s.img == nil {
		return
	}

	switch axis {
	case Horizontal:
		s.hLines = append(s.hLines, offset)
	case Vertical:
		s.vLines = append(s.vLines, offset)
	}
}

// AutoGrid replaces the cut lines with an evenly spaced rows x cols grid.
func (s *Slicer) AutoGrid(rows, cols int) error {
	if s.img == nil {
		return ErrNoImage
	}
	if rows < 1 || cols < 1 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidGrid, rows, cols)
	}

	b := s.img.Bounds()
	s.hLines = gridCuts(rows, b.Dy())
	s.vLines = gridCuts(cols, b.Dx())

	return nil
}

// ClearLines empties both axis sequences; the loaded image stays.
func (s *Slicer) ClearLines() {
	s.hLines = s.hLines[:0]
	s.vLines = s.vLines[:0]
}

// Lines returns copies of the current cut offsets.
func (s *Slicer) Lines() (horizontal, vertical []int) {
	return append([]int(nil), s.hLines...), append([]int(nil), s.vLines...)
}

// Bounds returns the loaded image dimensions, or zeros when none is loaded.
func (s *Slicer) Bounds() (width, height int) {
	if s.img == nil {
		return 0, 0
	}
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Tiles returns the result of the most recent successful Process call.
func (s *Slicer) Tiles() []Tile {
	return s.tiles
}

// Process recomputes the tile list from the current image and cut lines.
// Cells narrower or shorter than one pixel are skipped without consuming
// a sequence number. On any failure the previous tile list is kept.
func (s *Slicer) Process(policy PaddingPolicy) ([]Tile, error) {
	if s.img == nil {
		return nil, ErrNoImage
	}
	if len(s.hLines) == 0 && len(s.vLines) == 0 {
		return nil, ErrInsufficientCuts
	}

	fill := policy.FillColor
	if fill == "" {
		fill = DefaultFillColor
	}
	fillColor, err := ParseHexColor(fill)
	if err != nil {
		return nil, err
	}

	b := s.img.Bounds()
	hb := boundaries(s.hLines, b.Dy())
	vb := boundaries(s.vLines, b.Dx())

	tiles := make([]Tile, 0, (len(hb)-1)*(len(vb)-1))
	seq := 1
	for i := 0; i+1 < len(hb); i++ {
		for j := 0; j+1 < len(vb); j++ {
			w := vb[j+1] - vb[j]
			h := hb[i+1] - hb[i]
			if w < 1 || h < 1 {
				continue
			}

			cell := image.Rect(vb[j], hb[i], vb[j+1], hb[i+1])
			data, cw, ch, err := renderTile(s.img, cell, fillColor, policy.Enabled)
			if err != nil {
				return nil, err
			}

			tiles = append(tiles, Tile{
				SequenceIndex: seq,
				Row:           i,
				Col:           j,
				X:             vb[j],
				Y:             hb[i],
				Width:         w,
				Height:        h,
				CanvasWidth:   cw,
				CanvasHeight:  ch,
				Data:          data,
			})
			seq++
		}
	}

	s.tiles = tiles

	s.logger.Debug("image processed", "tiles", len(tiles), "padded", policy.Enabled)

	return tiles, nil
}
