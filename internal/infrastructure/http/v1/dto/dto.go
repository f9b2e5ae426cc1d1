// Package dto holds the response shapes of the v1 HTTP surface.
package dto

import "github.com/xy2yp/Artify/internal/slicer"

// Tile is one rendered tile in a slice response. Data carries the PNG
// bytes, base64-encoded by the JSON layer.
type Tile struct {
	SequenceIndex int    `json:"sequence_index"`
	Row           int    `json:"row"`
	Col           int    `json:"col"`
	X             int    `json:"x"`
	Y             int    `json:"y"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	CanvasWidth   int    `json:"canvas_width"`
	CanvasHeight  int    `json:"canvas_height"`
	Filename      string `json:"filename"`
	Data          []byte `json:"data"`
}

type SliceResponse struct {
	Count int    `json:"count"`
	Tiles []Tile `json:"tiles"`
}

func NewSliceResponse(tiles []slicer.Tile) SliceResponse {
	out := make([]Tile, 0, len(tiles))
	for _, t := range tiles {
		out = append(out, Tile{
			SequenceIndex: t.SequenceIndex,
			Row:           t.Row,
			Col:           t.Col,
			X:             t.X,
			Y:             t.Y,
			Width:         t.Width,
			Height:        t.Height,
			CanvasWidth:   t.CanvasWidth,
			CanvasHeight:  t.CanvasHeight,
			Filename:      t.Filename(),
			Data:          t.Data,
		})
	}

	return SliceResponse{
		Count: len(out),
		Tiles: out,
	}
}
