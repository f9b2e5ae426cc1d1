package slicer

import "errors"

var (
	// ErrImageDecode reports a source that could not be decoded.
	ErrImageDecode = errors.New("image decode failed")

	// ErrNoImage reports an operation that requires a loaded image.
	ErrNoImage = errors.New("no image loaded")

	// ErrInsufficientCuts reports processing with no cut lines on either axis.
	ErrInsufficientCuts = errors.New("no cut lines on either axis")

	// ErrInvalidGrid reports non-positive grid dimensions.
	ErrInvalidGrid = errors.New("grid dimensions must be positive")

	// ErrBadFillColor reports an unparseable padding fill color.
	ErrBadFillColor = errors.New("invalid fill color")
)
