package render

import "errors"

var (
	ErrInvalidCanvas  = errors.New("canvas dimensions must be positive")
	ErrCanvasTooLarge = errors.New("canvas dimensions exceed maximum")
	ErrUnknownPalette = errors.New("unknown color palette")
	ErrUnknownMapping = errors.New("unknown intensity mapping")
)
