package renderer

import "errors"

// ErrInvalidDimensions is returned for images with a non-positive width or height
var ErrInvalidDimensions = errors.New("renderer: invalid image dimensions")
