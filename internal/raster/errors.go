package raster

import "errors"

// Error taxonomy shared by every stage of the enhancement pipeline.
// All of them are precondition failures; none is worth retrying.
var (
	ErrInvalidImage          = errors.New("invalid image")
	ErrUnsupportedConversion = errors.New("unsupported color conversion")
	ErrInvalidGamma          = errors.New("invalid gamma")
	ErrInvalidFactor         = errors.New("invalid factor")
)
