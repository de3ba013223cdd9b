package loader

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
)

// Fatal load errors. Anything not listed here is reported as a diagnostic
// and the load completes with a best-effort result.
var (
	// ErrMissingBlob is returned when a buffer references the embedded
	// binary blob but the container carries none.
	ErrMissingBlob = errors.New("binary blob is missing")

	// ErrBufferFormatUnsupported is returned for a buffer data URI whose
	// MIME type is outside the accepted allow-list.
	ErrBufferFormatUnsupported = errors.New("unsupported buffer format")
)

// UnsupportedPrimitiveError aborts the whole load: a primitive mode outside
// the fixed topology table cannot be represented.
type UnsupportedPrimitiveError struct {
	Mode gltf.PrimitiveMode
}

func (e *UnsupportedPrimitiveError) Error() string {
	return fmt.Sprintf("unsupported primitive mode %d", e.Mode)
}

// InvalidImageMimeTypeError is returned when a texture image declares a
// MIME type (or carries an extension) with no registered decoder.
type InvalidImageMimeTypeError struct {
	MimeType string
}

func (e *InvalidImageMimeTypeError) Error() string {
	return fmt.Sprintf("invalid image mime type: %s", e.MimeType)
}

// MissingAnimationSamplerError is returned when an animation channel lacks
// sampler input or output data. A channel cannot be partially interpreted,
// so this aborts the whole load.
type MissingAnimationSamplerError struct {
	Animation int
}

func (e *MissingAnimationSamplerError) Error() string {
	return fmt.Sprintf("missing sampler for animation %d", e.Animation)
}

// MissingInverseBindMatricesError is returned when a skin lacks a readable
// inverse-bind-matrix accessor.
type MissingInverseBindMatricesError struct {
	Skin int
}

func (e *MissingInverseBindMatricesError) Error() string {
	return fmt.Sprintf("missing inverse bind matrices for skin %d", e.Skin)
}

// Accessor-level failures. Both are recoverable by omission for vertex
// attributes and reported as diagnostics.
var (
	errMalformedData     = errors.New("malformed accessor data")
	errUnsupportedFormat = errors.New("unsupported accessor format")
)
