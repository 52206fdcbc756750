package domain

import "errors"

// ============================================================================
// Load Errors
// ============================================================================

var (
	ErrArtifactLoad     = errors.New("failed to load model artifacts")
	ErrArtifactNotFound = errors.New("model artifact not found")
	ErrArtifactDecode   = errors.New("model artifact is corrupt or has an unsupported format")
)

// ============================================================================
// Validation Errors
// ============================================================================

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrMissingField    = errors.New("required field is missing")
	ErrNonNumericField = errors.New("field must be a finite number")
	ErrNonStringField  = errors.New("field must be a string")
	ErrUnknownSoilType = errors.New("unknown soil type")
)

// ============================================================================
// Model Errors
// ============================================================================

var (
	ErrModelUnavailable      = errors.New("model is not available")
	ErrInference             = errors.New("model inference failed")
	ErrFeatureSchemaMismatch = errors.New("model feature schema does not match request features")
)

// IsLoadError reports whether err came from reading or decoding artifacts.
func IsLoadError(err error) bool {
	return errors.Is(err, ErrArtifactLoad) ||
		errors.Is(err, ErrArtifactNotFound) ||
		errors.Is(err, ErrArtifactDecode)
}

// IsValidationError reports whether err was caused by a malformed request record.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrNonNumericField) ||
		errors.Is(err, ErrNonStringField) ||
		errors.Is(err, ErrUnknownSoilType)
}

// IsModelError reports whether err was raised by a cached model at inference time.
func IsModelError(err error) bool {
	return errors.Is(err, ErrModelUnavailable) ||
		errors.Is(err, ErrInference) ||
		errors.Is(err, ErrFeatureSchemaMismatch)
}
