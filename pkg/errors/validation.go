package errors

// Render dimension bounds. Out-of-range requests are clamped by the
// pipeline, not rejected; these validators exist for surfaces that want to
// report rather than clamp (template files, direct API misuse).
const (
	// MinDimension is the smallest accepted render dimension in pixels.
	MinDimension = 100

	// MaxDimension is the largest accepted render dimension in pixels.
	MaxDimension = 8192
)

// ValidateDimensions checks that both render dimensions are positive. Zero
// or negative area is a caller error; values merely outside the clamp
// bounds are not, since the pipeline clamps them.
func ValidateDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidDimensions, "dimensions %dx%d have zero area", width, height)
	}
	return nil
}

// ClampDimension pulls a requested dimension into [MinDimension, MaxDimension].
func ClampDimension(d int) int {
	if d < MinDimension {
		return MinDimension
	}
	if d > MaxDimension {
		return MaxDimension
	}
	return d
}
