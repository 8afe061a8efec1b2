package calcs

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// InUnitRange reports whether s can be commanded to a motor. NaN is never in range.
func InUnitRange(s float32) bool {
	return s >= -1 && s <= 1
}

// InUnitRange64 is InUnitRange for values that have not been narrowed yet.
func InUnitRange64(s float64) bool {
	return s >= -1 && s <= 1
}

// ClampSpeed limits s to [-1, 1]. NaN becomes 0.
func ClampSpeed(s float32) float32 {
	if s != s {
		return 0
	}
	return mgl32.Clamp(s, -1, 1)
}

// DutyCycle maps the magnitude of speed onto [0, period].
func DutyCycle(speed float32, period uint32) uint32 {
	mag := mgl32.Abs(ClampSpeed(speed))
	return uint32(math.Round(float64(mag) * float64(period)))
}

// PulseWidth maps speed linearly around neutral: -1 -> neutral-span, 0 -> neutral, 1 -> neutral+span.
func PulseWidth(speed float32, neutral, span uint32) uint32 {
	offset := math.Round(float64(ClampSpeed(speed)) * float64(span))
	width := int64(neutral) + int64(offset)
	if width < 0 {
		return 0
	}
	return uint32(width)
}

// Signed8 maps speed onto [-255, 255] for byte-oriented motor drivers.
func Signed8(speed float32) int {
	return int(math.Round(float64(ClampSpeed(speed)) * 255))
}
