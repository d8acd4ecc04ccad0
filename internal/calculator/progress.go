package calculator

// BandFraction maps value linearly from [lower, upper) onto [offset, offset+span).
// Values outside the band extrapolate; nothing is clamped.
func BandFraction(value, lower, upper, offset, span float64) float64 {
	return offset + (value-lower)/(upper-lower)*span
}

// Clamp01 bounds f to 0.0 ~ 1.0 for renderers that need a fixed width.
func Clamp01(f float64) float64 {
	if f != f { // NaN
		return 0
	}
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
