package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBandFraction(t *testing.T) {
	tests := []struct {
		name                              string
		value, lower, upper, offset, span float64
		want                              float64
	}{
		{"start of band", 1.8, 1.8, 3.0, 0.33, 0.33, 0.33},
		{"middle of band", 2.4, 1.8, 3.0, 0.33, 0.33, 0.495},
		{"from zero", 0.9, 0, 1.8, 0, 0.33, 0.165},
		{"extrapolates above", 10, 3.0, 5.0, 0.66, 0.34, 1.85},
		{"extrapolates below", -1.8, 0, 1.8, 0, 0.33, -0.33},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BandFraction(tt.value, tt.lower, tt.upper, tt.offset, tt.span)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, Clamp01(-0.2))
	assert.Equal(t, 0.5, Clamp01(0.5))
	assert.Equal(t, 1.0, Clamp01(1.7))
	assert.Equal(t, 0.0, Clamp01(math.NaN()))
}

func TestFormatMetric(t *testing.T) {
	assert.Equal(t, "6", FormatMetric(6))
	assert.Equal(t, "1.5", FormatMetric(1.5))
	assert.Equal(t, "2.35", FormatMetric(2.35))
	assert.Equal(t, "-0.4", FormatMetric(-0.4))
	assert.Equal(t, "4.99%", FormatPercent(4.99))
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{0, "0.00 bytes"},
		{512, "512.00 bytes"},
		{1024, "1024.00 bytes"},
		{2048, "2.00 KB"},
		{1536000, "1.46 MB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatFileSize(tt.size), "size %d", tt.size)
	}
}
