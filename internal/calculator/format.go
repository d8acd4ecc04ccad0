package calculator

import (
	"fmt"
	"strconv"
)

// FormatMetric prints v with the fewest digits that round-trip (6, 1.5, 2.35).
func FormatMetric(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatPercent is FormatMetric with a trailing percent sign.
func FormatPercent(v float64) string {
	return FormatMetric(v) + "%"
}

// FormatFileSize renders a byte count as bytes, KB or MB (1024 steps, two decimals).
func FormatFileSize(size int64) string {
	v := float64(size)
	unit := "bytes"
	if v > 1024 {
		v /= 1024
		unit = "KB"
	}
	if v > 1024 {
		v /= 1024
		unit = "MB"
	}
	return fmt.Sprintf("%.2f %s", v, unit)
}
