package model

import "time"

// TimestampLayout is the ISO-8601 form used for FinancialIndicators.Timestamp.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FinancialIndicators holds the three risk indicators evaluated for one bank.
// The JSON shape is the persisted dashboard record.
type FinancialIndicators struct {
	BankName  string  `json:"bankName"`
	ZScore    float64 `json:"zScore"`
	FScore    float64 `json:"fScore"`
	NPLRatio  float64 `json:"nplRatio"` // percent
	Timestamp string  `json:"timestamp"`
}

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// EvaluatedAt parses Timestamp. The zero time is returned when it is missing or malformed.
func (f *FinancialIndicators) EvaluatedAt() time.Time {
	t, err := time.Parse(time.RFC3339, f.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}
