package classifier

import (
	"BankSentinel/internal/calculator"
	"BankSentinel/internal/model"
)

// Band is one zone of a metric's scale. A value falls in the first band whose
// Upper it is below; the last band catches everything else and its Upper only
// scales the progress fraction.
type Band struct {
	Zone   model.Zone
	Lower  float64
	Upper  float64
	Offset float64 // progress at Lower
	Span   float64 // progress gained across the band
}

// Scales defines the zone bands per metric. NPL runs the other way: low is safe.
var Scales = map[model.Metric][]Band{
	model.MetricZScore: {
		{Zone: model.ZoneDanger, Lower: 0, Upper: 1.8, Offset: 0, Span: 0.33},
		{Zone: model.ZoneWarning, Lower: 1.8, Upper: 3.0, Offset: 0.33, Span: 0.33},
		{Zone: model.ZoneSafe, Lower: 3.0, Upper: 5.0, Offset: 0.66, Span: 0.34},
	},
	model.MetricFScore: {
		{Zone: model.ZoneDanger, Lower: 0, Upper: 1.5, Offset: 0, Span: 0.33},
		{Zone: model.ZoneWarning, Lower: 1.5, Upper: 3.0, Offset: 0.33, Span: 0.33},
		{Zone: model.ZoneSafe, Lower: 3.0, Upper: 5.0, Offset: 0.66, Span: 0.34},
	},
	model.MetricNPLRatio: {
		{Zone: model.ZoneSafe, Lower: 0, Upper: 3.0, Offset: 0, Span: 0.33},
		{Zone: model.ZoneWarning, Lower: 3.0, Upper: 5.0, Offset: 0.33, Span: 0.33},
		{Zone: model.ZoneDanger, Lower: 5.0, Upper: 10.0, Offset: 0.66, Span: 0.34},
	},
}

// Overall condition thresholds. NPL uses strict ">" here, so a ratio of exactly
// 5.0 is in the danger zone but only moderate overall.
const (
	adverseZScore   = 1.8
	adverseFScore   = 1.5
	adverseNPL      = 5.0
	favorableZScore = 3.0
	favorableFScore = 3.0
	favorableNPL    = 3.0
)

// zoneFor returns the zone and the unclamped progress fraction for value.
func zoneFor(metric model.Metric, value float64) (model.Zone, float64) {
	bands := Scales[metric]
	for i, b := range bands {
		if i == len(bands)-1 || value < b.Upper {
			return b.Zone, calculator.BandFraction(value, b.Lower, b.Upper, b.Offset, b.Span)
		}
	}
	return "", 0
}

// BucketFor maps the three indicators to the overall condition.
func BucketFor(ind *model.FinancialIndicators) model.Bucket {
	switch {
	case ind.ZScore < adverseZScore || ind.FScore < adverseFScore || ind.NPLRatio > adverseNPL:
		return model.BucketAdverse
	case ind.ZScore < favorableZScore || ind.FScore < favorableFScore || ind.NPLRatio > favorableNPL:
		return model.BucketModerate
	default:
		return model.BucketFavorable
	}
}
