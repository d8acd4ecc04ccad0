package collector

import (
	"hash/fnv"
	"math/rand"
	"strconv"

	"BankSentinel/internal/model"
)

// Component row names, in display order.
var (
	ZScoreComponents = []string{
		"Working Capital / Total Assets",
		"Retained Earnings / Total Assets",
		"EBIT / Total Assets",
		"Market Value of Equity / Total Liabilities",
		"Sales / Total Assets",
	}
	FScoreComponents = []string{
		"Return on Assets",
		"Operating Cash Flow / Total Assets",
		"Change in Return on Assets",
		"Change in Leverage",
		"Current Ratio",
	}
)

// NPLThreshold is the regulatory line shown next to the NPL ratio, in percent.
const NPLThreshold = 5.0

// Breakdown fabricates the component ratios behind ind. Nothing is read from
// the statement; the draws are seeded from the bank name and timestamp, so
// the same record always gets the same breakdown. A nil record has none.
func Breakdown(ind *model.FinancialIndicators) *model.RatioBreakdown {
	if ind == nil {
		return nil
	}
	h := fnv.New64a()
	h.Write([]byte(ind.BankName))
	h.Write([]byte{0})
	h.Write([]byte(ind.Timestamp))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	fixed := func(v float64, places int) string {
		return strconv.FormatFloat(v, 'f', places, 64)
	}
	coin := func() int {
		if rng.Float64() > 0.5 {
			return 1
		}
		return 0
	}

	z := []model.RatioLine{
		{Value: fixed(rng.Float64()*2+1, 2), Score: 1},
		{Value: fixed(rng.Float64()*2+1, 2), Score: 1},
		{Value: fixed(rng.Float64()*2+0.5, 2), Score: coin()},
		{Value: fixed(rng.Float64()*2+1, 2), Score: 1},
		{Value: fixed(rng.Float64()*2+0.5, 2), Score: coin()},
	}

	leverage := "Increased"
	if rng.Float64() > 0.5 {
		leverage = "Decreased"
	}
	f := []model.RatioLine{
		{Value: fixed(rng.Float64()*0.1, 3), Score: 1},
		{Value: fixed(rng.Float64()*0.1, 3), Score: 1},
		{Value: fixed((rng.Float64()-0.5)*0.05, 3), Score: coin()},
		{Value: leverage, Score: coin()},
		{Value: fixed(rng.Float64()*2+0.5, 2), Score: 1},
	}

	for i := range z {
		z[i].Name = ZScoreComponents[i]
	}
	for i := range f {
		f[i].Name = FScoreComponents[i]
	}

	return &model.RatioBreakdown{
		ZScore: z,
		FScore: f,
		NPL: model.NPLDetails{
			NPLAmount:       round(rng.Float64()*50+10, 2),
			TotalLoans:      round(rng.Float64()*1000+500, 2),
			IndustryAverage: round(rng.Float64()*2+3, 1),
			Threshold:       NPLThreshold,
		},
	}
}
