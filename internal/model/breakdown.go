package model

// RatioLine is one component row of the ratio breakdown. Score is 1 when the
// component counts toward the metric and 0 when it does not.
type RatioLine struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Score int    `json:"score"`
}

// NPLDetails backs the NPL ratio card. Amounts are in $ million, rates in percent.
type NPLDetails struct {
	NPLAmount       float64 `json:"nplAmount"`
	TotalLoans      float64 `json:"totalLoans"`
	IndustryAverage float64 `json:"industryAverage"`
	Threshold       float64 `json:"threshold"`
}

// RatioBreakdown lists the components shown under each score.
type RatioBreakdown struct {
	ZScore []RatioLine `json:"zScore"`
	FScore []RatioLine `json:"fScore"`
	NPL    NPLDetails  `json:"npl"`
}
