package model

import "fmt"

// Zone is the risk band a single metric falls into.
type Zone string

const (
	ZoneDanger  Zone = "danger"
	ZoneWarning Zone = "warning"
	ZoneSafe    Zone = "safe"
)

// Color returns the display token for the zone.
func (z Zone) Color() string {
	switch z {
	case ZoneDanger:
		return "danger"
	case ZoneWarning:
		return "warning"
	case ZoneSafe:
		return "success"
	default:
		return ""
	}
}

// Metric identifies one of the three indicators.
type Metric string

const (
	MetricZScore   Metric = "z_score"
	MetricFScore   Metric = "f_score"
	MetricNPLRatio Metric = "npl_ratio"
)

// Metrics lists the indicators in presentation order.
var Metrics = []Metric{MetricZScore, MetricFScore, MetricNPLRatio}

// Value picks the metric's raw value out of ind.
func (m Metric) Value(ind *FinancialIndicators) float64 {
	switch m {
	case MetricZScore:
		return ind.ZScore
	case MetricFScore:
		return ind.FScore
	case MetricNPLRatio:
		return ind.NPLRatio
	default:
		return 0
	}
}

// Role selects the recommendation wording.
type Role string

const (
	RoleInvestor Role = "investor"
	RoleAuditor  Role = "auditor"
)

// ParseRole accepts exactly the two known roles.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleInvestor, RoleAuditor:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Bucket is the overall condition the recommendation is chosen from.
type Bucket string

const (
	BucketAdverse   Bucket = "adverse"
	BucketModerate  Bucket = "moderate"
	BucketFavorable Bucket = "favorable"
)

// MetricResult is the classification of a single metric. Display is the
// formatted value ("6.2%" for NPL), Status the badge text ("Grey Zone") and
// Progress the bar fraction, nominally 0.0 ~ 1.0 but never clamped.
type MetricResult struct {
	Metric   Metric  `json:"metric"`
	Label    string  `json:"label"`
	Value    float64 `json:"value"`
	Display  string  `json:"display"`
	Zone     Zone    `json:"zone"`
	Status   string  `json:"status"`
	Color    string  `json:"color"`
	Progress float64 `json:"progress"`
}

// Recommendation is the role-specific advice.
type Recommendation struct {
	Role    Role   `json:"role,omitempty"`
	Verdict string `json:"verdict,omitempty"`
	Text    string `json:"text"`
}

// ClassificationResult is the full output of one evaluation.
type ClassificationResult struct {
	Empty          bool           `json:"empty"`
	BankName       string         `json:"bankName,omitempty"`
	Timestamp      string         `json:"timestamp,omitempty"`
	ZScore         MetricResult   `json:"zScore"`
	FScore         MetricResult   `json:"fScore"`
	NPLRatio       MetricResult   `json:"nplRatio"`
	Bucket         Bucket         `json:"bucket,omitempty"`
	SummaryHTML    string         `json:"summaryHtml"`
	Recommendation Recommendation `json:"recommendation"`
}

// MetricResults returns the three results in presentation order.
func (r *ClassificationResult) MetricResults() []MetricResult {
	return []MetricResult{r.ZScore, r.FScore, r.NPLRatio}
}
