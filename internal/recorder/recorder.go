package recorder

import (
	"time"

	"BankSentinel/internal/model"
)

// EvaluationRecord is one classified statement, flattened for history queries.
// Source is the collector source name.
type EvaluationRecord struct {
	ID         string       `json:"id"`
	RecordedAt time.Time    `json:"recordedAt"`
	BankName   string       `json:"bankName"`
	ZScore     float64      `json:"zScore"`
	FScore     float64      `json:"fScore"`
	NPLRatio   float64      `json:"nplRatio"`
	ZZone      model.Zone   `json:"zZone"`
	FZone      model.Zone   `json:"fZone"`
	NPLZone    model.Zone   `json:"nplZone"`
	Bucket     model.Bucket `json:"bucket"`
	Role       model.Role   `json:"role"`
	Verdict    string       `json:"verdict"`
	Source     string       `json:"source"`
}

// NewEvaluationRecord flattens a classification result.
func NewEvaluationRecord(res *model.ClassificationResult, source string) *EvaluationRecord {
	return &EvaluationRecord{
		BankName: res.BankName,
		ZScore:   res.ZScore.Value,
		FScore:   res.FScore.Value,
		NPLRatio: res.NPLRatio.Value,
		ZZone:    res.ZScore.Zone,
		FZone:    res.FScore.Zone,
		NPLZone:  res.NPLRatio.Zone,
		Bucket:   res.Bucket,
		Role:     res.Recommendation.Role,
		Verdict:  res.Recommendation.Verdict,
		Source:   source,
	}
}

// Dashboard event types.
const (
	EventLogin       = "LOGIN"
	EventRegister    = "REGISTER"
	EventLogout      = "LOGOUT"
	EventReset       = "RESET"
	EventPreferences = "PREFERENCES"
	EventPassword    = "PASSWORD"
)

// DashboardEvent records a session or preference change.
type DashboardEvent struct {
	ID         string
	RecordedAt time.Time
	EventType  string
	User       string
	Detail     string
}

// Recorder persists evaluation history.
type Recorder interface {
	RecordEvaluation(rec *EvaluationRecord) error
	RecordEvent(evt *DashboardEvent) error
	RecentEvaluations(limit int) ([]EvaluationRecord, error)
	Close() error
}
