package collector

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"BankSentinel/internal/model"
)

// RandomSource fabricates demo indicators. No statement is ever read.
type RandomSource struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewRandomSource creates a source seeded with seed. A nil clock means time.Now.
func NewRandomSource(seed int64, now func() time.Time) *RandomSource {
	if now == nil {
		now = time.Now
	}
	return &RandomSource{rng: rand.New(rand.NewSource(seed)), now: now}
}

func (s *RandomSource) Name() string { return "random" }

// Fetch draws zScore in [0.5, 4.5), fScore in [0, 5) and nplRatio in [0, 8),
// rounded the way the dashboard displayed them.
func (s *RandomSource) Fetch(bankName string) (*model.FinancialIndicators, error) {
	s.mu.Lock()
	z := s.rng.Float64()*4 + 0.5
	f := s.rng.Float64() * 5
	npl := s.rng.Float64() * 8
	s.mu.Unlock()

	return &model.FinancialIndicators{
		BankName:  bankName,
		ZScore:    round(z, 2),
		FScore:    round(f, 1),
		NPLRatio:  round(npl, 2),
		Timestamp: model.FormatTimestamp(s.now()),
	}, nil
}

// FixedSource returns the same values for every bank. Only the name and timestamp change.
type FixedSource struct {
	ZScore   float64
	FScore   float64
	NPLRatio float64
	Now      func() time.Time
}

func (s *FixedSource) Name() string { return "fixed" }

func (s *FixedSource) Fetch(bankName string) (*model.FinancialIndicators, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return &model.FinancialIndicators{
		BankName:  bankName,
		ZScore:    s.ZScore,
		FScore:    s.FScore,
		NPLRatio:  s.NPLRatio,
		Timestamp: model.FormatTimestamp(now()),
	}, nil
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
