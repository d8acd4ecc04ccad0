package collector

import "BankSentinel/internal/model"

// Source produces indicators for a bank.
type Source interface {
	Fetch(bankName string) (*model.FinancialIndicators, error)
	Name() string
}
