package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"BankSentinel/internal/model"
)

// Well-known keys, kept identical to the dashboard's local storage names.
const (
	KeyData    = "finfraud_data"
	KeyUser    = "finfraud_user"
	KeyRole    = "finfraud_role"
	KeyTheme   = "finfraud_theme"
	KeyLayout  = "finfraud_layout"
	KeySidebar = "finfraud_sidebar"
)

// LoadIndicators reads the last processed record. Returns nil, nil when none is stored.
func LoadIndicators(ctx context.Context, s Store) (*model.FinancialIndicators, error) {
	raw, err := s.Get(ctx, KeyData)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var ind model.FinancialIndicators
	if err := json.Unmarshal([]byte(raw), &ind); err != nil {
		return nil, fmt.Errorf("decode %s: %w", KeyData, err)
	}
	return &ind, nil
}

// SaveIndicators replaces the stored record.
func SaveIndicators(ctx context.Context, s Store, ind *model.FinancialIndicators) error {
	data, err := json.Marshal(ind)
	if err != nil {
		return fmt.Errorf("encode %s: %w", KeyData, err)
	}
	return s.Set(ctx, KeyData, string(data))
}

// ClearIndicators removes the stored record.
func ClearIndicators(ctx context.Context, s Store) error {
	return s.Delete(ctx, KeyData)
}

// GetOr returns the stored value for key, or def when it is missing.
func GetOr(ctx context.Context, s Store, key, def string) (string, error) {
	v, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return def, nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}
