package collector

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"BankSentinel/internal/calculator"
	"BankSentinel/internal/model"

	"go.uber.org/zap"
)

// ErrMissingFields is returned when the upload form is incomplete.
var ErrMissingFields = errors.New("please fill in all fields")

// Collector turns an uploaded statement into indicators.
type Collector struct {
	Source Source
	logger *zap.Logger
}

// NewCollector creates a new Collector.
func NewCollector(source Source, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{Source: source, logger: logger}
}

// Process validates the form and produces indicators for the selected bank.
// The file itself is only described, never parsed.
func (c *Collector) Process(req model.StatementRequest) (*model.FinancialIndicators, *model.FileInfo, error) {
	bank := strings.TrimSpace(req.BankName)
	if bank == "" || strings.TrimSpace(req.Year) == "" || strings.TrimSpace(req.StatementType) == "" {
		return nil, nil, ErrMissingFields
	}

	var info *model.FileInfo
	if req.FileName != "" {
		fi := DescribeFile(req.FileName, req.FileSize)
		info = &fi
	}

	ind, err := c.Source.Fetch(bank)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch indicators from %s: %w", c.Source.Name(), err)
	}

	c.logger.Info("statement processed",
		zap.String("bank", bank),
		zap.String("year", req.Year),
		zap.String("type", req.StatementType),
		zap.String("source", c.Source.Name()),
		zap.Float64("z_score", ind.ZScore),
		zap.Float64("f_score", ind.FScore),
		zap.Float64("npl_ratio", ind.NPLRatio),
	)
	return ind, info, nil
}

// DescribeFile builds the upload preview: name, human size and icon kind.
func DescribeFile(name string, size int64) model.FileInfo {
	kind := model.FileKindOther
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		kind = model.FileKindPDF
	case ".xlsx", ".xls":
		kind = model.FileKindExcel
	}
	return model.FileInfo{
		Name: name,
		Size: calculator.FormatFileSize(size),
		Kind: kind,
	}
}
