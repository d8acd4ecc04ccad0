package classifier

import (
	"errors"
	"fmt"
	"strings"

	"BankSentinel/internal/calculator"
	"BankSentinel/internal/model"
)

// ErrInvalidRole is returned when the role is neither investor nor auditor.
var ErrInvalidRole = errors.New("invalid role")

// Classify evaluates ind for role using the built-in narratives.
// A nil ind yields the placeholder result, not an error.
func Classify(ind *model.FinancialIndicators, role model.Role) (model.ClassificationResult, error) {
	return defaultCatalog.Classify(ind, role)
}

// Empty returns the placeholder result shown before any statement is processed.
func Empty() model.ClassificationResult {
	return defaultCatalog.Empty()
}

// Empty returns the placeholder result for this catalog.
func (c *Catalog) Empty() model.ClassificationResult {
	return model.ClassificationResult{
		Empty:          true,
		SummaryHTML:    c.placeholderSummary,
		Recommendation: model.Recommendation{Text: c.placeholderRecommendation},
	}
}

// Classify computes zones, progress fractions, the summary and the
// recommendation. It reads nothing but its arguments and the catalog.
func (c *Catalog) Classify(ind *model.FinancialIndicators, role model.Role) (model.ClassificationResult, error) {
	if ind == nil {
		return c.Empty(), nil
	}
	if _, err := model.ParseRole(string(role)); err != nil {
		return model.ClassificationResult{}, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	// per-metric zone and progress
	res := model.ClassificationResult{
		BankName:  ind.BankName,
		Timestamp: ind.Timestamp,
		ZScore:    c.classifyMetric(model.MetricZScore, ind.ZScore),
		FScore:    c.classifyMetric(model.MetricFScore, ind.FScore),
		NPLRatio:  c.classifyMetric(model.MetricNPLRatio, ind.NPLRatio),
		Bucket:    BucketFor(ind),
	}

	// summary paragraphs, intro then Z, F, NPL
	summary, err := c.summary(ind.BankName, res.MetricResults())
	if err != nil {
		return model.ClassificationResult{}, err
	}
	res.SummaryHTML = summary

	// role-specific recommendation
	rec, err := c.recommend(ind.BankName, role, res.Bucket)
	if err != nil {
		return model.ClassificationResult{}, err
	}
	res.Recommendation = rec

	return res, nil
}

func (c *Catalog) classifyMetric(metric model.Metric, value float64) model.MetricResult {
	zone, progress := zoneFor(metric, value)
	mt := c.metrics[metric]
	display := calculator.FormatMetric(value)
	if mt.percent {
		display = calculator.FormatPercent(value)
	}
	return model.MetricResult{
		Metric:   metric,
		Label:    mt.label,
		Value:    value,
		Display:  display,
		Zone:     zone,
		Status:   mt.zones[zone].status,
		Color:    zone.Color(),
		Progress: progress,
	}
}

func (c *Catalog) summary(bank string, metrics []model.MetricResult) (string, error) {
	var b strings.Builder
	intro, err := render(c.intro, templateData{Bank: bank})
	if err != nil {
		return "", err
	}
	b.WriteString(intro)
	for _, m := range metrics {
		p, err := render(c.metrics[m.Metric].zones[m.Zone].summary, templateData{
			Bank:  bank,
			Value: m.Display,
			Color: m.Color,
		})
		if err != nil {
			return "", err
		}
		b.WriteString(p)
	}
	return b.String(), nil
}

func (c *Catalog) recommend(bank string, role model.Role, bucket model.Bucket) (model.Recommendation, error) {
	vt := c.recommendations[role][bucket]
	text, err := render(vt.text, templateData{Bank: bank})
	if err != nil {
		return model.Recommendation{}, err
	}
	return model.Recommendation{Role: role, Verdict: vt.verdict, Text: text}, nil
}
