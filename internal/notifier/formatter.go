package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"BankSentinel/internal/calculator"
	"BankSentinel/internal/model"
	"BankSentinel/internal/recorder"

	"github.com/PuerkitoBio/goquery"
	"github.com/dustin/go-humanize"
)

const barCells = 10

// FormatReport formats a classification as a Telegram HTML message.
// Placeholder results are delegated to FormatPlaceholder.
func FormatReport(res *model.ClassificationResult, now time.Time) string {
	if res.Empty {
		return FormatPlaceholder(res)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("🏦 <b>BankSentinel Report</b> | %s\n", html.EscapeString(res.BankName)))
	if at := (&model.FinancialIndicators{Timestamp: res.Timestamp}).EvaluatedAt(); !at.IsZero() {
		b.WriteString(fmt.Sprintf("Evaluated %s\n", humanize.RelTime(at, now, "ago", "from now")))
	}
	b.WriteString("\n")

	for _, m := range res.MetricResults() {
		b.WriteString(fmt.Sprintf("%s <b>%s:</b> %s (%s)\n", zoneBadge(m.Zone), m.Label, m.Display, m.Status))
		b.WriteString(fmt.Sprintf("   %s\n", ProgressBar(m.Progress)))
	}

	b.WriteString(fmt.Sprintf("\n📋 <b>%s</b>\n", html.EscapeString(res.Recommendation.Verdict)))
	b.WriteString(html.EscapeString(PlainText(res.Recommendation.Text)))
	return b.String()
}

// FormatPlaceholder is the no-data message.
func FormatPlaceholder(res *model.ClassificationResult) string {
	var b strings.Builder
	b.WriteString("🏦 <b>BankSentinel Report</b>\n\n")
	b.WriteString(html.EscapeString(PlainText(res.SummaryHTML)))
	b.WriteString("\n\n")
	b.WriteString(html.EscapeString(PlainText(res.Recommendation.Text)))
	return b.String()
}

// FormatHistory lists recent evaluations, newest first.
func FormatHistory(records []recorder.EvaluationRecord, now time.Time) string {
	if len(records) == 0 {
		return "No evaluations recorded yet."
	}
	var b strings.Builder
	b.WriteString("🗂 <b>Recent evaluations</b>\n\n")
	for _, r := range records {
		b.WriteString(fmt.Sprintf("%s %s: %s (%s)\n",
			bucketBadge(r.Bucket),
			html.EscapeString(r.BankName),
			html.EscapeString(r.Verdict),
			humanize.RelTime(r.RecordedAt, now, "ago", "from now"),
		))
	}
	return b.String()
}

// ProgressBar renders a fraction as ten cells plus a percentage.
// Out-of-range fractions are clamped for display only.
func ProgressBar(fraction float64) string {
	f := calculator.Clamp01(fraction)
	filled := int(f*barCells + 0.5)
	return fmt.Sprintf("[%s%s] %d%%",
		strings.Repeat("█", filled),
		strings.Repeat("░", barCells-filled),
		int(f*100+0.5),
	)
}

// PlainText strips markup from a rendered summary or recommendation and
// joins paragraphs with blank lines.
func PlainText(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	paras := doc.Find("p")
	if paras.Length() == 0 {
		return strings.TrimSpace(doc.Text())
	}
	parts := make([]string, 0, paras.Length())
	paras.Each(func(_ int, s *goquery.Selection) {
		parts = append(parts, strings.TrimSpace(s.Text()))
	})
	return strings.Join(parts, "\n\n")
}

func zoneBadge(z model.Zone) string {
	switch z {
	case model.ZoneDanger:
		return "🔴"
	case model.ZoneWarning:
		return "🟡"
	case model.ZoneSafe:
		return "🟢"
	default:
		return "⚪"
	}
}

func bucketBadge(b model.Bucket) string {
	switch b {
	case model.BucketAdverse:
		return "🔴"
	case model.BucketModerate:
		return "🟡"
	case model.BucketFavorable:
		return "🟢"
	default:
		return "⚪"
	}
}
