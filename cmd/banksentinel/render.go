package main

import (
	"fmt"
	"strings"

	"BankSentinel/internal/model"
	"BankSentinel/internal/notifier"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#101F38"))
	labelStyle = lipgloss.NewStyle().Width(11)
	badgeStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
	textStyle  = lipgloss.NewStyle().Width(78)

	zoneColors = map[string]lipgloss.Color{
		"danger":  lipgloss.Color("#DC3545"),
		"warning": lipgloss.Color("#FFC107"),
		"success": lipgloss.Color("#28A745"),
	}
)

func badge(color, text string) string {
	c, ok := zoneColors[color]
	if !ok {
		return text
	}
	return badgeStyle.Background(c).Render(text)
}

// renderResult lays out a classification for the terminal.
func renderResult(res *model.ClassificationResult) string {
	var b strings.Builder
	if res.Empty {
		b.WriteString(titleStyle.Render("No data") + "\n\n")
		b.WriteString(textStyle.Render(notifier.PlainText(res.SummaryHTML)) + "\n\n")
		b.WriteString(textStyle.Render(res.Recommendation.Text))
		return b.String()
	}

	b.WriteString(titleStyle.Render(res.BankName) + "\n\n")
	for _, m := range res.MetricResults() {
		b.WriteString(fmt.Sprintf("%s %-6s %s  %s\n",
			labelStyle.Render(m.Label),
			m.Display,
			badge(m.Color, m.Status),
			notifier.ProgressBar(m.Progress),
		))
	}
	b.WriteString("\n" + textStyle.Render(notifier.PlainText(res.SummaryHTML)) + "\n\n")
	b.WriteString(badge(bucketColor(res.Bucket), res.Recommendation.Verdict) + "\n")
	b.WriteString(textStyle.Render(notifier.PlainText(res.Recommendation.Text)))
	return b.String()
}

func bucketColor(b model.Bucket) string {
	switch b {
	case model.BucketAdverse:
		return "danger"
	case model.BucketModerate:
		return "warning"
	default:
		return "success"
	}
}
