package services

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"goimpact/domain/impact"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/montanaflynn/stats"
)

// ReportView is the rendered presentation of a report
type ReportView struct {
	Summary       string `json:"summary"`
	TableMarkdown string `json:"table_markdown"`
	NarrativeHTML string `json:"narrative_html"`
}

type RenderService struct{}

func NewRenderService() *RenderService {
	return &RenderService{}
}

// Render builds every presentation of report. The narrative and labels carry
// caller-supplied values, so they are escaped before markdown conversion.
func (s *RenderService) Render(report impact.TestReport) ReportView {
	return ReportView{
		Summary:       s.SummaryCard(report),
		TableMarkdown: s.TableMarkdown(report),
		NarrativeHTML: s.MarkdownHTML(EscapeMarkdown(report.Narrative) + "\n\n" + tableMarkdown(report, EscapeMarkdown)),
	}
}

// SummaryCard is the plain-text result card: the four-fifths line, the
// significance verdict and the chi-square figures rounded to 2 places.
func (s *RenderService) SummaryCard(report impact.TestReport) string {
	var b strings.Builder
	b.WriteString(report.FourFifthsDescription)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s:\n", report.TestResult)
	fmt.Fprintf(&b, "pvalue: %s\n", round2(report.PValue))
	fmt.Fprintf(&b, "degrees of freedom: %d\n", report.DegreesOfFreedom)
	fmt.Fprintf(&b, "alpha: %s\n", round2(report.Alpha))
	fmt.Fprintf(&b, "statistic: %s", round2(report.Statistic))
	return b.String()
}

// TableMarkdown renders the observed counts with their group and outcome labels.
func (s *RenderService) TableMarkdown(report impact.TestReport) string {
	return tableMarkdown(report, escapePipes)
}

func tableMarkdown(report impact.TestReport, cell func(string) string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "| | %s | %s |\n", cell(report.ColumnLabels[0]), cell(report.ColumnLabels[1]))
	b.WriteString("|---|---:|---:|\n")
	for i, label := range report.RowLabels {
		fmt.Fprintf(&b, "| %s | %d | %d |\n", cell(label), report.Observed[i][0], report.Observed[i][1])
	}
	return b.String()
}

// EscapeMarkdown backslash-escapes every character the markdown parser
// treats as syntax, so text renders literally.
func EscapeMarkdown(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		if bytes.IndexByte(parser.EscapeChars, text[i]) >= 0 {
			b.WriteByte('\\')
		}
		b.WriteByte(text[i])
	}
	return b.String()
}

func escapePipes(text string) string {
	return strings.ReplaceAll(text, "|", "\\|")
}

// MarkdownHTML converts markdown text to HTML
func (s *RenderService) MarkdownHTML(md string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	doc := p.Parse([]byte(md))
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.SkipHTML | html.Safelink | html.NofollowLinks | html.HrefTargetBlank,
	})
	return string(markdown.Render(doc, renderer))
}

func round2(v float64) string {
	r, err := stats.Round(v, 2)
	if err != nil {
		r = v
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
