package services

import (
	"testing"

	"goimpact/domain/impact"

	"github.com/stretchr/testify/assert"
)

func sampleReport() impact.TestReport {
	return impact.TestReport{
		RowLabels:             [2]string{"Female", "Male"},
		ColumnLabels:          [2]string{"not_hired", "hired"},
		Observed:              impact.ContingencyTable{{80, 20}, {40, 60}},
		Statistic:             31.6875,
		PValue:                1.8e-8,
		DegreesOfFreedom:      1,
		Alpha:                 0.05,
		TestResult:            "Statistically significant result",
		FourFifthsDescription: "4/5ths Test failed at ratio of: 0.333.",
		Narrative:             "Testing for job_title: analyst, 4/5ths Test failed at ratio of: 0.333.\n\nBased on the results.",
	}
}

func TestSummaryCard(t *testing.T) {
	got := NewRenderService().SummaryCard(sampleReport())
	want := "4/5ths Test failed at ratio of: 0.333.\n\n" +
		"Statistically significant result:\n" +
		"pvalue: 0\n" +
		"degrees of freedom: 1\n" +
		"alpha: 0.05\n" +
		"statistic: 31.69"
	assert.Equal(t, want, got)
}

func TestTableMarkdown(t *testing.T) {
	got := NewRenderService().TableMarkdown(sampleReport())
	assert.Contains(t, got, "| | not_hired | hired |")
	assert.Contains(t, got, "| Female | 80 | 20 |")
	assert.Contains(t, got, "| Male | 40 | 60 |")
}

func TestRender_NarrativeHTML(t *testing.T) {
	view := NewRenderService().Render(sampleReport())
	assert.Contains(t, view.NarrativeHTML, "<p>Testing for job_title: analyst")
	assert.Contains(t, view.NarrativeHTML, "<table>")
	assert.Contains(t, view.NarrativeHTML, "<td>Female</td>")
	assert.Equal(t, NewRenderService().SummaryCard(sampleReport()), view.Summary)
}

func TestRender_EscapesMarkdownInValues(t *testing.T) {
	report := sampleReport()
	report.RowLabels[1] = "[Male](javascript:alert(1))"
	report.Narrative = "**Male** had a higher proportion than [Female](javascript:alert(1))."

	view := NewRenderService().Render(report)
	assert.NotContains(t, view.NarrativeHTML, "<a ")
	assert.NotContains(t, view.NarrativeHTML, "<strong>")
	assert.Contains(t, view.NarrativeHTML, "[Female](javascript:alert(1))")
	assert.Contains(t, view.NarrativeHTML, "<td>[Male](javascript:alert(1))</td>")
}

func TestTableMarkdown_EscapesPipes(t *testing.T) {
	report := sampleReport()
	report.RowLabels[0] = "F|emale"
	assert.Contains(t, NewRenderService().TableMarkdown(report), `| F\|emale | 80 | 20 |`)
}

func TestMarkdownHTML_UnsafeLinks(t *testing.T) {
	got := NewRenderService().MarkdownHTML("[x](javascript:alert(1))")
	assert.NotContains(t, got, `href="javascript:`)
}

func TestEscapeMarkdown(t *testing.T) {
	assert.Equal(t, `\[a\]\(b\) \*c\* d\_e`, EscapeMarkdown("[a](b) *c* d_e"))
	assert.Equal(t, "plain text", EscapeMarkdown("plain text"))
}
