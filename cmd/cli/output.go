package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"goimpact/app"
	"goimpact/domain/impact"
	"goimpact/ui/services"
)

const rule = "----------------------------------------"

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func checkFormat(format string) error {
	switch format {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("unknown format %q (want text or json)", format)
	}
}

func writeEnvelope(w io.Writer, format string, env *app.AnalysisEnvelope) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	if format == "json" {
		return writeJSON(w, env)
	}

	r := services.NewRenderService()
	fmt.Fprintf(w, "run %s\n%s\n", env.RunID, rule)
	fmt.Fprintln(w, r.SummaryCard(env.Report))
	writePhi(w, env.Report)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, r.TableMarkdown(env.Report))
	fmt.Fprintln(w, env.Report.Narrative)
	return nil
}

func writeSweep(w io.Writer, format string, res *app.SweepResult) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	if format == "json" {
		return writeJSON(w, res)
	}

	r := services.NewRenderService()
	fmt.Fprintf(w, "sweep %s over %s: %d succeeded, %d failed\n",
		res.RunID, res.SubgroupColumn, res.Succeeded, res.Failed)
	for _, sr := range res.Results {
		fmt.Fprintf(w, "%s\n%s: %s\n", rule, res.SubgroupColumn, sr.SubgroupValue)
		if sr.Report == nil {
			fmt.Fprintf(w, "error [%s]: %s\n", sr.Code, sr.Error)
			continue
		}
		fmt.Fprintln(w, r.SummaryCard(*sr.Report))
		writePhi(w, *sr.Report)
		fmt.Fprintln(w)
		fmt.Fprintln(w, r.TableMarkdown(*sr.Report))
	}
	return nil
}

// writePhi prints the effect size line; phi is only defined for significant results.
func writePhi(w io.Writer, report impact.TestReport) {
	phi, ok := report.PhiValue()
	if !ok {
		return
	}
	bin := report.PhiBin
	if bin == "" {
		bin = "unclassified"
	}
	fmt.Fprintf(w, "phi: %.3f (%s)\n", phi, bin)
}

func writeValues(w io.Writer, format, column string, values []string) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	if format == "json" {
		if values == nil {
			values = []string{}
		}
		return writeJSON(w, map[string]interface{}{"column": column, "values": values})
	}
	if len(values) == 0 {
		_, err := fmt.Fprintf(w, "%s has no values\n", column)
		return err
	}
	_, err := fmt.Fprintln(w, strings.Join(values, "\n"))
	return err
}
