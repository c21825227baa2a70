package suspicious

import (
	"encoding/json"
	"fmt"
	"io"

	sarif "github.com/owenrumney/go-sarif/v2/sarif"
)

// WriteSARIF renders a suspiciousness ranking as a SARIF 2.1.0 report,
// one result per scored treatment variable, so the ranking can be
// consumed by the same tooling that reads any other static-analysis
// report (spec §6 diagnostic export).
func WriteSARIF(w io.Writer, sourceFile string, scores []Score) error {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return err
	}
	run := sarif.NewRunWithInformationURI("kausal-go", "https://github.com/mkelesidou/kausal-go")

	for _, s := range scores {
		ruleID := "suspicious-variable"
		rule := run.AddRule(ruleID + ":" + s.TreatmentVar).
			WithDescription("Counterfactual suspiciousness score for a treatment variable").
			WithName(s.TreatmentVar).
			WithHelpURI("https://github.com/mkelesidou/kausal-go")
		rule.WithDefaultConfiguration(sarif.NewReportingConfiguration().WithLevel(levelFor(s.Suspiciousness)))

		message := fmt.Sprintf("%s: suspiciousness %.4f (range %.4f-%.4f over %d representative values)",
			s.TreatmentVar, s.Suspiciousness, s.Min, s.Max, len(s.Values))

		result := run.CreateResultForRule(ruleID + ":" + s.TreatmentVar).
			WithMessage(sarif.NewTextMessage(message))

		region := sarif.NewRegion().WithStartLine(1)
		location := sarif.NewLocation().WithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(sourceFile)).
				WithRegion(region),
		)
		result.AddLocation(location)
	}

	report.AddRun(run)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func levelFor(suspiciousness float64) string {
	switch {
	case suspiciousness >= 0.5:
		return "error"
	case suspiciousness >= 0.2:
		return "warning"
	default:
		return "note"
	}
}
