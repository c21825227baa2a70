package suspicious

import "sort"

// Score is one treatment variable's counterfactual suspiciousness
// result (spec §4.11).
type Score struct {
	TreatmentVar   string
	Suspiciousness float64
	Min            float64
	Max            float64
	Values         []float64 // representative treatment values evaluated, same order as Predictions
	Predictions    []float64
}

// Rank computes, for every dataset, the classifier's average
// predicted outcome at each representative value of its treatment
// variable (spec §4.11 step 1: [0.0, 1.0] for a binary treatment,
// [min, median, max] for three or more distinct observed values,
// otherwise the sorted distinct set), holding every row's covariates
// fixed — the counterfactual substitution spec §4.11 describes — and
// scores the variable by the spread between its highest and lowest
// average prediction. Datasets are returned sorted by descending
// suspiciousness, ties broken by treatment-variable name for
// determinism.
func Rank(datasets []*Dataset, cfg TrainConfig) []Score {
	scores := make([]Score, 0, len(datasets))
	for _, d := range datasets {
		clf := Train(d, cfg)
		values := d.RepresentativeValues()
		if len(values) == 0 {
			continue
		}

		predictions := make([]float64, len(values))
		for i, v := range values {
			sum := 0.0
			for _, r := range d.Rows {
				sum += clf.Predict(r.Covariates, v)
			}
			predictions[i] = sum / float64(len(d.Rows))
		}

		min, max := predictions[0], predictions[0]
		for _, p := range predictions {
			if p < min {
				min = p
			}
			if p > max {
				max = p
			}
		}

		scores = append(scores, Score{
			TreatmentVar:   d.TreatmentVar,
			Suspiciousness: max - min,
			Min:            min,
			Max:            max,
			Values:         values,
			Predictions:    predictions,
		})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Suspiciousness != scores[j].Suspiciousness {
			return scores[i].Suspiciousness > scores[j].Suspiciousness
		}
		return scores[i].TreatmentVar < scores[j].TreatmentVar
	})
	return scores
}
