package suspicious

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Classifier predicts the probability that a row with the given
// covariates and treatment value belongs to the positive (defective)
// class. It is the sum type spec §4.10 calls for: a constant
// predictor when a dataset has no usable signal, or a learned
// logistic classifier otherwise.
type Classifier interface {
	Predict(covariates map[string]float64, treatmentVal float64) float64
}

// ConstantClassifier always predicts the same probability — the
// training fallback for a dataset with one class only (a logistic fit
// is meaningless when every label is identical).
type ConstantClassifier struct {
	P float64
}

func (c *ConstantClassifier) Predict(map[string]float64, float64) float64 { return c.P }

// LogisticClassifier is a hand-rolled binary logistic regression: no
// example repo in the corpus imports a machine-learning library, so
// this trains via plain gradient descent on gonum.org/v1/gonum/mat
// vectors — the same gonum module the CFG package already depends on
// for graph storage, just a different subpackage, rather than reaching
// for an unrelated out-of-corpus ML dependency.
type LogisticClassifier struct {
	Features []string // covariate names, in the order Weights indexes them
	Weights  *mat.VecDense
	Bias     float64
}

func (c *LogisticClassifier) featureVector(covariates map[string]float64, treatmentVal float64) *mat.VecDense {
	vals := make([]float64, len(c.Features)+1)
	for i, name := range c.Features {
		vals[i] = covariates[name]
	}
	vals[len(c.Features)] = treatmentVal
	return mat.NewVecDense(len(vals), vals)
}

func (c *LogisticClassifier) Predict(covariates map[string]float64, treatmentVal float64) float64 {
	x := c.featureVector(covariates, treatmentVal)
	z := mat.Dot(c.Weights, x) + c.Bias
	return sigmoid(z)
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

// TrainConfig bounds the gradient-descent fit.
type TrainConfig struct {
	LearningRate float64
	Epochs       int
}

// DefaultTrainConfig is a conservative, always-converges-on-small-data
// setting: per-method fixture datasets are at most a few hundred rows.
var DefaultTrainConfig = TrainConfig{LearningRate: 0.1, Epochs: 500}

// Train fits a Classifier for one treatment variable's dataset (spec
// §4.10). Datasets with a single outcome class short-circuit to a
// ConstantClassifier, since there is nothing for a logistic fit to
// discriminate.
func Train(d *Dataset, cfg TrainConfig) Classifier {
	if len(d.Rows) == 0 {
		return &ConstantClassifier{P: 0}
	}

	positives := 0.0
	for _, r := range d.Rows {
		positives += r.Outcome
	}
	rate := positives / float64(len(d.Rows))
	if rate == 0 || rate == 1 {
		return &ConstantClassifier{P: rate}
	}

	features := d.CovariateNames()
	n := len(features) + 1
	weights := mat.NewVecDense(n, nil)
	bias := 0.0

	clf := &LogisticClassifier{Features: features, Weights: weights, Bias: bias}

	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		gradW := mat.NewVecDense(n, nil)
		gradB := 0.0
		for _, r := range d.Rows {
			x := clf.featureVector(r.Covariates, r.TreatmentVal)
			pred := clf.Predict(r.Covariates, r.TreatmentVal)
			errTerm := pred - r.Outcome
			scaled := mat.NewVecDense(n, nil)
			scaled.ScaleVec(errTerm, x)
			gradW.AddVec(gradW, scaled)
			gradB += errTerm
		}
		count := float64(len(d.Rows))
		step := mat.NewVecDense(n, nil)
		step.ScaleVec(cfg.LearningRate/count, gradW)
		clf.Weights.SubVec(clf.Weights, step)
		clf.Bias -= cfg.LearningRate * gradB / count
	}

	return clf
}
