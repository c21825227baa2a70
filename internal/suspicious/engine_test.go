package suspicious

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankOrdersByDescendingSuspiciousness(t *testing.T) {
	// "noisy" never separates the classes (same values either outcome);
	// "signal" cleanly separates them, so it should rank first.
	noisy := &Dataset{
		TreatmentVar: "noisy_1",
		Rows: []Row{
			{TreatmentVal: 1, Outcome: 0},
			{TreatmentVal: 1, Outcome: 1},
			{TreatmentVal: 2, Outcome: 0},
			{TreatmentVal: 2, Outcome: 1},
		},
	}
	signal := &Dataset{
		TreatmentVar: "signal_1",
		Rows: []Row{
			{TreatmentVal: 0, Outcome: 0},
			{TreatmentVal: 0, Outcome: 0},
			{TreatmentVal: 10, Outcome: 1},
			{TreatmentVal: 10, Outcome: 1},
		},
	}

	scores := Rank([]*Dataset{noisy, signal}, TrainConfig{LearningRate: 0.5, Epochs: 1000})
	require.Len(t, scores, 2)
	assert.Equal(t, "signal_1", scores[0].TreatmentVar)
	assert.Equal(t, "noisy_1", scores[1].TreatmentVar)
	assert.Greater(t, scores[0].Suspiciousness, scores[1].Suspiciousness)
}

func TestRankSkipsDatasetWithNoObservedValues(t *testing.T) {
	empty := &Dataset{TreatmentVar: "empty_1"}
	scores := Rank([]*Dataset{empty}, DefaultTrainConfig)
	assert.Empty(t, scores)
}

func TestRankTiesBrokenByTreatmentVarName(t *testing.T) {
	a := &Dataset{TreatmentVar: "b_1", Rows: []Row{{TreatmentVal: 1, Outcome: 0}}}
	b := &Dataset{TreatmentVar: "a_1", Rows: []Row{{TreatmentVal: 1, Outcome: 0}}}

	scores := Rank([]*Dataset{a, b}, DefaultTrainConfig)
	require.Len(t, scores, 2)
	// both datasets are identical apart from their treatment-variable
	// name, so they score identically -- alphabetical tie-break decides
	// order.
	assert.Equal(t, "a_1", scores[0].TreatmentVar)
	assert.Equal(t, "b_1", scores[1].TreatmentVar)
	assert.InDelta(t, scores[0].Suspiciousness, scores[1].Suspiciousness, 1e-9)
}

func TestRankMinMaxBoundPredictions(t *testing.T) {
	d := &Dataset{
		TreatmentVar: "x_1",
		Rows: []Row{
			{TreatmentVal: 0, Outcome: 0},
			{TreatmentVal: 5, Outcome: 1},
		},
	}
	scores := Rank([]*Dataset{d}, DefaultTrainConfig)
	require.Len(t, scores, 1)
	s := scores[0]
	for _, p := range s.Predictions {
		assert.GreaterOrEqual(t, p, s.Min)
		assert.LessOrEqual(t, p, s.Max)
	}
	assert.InDelta(t, s.Max-s.Min, s.Suspiciousness, 1e-9)
}
