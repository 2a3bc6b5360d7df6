package core

import "testing"

func sampleWithContribution(contribution float64) Sample {
	return Sample{Hit: true, LightDistance: 1, Contribution: contribution}
}

func TestReservoirUpdate_SingleCandidateAlwaysAdmitted(t *testing.T) {
	rng := NewRng(1, false)
	var r Reservoir

	s := sampleWithContribution(1)
	r.Update(&rng, s, 2.5)

	if r.SampleCount != 1 {
		t.Errorf("SampleCount = %d, want 1", r.SampleCount)
	}
	if r.WeightTotal != 2.5 {
		t.Errorf("WeightTotal = %f, want 2.5", r.WeightTotal)
	}
	if r.Sample.Contribution != s.Contribution {
		t.Errorf("first candidate with w_sum == w should always be admitted")
	}
}

func TestReservoirUpdate_ZeroWeightNeverReplaces(t *testing.T) {
	rng := NewRng(1, false)
	var r Reservoir

	first := sampleWithContribution(1)
	r.Update(&rng, first, 1)
	second := sampleWithContribution(2)
	r.Update(&rng, second, 0)

	if r.Sample.Contribution != first.Contribution {
		t.Errorf("a zero-weight candidate must never replace the stored sample")
	}
	if r.SampleCount != 2 {
		t.Errorf("SampleCount = %d, want 2", r.SampleCount)
	}
}

func TestFinalizeWeight_EmptyReservoirIsZero(t *testing.T) {
	var r Reservoir
	r.FinalizeWeight()
	if r.WeightOut != 0 {
		t.Errorf("WeightOut = %f, want 0 for an empty reservoir", r.WeightOut)
	}
}

func TestFinalizeWeight_ZeroContributionSampleIsZero(t *testing.T) {
	r := Reservoir{SampleCount: 1, WeightTotal: 5, Sample: sampleWithContribution(0)}
	r.FinalizeWeight()
	if r.WeightOut != 0 {
		t.Errorf("WeightOut = %f, want 0 when the stored sample's target function is 0", r.WeightOut)
	}
}

func TestFinalizeWeight_MatchesDefinition(t *testing.T) {
	r := Reservoir{SampleCount: 4, WeightTotal: 8, Sample: sampleWithContribution(2)}
	r.FinalizeWeight()

	want := (8.0 / 4.0) / 2.0
	if r.WeightOut != want {
		t.Errorf("WeightOut = %f, want %f", r.WeightOut, want)
	}
}

func TestCombineBiased_SampleCountIsExactSum(t *testing.T) {
	rng := NewRng(7, false)

	a := Reservoir{SampleCount: 3, WeightOut: 1, Sample: sampleWithContribution(1)}
	b := Reservoir{SampleCount: 5, WeightOut: 1, Sample: sampleWithContribution(1)}

	c := CombineBiased(&rng, a, b)
	if c.SampleCount != 8 {
		t.Errorf("combined SampleCount = %d, want 8", c.SampleCount)
	}
}

func TestCombineBiased_ZeroContributionInputsYieldEmptyCombine(t *testing.T) {
	rng := NewRng(7, false)

	a := Reservoir{SampleCount: 1, WeightOut: 0, Sample: sampleWithContribution(0)}
	b := Reservoir{SampleCount: 1, WeightOut: 0, Sample: sampleWithContribution(0)}

	c := CombineBiased(&rng, a, b)
	if c.WeightOut != 0 {
		t.Errorf("WeightOut = %f, want 0 when both inputs contribute zero weight", c.WeightOut)
	}
}
