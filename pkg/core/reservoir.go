package core

// Reservoir is a fixed-size (1) weighted reservoir: the stored Sample plus
// the streaming WRS bookkeeping (SampleCount = M, WeightTotal = w_sum) and
// the unbiased contribution weight (WeightOut = W) carried into shading.
type Reservoir struct {
	Sample      Sample
	SampleCount int // M
	WeightTotal float64 // w_sum
	WeightOut   float64 // W
}

// Update performs one streaming WRS step: increments M, adds w to w_sum,
// and replaces the stored sample with probability w/w_sum. Ties are
// resolved inclusively (<=) so the first candidate is admitted when
// w_sum == w.
func (r *Reservoir) Update(rng *Rng, sample Sample, weight float64) {
	r.SampleCount++
	r.WeightTotal += weight
	if r.WeightTotal <= 0 {
		return
	}
	if rng.Float() <= weight/r.WeightTotal {
		r.Sample = sample
	}
}

// FinalizeWeight computes WeightOut = (w_sum / M) / p-hat(sample), or 0 when
// the stored sample's target function is zero.
func (r *Reservoir) FinalizeWeight() {
	if r.SampleCount == 0 {
		r.WeightOut = 0
		return
	}
	phat := r.Sample.Contribution
	if phat <= 0 {
		r.WeightOut = 0
		return
	}
	r.WeightOut = (r.WeightTotal / float64(r.SampleCount)) / phat
}

// CombineBiased implements the original-paper biased MIS combiner: each
// input contributes its stored sample with weight p-hat(sample)*W*M: the
// combined M is the exact sum of the inputs' M, and the combined W is
// recomputed from the winning sample's p-hat and the combined w_sum/M.
func CombineBiased(rng *Rng, a, b Reservoir) Reservoir {
	var c Reservoir

	wa := a.Sample.Contribution * a.WeightOut * float64(a.SampleCount)
	wb := b.Sample.Contribution * b.WeightOut * float64(b.SampleCount)

	c.Update(rng, a.Sample, wa)
	c.Update(rng, b.Sample, wb)
	c.SampleCount = a.SampleCount + b.SampleCount

	c.FinalizeWeight()
	return c
}
