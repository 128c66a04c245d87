package trigram_lm

import (
	"math"
	"sort"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
)

// applyTemperature raises each probability to 1/temperature and
// renormalizes. Low temperatures sharpen the distribution toward its mode;
// high temperatures flatten it.
func applyTemperature(probs []float64, temperature float64) {
	if temperature == 1.0 {
		return
	}
	exponent := 1.0 / temperature
	for idx := range probs {
		probs[idx] = math.Pow(probs[idx], exponent)
	}
	normalize(probs)
}

// sampleIndex draws one index by weighted random sampling: cumulative sum
// plus a uniform draw. Given the same rand source state and the same
// probabilities, the draw is exactly reproducible.
func sampleIndex(rng *rand.Rand, probs []float64) int {
	cdf := make([]float64, len(probs))
	floats.CumSum(cdf, probs)
	total := cdf[len(cdf)-1]
	if total <= 0 {
		return rng.Intn(len(probs))
	}
	draw := rng.Float64() * total
	idx := sort.SearchFloat64s(cdf, draw)
	if idx >= len(probs) {
		idx = len(probs) - 1
	}
	return idx
}

// Generate
// Samples tokens from the model until the end-of-document marker is drawn
// or the budget is exhausted. With no seed context the rolling context
// starts as (BOS, BOS) and the output begins with two BOS tokens;
// otherwise the context is the last two seed tokens and the output begins
// with the full seed. The returned sequence never exceeds maxTokens, and
// if it contains the end-of-document marker that marker is the final
// element.
//
// Passing a non-nil rngSeed makes generation deterministic: identical
// model, seed context, budget, temperature and rngSeed produce identical
// output. The Model is only read, so concurrent Generate calls may share
// it freely; all mutable state is local to the call.
func (model *Model) Generate(seedTokens []string, maxTokens int,
	temperature float64, rngSeed *int64) []string {
	var rng *rand.Rand
	if rngSeed != nil {
		rng = rand.New(rand.NewSource(uint64(*rngSeed)))
	} else {
		rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}

	var w1, w2 string
	var generated []string
	if len(seedTokens) < 2 {
		w1, w2 = MarkerBOS, MarkerBOS
		generated = []string{MarkerBOS, MarkerBOS}
	} else {
		w1, w2 = seedTokens[len(seedTokens)-2], seedTokens[len(seedTokens)-1]
		generated = make([]string, len(seedTokens), maxTokens)
		copy(generated, seedTokens)
	}

	if len(model.Tokens) == 0 {
		return generated
	}

	budget := maxTokens - len(generated)
	for i := 0; i < budget; i++ {
		probs := model.scores(w1, w2)
		applyTemperature(probs, temperature)
		next := model.Tokens[sampleIndex(rng, probs)]
		generated = append(generated, next)
		if next == MarkerEOT {
			break
		}
		w1, w2 = w2, next
	}
	return generated
}
