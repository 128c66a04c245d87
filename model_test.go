package trigram_lm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func trainedModel(corpus string, vocabSize int) (*Model, *Codec) {
	vocab, rules := Train(corpus, vocabSize)
	codec := NewCodec(vocab, rules)
	tables := Count(codec.Encode(corpus))
	return NewModel(tables, vocab), codec
}

func TestDistributionSumsToOne(t *testing.T) {
	model, _ := trainedModel("ab cd ab cd ab "+MarkerEOT, 30)
	contexts := []Bigram{
		{MarkerBOS, MarkerBOS},
		{"ab", " "},
		{"never", "seen"},
	}
	for _, ctx := range contexts {
		total := 0.0
		for _, p := range model.Distribution(ctx.W1, ctx.W2) {
			total += p
		}
		assert.InDelta(t, 1.0, total, 1e-9)
	}
}

func TestProbabilityStrictlyPositive(t *testing.T) {
	model, _ := trainedModel("ab cd ab cd "+MarkerEOT, 30)
	// Smoothing guarantees every token gets nonzero mass even in an
	// unseen context.
	for _, token := range model.Tokens {
		assert.Greater(t, model.Probability("never", "seen", token), 0.0)
	}
}

func TestProbabilityPrefersObservedContinuation(t *testing.T) {
	// "b" always follows (BOS-ish) "a a"; an unrelated token must score
	// lower in that context.
	tokens := []string{"a", "a", "b", MarkerEOT, "a", "a", "b", MarkerEOT}
	tables := Count(tokens)
	vocab := NewVocab()
	for _, marker := range SpecialMarkers {
		vocab.Add(marker)
	}
	vocab.Add("a")
	vocab.Add("b")
	model := NewModel(tables, vocab)

	seen := model.Probability("a", "a", "b")
	unseen := model.Probability("a", "a", MarkerEOP)
	assert.Greater(t, seen, unseen)
}

func TestProbabilityFallsBackThroughOrders(t *testing.T) {
	model, _ := trainedModel("ab cd ab cd ab "+MarkerEOT, 30)

	// Unseen trigram context with a seen bigram context: the trigram
	// component reuses the bigram estimate, so both tokens below differ
	// only through bigram and unigram evidence.
	pFreq := model.Probability("never", "ab", " ")
	pRare := model.Probability("never", "ab", MarkerEOP)
	assert.Greater(t, pFreq, pRare)

	// Fully unseen context degenerates toward the unigram distribution.
	pCommon := model.Probability("never", "seen", "ab")
	pAbsent := model.Probability("never", "seen", MarkerEOP)
	assert.Greater(t, pCommon, pAbsent)
}

func TestEmptyModelUniform(t *testing.T) {
	vocab, _ := Train("", 10)
	model := NewModel(Count(nil), vocab)
	uniform := 1.0 / float64(vocab.Len())
	for _, token := range model.Tokens {
		p := model.Probability(MarkerBOS, MarkerBOS, token)
		assert.InDelta(t, uniform, p, 1e-12)
	}
}

func TestNormalize(t *testing.T) {
	probs := []float64{2, 2, 4}
	normalize(probs)
	assert.InDelta(t, 0.25, probs[0], 1e-12)
	assert.InDelta(t, 0.5, probs[2], 1e-12)

	zeros := []float64{0, 0, 0, 0}
	normalize(zeros)
	for _, p := range zeros {
		assert.InDelta(t, 0.25, p, 1e-12)
	}
}

func TestAddKMatchesDefinition(t *testing.T) {
	model := &Model{VocabSize: 100}
	expected := (3.0 + smoothingK) / (10.0 + smoothingK*100)
	assert.InDelta(t, expected, model.addK(3, 10), 1e-12)
	assert.False(t, math.IsNaN(model.addK(0, 0)))
}
