package trigram_lm

import (
	"gonum.org/v1/gonum/floats"
)

// Interpolation weights. The trigram estimate is the most informative, so
// it carries most of the mass; the weights sum to 1.0.
const (
	lambdaUnigram = 0.1
	lambdaBigram  = 0.3
	lambdaTrigram = 0.6
)

// smoothingK is the add-k constant applied to every MLE estimate so that
// unseen n-grams never get a zero probability.
const smoothingK = 0.01

// Model bundles the count tables with the vocabulary it was trained
// against. It is read-only for the lifetime of the process; concurrent
// Generate calls may share one Model without locking.
type Model struct {
	Tables    *NGramTables
	VocabSize int
	Tokens    []string
}

func NewModel(tables *NGramTables, vocab *Vocab) *Model {
	return &Model{
		Tables:    tables,
		VocabSize: vocab.Len(),
		Tokens:    vocab.Strings(),
	}
}

// addK computes (count + k) / (total + k*V), the add-k smoothed relative
// frequency.
func (model *Model) addK(count int, total int) float64 {
	return (float64(count) + smoothingK) /
		(float64(total) + smoothingK*float64(model.VocabSize))
}

// Probability
// Returns the interpolated probability of w3 following the context
// (w1, w2). Each higher-order estimate falls back to the next lower order
// when its context was never observed: trigram to bigram, bigram to
// unigram, unigram to 1/V when the tables are empty.
func (model *Model) Probability(w1 string, w2 string, w3 string) float64 {
	if model.VocabSize == 0 {
		return 0
	}
	tables := model.Tables

	var pUni float64
	if tables.TotalUnigrams == 0 {
		pUni = 1.0 / float64(model.VocabSize)
	} else {
		pUni = model.addK(tables.Unigram[w3], tables.TotalUnigrams)
	}

	pBi := pUni
	if total := tables.BigramContextTotals[w2]; total > 0 {
		pBi = model.addK(tables.Bigram[Bigram{w2, w3}], total)
	}

	pTri := pBi
	if total := tables.TrigramContextTotals[Bigram{w1, w2}]; total > 0 {
		pTri = model.addK(tables.Trigram[Trigram{w1, w2, w3}], total)
	}

	return lambdaUnigram*pUni + lambdaBigram*pBi + lambdaTrigram*pTri
}

// scores computes the normalized next-token distribution over the full
// token list, aligned index-for-index with model.Tokens. This is the O(V)
// inner loop of generation. A zero score sum degenerates to the uniform
// distribution instead of failing.
func (model *Model) scores(w1 string, w2 string) []float64 {
	probs := make([]float64, len(model.Tokens))
	for idx, w3 := range model.Tokens {
		probs[idx] = model.Probability(w1, w2, w3)
	}
	normalize(probs)
	return probs
}

// normalize scales probs to sum to 1, or falls back to uniform when the
// sum is zero.
func normalize(probs []float64) {
	if len(probs) == 0 {
		return
	}
	total := floats.Sum(probs)
	if total > 0 {
		floats.Scale(1/total, probs)
	} else {
		uniform := 1.0 / float64(len(probs))
		for idx := range probs {
			probs[idx] = uniform
		}
	}
}

// Distribution returns the next-token distribution for a two-token
// context as a token to probability mapping.
func (model *Model) Distribution(w1 string, w2 string) map[string]float64 {
	probs := model.scores(w1, w2)
	dist := make(map[string]float64, len(probs))
	for idx, token := range model.Tokens {
		dist[token] = probs[idx]
	}
	return dist
}
