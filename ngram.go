package trigram_lm

// Bigram and Trigram are genuine tuple keys for the count tables. The
// tab-joined string form exists only in the on-disk artifact.
type Bigram struct {
	W1 string
	W2 string
}

type Trigram struct {
	W1 string
	W2 string
	W3 string
}

// NGramTables holds the frequency tables aggregated from a tokenized
// corpus, plus the context totals used as smoothing denominators. Built
// once, immutable thereafter.
type NGramTables struct {
	Unigram map[string]int
	Bigram  map[Bigram]int
	Trigram map[Trigram]int

	BigramContextTotals  map[string]int
	TrigramContextTotals map[Bigram]int

	TotalUnigrams int
}

// splitDocuments partitions a token stream into documents, scanning for
// the end-of-document marker. Each document ends exactly at its marker; a
// trailing run without one is still a document.
func splitDocuments(tokens []string) [][]string {
	docs := make([][]string, 0, 16)
	start := 0
	for idx, token := range tokens {
		if token == MarkerEOT {
			docs = append(docs, tokens[start:idx+1])
			start = idx + 1
		}
	}
	if start < len(tokens) {
		docs = append(docs, tokens[start:])
	}
	return docs
}

// Count
// Aggregates unigram, bigram and trigram counts from a token stream. Two
// beginning-of-sequence markers are prepended to every document so the
// first real tokens have well-defined bigram and trigram context, which
// also keeps counts from leaking across document boundaries.
func Count(tokens []string) *NGramTables {
	tables := &NGramTables{
		Unigram:              make(map[string]int, 1024),
		Bigram:               make(map[Bigram]int, 4096),
		Trigram:              make(map[Trigram]int, 8192),
		BigramContextTotals:  make(map[string]int, 1024),
		TrigramContextTotals: make(map[Bigram]int, 4096),
	}

	for _, doc := range splitDocuments(tokens) {
		padded := make([]string, 0, len(doc)+2)
		padded = append(padded, MarkerBOS, MarkerBOS)
		padded = append(padded, doc...)
		for i, token := range padded {
			tables.Unigram[token]++
			tables.TotalUnigrams++
			if i >= 1 {
				tables.Bigram[Bigram{padded[i-1], token}]++
			}
			if i >= 2 {
				tables.Trigram[Trigram{padded[i-2], padded[i-1], token}]++
			}
		}
	}

	for key, count := range tables.Bigram {
		tables.BigramContextTotals[key.W1] += count
	}
	for key, count := range tables.Trigram {
		tables.TrigramContextTotals[Bigram{key.W1, key.W2}] += count
	}
	return tables
}
