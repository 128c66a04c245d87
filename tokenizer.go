package trigram_lm

import (
	"fmt"
	"sort"
)

type Token uint16
type Tokens []Token

// Vocab is a bijective token-string to ID mapping. IDs are dense, 0-based
// and insertion-ordered; the special markers always hold the lowest IDs.
type Vocab struct {
	Encoder map[string]Token
	order   []string
}

func NewVocab() *Vocab {
	return &Vocab{Encoder: make(map[string]Token, 256)}
}

// NewVocabFromEncoder builds a Vocab from a token->ID mapping, validating
// that the IDs are dense and unique.
func NewVocabFromEncoder(encoder map[string]Token) (*Vocab, error) {
	order := make([]string, len(encoder))
	seen := make([]bool, len(encoder))
	for token, id := range encoder {
		if int(id) >= len(encoder) {
			return nil, fmt.Errorf(
				"vocabulary IDs are not dense: token %q has ID %d with %d entries",
				token, id, len(encoder))
		}
		if seen[id] {
			return nil, fmt.Errorf(
				"vocabulary IDs are not unique: ID %d assigned twice", id)
		}
		seen[id] = true
		order[id] = token
	}
	vocab := &Vocab{Encoder: make(map[string]Token, len(encoder)), order: order}
	for token, id := range encoder {
		vocab.Encoder[token] = id
	}
	return vocab, nil
}

// Add assigns the next free ID to token. Adding an existing token returns
// its current ID.
func (vocab *Vocab) Add(token string) Token {
	if id, ok := vocab.Encoder[token]; ok {
		return id
	}
	id := Token(len(vocab.order))
	vocab.Encoder[token] = id
	vocab.order = append(vocab.order, token)
	return id
}

func (vocab *Vocab) Has(token string) bool {
	_, ok := vocab.Encoder[token]
	return ok
}

// Id returns the ID for a token, with ok reporting whether the token is
// part of the vocabulary.
func (vocab *Vocab) Id(token string) (Token, bool) {
	id, ok := vocab.Encoder[token]
	return id, ok
}

// TokenString returns the token string for an ID.
func (vocab *Vocab) TokenString(id Token) (string, bool) {
	if int(id) >= len(vocab.order) {
		return "", false
	}
	return vocab.order[int(id)], true
}

func (vocab *Vocab) Len() int {
	return len(vocab.order)
}

// Strings returns the token strings in ID order.
func (vocab *Vocab) Strings() []string {
	out := make([]string, len(vocab.order))
	copy(out, vocab.order)
	return out
}

// MergeRule is an ordered pair of tokens whose concatenation became a new
// vocabulary entry during training.
type MergeRule struct {
	Left  string
	Right string
}

// Merged returns the token string the rule produces.
func (rule MergeRule) Merged() string {
	return rule.Left + rule.Right
}

// MergeRules is the full rule list in training order. The order is
// load-bearing: encoding replays the rules in exactly this order.
type MergeRules []MergeRule

type pairStat struct {
	count     int
	firstSeen int
}

// bestPair counts every adjacent in-word symbol pair across all words and
// returns the most frequent one. Ties are broken by first occurrence in a
// single left-to-right scan of the word set, which keeps training
// deterministic regardless of map iteration order.
func bestPair(words [][]string) (MergeRule, int) {
	stats := make(map[MergeRule]*pairStat, 1024)
	seq := 0
	for _, word := range words {
		for i := 0; i+1 < len(word); i++ {
			pair := MergeRule{word[i], word[i+1]}
			stat, ok := stats[pair]
			if !ok {
				stat = &pairStat{firstSeen: seq}
				stats[pair] = stat
			}
			stat.count++
			seq++
		}
	}
	var best MergeRule
	bestStat := &pairStat{}
	for pair, stat := range stats {
		if stat.count > bestStat.count ||
			(stat.count == bestStat.count && stat.firstSeen < bestStat.firstSeen) {
			best = pair
			bestStat = stat
		}
	}
	return best, bestStat.count
}

// applyRule rewrites every word, replacing occurrences of the rule's pair
// with the merged token. Matches are consumed leftmost-first without
// overlap.
func applyRule(words [][]string, rule MergeRule) [][]string {
	merged := rule.Merged()
	for wordIdx, word := range words {
		found := false
		for i := 0; i+1 < len(word); i++ {
			if word[i] == rule.Left && word[i+1] == rule.Right {
				found = true
				break
			}
		}
		if !found {
			continue
		}
		newWord := make([]string, 0, len(word))
		for i := 0; i < len(word); {
			if i+1 < len(word) && word[i] == rule.Left && word[i+1] == rule.Right {
				newWord = append(newWord, merged)
				i += 2
			} else {
				newWord = append(newWord, word[i])
				i += 1
			}
		}
		words[wordIdx] = newWord
	}
	return words
}

// initialVocab builds the pre-merge vocabulary: the special markers on the
// lowest IDs in canonical order, then every distinct corpus symbol plus the
// space character, sorted for a stable ID assignment.
func initialVocab(words [][]string) *Vocab {
	symbols := make(map[string]bool, 256)
	for _, word := range words {
		for _, symbol := range word {
			symbols[symbol] = true
		}
	}
	symbols[" "] = true
	for _, marker := range SpecialMarkers {
		delete(symbols, marker)
	}
	sorted := make([]string, 0, len(symbols))
	for symbol := range symbols {
		sorted = append(sorted, symbol)
	}
	sort.Strings(sorted)

	vocab := NewVocab()
	for _, marker := range SpecialMarkers {
		vocab.Add(marker)
	}
	for _, symbol := range sorted {
		vocab.Add(symbol)
	}
	return vocab
}

// Train
// Builds a bounded vocabulary and an ordered merge rule list from the
// corpus. The loop repeatedly merges the most frequent adjacent symbol
// pair, stopping once the vocabulary reaches targetVocabSize, no pair
// occurs at least twice, or the merged token already exists. An empty
// corpus yields the markers plus the space character and no rules, which
// is a valid degenerate result rather than an error.
//
// Training re-scans the full word set on every merge, an O(merges x
// corpusSize) cost that is acceptable at the small vocabulary sizes this
// model targets.
func Train(corpus string, targetVocabSize int) (*Vocab, MergeRules) {
	words := SplitWords(corpus)
	vocab := initialVocab(words)
	rules := make(MergeRules, 0, targetVocabSize)

	for vocab.Len() < targetVocabSize {
		pair, count := bestPair(words)
		if count < 2 {
			break
		}
		merged := pair.Merged()
		if vocab.Has(merged) {
			break
		}
		vocab.Add(merged)
		rules = append(rules, pair)
		words = applyRule(words, pair)
	}
	return vocab, rules
}
