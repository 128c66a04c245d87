package trigram_lm

import (
	"strings"

	lru "github.com/hashicorp/golang-lru"
)

const codecLruSize = 65536

// Codec applies a trained vocabulary and merge rule list to encode text
// into token sequences and decode them back. Rules are replayed in
// training order; replaying them in any other order produces a different
// segmentation. Per-word encodings are cached in an ARC LRU since the rule
// replay is the dominant encode cost.
type Codec struct {
	vocab *Vocab
	rules MergeRules
	cache *lru.ARCCache
}

func NewCodec(vocab *Vocab, rules MergeRules) *Codec {
	cache, _ := lru.NewARC(codecLruSize)
	return &Codec{
		vocab: vocab,
		rules: rules,
		cache: cache,
	}
}

func (codec *Codec) Vocab() *Vocab {
	return codec.vocab
}

func (codec *Codec) Rules() MergeRules {
	return codec.rules
}

// encodeWord replays the full rule list over a single word. Rules only
// ever act within a word, so the per-word result is independent of the
// surrounding text and safe to cache.
func (codec *Codec) encodeWord(word []string) []string {
	key := strings.Join(word, "")
	if lookup, ok := codec.cache.Get(key); ok {
		return lookup.([]string)
	}
	for _, rule := range codec.rules {
		hasPair := false
		for i := 0; i+1 < len(word); i++ {
			if word[i] == rule.Left && word[i+1] == rule.Right {
				hasPair = true
				break
			}
		}
		if !hasPair {
			continue
		}
		merged := rule.Merged()
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
		word = newWord
	}
	codec.cache.Add(key, word)
	return word
}

// Encode
// Splits text into words exactly as training did, replays the merge rules
// over each word, and flattens the result. An explicit space token is
// inserted between successive words unless the following word is a special
// marker; embedding the spacing as tokens is what makes Decode lossless.
func (codec *Codec) Encode(text string) []string {
	words := SplitWords(text)
	tokens := make([]string, 0, len(text)/2)
	for idx, word := range words {
		tokens = append(tokens, codec.encodeWord(word)...)
		if idx < len(words)-1 {
			next := words[idx+1]
			if !(len(next) == 1 && IsSpecialMarker(next[0])) {
				tokens = append(tokens, " ")
			}
		}
	}
	return tokens
}

// Decode concatenates token strings verbatim. Spacing is already embedded
// as explicit space tokens.
func (codec *Codec) Decode(tokens []string) string {
	var sb strings.Builder
	for _, token := range tokens {
		sb.WriteString(token)
	}
	return sb.String()
}

// EncodeIds encodes text and resolves each token through the vocabulary.
// A token without an ID means the input contains a symbol the trained
// alphabet cannot represent.
func (codec *Codec) EncodeIds(text string) (Tokens, error) {
	tokens := codec.Encode(text)
	ids := make(Tokens, len(tokens))
	for idx, token := range tokens {
		id, ok := codec.vocab.Id(token)
		if !ok {
			return nil, &UnknownSymbolError{Symbol: token}
		}
		ids[idx] = id
	}
	return ids, nil
}

// DecodeIds resolves IDs back to token strings and concatenates them.
func (codec *Codec) DecodeIds(ids Tokens) (string, error) {
	var sb strings.Builder
	for _, id := range ids {
		token, ok := codec.vocab.TokenString(id)
		if !ok {
			return "", &UnknownIdError{Id: id}
		}
		sb.WriteString(token)
	}
	return sb.String(), nil
}
