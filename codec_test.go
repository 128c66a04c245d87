package trigram_lm

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func trainedCodec(corpus string, vocabSize int) *Codec {
	vocab, rules := Train(corpus, vocabSize)
	return NewCodec(vocab, rules)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	corpus := "the cat sat on the mat the cat ran"
	codec := trainedCodec(corpus, 40)
	texts := []string{
		"the cat sat",
		"cat",
		"the mat on the cat",
	}
	for _, text := range texts {
		assert.Equal(t, text, codec.Decode(codec.Encode(text)))
	}
}

func TestEncodeSpaceTokens(t *testing.T) {
	codec := trainedCodec("", 10)
	tokens := codec.Encode("a b")
	assert.Equal(t, []string{"a", " ", "b"}, tokens)
}

func TestEncodeNoSpaceBeforeMarker(t *testing.T) {
	codec := trainedCodec("", 10)
	tokens := codec.Encode("ab " + MarkerEOS + " cd")
	assert.Equal(t, []string{"a", "b", MarkerEOS, " ", "c", "d"}, tokens)
}

func TestEncodeAppliesRulesInOrder(t *testing.T) {
	vocab := NewVocab()
	for _, marker := range SpecialMarkers {
		vocab.Add(marker)
	}
	for _, symbol := range []string{" ", "a", "b", "c", "ab", "abc"} {
		vocab.Add(symbol)
	}
	first := NewCodec(vocab, MergeRules{{"a", "b"}, {"ab", "c"}})
	second := NewCodec(vocab, MergeRules{{"ab", "c"}, {"a", "b"}})
	// In training order the second rule builds on the first's output; in
	// reverse order it never finds an "ab" symbol and is a no-op, so the
	// token counts differ.
	assert.Equal(t, []string{"abc"}, first.Encode("abc"))
	assert.Equal(t, []string{"ab", "c"}, second.Encode("abc"))
}

func TestEncodeWordCacheStable(t *testing.T) {
	codec := trainedCodec("abab abab abab", 20)
	// Second encode is served from the per-word cache and must agree.
	one := codec.Encode("abab abab")
	two := codec.Encode("abab abab")
	assert.Equal(t, one, two)
}

func TestEncodeIds(t *testing.T) {
	codec := trainedCodec("ab ab ab", 10)
	ids, err := codec.EncodeIds("ab ab")
	assert.NoError(t, err)
	decoded, err := codec.DecodeIds(ids)
	assert.NoError(t, err)
	assert.Equal(t, "ab ab", decoded)
}

func TestEncodeIdsUnknownSymbol(t *testing.T) {
	codec := trainedCodec("ab ab ab", 10)
	_, err := codec.EncodeIds("xyz")
	assert.Error(t, err)
	var unknownErr *UnknownSymbolError
	assert.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "x", unknownErr.Symbol)
}

func TestDecodeIdsUnknownId(t *testing.T) {
	codec := trainedCodec("ab ab ab", 10)
	_, err := codec.DecodeIds(Tokens{9999})
	var unknownErr *UnknownIdError
	assert.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, Token(9999), unknownErr.Id)
}

func TestEncodeLargeInput(t *testing.T) {
	corpus := strings.Repeat("ab abc abcd ", 200)
	codec := trainedCodec(corpus, 40)
	text := strings.TrimSpace(strings.Repeat("abcd abc ab ", 2000))
	start := time.Now()
	tokens := codec.Encode(text)
	duration := time.Since(start)
	t.Log(fmt.Sprintf("%v bytes into %v tokens over %v\n",
		len(text), len(tokens), duration))
	assert.Equal(t, text, codec.Decode(tokens))
}

func TestEncodeEmptyText(t *testing.T) {
	codec := trainedCodec("ab ab ab", 10)
	assert.Empty(t, codec.Encode(""))
	assert.Equal(t, "", codec.Decode(nil))
}
