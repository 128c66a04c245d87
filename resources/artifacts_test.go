package resources

import (
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"

	trigram_lm "github.com/qalam/trigram_lm"
)

func trainArtifacts(t *testing.T, corpus string) (string, *trigram_lm.Model) {
	t.Helper()
	dir := t.TempDir()
	vocab, rules := trigram_lm.Train(corpus, 30)
	codec := trigram_lm.NewCodec(vocab, rules)
	tables := trigram_lm.Count(codec.Encode(corpus))
	model := trigram_lm.NewModel(tables, vocab)

	assert.NoError(t, SaveVocabulary(vocab, path.Join(dir, VocabFile)))
	assert.NoError(t, SaveMergeRules(rules, path.Join(dir, MergesFile)))
	assert.NoError(t, SaveModel(model, path.Join(dir, ModelFile)))
	return dir, model
}

func TestVocabularyRoundTrip(t *testing.T) {
	dir := t.TempDir()
	vocab, _ := trigram_lm.Train("ab ab cd cd", 20)
	vocabPath := path.Join(dir, VocabFile)
	assert.NoError(t, SaveVocabulary(vocab, vocabPath))

	loaded, err := LoadVocabulary(vocabPath)
	assert.NoError(t, err)
	assert.Equal(t, vocab.Strings(), loaded.Strings())
}

func TestLoadVocabularyRejectsSparseIds(t *testing.T) {
	dir := t.TempDir()
	vocabPath := path.Join(dir, VocabFile)
	assert.NoError(t, os.WriteFile(vocabPath,
		[]byte(`{"a": 0, "b": 7}`), 0644))
	_, err := LoadVocabulary(vocabPath)
	assert.Error(t, err)
}

func TestMergeRulesRoundTripPreservesOrder(t *testing.T) {
	dir := t.TempDir()
	rules := trigram_lm.MergeRules{
		{Left: "a", Right: "b"},
		{Left: "ab", Right: "c"},
		{Left: "d", Right: "e"},
	}
	mergesPath := path.Join(dir, MergesFile)
	assert.NoError(t, SaveMergeRules(rules, mergesPath))

	loaded, err := LoadMergeRules(mergesPath)
	assert.NoError(t, err)
	assert.Equal(t, rules, loaded)
}

func TestLoadMergeRulesSkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	mergesPath := path.Join(dir, MergesFile)
	content := "a\tb\nmalformed line\n\nc\td\te\nx\ty\n"
	assert.NoError(t, os.WriteFile(mergesPath, []byte(content), 0644))

	loaded, err := LoadMergeRules(mergesPath)
	assert.NoError(t, err)
	assert.Equal(t, trigram_lm.MergeRules{
		{Left: "a", Right: "b"},
		{Left: "x", Right: "y"},
	}, loaded)
}

func TestModelRoundTrip(t *testing.T) {
	dir, model := trainArtifacts(t, "ab cd ab cd ab "+trigram_lm.MarkerEOT)

	loaded, err := LoadModel(path.Join(dir, ModelFile))
	assert.NoError(t, err)
	assert.Equal(t, model.VocabSize, loaded.VocabSize)
	assert.Equal(t, model.Tokens, loaded.Tokens)
	assert.Equal(t, model.Tables.Unigram, loaded.Tables.Unigram)
	assert.Equal(t, model.Tables.Bigram, loaded.Tables.Bigram)
	assert.Equal(t, model.Tables.Trigram, loaded.Tables.Trigram)
	assert.Equal(t, model.Tables.TrigramContextTotals,
		loaded.Tables.TrigramContextTotals)
	assert.Equal(t, model.Tables.TotalUnigrams, loaded.Tables.TotalUnigrams)
}

func TestLoadModelRejectsVocabSizeMismatch(t *testing.T) {
	dir := t.TempDir()
	modelPath := path.Join(dir, ModelFile)
	content := `{"vocab_size": 5, "vocab_list": ["a", "b"]}`
	assert.NoError(t, os.WriteFile(modelPath, []byte(content), 0644))
	_, err := LoadModel(modelPath)
	assert.ErrorContains(t, err, "vocab_size")
}

func TestLoadModelRejectsMalformedTupleKey(t *testing.T) {
	dir := t.TempDir()
	modelPath := path.Join(dir, ModelFile)
	content := `{"vocab_size": 2, "vocab_list": ["a", "b"],` +
		` "trigram": {"a\tb": 1}}`
	assert.NoError(t, os.WriteFile(modelPath, []byte(content), 0644))
	_, err := LoadModel(modelPath)
	assert.ErrorContains(t, err, "malformed trigram key")
}

func TestLoadModelRejectsUnknownToken(t *testing.T) {
	dir := t.TempDir()
	modelPath := path.Join(dir, ModelFile)
	content := `{"vocab_size": 2, "vocab_list": ["a", "b"],` +
		` "unigram": {"zz": 3}}`
	assert.NoError(t, os.WriteFile(modelPath, []byte(content), 0644))
	_, err := LoadModel(modelPath)
	assert.ErrorContains(t, err, "absent from the token list")
}

func TestLoadMissingArtifact(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadVocabulary(path.Join(dir, VocabFile))
	assert.ErrorIs(t, err, ErrMissingArtifact)
}

func TestLoadArtifacts(t *testing.T) {
	corpus := "ab cd ab cd ab " + trigram_lm.MarkerEOT
	dir, model := trainArtifacts(t, corpus)

	codec, loaded, err := LoadArtifacts(dir)
	assert.NoError(t, err)
	assert.Equal(t, model.VocabSize, loaded.VocabSize)
	assert.Equal(t, "ab cd", codec.Decode(codec.Encode("ab cd")))
}

func TestResolveArtifactsLocalMissing(t *testing.T) {
	dir := t.TempDir()
	err := ResolveArtifacts(dir, dir)
	assert.ErrorIs(t, err, ErrMissingArtifact)
}

func TestResolveArtifactsLocalComplete(t *testing.T) {
	dir, _ := trainArtifacts(t, "ab cd ab cd "+trigram_lm.MarkerEOT)
	assert.NoError(t, ResolveArtifacts(dir, dir))
}

func TestResolveArtifactsCopiesFromDirectory(t *testing.T) {
	src, _ := trainArtifacts(t, "ab cd ab cd "+trigram_lm.MarkerEOT)
	dst := t.TempDir()
	assert.NoError(t, ResolveArtifacts(src, dst))
	for _, rsrc := range []string{VocabFile, MergesFile, ModelFile} {
		_, err := os.Stat(path.Join(dst, rsrc))
		assert.NoError(t, err)
	}
}
