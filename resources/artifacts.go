package resources

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	trigram_lm "github.com/qalam/trigram_lm"
)

// Canonical artifact file names within an artifact directory.
const (
	VocabFile  = "vocab.json"
	MergesFile = "merges.txt"
	ModelFile  = "model.json"
)

// ErrMissingArtifact is returned when a vocabulary, merge rule, or model
// file is absent. Loads are fatal on this: there is no retry or partial
// recovery.
var ErrMissingArtifact = errors.New("resources: artifact not found")

// SaveVocabulary writes the token to ID mapping as UTF-8 JSON. The dense
// 0-based IDs carry the insertion order, so the serialization is
// order-preserving even though JSON objects are unordered.
func SaveVocabulary(vocab *trigram_lm.Vocab, vocabPath string) error {
	data, err := json.MarshalIndent(vocab.Encoder, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomic(vocabPath, data)
}

// LoadVocabulary reads a vocabulary file, validating that the IDs form a
// dense, unique 0-based range.
func LoadVocabulary(vocabPath string) (*trigram_lm.Vocab, error) {
	data, err := readArtifact(vocabPath)
	if err != nil {
		return nil, err
	}
	encoder := make(map[string]trigram_lm.Token)
	if err := json.Unmarshal(data, &encoder); err != nil {
		return nil, fmt.Errorf("resources: cannot unmarshal %s: %v",
			vocabPath, err)
	}
	return trigram_lm.NewVocabFromEncoder(encoder)
}

// SaveMergeRules writes one rule per line, the two tokens tab-separated,
// in training order.
func SaveMergeRules(rules trigram_lm.MergeRules, mergesPath string) error {
	var buf bytes.Buffer
	for _, rule := range rules {
		buf.WriteString(rule.Left)
		buf.WriteByte('\t')
		buf.WriteString(rule.Right)
		buf.WriteByte('\n')
	}
	return writeAtomic(mergesPath, buf.Bytes())
}

// LoadMergeRules reads a merge rule file. The parse is lenient: any line
// that does not split into exactly two tab-separated fields is skipped.
// Order is preserved, since encoding replays the rules in training order.
func LoadMergeRules(mergesPath string) (trigram_lm.MergeRules, error) {
	data, err := readArtifact(mergesPath)
	if err != nil {
		return nil, err
	}
	rules := make(trigram_lm.MergeRules, 0, 256)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 2 {
			continue
		}
		rules = append(rules, trigram_lm.MergeRule{
			Left:  fields[0],
			Right: fields[1],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return rules, nil
}

// modelJSON is the on-disk model schema. Bigram and trigram tuples are
// serialized as tab-joined token strings; the in-memory tables use struct
// keys.
type modelJSON struct {
	Unigram              map[string]int `json:"unigram"`
	Bigram               map[string]int `json:"bigram"`
	Trigram              map[string]int `json:"trigram"`
	BigramContextTotals  map[string]int `json:"bigram_context_totals"`
	TrigramContextTotals map[string]int `json:"trigram_context_totals"`
	TotalUnigrams        int            `json:"total_unigrams"`
	VocabSize            int            `json:"vocab_size"`
	VocabList            []string       `json:"vocab_list"`
}

func joinKey(parts ...string) string {
	return strings.Join(parts, "\t")
}

// SaveModel writes the model artifact as a single atomic snapshot.
func SaveModel(model *trigram_lm.Model, modelPath string) error {
	tables := model.Tables
	out := modelJSON{
		Unigram:              tables.Unigram,
		Bigram:               make(map[string]int, len(tables.Bigram)),
		Trigram:              make(map[string]int, len(tables.Trigram)),
		BigramContextTotals:  tables.BigramContextTotals,
		TrigramContextTotals: make(map[string]int, len(tables.TrigramContextTotals)),
		TotalUnigrams:        tables.TotalUnigrams,
		VocabSize:            model.VocabSize,
		VocabList:            model.Tokens,
	}
	for key, count := range tables.Bigram {
		out.Bigram[joinKey(key.W1, key.W2)] = count
	}
	for key, count := range tables.Trigram {
		out.Trigram[joinKey(key.W1, key.W2, key.W3)] = count
	}
	for key, count := range tables.TrigramContextTotals {
		out.TrigramContextTotals[joinKey(key.W1, key.W2)] = count
	}
	data, err := json.Marshal(&out)
	if err != nil {
		return err
	}
	return writeAtomic(modelPath, data)
}

// LoadModel reads a model artifact. Unlike the merge rule parse there is
// no leniency here: a key with the wrong arity, a token referenced by a
// count table but absent from the token list, or a vocabulary size that
// disagrees with the token list is a fatal load error.
func LoadModel(modelPath string) (*trigram_lm.Model, error) {
	data, err := readArtifact(modelPath)
	if err != nil {
		return nil, err
	}
	var raw modelJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("resources: cannot unmarshal %s: %v",
			modelPath, err)
	}
	if raw.VocabSize != len(raw.VocabList) {
		return nil, fmt.Errorf(
			"resources: model %s: vocab_size %d does not match token list length %d",
			modelPath, raw.VocabSize, len(raw.VocabList))
	}

	known := make(map[string]bool, len(raw.VocabList))
	for _, token := range raw.VocabList {
		known[token] = true
	}
	checkToken := func(token string, table string) error {
		if !known[token] {
			return fmt.Errorf(
				"resources: model %s: %s table references token %q "+
					"absent from the token list", modelPath, table, token)
		}
		return nil
	}

	tables := &trigram_lm.NGramTables{
		Unigram:              make(map[string]int, len(raw.Unigram)),
		Bigram:               make(map[trigram_lm.Bigram]int, len(raw.Bigram)),
		Trigram:              make(map[trigram_lm.Trigram]int, len(raw.Trigram)),
		BigramContextTotals:  make(map[string]int, len(raw.BigramContextTotals)),
		TrigramContextTotals: make(map[trigram_lm.Bigram]int, len(raw.TrigramContextTotals)),
		TotalUnigrams:        raw.TotalUnigrams,
	}
	for token, count := range raw.Unigram {
		if err := checkToken(token, "unigram"); err != nil {
			return nil, err
		}
		tables.Unigram[token] = count
	}
	for key, count := range raw.Bigram {
		fields := strings.Split(key, "\t")
		if len(fields) != 2 {
			return nil, fmt.Errorf(
				"resources: model %s: malformed bigram key %q", modelPath, key)
		}
		for _, token := range fields {
			if err := checkToken(token, "bigram"); err != nil {
				return nil, err
			}
		}
		tables.Bigram[trigram_lm.Bigram{W1: fields[0], W2: fields[1]}] = count
	}
	for key, count := range raw.Trigram {
		fields := strings.Split(key, "\t")
		if len(fields) != 3 {
			return nil, fmt.Errorf(
				"resources: model %s: malformed trigram key %q", modelPath, key)
		}
		for _, token := range fields {
			if err := checkToken(token, "trigram"); err != nil {
				return nil, err
			}
		}
		tables.Trigram[trigram_lm.Trigram{
			W1: fields[0], W2: fields[1], W3: fields[2],
		}] = count
	}
	for token, count := range raw.BigramContextTotals {
		if err := checkToken(token, "bigram context"); err != nil {
			return nil, err
		}
		tables.BigramContextTotals[token] = count
	}
	for key, count := range raw.TrigramContextTotals {
		fields := strings.Split(key, "\t")
		if len(fields) != 2 {
			return nil, fmt.Errorf(
				"resources: model %s: malformed trigram context key %q",
				modelPath, key)
		}
		for _, token := range fields {
			if err := checkToken(token, "trigram context"); err != nil {
				return nil, err
			}
		}
		tables.TrigramContextTotals[trigram_lm.Bigram{
			W1: fields[0], W2: fields[1],
		}] = count
	}

	return &trigram_lm.Model{
		Tables:    tables,
		VocabSize: raw.VocabSize,
		Tokens:    raw.VocabList,
	}, nil
}

// LoadArtifacts loads the tokenizer and model artifacts from a directory
// and returns a ready codec and model handle. This is the single load
// path the serving layer uses at startup; nothing is loaded lazily.
func LoadArtifacts(dir string) (*trigram_lm.Codec, *trigram_lm.Model, error) {
	vocab, err := LoadVocabulary(path.Join(dir, VocabFile))
	if err != nil {
		return nil, nil, err
	}
	rules, err := LoadMergeRules(path.Join(dir, MergesFile))
	if err != nil {
		return nil, nil, err
	}
	model, err := LoadModel(path.Join(dir, ModelFile))
	if err != nil {
		return nil, nil, err
	}
	return trigram_lm.NewCodec(vocab, rules), model, nil
}

// writeAtomic writes data to a temporary file in the target directory and
// renames it into place, so readers never observe a partial artifact.
func writeAtomic(targetPath string, data []byte) error {
	tmpPath := targetPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, targetPath); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
