package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path"
	"time"

	"github.com/dustin/go-humanize"

	trigram_lm "github.com/qalam/trigram_lm"
	"github.com/qalam/trigram_lm/resources"
)

// Tokenizes the corpus with a trained tokenizer, aggregates the n-gram
// tables, and writes the model artifact.

func main() {
	corpusPath := flag.String("corpus", "corpus.txt",
		"Path to the preprocessed corpus.")
	artifactDir := flag.String("artifacts", ".",
		"Directory holding vocab.json and merges.txt; model.json is "+
			"written alongside them.")
	flag.Parse()

	vocab, err := resources.LoadVocabulary(
		path.Join(*artifactDir, resources.VocabFile))
	if err != nil {
		log.Fatalf("Error loading vocabulary: %v", err)
	}
	rules, err := resources.LoadMergeRules(
		path.Join(*artifactDir, resources.MergesFile))
	if err != nil {
		log.Fatalf("Error loading merge rules: %v", err)
	}
	codec := trigram_lm.NewCodec(vocab, rules)

	raw, err := os.ReadFile(*corpusPath)
	if err != nil {
		log.Fatalf("Error reading corpus %s: %v", *corpusPath, err)
	}

	start := time.Now()
	tokens := codec.Encode(string(raw))
	fmt.Printf("Tokenized %s characters into %s tokens over %v\n",
		humanize.Comma(int64(len([]rune(string(raw))))),
		humanize.Comma(int64(len(tokens))), time.Since(start))

	tables := trigram_lm.Count(tokens)
	model := trigram_lm.NewModel(tables, vocab)
	fmt.Printf("Unigram types: %d\n", len(tables.Unigram))
	fmt.Printf("Bigram types: %d\n", len(tables.Bigram))
	fmt.Printf("Trigram types: %d\n", len(tables.Trigram))

	modelPath := path.Join(*artifactDir, resources.ModelFile)
	if err := resources.SaveModel(model, modelPath); err != nil {
		log.Fatalf("Error writing %s: %v", modelPath, err)
	}
	fmt.Printf("Saved model to %s\n", modelPath)
}
