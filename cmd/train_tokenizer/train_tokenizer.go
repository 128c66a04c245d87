package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path"

	"github.com/dustin/go-humanize"

	trigram_lm "github.com/qalam/trigram_lm"
	"github.com/qalam/trigram_lm/resources"
)

// Trains the subword tokenizer on a preprocessed corpus and writes the
// vocabulary and merge rule artifacts.

func main() {
	corpusPath := flag.String("corpus", "corpus.txt",
		"Path to the preprocessed corpus.")
	vocabSize := flag.Int("vocab-size", 250,
		"Target vocabulary size, including markers and the base alphabet.")
	outDir := flag.String("out", ".",
		"Directory to write vocab.json and merges.txt into.")
	flag.Parse()

	raw, err := os.ReadFile(*corpusPath)
	if err != nil {
		log.Fatalf("Error reading corpus %s: %v", *corpusPath, err)
	}
	fmt.Printf("Corpus size: %s characters\n",
		humanize.Comma(int64(len([]rune(string(raw))))))

	vocab, rules := trigram_lm.Train(string(raw), *vocabSize)
	fmt.Printf("Final vocabulary size: %d\n", vocab.Len())
	fmt.Printf("Merge rules learned: %d\n", len(rules))

	vocabPath := path.Join(*outDir, resources.VocabFile)
	if err := resources.SaveVocabulary(vocab, vocabPath); err != nil {
		log.Fatalf("Error writing %s: %v", vocabPath, err)
	}
	mergesPath := path.Join(*outDir, resources.MergesFile)
	if err := resources.SaveMergeRules(rules, mergesPath); err != nil {
		log.Fatalf("Error writing %s: %v", mergesPath, err)
	}
	fmt.Printf("Saved tokenizer artifacts to %s and %s\n", vocabPath,
		mergesPath)
}
