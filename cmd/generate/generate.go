package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	trigram_lm "github.com/qalam/trigram_lm"
	"github.com/qalam/trigram_lm/resources"
	"github.com/qalam/trigram_lm/server"
)

// A REPL for sampling from a trained model. Each line of input is used
// as the generation prefix; an empty line samples from the start of a
// document.

func main() {
	artifactDir := flag.String("artifacts", ".",
		"Directory holding vocab.json, merges.txt and model.json.")
	maxTokens := flag.Int("max-tokens", 500,
		"Maximum number of tokens per generation.")
	temperature := flag.Float64("temperature", 0.9,
		"Sampling temperature.")
	seed := flag.Int64("seed", -1,
		"Random seed; -1 draws a fresh sequence every time.")
	flag.Parse()

	codec, model, err := resources.LoadArtifacts(*artifactDir)
	if err != nil {
		log.Fatalf("Error loading artifacts from %s: %v", *artifactDir, err)
	}

	var rngSeed *int64
	if *seed >= 0 {
		rngSeed = seed
	}

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print(">>> ")
		input, err := reader.ReadString('\n')
		if err != nil {
			log.Fatal(err)
		}
		prefix := strings.TrimSpace(input)

		var seedTokens []string
		if prefix != "" {
			seedTokens = codec.Encode(prefix)
			if len(seedTokens) == 1 {
				seedTokens = []string{trigram_lm.MarkerBOS, seedTokens[0]}
			}
		}
		generated := model.Generate(seedTokens, *maxTokens, *temperature,
			rngSeed)
		fmt.Printf("%s\n", server.RenderText(codec, generated))
	}
}
