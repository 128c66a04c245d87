package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/yargevad/filepathx"

	"github.com/qalam/trigram_lm/corpus"
)

// Assembles a training corpus from a directory of scraped story files:
// cleans each story, inserts boundary markers, and writes one
// consolidated text file.

// stripHeader drops the `Title/Author/URL` header that the scraper
// prepends, delimited by a row of `=` characters.
func stripHeader(content string) string {
	lines := strings.Split(content, "\n")
	for idx, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "==========") {
			return strings.TrimSpace(strings.Join(lines[idx+1:], "\n"))
		}
	}
	return strings.TrimSpace(content)
}

func main() {
	dataDir := flag.String("data", "data",
		"Directory containing scraped story `.txt` files.")
	output := flag.String("output", "corpus.txt",
		"Path for the consolidated corpus file.")
	flag.Parse()

	storyPaths, err := filepathx.Glob(*dataDir + "/**/*.txt")
	if err != nil {
		log.Fatalf("Error globbing %s: %v", *dataDir, err)
	}
	if len(storyPaths) == 0 {
		log.Fatalf("%s does not contain any .txt files", *dataDir)
	}
	sort.Strings(storyPaths)

	stories := make([]string, 0, len(storyPaths))
	for idx, storyPath := range storyPaths {
		raw, readErr := os.ReadFile(storyPath)
		if readErr != nil {
			log.Printf("[%d] Error reading %s: %v", idx+1, storyPath, readErr)
			continue
		}
		content := stripHeader(string(raw))
		if len(content) < 20 {
			log.Printf("[%d] Skipping %s: empty or too short", idx+1,
				storyPath)
			continue
		}
		preprocessed := corpus.Preprocess(content)
		if preprocessed == "" {
			log.Printf("[%d] Skipping %s: no content after preprocessing",
				idx+1, storyPath)
			continue
		}
		stories = append(stories, preprocessed)
	}

	combined := corpus.Assemble(stories)
	if writeErr := os.WriteFile(*output, []byte(combined),
		0644); writeErr != nil {
		log.Fatalf("Error writing %s: %v", *output, writeErr)
	}
	fmt.Printf("Preprocessed %s stories into %s (%s)\n",
		humanize.Comma(int64(len(stories))), *output,
		humanize.Bytes(uint64(len(combined))))
}
