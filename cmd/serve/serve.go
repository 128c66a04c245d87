package main

import (
	"flag"
	"log"
	"net"

	"github.com/qalam/trigram_lm/resources"
	"github.com/qalam/trigram_lm/server"
)

func main() {
	addr := flag.String("addr", ":8000",
		"Address to listen on.")
	artifactDir := flag.String("artifacts", ".",
		"Directory to load model artifacts from.")
	artifactUri := flag.String("from", "",
		"URL or path to fetch missing artifacts from; defaults to the "+
			"artifact directory itself.")
	flag.Parse()

	uri := *artifactUri
	if uri == "" {
		uri = *artifactDir
	}
	if err := resources.ResolveArtifacts(uri, *artifactDir); err != nil {
		log.Fatalf("Error resolving artifacts: %v", err)
	}
	codec, model, err := resources.LoadArtifacts(*artifactDir)
	if err != nil {
		log.Fatalf("Error loading artifacts from %s: %v", *artifactDir, err)
	}
	log.Printf("Loaded model: %d tokens in vocabulary, %d merge rules",
		model.VocabSize, len(codec.Rules()))

	ln, err := net.Listen("tcp", *addr)
	if err != nil {
		log.Fatalf("Error listening on %s: %v", *addr, err)
	}
	log.Printf("Serving on %s", *addr)
	log.Fatal(server.Serve(ln, model, codec))
}
