package corpus

import (
	"strings"

	"github.com/jdkato/prose/v2"

	trigram_lm "github.com/qalam/trigram_lm"
)

// Runes that terminate an Urdu sentence. The Latin full stop is included
// since scraped stories occasionally mix it in.
const sentenceEnders = "۔؟!."

func hasUrduEnder(text string) bool {
	return strings.ContainsAny(text, "۔؟")
}

func hasLatinLetter(text string) bool {
	for _, r := range text {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}

// SplitSentences splits a paragraph into sentences, each retaining its
// terminal punctuation. Urdu text splits on the punctuation runes
// directly; Latin-script paragraphs without any Urdu enders go through
// the prose segmenter instead, which understands abbreviations and
// quoted speech.
func SplitSentences(para string) []string {
	if !hasUrduEnder(para) && hasLatinLetter(para) {
		doc, err := prose.NewDocument(
			para,
			prose.WithTagging(false),
			prose.WithExtraction(false),
			prose.WithTokenization(false),
		)
		if err == nil {
			sentences := make([]string, 0, 8)
			for _, sentence := range doc.Sentences() {
				if text := strings.TrimSpace(sentence.Text); text != "" {
					sentences = append(sentences, text)
				}
			}
			return sentences
		}
	}

	sentences := make([]string, 0, 8)
	var current strings.Builder
	for _, r := range para {
		current.WriteRune(r)
		if strings.ContainsRune(sentenceEnders, r) {
			if text := strings.TrimSpace(current.String()); text != "" {
				sentences = append(sentences, text)
			}
			current.Reset()
		}
	}
	if text := strings.TrimSpace(current.String()); text != "" {
		sentences = append(sentences, text)
	}
	return sentences
}

// AddMarkers inserts the end-of-sentence marker after every sentence and
// the end-of-paragraph marker after every paragraph. Paragraphs are blank
// line separated on input and stay that way on output.
func AddMarkers(content string) string {
	paragraphs := strings.Split(content, "\n\n")
	marked := make([]string, 0, len(paragraphs))
	for _, para := range paragraphs {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		sentences := SplitSentences(para)
		if len(sentences) == 0 {
			continue
		}
		for idx, sentence := range sentences {
			sentences[idx] = sentence + trigram_lm.MarkerEOS
		}
		marked = append(marked, strings.Join(sentences, " ")+trigram_lm.MarkerEOP)
	}
	return strings.Join(marked, "\n\n")
}

// Preprocess runs the full cleanup pipeline over a single story's
// content.
func Preprocess(text string) string {
	text = StripMarkup(text)
	text = Normalize(text)
	text = FilterScript(text)
	text = TidyPunctuation(text)
	return AddMarkers(text)
}

// Assemble joins preprocessed stories into one corpus, each story
// terminated by the end-of-document marker.
func Assemble(stories []string) string {
	if len(stories) == 0 {
		return ""
	}
	return strings.Join(stories, trigram_lm.MarkerEOT+"\n\n") +
		trigram_lm.MarkerEOT
}
