package trigram_lm

// Special markers live in the Unicode Private Use Area so that they can
// never collide with corpus text. They are atomic: the word splitter emits
// each one as its own singleton word, so no merge rule can ever absorb one.
const (
	MarkerBOS = "" // beginning of sequence, used for n-gram padding
	MarkerEOS = "" // end of sentence
	MarkerEOP = "" // end of paragraph
	MarkerEOT = "" // end of document
)

// SpecialMarkers holds the markers in their canonical vocabulary order.
// They always occupy the lowest token IDs, in this order.
var SpecialMarkers = []string{MarkerBOS, MarkerEOS, MarkerEOP, MarkerEOT}

func isMarkerRune(r rune) bool {
	return r >= '' && r <= ''
}

// IsSpecialMarker reports whether the token string is one of the four
// special markers.
func IsSpecialMarker(token string) bool {
	if len(token) != len(MarkerBOS) {
		return false
	}
	for _, r := range token {
		return isMarkerRune(r)
	}
	return false
}

// SplitWords
// Splits text into words the way both training and encoding see them: a
// word is a maximal run of non-whitespace, non-marker runes, represented as
// a slice of single-rune symbols. Whitespace separates words and is dropped.
// Each special marker becomes its own singleton word.
func SplitWords(text string) [][]string {
	words := make([][]string, 0, len(text)/4)
	current := make([]string, 0, 16)
	flush := func() {
		if len(current) > 0 {
			word := make([]string, len(current))
			copy(word, current)
			words = append(words, word)
			current = current[:0]
		}
	}
	for _, r := range text {
		switch {
		case isMarkerRune(r):
			flush()
			words = append(words, []string{string(r)})
		case r == ' ' || r == '\n' || r == '\t' || r == '\r':
			flush()
		default:
			current = append(current, string(r))
		}
	}
	flush()
	return words
}
