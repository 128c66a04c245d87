// Package corpus prepares raw story text for tokenizer and model
// training: markup removal, script filtering, Unicode normalization, and
// boundary marker insertion.
package corpus

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	htmlTagPat      = regexp.MustCompile(`<[^>]+>`)
	urlPat          = regexp.MustCompile(`https?://\S+`)
	adPat           = regexp.MustCompile(`(?i)advertisement|ads?\b|click here|subscribe`)
	spaceRunPat     = regexp.MustCompile(`[ \t]+`)
	newlineRunPat   = regexp.MustCompile(`\n{3,}`)
	spaceBeforePat  = regexp.MustCompile(` +([۔،؛؟!])`)
	missingSpacePat = regexp.MustCompile("([۔؟!])([^\\s])")
)

// StripMarkup removes leftover HTML tags, URLs, and ad-like fragments
// from scraped story text.
func StripMarkup(text string) string {
	text = htmlTagPat.ReplaceAllString(text, "")
	text = urlPat.ReplaceAllString(text, "")
	text = adPat.ReplaceAllString(text, "")
	return text
}

// Normalize puts the text into NFC form, the standard composition for
// Urdu and Arabic script.
func Normalize(text string) string {
	return norm.NFC.String(text)
}

func keepRune(r rune) bool {
	switch {
	case r >= 0x0600 && r <= 0x06FF: // Arabic block, includes Urdu
		return true
	case r >= 0x0750 && r <= 0x077F: // Arabic Supplement
		return true
	case r >= 0x08A0 && r <= 0x08FF: // Arabic Extended-A
		return true
	case r >= 0xFB50 && r <= 0xFDFF, r >= 0xFE70 && r <= 0xFEFF:
		// Arabic Presentation Forms
		return true
	case r >= 0xE000 && r <= 0xE003: // boundary markers
		return true
	case unicode.IsNumber(r):
		return true
	case r == ' ' || r == '\t' || r == '\n' || r == '\r':
		return true
	case strings.ContainsRune("۔،؛؟!\"'()[]{}", r):
		return true
	}
	return false
}

// FilterScript keeps only Urdu/Arabic script, numbers, whitespace, and
// the punctuation the corpus actually uses; Latin, Devanagari and other
// stray scripts from scraped pages are dropped.
func FilterScript(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		if keepRune(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// TidyPunctuation collapses whitespace runs and standardizes spacing
// around the Urdu sentence punctuation.
func TidyPunctuation(text string) string {
	text = spaceRunPat.ReplaceAllString(text, " ")
	text = newlineRunPat.ReplaceAllString(text, "\n\n")
	text = spaceBeforePat.ReplaceAllString(text, "$1")
	text = missingSpacePat.ReplaceAllString(text, "$1 $2")
	return strings.TrimSpace(text)
}
