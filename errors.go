package trigram_lm

import "fmt"

// UnknownSymbolError reports a token produced by encoding that has no
// vocabulary ID. The vocabulary is closed at training time, so any input
// character outside the trained alphabet surfaces as this error.
type UnknownSymbolError struct {
	Symbol string
}

func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("trigram_lm: symbol %q has no vocabulary ID", e.Symbol)
}

// UnknownIdError reports a token ID outside the vocabulary during decode.
type UnknownIdError struct {
	Id Token
}

func (e *UnknownIdError) Error() string {
	return fmt.Sprintf("trigram_lm: token ID %d is not in the vocabulary", e.Id)
}
