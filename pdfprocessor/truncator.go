// Package pdfprocessor provides the text side of report handling.
//
// truncator.go bounds report text to a token budget using the target model's
// own tokenizer (tiktoken BPE ranks).
package pdfprocessor

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"

	"reportmailer/core"
)

const opTruncate = "pdf.truncate"

// Tokenizer converts between text and model tokens.
type Tokenizer interface {
	Encode(text string) []int
	Decode(tokens []int) string
}

// tiktokenTokenizer adapts *tiktoken.Tiktoken to Tokenizer.
type tiktokenTokenizer struct {
	enc *tiktoken.Tiktoken
}

func (t *tiktokenTokenizer) Encode(text string) []int {
	// Special-token text in a report is encoded as ordinary text.
	return t.enc.Encode(text, nil, nil)
}

func (t *tiktokenTokenizer) Decode(tokens []int) string {
	return t.enc.Decode(tokens)
}

// BPE ranks are embedded in the binary; nothing is downloaded at startup.
func init() {
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
}

// NewModelTokenizer returns the tokenizer for model (e.g. "gpt-4o" uses the
// o200k_base ranks).
func NewModelTokenizer(model string) (Tokenizer, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, core.EncodingError(opTruncate, fmt.Sprintf("no tokenizer for model %q", model), err)
	}
	return &tiktokenTokenizer{enc: enc}, nil
}

// Truncator cuts text to a maximum number of tokens.
//
// Guarantees, for any text and budget n >= 0:
//   - Count(Truncate(text, n)) <= n
//   - Truncate(text, n) == text whenever Count(text) <= n
//   - the output is valid UTF-8 and Truncate is idempotent
//
// Thread-Safety:
//   - Truncator is safe for concurrent use if its Tokenizer is
type Truncator struct {
	tokenizer Tokenizer
}

// NewTruncator creates a Truncator over the given tokenizer.
func NewTruncator(tokenizer Tokenizer) *Truncator {
	return &Truncator{tokenizer: tokenizer}
}

// NewModelTruncator is a convenience wrapper around NewModelTokenizer.
func NewModelTruncator(model string) (*Truncator, error) {
	tok, err := NewModelTokenizer(model)
	if err != nil {
		return nil, err
	}
	return NewTruncator(tok), nil
}

// Count returns the number of tokens in text.
func (t *Truncator) Count(text string) int {
	return len(t.tokenizer.Encode(text))
}

// Truncate returns the longest token prefix of text that fits in maxTokens
// and decodes to valid text.
//
// Example:
//
//	tr, _ := NewModelTruncator("gpt-4o")
//	bounded, err := tr.Truncate(reportText, 126000)
func (t *Truncator) Truncate(text string, maxTokens int) (out string, err error) {
	if t == nil || t.tokenizer == nil {
		return "", core.EncodingError(opTruncate, "truncator has no tokenizer", nil)
	}
	if maxTokens <= 0 {
		return "", nil
	}

	defer func() {
		if rec := recover(); rec != nil {
			out = ""
			err = core.EncodingError(opTruncate, "tokenizer failed", fmt.Errorf("%v", rec))
		}
	}()

	tokens := t.tokenizer.Encode(text)
	if len(tokens) <= maxTokens {
		return text, nil
	}

	// A token cut can split a multi-byte character; drop the dangling bytes
	// and shrink further if re-encoding the cleaned text overflows the budget.
	for n := maxTokens; n > 0; n-- {
		candidate := trimInvalidUTF8Suffix(t.tokenizer.Decode(tokens[:n]))
		if len(t.tokenizer.Encode(candidate)) <= maxTokens {
			return candidate, nil
		}
	}
	return "", nil
}

// trimInvalidUTF8Suffix removes trailing bytes that do not form a complete
// UTF-8 sequence. Invalid bytes elsewhere are replaced with U+FFFD.
func trimInvalidUTF8Suffix(s string) string {
	for len(s) > 0 && !utf8.ValidString(s) {
		r, size := utf8.DecodeLastRuneInString(s)
		if r != utf8.RuneError || size != 1 {
			break
		}
		s = s[:len(s)-1]
	}
	return strings.ToValidUTF8(s, string(utf8.RuneError))
}
