// Package tokenizer counts vendor tokens for budget checks.
package tokenizer

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/doeshing/sllm/internal/ports"
)

// Tiktoken counts tokens with a BPE encoding, loading it lazily on first use.
type Tiktoken struct {
	encoding string
	log      ports.Logger

	once    sync.Once
	encoder *tiktoken.Tiktoken
	err     error
}

// NewTiktoken returns a counter for the named encoding (e.g. cl100k_base).
func NewTiktoken(encoding string, log ports.Logger) *Tiktoken {
	if encoding == "" {
		encoding = "cl100k_base"
	}
	return &Tiktoken{encoding: encoding, log: log}
}

func (t *Tiktoken) load() (*tiktoken.Tiktoken, error) {
	t.once.Do(func() {
		t.encoder, t.err = tiktoken.GetEncoding(t.encoding)
		if t.err != nil && t.log != nil {
			t.log.Warn("tokenizer unavailable, using a character based estimate", map[string]interface{}{
				"encoding": t.encoding,
				"error":    t.err.Error(),
			})
		}
	})
	return t.encoder, t.err
}

// Ready loads the encoding and reports why it is unavailable, if it is.
func (t *Tiktoken) Ready() error {
	_, err := t.load()
	return err
}

// Count implements ports.Tokenizer.
func (t *Tiktoken) Count(text string) int {
	if text == "" {
		return 0
	}
	enc, err := t.load()
	if err != nil {
		return Estimate(text)
	}
	// Special tokens are counted as text rather than rejected.
	return len(enc.Encode(text, []string{"all"}, nil))
}

// Estimate is the conservative fallback of one token per three bytes, with
// a minimum of one for non-empty text.
func Estimate(text string) int {
	if text == "" {
		return 0
	}
	estimate := len(text) / 3
	if estimate < 1 {
		estimate = 1
	}
	return estimate
}

var _ ports.Tokenizer = (*Tiktoken)(nil)
