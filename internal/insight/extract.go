package insight

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoJSON means no well-formed JSON value was found in the text.
var ErrNoJSON = errors.New("no JSON value found in response")

// ExtractJSON returns the first well-formed JSON value in text that starts
// with one of the given opening delimiters ('{' or '['). Markdown fences and
// surrounding prose are ignored.
func ExtractJSON(text string, opens ...byte) (json.RawMessage, error) {
	if len(opens) == 0 {
		opens = []byte{'{', '['}
	}
	for i := 0; i < len(text); i++ {
		if bytes.IndexByte(opens, text[i]) < 0 {
			continue
		}
		dec := json.NewDecoder(strings.NewReader(text[i:]))
		var raw json.RawMessage
		if err := dec.Decode(&raw); err == nil {
			return raw, nil
		}
	}
	return nil, ErrNoJSON
}
