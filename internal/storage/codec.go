package storage

import (
	"bytes"
	"errors"
	"fmt"
)

// Codec transforms the serialized task document for storage. Encoding
// applies run-length compression first, then byte-shift obfuscation;
// decoding reverses the enabled stages in the opposite order.
//
// The marker bytes are control characters. encoding/json escapes control
// characters inside strings and emits none outside them, so neither
// marker can occur in the plaintext and Decode(Encode(x)) == x holds for
// every marshaled document, whatever its string contents.
type Codec struct {
	Compress  bool
	Obfuscate bool
}

// ErrCorrupt marks stored bytes that cannot be decoded. Callers match it
// with errors.Is to decide whether a backup fallback applies.
var ErrCorrupt = errors.New("corrupt task data")

const (
	runMarker   = 0x1D
	tokenMarker = 0x1E
	shiftKey    = 42
	minRun      = 4
	maxRun      = 255
)

// runnableBytes are the whitespace and structural characters worth
// run-length encoding in an indented JSON document.
const runnableBytes = " \t\n\r{}[],.-\":"

// codecTokens maps the wire format's recurring key/value text to single
// token codes. The texts are prefix-free, so a greedy match is exact.
var codecTokens = []struct {
	code byte
	text string
}{
	{'a', `"status": "pending"`},
	{'b', `"status": "in_progress"`},
	{'c', `"status": "blocked"`},
	{'d', `"status": "done"`},
	{'e', `"priority": "low"`},
	{'f', `"priority": "medium"`},
	{'g', `"priority": "high"`},
	{'h', `"priority": "urgent"`},
	{'i', `"subtasks": [`},
	{'j', `"created_at": "`},
	{'k', `"updated_at": "`},
	{'l', `"last_completed": "`},
	{'m', `"due_date": "`},
	{'n', `"content": "`},
	{'o', `"metadata": {`},
	{'p', `"relations": [`},
	{'q', `"reminders": [`},
	{'r', `"tags": [`},
	{'s', `"id": "`},
	{'t', `"target_id": "`},
	{'u', `"recurrence": {`},
	{'v', `"last_modified": "`},
	{'w', `"notes": "`},
}

// Encode applies the enabled stages to data.
func (c Codec) Encode(data []byte) []byte {
	out := data
	if c.Compress {
		out = rleEncode(out)
	}
	if c.Obfuscate {
		out = shiftBytes(out, shiftKey)
	}
	return out
}

// Decode reverses Encode for the same configuration.
func (c Codec) Decode(data []byte) ([]byte, error) {
	out := data
	if c.Obfuscate {
		out = shiftBytes(out, -shiftKey)
	}
	if c.Compress {
		var err error
		out, err = rleDecode(out)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// shiftBytes adds key to every byte, wrapping mod 256. It is symmetric
// under negation and is explicitly not cryptography.
func shiftBytes(data []byte, key int) []byte {
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = byte(int(b) + key)
	}
	return out
}

func isRunnable(b byte) bool {
	return bytes.IndexByte([]byte(runnableBytes), b) >= 0
}

func matchToken(data []byte) (code byte, n int) {
	for _, tok := range codecTokens {
		if bytes.HasPrefix(data, []byte(tok.text)) {
			return tok.code, len(tok.text)
		}
	}
	return 0, 0
}

func tokenText(code byte) (string, bool) {
	for _, tok := range codecTokens {
		if tok.code == code {
			return tok.text, true
		}
	}
	return "", false
}

func rleEncode(data []byte) []byte {
	var out bytes.Buffer
	out.Grow(len(data))

	i := 0
	for i < len(data) {
		if code, n := matchToken(data[i:]); n > 0 {
			out.WriteByte(tokenMarker)
			out.WriteByte(code)
			i += n
			continue
		}

		b := data[i]
		if isRunnable(b) {
			j := i
			for j < len(data) && data[j] == b {
				j++
			}
			if run := j - i; run >= minRun {
				for run > 0 {
					chunk := run
					if chunk > maxRun {
						chunk = maxRun
					}
					out.WriteByte(runMarker)
					out.WriteByte(byte(chunk))
					out.WriteByte(b)
					run -= chunk
				}
				i = j
				continue
			}
		}

		out.WriteByte(b)
		i++
	}

	return out.Bytes()
}

func rleDecode(data []byte) ([]byte, error) {
	var out bytes.Buffer
	out.Grow(len(data) * 2)

	i := 0
	for i < len(data) {
		switch data[i] {
		case runMarker:
			if i+2 >= len(data) {
				return nil, fmt.Errorf("%w: truncated run at offset %d", ErrCorrupt, i)
			}
			count := int(data[i+1])
			if count == 0 {
				return nil, fmt.Errorf("%w: zero-length run at offset %d", ErrCorrupt, i)
			}
			out.Write(bytes.Repeat(data[i+2:i+3], count))
			i += 3
		case tokenMarker:
			if i+1 >= len(data) {
				return nil, fmt.Errorf("%w: truncated token at offset %d", ErrCorrupt, i)
			}
			text, ok := tokenText(data[i+1])
			if !ok {
				return nil, fmt.Errorf("%w: unknown token 0x%02x at offset %d", ErrCorrupt, data[i+1], i)
			}
			out.WriteString(text)
			i += 2
		default:
			out.WriteByte(data[i])
			i++
		}
	}

	return out.Bytes(), nil
}
