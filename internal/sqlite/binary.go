package sqlite

import (
	"encoding/hex"
	"errors"
	"strings"
)

// EncodeBinary encodes data into a string that contains neither NUL nor
// single-quote bytes, so it can be stored as TEXT and embedded in SQL through
// the %Q verb of Sprintf.
//
// This is SQLite's classic binary encoding: the first byte is an offset that
// is subtracted from every input byte, chosen to minimise escapes. The bytes
// 0x00, 0x01 and 0x27 that remain after the shift are written as 0x01
// followed by the byte plus one. The encoded form is at most one byte per
// input byte longer, plus the offset byte. Empty input encodes as "x".
func EncodeBinary(data []byte) string {
	if len(data) == 0 {
		return "x"
	}

	var counts [256]int
	for _, b := range data {
		counts[b]++
	}

	offset, escapes := 1, len(data)+1
	for i := 1; i < 256; i++ {
		if i == '\'' {
			continue
		}
		sum := counts[i] + counts[(i+1)&0xff] + counts[(i+'\'')&0xff]
		if sum < escapes {
			offset, escapes = i, sum
			if sum == 0 {
				break
			}
		}
	}

	var sb strings.Builder
	sb.Grow(len(data) + escapes + 1)
	sb.WriteByte(byte(offset))

	for _, b := range data {
		x := b - byte(offset)
		if x == 0 || x == 1 || x == '\'' {
			sb.WriteByte(1)
			x++
		}
		sb.WriteByte(x)
	}

	return sb.String()
}

// DecodeBinary reverses EncodeBinary.
func DecodeBinary(encoded string) ([]byte, error) {
	if encoded == "" {
		return nil, errors.New("failed to decode binary: empty input")
	}

	offset := encoded[0]
	out := make([]byte, 0, len(encoded)-1)

	for i := 1; i < len(encoded); i++ {
		c := encoded[i]
		if c == 0 {
			return nil, errors.New("failed to decode binary: unexpected NUL byte")
		}
		if c == 1 {
			i++
			if i >= len(encoded) {
				return nil, errors.New("failed to decode binary: truncated escape")
			}
			c = encoded[i] - 1
		}
		out = append(out, c+offset)
	}

	return out, nil
}

// Binary holds a byte buffer together with its text-safe encoding. Either
// side can be set; the other one is derived on demand.
type Binary struct {
	data    []byte
	encoded string
	hasData bool
	hasEnc  bool
}

// SetBinary stores a copy of data.
func (b *Binary) SetBinary(data []byte) {
	b.data = make([]byte, len(data))
	copy(b.data, data)
	b.hasData = true
	b.encoded = ""
	b.hasEnc = false
}

// SetEncoded stores an encoded string as produced by EncodeBinary and
// decodes it.
func (b *Binary) SetEncoded(encoded string) error {
	data, err := DecodeBinary(encoded)
	if err != nil {
		return err
	}

	b.data = data
	b.hasData = true
	b.encoded = encoded
	b.hasEnc = true
	return nil
}

// Binary returns the raw bytes. The slice aliases the buffer; copy it
// before modifying.
func (b *Binary) Binary() []byte {
	return b.data
}

// Len returns the number of raw bytes.
func (b *Binary) Len() int {
	return len(b.data)
}

// Encoded returns the text-safe form of the buffer.
func (b *Binary) Encoded() string {
	if !b.hasEnc {
		b.encoded = EncodeBinary(b.data)
		b.hasEnc = true
	}
	return b.encoded
}

// Literal returns the buffer as a SQL blob literal, X'0001...'. Stored this
// way the cell has the blob type and reads back with Blob unchanged.
//
// https://www.sqlite.org/lang_expr.html#literal_values_constants_
func (b *Binary) Literal() string {
	return "X'" + strings.ToUpper(hex.EncodeToString(b.data)) + "'"
}
