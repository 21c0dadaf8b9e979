// Package encoding provides text encoding utilities for Quake file formats.
package encoding

import (
	"bytes"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Latin1ToUTF8 converts ISO-8859-1 encoded bytes to a UTF-8 string.
// Returns the original bytes as a string if conversion fails.
func Latin1ToUTF8(data []byte) string {
	result, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), data)
	if err != nil {
		return string(data)
	}
	return string(result)
}

// UTF8ToLatin1 converts a UTF-8 string to ISO-8859-1 bytes.
// Runes outside Latin-1 make the conversion fail, in which case the
// original bytes are returned.
func UTF8ToLatin1(s string) []byte {
	result, _, err := transform.Bytes(charmap.ISO8859_1.NewEncoder(), []byte(s))
	if err != nil {
		return []byte(s)
	}
	return result
}

// FixedString decodes a fixed-size, NUL-terminated name field.
// Bytes after the first NUL are ignored; they are often garbage left over
// by map compilers.
func FixedString(data []byte) string {
	if idx := bytes.IndexByte(data, 0); idx >= 0 {
		data = data[:idx]
	}
	return Latin1ToUTF8(data)
}

// ToFixedString encodes s into a NUL-padded field of the given size.
// Names longer than size are truncated.
func ToFixedString(s string, size int) []byte {
	result := make([]byte, size)
	copy(result, UTF8ToLatin1(s))
	return result
}
