// Package encoding provides text encoding utilities for imported name listings.
package encoding

import (
	"bytes"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// ShiftJISToUTF8 converts Shift-JIS encoded bytes to a UTF-8 string.
// Returns the original string if conversion fails.
func ShiftJISToUTF8(data []byte) string {
	decoder := japanese.ShiftJIS.NewDecoder()
	result, _, err := transform.Bytes(decoder, data)
	if err != nil {
		// Return as-is if decoding fails
		return string(data)
	}
	return string(result)
}

// UTF8ToShiftJIS converts a UTF-8 string to Shift-JIS encoded bytes.
// Returns the original bytes if conversion fails.
func UTF8ToShiftJIS(s string) []byte {
	encoder := japanese.ShiftJIS.NewEncoder()
	result, _, err := transform.Bytes(encoder, []byte(s))
	if err != nil {
		return []byte(s)
	}
	return result
}

// TrimNullBytes removes trailing null bytes from a byte slice.
func TrimNullBytes(data []byte) []byte {
	return bytes.TrimRight(data, "\x00")
}

// TrimNullString removes trailing null bytes and converts to string.
func TrimNullString(data []byte) string {
	return string(TrimNullBytes(data))
}

// FixedStringToUTF8 converts a fixed-size Shift-JIS encoded byte array to a
// UTF-8 string. Handles null termination and encoding conversion.
func FixedStringToUTF8(data []byte) string {
	// Find null terminator
	nullIdx := bytes.IndexByte(data, 0)
	if nullIdx >= 0 {
		data = data[:nullIdx]
	}
	return ShiftJISToUTF8(data)
}
