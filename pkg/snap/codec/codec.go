// Package codec reads file content and converts it between raw bytes and
// the inline payload forms stored in archives.
//
// Classification is deliberately simple: content containing a NUL byte
// anywhere is binary and travels as base64 text, everything else is text
// and travels verbatim. Files without NUL bytes that are not meaningful
// text still classify as text; that behavior is part of the format and
// must not be "fixed" here.
package codec

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/HaiderNakara/folder-snap/pkg/snap/types"
)

// Detect classifies raw content. Binary means a NUL byte occurs somewhere
// in the full buffer; the scan is not bounded to a prefix.
func Detect(data []byte) types.Encoding {
	if bytes.IndexByte(data, 0) >= 0 {
		return types.EncodingBinary
	}
	return types.EncodingText
}

// Read returns a file's raw bytes and encoding classification.
//
// A read failure is not fatal to the surrounding operation: Read returns
// empty content, text encoding, and the error so the caller can count a
// warning and continue.
func Read(path string) ([]byte, types.Encoding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, types.EncodingText, fmt.Errorf("read %s: %w", path, err)
	}
	return data, Detect(data), nil
}

// EncodePayload converts raw bytes to the inline payload for an encoding:
// base64 for binary, the bytes as-is for text.
func EncodePayload(data []byte, enc types.Encoding) string {
	if enc == types.EncodingBinary {
		return base64.StdEncoding.EncodeToString(data)
	}
	return string(data)
}

// Encode reads a file and returns its inline payload plus encoding.
// Failures follow the Read contract: empty text payload and the error
// as a warning signal.
func Encode(path string) (string, types.Encoding, error) {
	data, enc, err := Read(path)
	if err != nil {
		return "", types.EncodingText, err
	}
	return EncodePayload(data, enc), enc, nil
}

// Decode converts an inline payload back to raw bytes. Binary payloads are
// base64-decoded; any other encoding, including the empty tag legacy
// archives carry, is treated as verbatim text.
func Decode(payload string, enc types.Encoding) ([]byte, error) {
	if enc == types.EncodingBinary {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("decode base64 content: %w", err)
		}
		return data, nil
	}
	return []byte(payload), nil
}
