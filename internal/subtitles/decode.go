package subtitles

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

// DecodeBytes converts raw subtitle bytes to a string. A non-empty encoding
// name forces that encoding; otherwise the encoding is detected from byte
// order marks, falling back to a NUL distribution heuristic for BOM-less
// UTF-16 and finally to UTF-8.
func DecodeBytes(data []byte, encodingName string) (string, error) {
	enc, err := resolveEncoding(data, encodingName)
	if err != nil {
		return "", err
	}
	decoded, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		// Keep whatever decodes; the parser skips what it cannot read.
		return string(data), nil
	}
	return string(decoded), nil
}

func resolveEncoding(data []byte, encodingName string) (encoding.Encoding, error) {
	name := strings.ToLower(strings.TrimSpace(encodingName))
	if name != "" {
		// Python-style alias seen in the wild for BOM-tolerant UTF-8.
		if name == "utf-8-sig" || name == "utf8-sig" {
			return unicode.UTF8BOM, nil
		}
		enc, err := ianaindex.IANA.Encoding(name)
		if err != nil || enc == nil {
			return nil, fmt.Errorf("unknown subtitle encoding %q", encodingName)
		}
		return enc, nil
	}
	if enc := sniffBOM(data); enc != nil {
		return enc, nil
	}
	if enc := sniffUTF16(data); enc != nil {
		return enc, nil
	}
	return unicode.UTF8BOM, nil
}

func sniffBOM(data []byte) encoding.Encoding {
	switch {
	// UTF-32 BOMs start with the UTF-16 ones, so test them first.
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE, 0x00, 0x00}):
		return utf32.UTF32(utf32.LittleEndian, utf32.UseBOM)
	case bytes.HasPrefix(data, []byte{0x00, 0x00, 0xFE, 0xFF}):
		return utf32.UTF32(utf32.BigEndian, utf32.UseBOM)
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}):
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	case bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}):
		return unicode.UTF8BOM
	}
	return nil
}

// sniffUTF16 detects BOM-less UTF-16 by the position of NUL bytes: mostly
// ASCII subtitle text encodes as alternating NUL and character bytes, with
// the NUL on the even offset for big endian and the odd offset for little
// endian.
func sniffUTF16(data []byte) encoding.Encoding {
	sample := data
	if len(sample) > 4096 {
		sample = sample[:4096]
	}
	var evenNULs, oddNULs int
	for i, b := range sample {
		if b != 0 {
			continue
		}
		if i%2 == 0 {
			evenNULs++
		} else {
			oddNULs++
		}
	}
	if evenNULs == 0 && oddNULs == 0 {
		return nil
	}
	if evenNULs > oddNULs {
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	}
	return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
}
