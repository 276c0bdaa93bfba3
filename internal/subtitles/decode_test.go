package subtitles

import (
	"strings"
	"testing"
	"unicode/utf16"
)

func utf16leBytes(s string, bom bool) []byte {
	units := utf16.Encode([]rune(s))
	var out []byte
	if bom {
		out = append(out, 0xFF, 0xFE)
	}
	for _, u := range units {
		out = append(out, byte(u), byte(u>>8))
	}
	return out
}

func utf16beBytes(s string, bom bool) []byte {
	units := utf16.Encode([]rune(s))
	var out []byte
	if bom {
		out = append(out, 0xFE, 0xFF)
	}
	for _, u := range units {
		out = append(out, byte(u>>8), byte(u))
	}
	return out
}

func TestDecodeBytesPlainUTF8(t *testing.T) {
	got, err := DecodeBytes([]byte("hello"), "")
	if err != nil {
		t.Fatalf("DecodeBytes returned error: %v", err)
	}
	if got != "hello" {
		t.Fatalf("DecodeBytes = %q", got)
	}
}

func TestDecodeBytesStripsUTF8BOM(t *testing.T) {
	got, err := DecodeBytes([]byte{0xEF, 0xBB, 0xBF, 'h', 'i'}, "")
	if err != nil {
		t.Fatalf("DecodeBytes returned error: %v", err)
	}
	if got != "hi" {
		t.Fatalf("DecodeBytes = %q, want %q", got, "hi")
	}
}

func TestDecodeBytesUTF16WithBOM(t *testing.T) {
	for _, tt := range []struct {
		name string
		data []byte
	}{
		{"little endian", utf16leBytes("1\n00:00:01,000", true)},
		{"big endian", utf16beBytes("1\n00:00:01,000", true)},
	} {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeBytes(tt.data, "")
			if err != nil {
				t.Fatalf("DecodeBytes returned error: %v", err)
			}
			if got != "1\n00:00:01,000" {
				t.Fatalf("DecodeBytes = %q", got)
			}
		})
	}
}

func TestDecodeBytesUTF16WithoutBOM(t *testing.T) {
	for _, tt := range []struct {
		name string
		data []byte
	}{
		{"little endian", utf16leBytes("subtitle text", false)},
		{"big endian", utf16beBytes("subtitle text", false)},
	} {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeBytes(tt.data, "")
			if err != nil {
				t.Fatalf("DecodeBytes returned error: %v", err)
			}
			if got != "subtitle text" {
				t.Fatalf("DecodeBytes = %q", got)
			}
		})
	}
}

func TestDecodeBytesExplicitEncoding(t *testing.T) {
	// "café" in windows-1252.
	data := []byte{'c', 'a', 'f', 0xE9}
	got, err := DecodeBytes(data, "windows-1252")
	if err != nil {
		t.Fatalf("DecodeBytes returned error: %v", err)
	}
	if got != "café" {
		t.Fatalf("DecodeBytes = %q, want %q", got, "café")
	}
}

func TestDecodeBytesUTF8SigAlias(t *testing.T) {
	got, err := DecodeBytes([]byte{0xEF, 0xBB, 0xBF, 'o', 'k'}, "utf-8-sig")
	if err != nil {
		t.Fatalf("DecodeBytes returned error: %v", err)
	}
	if got != "ok" {
		t.Fatalf("DecodeBytes = %q, want %q", got, "ok")
	}
}

func TestDecodeBytesUnknownEncoding(t *testing.T) {
	if _, err := DecodeBytes([]byte("x"), "no-such-encoding"); err == nil {
		t.Fatal("expected error for unknown encoding")
	}
	if _, err := DecodeBytes([]byte("x"), "no-such-encoding"); err != nil && !strings.Contains(err.Error(), "no-such-encoding") {
		t.Fatalf("error should name the encoding: %v", err)
	}
}
