package parser

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode converts raw export bytes to text. Exports are Windows-1252; bytes
// without a mapping are dropped rather than failing the read.
func Decode(raw []byte) string {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	// The single-byte decoder maps every byte and never returns an error.
	out, _ := charmap.Windows1252.NewDecoder().Bytes(raw)
	return strings.ReplaceAll(string(out), "\uFFFD", "")
}

// bomPrefixes are byte order marks that survive into decoded text: the
// rune itself, and its UTF-8 bytes read as Windows-1252.
var bomPrefixes = []string{"\ufeff", "\u00ef\u00bb\u00bf"}

func trimBOM(contents string) string {
	for _, p := range bomPrefixes {
		contents = strings.TrimPrefix(contents, p)
	}
	return contents
}

// ReadFile reads and decodes an export from disk.
func ReadFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return Decode(raw), nil
}

// ReadAll reads and decodes an export from a stream.
func ReadAll(r io.Reader) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading stream: %w", err)
	}
	return Decode(raw), nil
}
