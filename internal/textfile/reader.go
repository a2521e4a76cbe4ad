// Package textfile reads question files into decoded lines, handling
// the legacy encodings exam banks tend to arrive in.
package textfile

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadLines reads path and returns its decoded lines. Valid UTF-8 is
// used as-is (a leading BOM is stripped); anything else is decoded as
// Latin-1, which maps every byte to a code point and so cannot fail.
// The second return value reports whether the fallback was taken, so
// callers can warn about it.
func ReadLines(path string) (lines []string, latin1 bool, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, false, err
	}
	if info.IsDir() {
		return nil, false, fmt.Errorf("%s is a directory, not a file", path)
	}
	if info.Size() == 0 {
		return nil, false, fmt.Errorf("%s is empty", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}

	data = bytes.TrimPrefix(data, utf8BOM)

	text := string(data)
	if !utf8.Valid(data) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return nil, false, fmt.Errorf("decode %s: %w", path, err)
		}
		text = string(decoded)
		latin1 = true
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n"), latin1, nil
}
