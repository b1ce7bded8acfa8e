package source

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultCharset is assumed when none is configured.
const DefaultCharset = "utf-8"

// Decode returns a reader that yields r transcoded from charset to UTF-8.
// A leading UTF-8 byte order mark is dropped.
func Decode(r io.Reader, charset string) (io.Reader, error) {
	enc, err := lookup(charset)
	if err != nil {
		return nil, err
	}
	if enc == unicode.UTF8 {
		return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())), nil
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

// ValidCharset reports whether charset names a known encoding.
func ValidCharset(charset string) error {
	_, err := lookup(charset)
	return err
}

func lookup(charset string) (encoding.Encoding, error) {
	name := strings.TrimSpace(charset)
	if name == "" {
		name = DefaultCharset
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", charset, err)
	}
	return enc, nil
}

// charsetReader satisfies xml.Decoder.CharsetReader.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := lookup(label)
	if err != nil {
		return nil, err
	}
	return enc.NewDecoder().Reader(input), nil
}
