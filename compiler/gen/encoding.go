package gen

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// DefaultEncoding is used when no template or output encoding is configured.
const DefaultEncoding = "UTF-8"

// legacyLatinAliases are old spellings of ISO-8859-1 kept by existing
// project files; they read and write with the default encoding.
var legacyLatinAliases = []string{"8859_1", "ISO8859_1"}

// resolveEncoding returns the encoding for name, or nil when text passes
// through as UTF-8.
func resolveEncoding(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "", strings.EqualFold(name, "UTF-8"), strings.EqualFold(name, "UTF8"):
		return nil, nil
	case isLegacyLatin(name):
		return nil, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("encoding %q has no implementation", name)
	}
	return enc, nil
}

func isLegacyLatin(name string) bool {
	for _, alias := range legacyLatinAliases {
		if strings.EqualFold(name, alias) {
			return true
		}
	}
	return false
}

// encodingName returns the name reported in diagnostics.
func encodingName(name string) string {
	if strings.TrimSpace(name) == "" {
		return DefaultEncoding
	}
	return name
}

func decode(enc encoding.Encoding, data []byte) (string, error) {
	if enc == nil {
		return string(data), nil
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// encode converts UTF-8 text to enc. Runes enc cannot represent are an
// error.
func encode(enc encoding.Encoding, text string) ([]byte, error) {
	if enc == nil {
		return []byte(text), nil
	}
	return enc.NewEncoder().Bytes([]byte(text))
}

// DecodeText converts data in the named encoding to UTF-8 text, using the
// same name resolution as the generator settings.
func DecodeText(encodingName string, data []byte) (string, error) {
	enc, err := resolveEncoding(encodingName)
	if err != nil {
		return "", err
	}
	return decode(enc, data)
}
