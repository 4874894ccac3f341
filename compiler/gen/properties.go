package gen

import (
	"os"
	"path/filepath"

	"github.com/magiconair/properties"
)

// ParseProperties reads Java properties text. Keys keep their file order,
// escapes such as \uXXXX and \: are resolved and ${key} references are
// left as written.
func ParseProperties(text string) (*properties.Properties, error) {
	l := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	return l.LoadBytes([]byte(text))
}

// PropertiesHelper exposes one properties file, resolved against BaseDir
// and read in Encoding, to templates. The file is read on first use.
type PropertiesHelper struct {
	BaseDir  string
	File     string
	Encoding string

	props *properties.Properties
}

func (h *PropertiesHelper) load() (*properties.Properties, error) {
	if h.props != nil {
		return h.props, nil
	}
	path := h.File
	if !filepath.IsAbs(path) && h.BaseDir != "" {
		path = filepath.Join(h.BaseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text, err := DecodeText(h.Encoding, data)
	if err != nil {
		return nil, err
	}
	if h.props, err = ParseProperties(text); err != nil {
		return nil, err
	}
	return h.props, nil
}

// Get returns the value of key, or "" when the file has no such key.
func (h *PropertiesHelper) Get(key string) (string, error) {
	p, err := h.load()
	if err != nil {
		return "", err
	}
	v, _ := p.Get(key)
	return v, nil
}

// Has reports whether the file defines key.
func (h *PropertiesHelper) Has(key string) (bool, error) {
	p, err := h.load()
	if err != nil {
		return false, err
	}
	_, ok := p.Get(key)
	return ok, nil
}

// Keys returns the keys in file order.
func (h *PropertiesHelper) Keys() ([]string, error) {
	p, err := h.load()
	if err != nil {
		return nil, err
	}
	return p.Keys(), nil
}
