package gen

import (
	"maps"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/syssam/flute/compiler/introspect"
)

// Names bound into every control context.
const (
	GeneratorKey       = "generator"
	OutputDirectoryKey = "outputDirectory"
)

// Context maps template variable names to values. A fresh Context is built
// for each control render; templates only read it.
type Context map[string]any

// with returns a copy of c with one extra binding.
func (c Context) with(id string, obj any) Context {
	out := make(Context, len(c)+1)
	maps.Copy(out, c)
	if id != "" {
		out[id] = obj
	}
	return out
}

var (
	contextTypesMu sync.RWMutex
	contextTypes   = map[string]func() any{
		"flute.StringHelper":     func() any { return &StringHelper{} },
		"flute.FileHelper":       func() any { return &FileHelper{} },
		"flute.PropertiesHelper": func() any { return &PropertiesHelper{} },
	}
)

// RegisterContextType makes a type available to the contextObjects setting.
func RegisterContextType(name string, factory func() any) {
	contextTypesMu.Lock()
	defer contextTypesMu.Unlock()
	contextTypes[name] = factory
}

// ContextTypes returns the registered context type names in sorted order.
func ContextTypes() []string {
	contextTypesMu.RLock()
	defer contextTypesMu.RUnlock()
	names := make([]string, 0, len(contextTypes))
	for n := range contextTypes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (g *Generator) contextFactory(typeName string) (func() any, bool) {
	if f, ok := g.cfg.ContextTypes[typeName]; ok {
		return f, true
	}
	contextTypesMu.RLock()
	defer contextTypesMu.RUnlock()
	f, ok := contextTypes[typeName]
	return f, ok
}

// fillDefaultObjects binds the configured context objects. Objects whose
// type is unknown or whose properties cannot be applied are logged and
// left out.
func (g *Generator) fillDefaultObjects(ctx Context) {
	names := make([]string, 0, len(g.cfg.ContextObjects))
	for n := range g.cfg.ContextObjects {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, name := range names {
		decl := g.cfg.ContextObjects[name]
		factory, ok := g.contextFactory(decl.Type)
		if !ok {
			g.log.Warn("context object type not found", "name", name, "type", decl.Type)
			continue
		}
		obj := factory()
		if err := applyProperties(obj, decl.Properties); err != nil {
			g.log.Warn("context object properties not applied", "name", name, "type", decl.Type, "error", err)
			continue
		}
		ctx[name] = obj
	}
}

func applyProperties(obj any, props map[string]any) error {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := introspect.Set(obj, k, props[k]); err != nil {
			return err
		}
	}
	return nil
}

// StringHelper exposes the naming functions to templates as an object.
type StringHelper struct {
	// Delimiter is used by Join when no separator is given.
	Delimiter string
}

func (*StringHelper) Camelize(s string) string     { return Camelize(s) }
func (*StringHelper) CapCamel(s string) string     { return CapCamel(s) }
func (*StringHelper) UncapCamel(s string) string   { return UncapCamel(s) }
func (*StringHelper) Capitalize(s string) string   { return Capitalize(s) }
func (*StringHelper) Uncapitalize(s string) string { return Uncapitalize(s) }
func (*StringHelper) Contains(s, sub string) bool  { return strings.Contains(s, sub) }
func (*StringHelper) Replace(s, from, to string) string {
	return strings.ReplaceAll(s, from, to)
}

// Join joins elements with the configured delimiter, ", " by default.
func (h *StringHelper) Join(elems []string) string {
	sep := h.Delimiter
	if sep == "" {
		sep = ", "
	}
	return strings.Join(elems, sep)
}

// FileHelper answers questions about files relative to BaseDir.
type FileHelper struct {
	BaseDir string
}

func (h *FileHelper) path(name string) string {
	if filepath.IsAbs(name) || h.BaseDir == "" {
		return name
	}
	return filepath.Join(h.BaseDir, name)
}

// Exists reports whether the file exists.
func (h *FileHelper) Exists(name string) bool {
	_, err := os.Stat(h.path(name))
	return err == nil
}

func (*FileHelper) Base(name string) string { return filepath.Base(name) }
func (*FileHelper) Dir(name string) string  { return filepath.Dir(name) }
func (*FileHelper) Ext(name string) string  { return filepath.Ext(name) }

// BaseName returns the file name without directory and extension.
func (*FileHelper) BaseName(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
