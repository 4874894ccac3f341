package gen

import (
	"errors"
	"io/fs"
	"log/slog"
	"maps"
	"strings"
	"text/template"
)

// LineSeparator is the line ending rendered output is converted to.
type LineSeparator string

const (
	// KeepLineSeparator leaves line endings as the template produced them.
	KeepLineSeparator LineSeparator = ""
	// LF converts every line ending to "\n".
	LF LineSeparator = "\n"
	// CRLF converts every line ending to "\r\n".
	CRLF LineSeparator = "\r\n"
)

// ParseLineSeparator accepts "lf", "crlf", "keep" (or empty) and the
// literal separators.
func ParseLineSeparator(s string) (LineSeparator, error) {
	switch strings.ToLower(s) {
	case "", "keep":
		return KeepLineSeparator, nil
	case "lf", "\n":
		return LF, nil
	case "crlf", "\r\n":
		return CRLF, nil
	default:
		return KeepLineSeparator, NewConfigError("LineSeparator", s, "unsupported line separator; use keep, lf or crlf")
	}
}

// ContextObject declares a default context entry instantiated from a
// registered type name, with optional properties applied after creation.
type ContextObject struct {
	Type       string
	Properties map[string]any
}

// Config holds the settings of a Generator.
type Config struct {
	// TemplateDirs is the template search path, searched in order.
	TemplateDirs []string
	// TemplateFS is searched after TemplateDirs. The built-in templates are
	// searched last.
	TemplateFS fs.FS
	// OutputDir is the root directory relative output paths resolve against.
	OutputDir string
	// TemplateEncoding is the character encoding of template files.
	TemplateEncoding string
	// OutputEncoding is the character encoding of written files.
	OutputEncoding string
	// LineSeparator of rendered text.
	LineSeparator LineSeparator
	// ContextObjects are bound into every control context by name.
	ContextObjects map[string]ContextObject
	// ContextTypes extends the default registry of context object types.
	ContextTypes map[string]func() any
	// Funcs are added to the template function map.
	Funcs template.FuncMap
	// Logger receives generation events. Defaults to slog.Default().
	Logger *slog.Logger
}

// Option configures code generation.
type Option func(*Config) error

// WithTemplateDirs appends directories to the template search path.
func WithTemplateDirs(dirs ...string) Option {
	return func(c *Config) error {
		for _, d := range dirs {
			if d == "" {
				return NewConfigError("TemplateDirs", nil, "template directory cannot be empty")
			}
		}
		c.TemplateDirs = append(c.TemplateDirs, dirs...)
		return nil
	}
}

// WithTemplateFS sets the file system searched after the template directories.
func WithTemplateFS(fsys fs.FS) Option {
	return func(c *Config) error {
		if fsys == nil {
			return NewConfigError("TemplateFS", nil, "file system cannot be nil")
		}
		c.TemplateFS = fsys
		return nil
	}
}

// WithOutputDir sets the output root directory.
func WithOutputDir(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("OutputDir", nil, "output directory cannot be empty")
		}
		c.OutputDir = dir
		return nil
	}
}

// WithTemplateEncoding sets the encoding templates are read with.
func WithTemplateEncoding(name string) Option {
	return func(c *Config) error {
		if _, err := resolveEncoding(name); err != nil {
			return NewConfigError("TemplateEncoding", name, err.Error())
		}
		c.TemplateEncoding = name
		return nil
	}
}

// WithOutputEncoding sets the encoding outputs are written and compared with.
func WithOutputEncoding(name string) Option {
	return func(c *Config) error {
		if _, err := resolveEncoding(name); err != nil {
			return NewConfigError("OutputEncoding", name, err.Error())
		}
		c.OutputEncoding = name
		return nil
	}
}

// WithLineSeparator converts the line endings of rendered text.
// Accepts the values of ParseLineSeparator.
func WithLineSeparator(sep string) Option {
	return func(c *Config) error {
		ls, err := ParseLineSeparator(sep)
		if err != nil {
			return err
		}
		c.LineSeparator = ls
		return nil
	}
}

// WithContextObject binds a default context object by registered type name.
func WithContextObject(name, typeName string, props map[string]any) Option {
	return func(c *Config) error {
		if name == "" || typeName == "" {
			return NewConfigError("ContextObjects", name, "context object needs a name and a type")
		}
		if c.ContextObjects == nil {
			c.ContextObjects = make(map[string]ContextObject)
		}
		c.ContextObjects[name] = ContextObject{Type: typeName, Properties: props}
		return nil
	}
}

// WithContextType registers a context object type for this configuration.
func WithContextType(typeName string, factory func() any) Option {
	return func(c *Config) error {
		if factory == nil {
			return NewConfigError("ContextTypes", typeName, "factory cannot be nil")
		}
		if c.ContextTypes == nil {
			c.ContextTypes = make(map[string]func() any)
		}
		c.ContextTypes[typeName] = factory
		return nil
	}
}

// WithFuncs adds template functions.
func WithFuncs(funcs template.FuncMap) Option {
	return func(c *Config) error {
		if c.Funcs == nil {
			c.Funcs = make(template.FuncMap)
		}
		maps.Copy(c.Funcs, funcs)
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
