package gen

import (
	"errors"
	"fmt"
	"strings"
	"text/template"
)

// Sentinel errors for common failure cases.
var (
	// ErrMissingConfig indicates a configuration error.
	ErrMissingConfig = errors.New("flute: missing configuration")
	// ErrTemplateParse indicates a template could not be parsed or merged.
	ErrTemplateParse = errors.New("flute: template parsing failure")
	// ErrGenerationFailed indicates an output could not be written.
	ErrGenerationFailed = errors.New("flute: code generation failed")
	// ErrShutdown is returned by renders issued after Shutdown.
	ErrShutdown = errors.New("flute: generator already shut down")
)

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("flute: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("flute: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// TemplateError represents a failure to load, parse or merge a template.
// It carries the values needed to find the offending template without a
// debugger.
type TemplateError struct {
	Template string
	Encoding string
	Output   string
	Message  string
	Cause    error
}

// Error implements the error interface.
func (e *TemplateError) Error() string {
	var b strings.Builder
	b.WriteString("flute: template parsing failure")
	if e.Template != "" {
		b.WriteString(" in template ")
		b.WriteString(e.Template)
	}
	if e.Encoding != "" {
		b.WriteString(" (encoding: ")
		b.WriteString(e.Encoding)
		b.WriteString(")")
	}
	if e.Output != "" {
		b.WriteString(" (output: ")
		b.WriteString(e.Output)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for TemplateError.
func (e *TemplateError) Is(target error) bool {
	return target == ErrTemplateParse
}

// NewTemplateError creates a new TemplateError.
func NewTemplateError(tmpl, encoding, output, message string, cause error) *TemplateError {
	return &TemplateError{
		Template: tmpl,
		Encoding: encoding,
		Output:   output,
		Message:  message,
		Cause:    cause,
	}
}

// wrapTemplateError turns a parse or execution failure into a TemplateError.
// A TemplateError already in the chain, raised by a nested render, is
// returned as is. An execution error raised by a function or method called
// from the template is unwrapped one level so the real cause is kept.
func wrapTemplateError(tmpl, encoding, output string, err error) error {
	var te *TemplateError
	if errors.As(err, &te) {
		return te
	}
	message := "merge failed"
	var ee template.ExecError
	if errors.As(err, &ee) {
		if inner := errors.Unwrap(ee.Err); inner != nil {
			message = ee.Err.Error()
			err = inner
		}
	}
	return NewTemplateError(tmpl, encoding, output, message, err)
}

// GenerationError represents a failure to write generated output.
type GenerationError struct {
	Phase   string // "compare", "open", "write", "close"
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("flute: generation error")
	if e.Phase != "" {
		b.WriteString(" in phase ")
		b.WriteString(e.Phase)
	}
	if e.File != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.File)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(phase, file, message string, cause error) *GenerationError {
	return &GenerationError{
		Phase:   phase,
		File:    file,
		Message: message,
		Cause:   cause,
	}
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsTemplateError reports whether the error is a TemplateError.
func IsTemplateError(err error) bool {
	var tmplErr *TemplateError
	return errors.As(err, &tmplErr)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}
