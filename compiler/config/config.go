// Package config reads the project file that drives a flute run.
//
// A project file is YAML:
//
//	language: java
//	schema: schema/maihama.yaml
//	outputDir: src/main/java
//	package: org.docksidestage.dbflute
//	lineSeparator: lf
//	include: ["member*"]
//	contextObjects:
//	  strings:
//	    type: flute.StringHelper
//	freeGen:
//	  requests:
//	    - name: status
//	      resource: {type: PROP, file: res/status.properties}
//	      output: {templateFile: cdef.tmpl, className: MemberStatus, fileExt: java}
//
// Relative paths are resolved against the directory of the project file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/syssam/flute/compiler/gen"
	"github.com/syssam/flute/compiler/gen/freegen"
	"github.com/syssam/flute/compiler/grammar"
)

// DefaultFile is the project file looked up when none is given.
const DefaultFile = "flute.yaml"

// Project is the content of a project file.
type Project struct {
	Language         string                   `yaml:"language" validate:"required,grammar"`
	Schema           string                   `yaml:"schema,omitempty"`
	OutputDir        string                   `yaml:"outputDir" validate:"required"`
	TemplateDirs     []string                 `yaml:"templateDirs,omitempty" validate:"dive,required"`
	Control          string                   `yaml:"control,omitempty"`
	TemplateEncoding string                   `yaml:"templateEncoding,omitempty" validate:"omitempty,encoding"`
	OutputEncoding   string                   `yaml:"outputEncoding,omitempty" validate:"omitempty,encoding"`
	LineSeparator    string                   `yaml:"lineSeparator,omitempty" validate:"omitempty,oneof=keep lf crlf"`
	Package          string                   `yaml:"package,omitempty"`
	EntityDir        string                   `yaml:"entityDir,omitempty"`
	BaseClass        string                   `yaml:"baseClass,omitempty"`
	Include          []string                 `yaml:"include,omitempty"`
	Except           []string                 `yaml:"except,omitempty"`
	ContextObjects   map[string]ContextObject `yaml:"contextObjects,omitempty" validate:"dive"`
	FreeGen          FreeGen                  `yaml:"freeGen,omitempty"`

	// Dir is the directory relative paths were resolved against.
	Dir string `yaml:"-"`
}

// ContextObject declares a default context object, see gen.ContextObject.
type ContextObject struct {
	Type       string         `yaml:"type" validate:"required"`
	Properties map[string]any `yaml:"properties,omitempty"`
}

// FreeGen is the free-gen section of a project.
type FreeGen struct {
	Control  string             `yaml:"control,omitempty"`
	Workers  int                `yaml:"workers,omitempty" validate:"gte=0"`
	Requests []*freegen.Request `yaml:"requests,omitempty" validate:"unique=Name,dive"`
}

// Error reports a project file that cannot be read or is invalid.
type Error struct {
	File  string
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("flute: project")
	if e.File != "" {
		b.WriteString(" " + e.File)
	}
	var verrs validator.ValidationErrors
	if errors.As(e.Cause, &verrs) {
		msgs := make([]string, len(verrs))
		for i, fe := range verrs {
			msgs[i] = describe(fe)
		}
		b.WriteString(" is invalid: " + strings.Join(msgs, "; "))
		return b.String()
	}
	b.WriteString(": " + e.Cause.Error())
	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Project.")
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "required_without":
		return fmt.Sprintf("%s is required without %s", field, fe.Param())
	case "grammar":
		return fmt.Sprintf("%s: unknown language %q (supported: %s)", field, fe.Value(), strings.Join(grammar.Languages(), ", "))
	case "encoding":
		return fmt.Sprintf("%s: unknown encoding %q", field, fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "unique":
		return fmt.Sprintf("%s must have unique %s values", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %q", field, fe.Tag())
	}
}

// Load reads the project file at path.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{File: path, Cause: err}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &Error{File: path, Cause: err}
	}
	p, err := Parse(data, filepath.Dir(abs))
	if err != nil {
		var e *Error
		if errors.As(err, &e) {
			e.File = path
		}
		return nil, err
	}
	return p, nil
}

// Parse decodes and validates a project. Relative paths are resolved
// against dir.
func Parse(data []byte, dir string) (*Project, error) {
	p := &Project{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(p); err != nil {
		return nil, &Error{Cause: fmt.Errorf("decode: %w", err)}
	}
	p.normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p.resolve(dir)
	return p, nil
}

func (p *Project) normalize() {
	p.Language = strings.ToLower(strings.TrimSpace(p.Language))
	p.LineSeparator = strings.ToLower(p.LineSeparator)
	for _, r := range p.FreeGen.Requests {
		if r != nil {
			r.Resource.Type = freegen.ResourceType(strings.ToUpper(string(r.Resource.Type)))
		}
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("grammar", func(fl validator.FieldLevel) bool {
		_, err := grammar.Lookup(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("encoding", func(fl validator.FieldLevel) bool {
		_, err := gen.NewConfig(gen.WithOutputEncoding(fl.Field().String()))
		return err == nil
	})
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		p, ok := sl.Current().Interface().(Project)
		if ok && p.Schema == "" && len(p.FreeGen.Requests) == 0 {
			sl.ReportError(p.Schema, "Schema", "Schema", "required_without", "freeGen requests")
		}
	}, Project{})
	return v
}

// Validate checks the project against its field rules.
func (p *Project) Validate() error {
	if err := validate.Struct(p); err != nil {
		return &Error{Cause: err}
	}
	return nil
}

func (p *Project) resolve(dir string) {
	p.Dir = dir
	p.Schema = p.abs(p.Schema)
	p.OutputDir = p.abs(p.OutputDir)
	for i, d := range p.TemplateDirs {
		p.TemplateDirs[i] = p.abs(d)
	}
}

func (p *Project) abs(path string) string {
	if path == "" || filepath.IsAbs(path) || p.Dir == "" {
		return path
	}
	return filepath.Join(p.Dir, path)
}

// GenOptions converts the project into generator options.
func (p *Project) GenOptions() []gen.Option {
	opts := []gen.Option{
		gen.WithOutputDir(p.OutputDir),
		gen.WithLineSeparator(p.LineSeparator),
	}
	if len(p.TemplateDirs) > 0 {
		opts = append(opts, gen.WithTemplateDirs(p.TemplateDirs...))
	}
	if p.TemplateEncoding != "" {
		opts = append(opts, gen.WithTemplateEncoding(p.TemplateEncoding))
	}
	if p.OutputEncoding != "" {
		opts = append(opts, gen.WithOutputEncoding(p.OutputEncoding))
	}
	for name, o := range p.ContextObjects {
		opts = append(opts, gen.WithContextObject(name, o.Type, o.Properties))
	}
	return opts
}

// GenConfig builds a generator configuration from the project, with opts
// applied last.
func (p *Project) GenConfig(opts ...gen.Option) (*gen.Config, error) {
	return gen.NewConfig(append(p.GenOptions(), opts...)...)
}

// SchemaRequest returns the schema-driven run described by the project,
// without its database.
func (p *Project) SchemaRequest() gen.SchemaRequest {
	return gen.SchemaRequest{
		Language:  p.Language,
		Control:   p.Control,
		Package:   p.Package,
		EntityDir: p.EntityDir,
		BaseClass: p.BaseClass,
		Include:   p.Include,
		Except:    p.Except,
	}
}

// RunnerOptions returns the free-gen runner options of the project.
// Resource files resolve against the project directory.
func (p *Project) RunnerOptions() []freegen.RunnerOption {
	return []freegen.RunnerOption{
		freegen.WithBaseDir(p.Dir),
		freegen.WithControl(p.FreeGen.Control),
		freegen.WithWorkers(p.FreeGen.Workers),
	}
}

// WatchPaths returns the files and directories whose change should
// trigger a new run.
func (p *Project) WatchPaths() []string {
	var paths []string
	if p.Schema != "" {
		paths = append(paths, p.Schema)
	}
	paths = append(paths, p.TemplateDirs...)
	seen := make(map[string]bool)
	for _, r := range p.FreeGen.Requests {
		f := p.abs(r.Resource.File)
		if !seen[f] {
			seen[f] = true
			paths = append(paths, f)
		}
	}
	return paths
}
