// Package freegen generates artifacts from arbitrary resource files rather
// than the schema model.
//
// Each Request names a resource (YAML, JSON or a properties file), a
// template and an output location. The Runner reads every resource into a
// flat key/value map, resolves reflector markers such as
// "df:capCamel(KEY)" in a second pass, and renders one control template
// that iterates the requests.
package freegen

import (
	"path"
	"strings"
)

// ResourceType is the format of a request's resource file.
type ResourceType string

// Resource types.
const (
	ResourceYAML ResourceType = "YAML"
	ResourceJSON ResourceType = "JSON"
	ResourceProp ResourceType = "PROP"
)

// Resource is the input file of a request.
type Resource struct {
	Type     ResourceType `yaml:"type" json:"type" validate:"required,oneof=YAML JSON PROP"`
	File     string       `yaml:"file" json:"file" validate:"required"`
	Encoding string       `yaml:"encoding,omitempty" json:"encoding,omitempty"`
}

// Output describes where and how a request is rendered.
type Output struct {
	TemplateFile string `yaml:"templateFile" json:"templateFile" validate:"required"`
	Directory    string `yaml:"directory,omitempty" json:"directory,omitempty"`
	Package      string `yaml:"package,omitempty" json:"package,omitempty"`
	ClassName    string `yaml:"className" json:"className" validate:"required"`
	FileExt      string `yaml:"fileExt,omitempty" json:"fileExt,omitempty"`
}

// Request is one named free-gen request.
type Request struct {
	Name     string         `yaml:"name" json:"name" validate:"required"`
	Resource Resource       `yaml:"resource" json:"resource"`
	Output   Output         `yaml:"output" json:"output"`
	TableMap map[string]any `yaml:"tableMap,omitempty" json:"tableMap,omitempty"`

	// ResultMap holds the resource values after reflectors are resolved.
	ResultMap map[string]string `yaml:"-" json:"-"`

	keys []string
}

// Keys returns the result map keys in resource order.
func (r *Request) Keys() []string { return append([]string(nil), r.keys...) }

// Value returns the resolved value of key.
func (r *Request) Value(key string) string { return r.ResultMap[key] }

// Entries returns the resolved key/value pairs in resource order.
func (r *Request) Entries() []Entry {
	out := make([]Entry, len(r.keys))
	for i, k := range r.keys {
		out[i] = Entry{Key: k, Value: r.ResultMap[k]}
	}
	return out
}

// Entry is one resolved resource value.
type Entry struct {
	Key   string
	Value string
}

// OutputPath returns the output file path relative to the output root:
// directory, then the package as a path, then class name and extension.
func (r *Request) OutputPath() string {
	name := r.Output.ClassName
	if ext := strings.TrimPrefix(r.Output.FileExt, "."); ext != "" {
		name += "." + ext
	}
	pkg := strings.ReplaceAll(r.Output.Package, ".", "/")
	return path.Join(r.Output.Directory, pkg, name)
}

func (r *Request) set(key, value string) {
	if r.ResultMap == nil {
		r.ResultMap = make(map[string]string)
	}
	if _, ok := r.ResultMap[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.ResultMap[key] = value
}
