package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/flute/compiler/gen"
	"github.com/syssam/flute/compiler/gen/freegen"
)

const sample = `
language: Java
schema: schema/maihama.yaml
outputDir: out
templateDirs: [templates]
outputEncoding: ISO-8859-1
lineSeparator: CRLF
package: org.docksidestage
include: ["member*"]
except: ["*_tmp"]
contextObjects:
  strings:
    type: flute.StringHelper
    properties:
      delimiter: "|"
freeGen:
  workers: 2
  requests:
    - name: status
      resource: {type: prop, file: res/status.properties}
      output: {templateFile: cdef.tmpl, className: MemberStatus, fileExt: java}
`

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "java", p.Language)
	assert.Equal(t, "crlf", p.LineSeparator)
	assert.Equal(t, dir, p.Dir)
	assert.Equal(t, filepath.Join(dir, "schema", "maihama.yaml"), p.Schema)
	assert.Equal(t, filepath.Join(dir, "out"), p.OutputDir)
	assert.Equal(t, []string{filepath.Join(dir, "templates")}, p.TemplateDirs)
	require.Len(t, p.FreeGen.Requests, 1)
	assert.Equal(t, freegen.ResourceProp, p.FreeGen.Requests[0].Resource.Type)
	assert.Equal(t, []string{
		filepath.Join(dir, "schema", "maihama.yaml"),
		filepath.Join(dir, "templates"),
		filepath.Join(dir, "res", "status.properties"),
	}, p.WatchPaths())

	cfg, err := p.GenConfig(gen.WithTemplateDirs("extra"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out"), cfg.OutputDir)
	assert.Equal(t, gen.CRLF, cfg.LineSeparator)
	assert.Equal(t, "ISO-8859-1", cfg.OutputEncoding)
	assert.Equal(t, []string{filepath.Join(dir, "templates"), "extra"}, cfg.TemplateDirs)
	assert.Equal(t, gen.ContextObject{Type: "flute.StringHelper", Properties: map[string]any{"delimiter": "|"}}, cfg.ContextObjects["strings"])
	assert.Contains(t, gen.ContextTypes(), cfg.ContextObjects["strings"].Type, "documented type names are registered")

	req := p.SchemaRequest()
	assert.Equal(t, "java", req.Language)
	assert.Equal(t, "org.docksidestage", req.Package)
	assert.Equal(t, []string{"member*"}, req.Include)
	assert.Equal(t, []string{"*_tmp"}, req.Except)
	assert.Nil(t, req.Database)
	assert.Len(t, p.RunnerOptions(), 3)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), DefaultFile))
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		message string
	}{
		{
			name:    "unknown field",
			data:    "language: java\noutputDir: out\nschema: s.yaml\nbogus: 1\n",
			message: "bogus",
		},
		{
			name:    "missing output dir",
			data:    "language: java\nschema: s.yaml\n",
			message: "OutputDir is required",
		},
		{
			name:    "unknown language",
			data:    "language: cobol\noutputDir: out\nschema: s.yaml\n",
			message: `unknown language "cobol" (supported: java, php, scala)`,
		},
		{
			name:    "unknown encoding",
			data:    "language: java\noutputDir: out\nschema: s.yaml\noutputEncoding: no-such\n",
			message: `OutputEncoding: unknown encoding "no-such"`,
		},
		{
			name:    "bad line separator",
			data:    "language: java\noutputDir: out\nschema: s.yaml\nlineSeparator: cr\n",
			message: "LineSeparator must be one of [keep lf crlf]",
		},
		{
			name:    "nothing to generate",
			data:    "language: java\noutputDir: out\n",
			message: "Schema is required without freeGen requests",
		},
		{
			name:    "context object without type",
			data:    "language: java\noutputDir: out\nschema: s.yaml\ncontextObjects:\n  x: {}\n",
			message: "Type is required",
		},
		{
			name: "bad request",
			data: `language: java
outputDir: out
freeGen:
  requests:
    - name: a
      resource: {type: xls, file: a.xls}
      output: {templateFile: t.tmpl, className: A}
`,
			message: "must be one of [YAML JSON PROP]",
		},
		{
			name: "duplicate request names",
			data: `language: java
outputDir: out
freeGen:
  requests:
    - name: a
      resource: {type: yaml, file: a.yaml}
      output: {templateFile: t.tmpl, className: A}
    - name: a
      resource: {type: yaml, file: b.yaml}
      output: {templateFile: t.tmpl, className: B}
`,
			message: "must have unique Name values",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), t.TempDir())
			var e *Error
			require.ErrorAs(t, err, &e)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestValidationErrorsAreExposed(t *testing.T) {
	err := (&Project{Language: "java", Schema: "s.yaml"}).Validate()
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 1)
	assert.Equal(t, "OutputDir", verrs[0].Field())
}

func TestFreeGenOnlyProject(t *testing.T) {
	data := `language: scala
outputDir: /abs/out
freeGen:
  requests:
    - name: a
      resource: {type: JSON, file: /abs/a.json}
      output: {templateFile: t.tmpl, className: A}
`
	p, err := Parse([]byte(data), "/project")
	require.NoError(t, err)
	assert.Empty(t, p.Schema)
	assert.Equal(t, "/abs/out", p.OutputDir)
	assert.Equal(t, []string{"/abs/a.json"}, p.WatchPaths())
}
