package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"schema.yaml": `
tables:
  - name: PRODUCT
    primary_key: [PRODUCT_ID]
    columns:
      - {name: PRODUCT_ID, db_type: INTEGER}
      - {name: PRODUCT_NAME, db_type: VARCHAR}
`,
		"kind.yaml":          "code: ONL\nlabel: df:capCamel(code)\n",
		"templates/cls.tmpl": "{{ .request.Value \"label\" }}\n",
		"flute.yaml": `
language: scala
schema: schema.yaml
outputDir: out
templateDirs: [templates]
freeGen:
  requests:
    - name: kind
      resource: {type: yaml, file: kind.yaml}
      output: {templateFile: cls.tmpl, className: Kind, fileExt: txt}
`,
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--no-color"))
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerateCommand(t *testing.T) {
	dir := setupProject(t)
	project := filepath.Join(dir, "flute.yaml")

	out, err := execute(t, "generate", "-c", project)
	require.NoError(t, err)
	assert.Contains(t, out, "generate scala, 1 tables")
	assert.Contains(t, out, "written entity/Product.scala")
	assert.Contains(t, out, "1 written, 0 unchanged")
	assert.FileExists(t, filepath.Join(dir, "out", "entity", "Product.scala"))

	out, err = execute(t, "gen", "-c", project)
	require.NoError(t, err)
	assert.Contains(t, out, "skipped entity/Product.scala")
	assert.Contains(t, out, "0 written, 1 unchanged")
}

func TestFreeGenCommand(t *testing.T) {
	dir := setupProject(t)
	project := filepath.Join(dir, "flute.yaml")

	out, err := execute(t, "freegen", "kind", "-c", project)
	require.NoError(t, err)
	assert.Contains(t, out, "freegen 1 requests")
	assert.Contains(t, out, "written Kind.txt")
	data, err := os.ReadFile(filepath.Join(dir, "out", "Kind.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Onl\n", string(data))

	_, err = execute(t, "freegen", "nope", "-c", project)
	assert.ErrorContains(t, err, "nope")
}

func TestRunCommand(t *testing.T) {
	dir := setupProject(t)
	out, err := execute(t, "run", "-c", filepath.Join(dir, "flute.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "generate scala")
	assert.Contains(t, out, "freegen 1 requests")
}

func TestSnapshotCommand(t *testing.T) {
	dir := setupProject(t)
	snap := filepath.Join(dir, "schema.msgpack")
	out, err := execute(t, "snapshot", snap, "-c", filepath.Join(dir, "flute.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "snapshot "+snap)
	assert.FileExists(t, snap)
}

func TestCommandErrors(t *testing.T) {
	_, err := execute(t, "generate", "-c", filepath.Join(t.TempDir(), "flute.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = execute(t, "snapshot")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "flute ")
}
