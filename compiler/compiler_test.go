package compiler

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/flute/compiler/config"
	"github.com/syssam/flute/compiler/gen"
	"github.com/syssam/flute/compiler/gen/freegen"
)

const schemaYAML = `
name: maihamadb
tables:
  - name: MEMBER
    primary_key: [MEMBER_ID]
    columns:
      - {name: MEMBER_ID, db_type: INTEGER}
      - {name: MEMBER_NAME, db_type: VARCHAR, size: 200}
  - name: MEMBER_STATUS
    primary_key: [MEMBER_STATUS_CODE]
    columns:
      - {name: MEMBER_STATUS_CODE, db_type: CHAR, size: 3}
`

const projectYAML = `
language: java
schema: schema.yaml
outputDir: out
templateDirs: [templates]
package: org.docksidestage
lineSeparator: lf
freeGen:
  requests:
    - name: status
      resource: {type: PROP, file: status.properties}
      output: {templateFile: cdef.tmpl, directory: cdef, className: MemberStatusCDef, fileExt: java}
`

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newProject(t *testing.T) *config.Project {
	t.Helper()
	dir := t.TempDir()
	write(t, filepath.Join(dir, "schema.yaml"), schemaYAML)
	write(t, filepath.Join(dir, "status.properties"), "code=FML\nname=df:capCamel(code)\n")
	write(t, filepath.Join(dir, "templates", "cdef.tmpl"), `class {{ .request.Output.ClassName }} { {{ .request.Value "name" }} }`+"\n")
	write(t, filepath.Join(dir, config.DefaultFile), projectYAML)
	p, err := config.Load(filepath.Join(dir, config.DefaultFile))
	require.NoError(t, err)
	return p
}

func quiet() gen.Option {
	return gen.WithLogger(slog.New(slog.DiscardHandler))
}

func TestRun(t *testing.T) {
	p := newProject(t)
	res, err := Run(context.Background(), p, quiet())
	require.NoError(t, err)

	require.NotNil(t, res.Schema)
	assert.Equal(t, "java", res.Schema.Language)
	assert.Equal(t, []string{"entity/Member.java", "entity/MemberStatus.java"}, res.Schema.Parsed)
	data, err := os.ReadFile(filepath.Join(p.OutputDir, "entity", "Member.java"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "package org.docksidestage;")
	assert.Contains(t, string(data), "public class Member {")

	require.NotNil(t, res.FreeGen)
	assert.Equal(t, []string{"cdef/MemberStatusCDef.java"}, res.FreeGen.Parsed)
	data, err = os.ReadFile(filepath.Join(p.OutputDir, "cdef", "MemberStatusCDef.java"))
	require.NoError(t, err)
	assert.Equal(t, "class MemberStatusCDef { Fml }\n", string(data))

	res, err = Run(context.Background(), p, quiet())
	require.NoError(t, err)
	assert.Empty(t, res.Schema.Parsed)
	assert.Len(t, res.Schema.Skipped, 2)
	assert.Empty(t, res.FreeGen.Parsed)
	assert.Equal(t, []string{"cdef/MemberStatusCDef.java"}, res.FreeGen.Skipped)
}

func TestRunCanceled(t *testing.T) {
	p := newProject(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, p, quiet())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateErrors(t *testing.T) {
	p := newProject(t)
	p.Schema = ""
	_, err := Generate(p)
	assert.ErrorIs(t, err, gen.ErrMissingConfig)

	p = newProject(t)
	p.Schema = filepath.Join(p.Dir, "none.yaml")
	_, err = Generate(p)
	assert.ErrorIs(t, err, os.ErrNotExist)

	p = newProject(t)
	p.FreeGen.Requests = nil
	_, err = FreeGen(context.Background(), p, "")
	assert.ErrorIs(t, err, gen.ErrMissingConfig)
}

func TestSnapshot(t *testing.T) {
	p := newProject(t)
	snap := filepath.Join(p.Dir, "schema.msgpack")
	require.NoError(t, Snapshot(p, snap))

	p.Schema = snap
	report, err := Generate(p, quiet())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Tables)
	assert.FileExists(t, filepath.Join(p.OutputDir, "entity", "MemberStatus.java"))
}

func TestWatch(t *testing.T) {
	p := newProject(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runs := make(chan error, 16)
	errc := make(chan error, 1)
	go func() {
		errc <- Watch(ctx, p.WatchPaths(), func(ctx context.Context) error {
			_, err := Run(ctx, p, quiet())
			return err
		},
			WithDebounce(10*time.Millisecond),
			WithWatchLogger(slog.New(slog.DiscardHandler)),
			OnRun(func(err error) { runs <- err }),
		)
	}()

	next := func() error {
		t.Helper()
		select {
		case err := <-runs:
			return err
		case <-time.After(5 * time.Second):
			t.Fatal("no run after change")
			return nil
		}
	}
	require.NoError(t, next(), "initial run")

	write(t, filepath.Join(p.Dir, "status.properties"), "code=WDL\nname=df:capCamel(code)\n")
	require.NoError(t, next())
	data, err := os.ReadFile(filepath.Join(p.OutputDir, "cdef", "MemberStatusCDef.java"))
	require.NoError(t, err)
	assert.Equal(t, "class MemberStatusCDef { Wdl }\n", string(data))

	write(t, filepath.Join(p.Dir, "status.properties"), "name=df:capCamel(missing)\n")
	assert.ErrorIs(t, next(), freegen.ErrReferenceNotFound, "failed runs keep the watch alive")

	cancel()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
