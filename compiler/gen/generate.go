package gen

import (
	"errors"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/google/uuid"
	"golang.org/x/text/encoding"
)

// Generator renders templates against a context and writes the results.
//
// Renders run one at a time. Each output path gets a single writer that
// stays open until Shutdown, so several renders can append to one file.
// Output whose content equals the file already on disk is not written,
// which keeps the file's modification time for incremental builds.
type Generator struct {
	cfg     *Config
	log     *slog.Logger
	runID   string
	funcs   template.FuncMap
	tmplEnc encoding.Encoding
	outEnc  encoding.Encoding

	parsed  map[string]*template.Template
	context Context
	writers *writerRegistry
	tracker *SkipTracker
	metrics WriterMetrics
	closed  bool
}

// New creates a Generator for the given configuration.
func New(cfg *Config) (*Generator, error) {
	if cfg == nil {
		return nil, NewConfigError("Config", nil, "missing configuration")
	}
	if cfg.OutputDir == "" {
		return nil, NewConfigError("OutputDir", nil, "missing output directory in config")
	}
	tmplEnc, err := resolveEncoding(cfg.TemplateEncoding)
	if err != nil {
		return nil, NewConfigError("TemplateEncoding", cfg.TemplateEncoding, err.Error())
	}
	outEnc, err := resolveEncoding(cfg.OutputEncoding)
	if err != nil {
		return nil, NewConfigError("OutputEncoding", cfg.OutputEncoding, err.Error())
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	funcs := maps.Clone(Funcs)
	maps.Copy(funcs, cfg.Funcs)
	return &Generator{
		cfg:     cfg,
		log:     log,
		runID:   uuid.NewString(),
		funcs:   funcs,
		tmplEnc: tmplEnc,
		outEnc:  outEnc,
		parsed:  make(map[string]*template.Template),
		context: Context{},
		writers: newWriterRegistry(openFile, log),
		tracker: &SkipTracker{},
	}, nil
}

// RunID identifies this generator's run in logs and reports.
func (g *Generator) RunID() string { return g.runID }

// OutputDir returns the output root directory.
func (g *Generator) OutputDir() string { return g.cfg.OutputDir }

// Tracker returns the record of written and skipped outputs.
func (g *Generator) Tracker() *SkipTracker { return g.tracker }

// Metrics returns the output metrics.
func (g *Generator) Metrics() WriterMetrics { return g.metrics }

// RenderControl is the entry point of a run. It binds the generator, the
// output directory and the configured default objects, adds data on top,
// and renders the control template, whose text is returned.
func (g *Generator) RenderControl(control string, data Context) (string, error) {
	ctx := Context{
		GeneratorKey:       g,
		OutputDirectoryKey: g.cfg.OutputDir,
	}
	g.fillDefaultObjects(ctx)
	maps.Copy(ctx, data)
	g.context = ctx
	g.log.Debug("render control template", "template", control, "run", g.runID)
	return g.render(control, "", g.context)
}

// Render merges the input template with the current context. With an empty
// output the text is returned. Otherwise it is written to output, relative
// to the output directory, and the empty string is returned.
func (g *Generator) Render(input, output string) (string, error) {
	return g.render(input, output, g.context)
}

// RenderWith is Render with one extra binding visible to the template.
func (g *Generator) RenderWith(input, output, id string, obj any) (string, error) {
	return g.render(input, output, g.context.with(id, obj))
}

func (g *Generator) render(input, output string, ctx Context) (string, error) {
	if g.closed {
		return "", NewTemplateError(input, encodingName(g.cfg.TemplateEncoding), output, "render after shutdown", ErrShutdown)
	}
	tmpl, err := g.load(input)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, ctx); err != nil {
		return "", wrapTemplateError(input, encodingName(g.cfg.TemplateEncoding), output, err)
	}
	text := convertLineSeparator(b.String(), g.cfg.LineSeparator)
	if output == "" {
		return text, nil
	}
	return "", g.emit(output, text)
}

// convertLineSeparator rewrites line endings in two steps so that existing
// CRLF endings are not doubled.
func convertLineSeparator(s string, sep LineSeparator) string {
	if sep == KeepLineSeparator {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	if sep == CRLF {
		s = strings.ReplaceAll(s, "\n", "\r\n")
	}
	return s
}

// emit writes text to the output. Paths with an open writer are appended
// to; otherwise an unchanged file is skipped.
func (g *Generator) emit(output, text string) error {
	target := g.outputPath(output)
	data, err := encode(g.outEnc, text)
	if err != nil {
		return NewGenerationError("encode", target, "encode output as "+encodingName(g.cfg.OutputEncoding), err)
	}
	w, ok := g.writers.lookup(target)
	if !ok {
		same, err := g.unchanged(target, text)
		if err != nil {
			return NewGenerationError("compare", target, "read existing output", err)
		}
		if same {
			g.tracker.addSkipped(output)
			g.log.Debug("output unchanged", "file", output)
			return nil
		}
		if w, err = g.writers.acquire(target); err != nil {
			return NewGenerationError("open", target, "create output", err)
		}
		g.tracker.addParsed(output)
		g.metrics.FilesWritten++
		g.log.Debug("output written", "file", output)
	}
	n, err := w.Write(data)
	g.metrics.TotalBytes += int64(n)
	if err != nil {
		return NewGenerationError("write", target, "write output", err)
	}
	return nil
}

// unchanged reports whether the file at path holds exactly text in the
// output encoding.
func (g *Generator) unchanged(path, text string) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	existing, err := decode(g.outEnc, data)
	if err != nil {
		g.log.Debug("existing output not decodable, rewriting", "file", path,
			"encoding", encodingName(g.cfg.OutputEncoding), "error", err)
		return false, nil
	}
	return existing == text, nil
}

func (g *Generator) outputPath(output string) string {
	if filepath.IsAbs(output) {
		return output
	}
	return filepath.Join(g.cfg.OutputDir, output)
}

// load returns the parsed template, reading it from the search path on
// first use.
func (g *Generator) load(name string) (*template.Template, error) {
	key := name + "\x00" + g.cfg.TemplateEncoding
	if t, ok := g.parsed[key]; ok {
		return t, nil
	}
	enc := encodingName(g.cfg.TemplateEncoding)
	data, err := g.readTemplate(name)
	if err != nil {
		return nil, NewTemplateError(name, enc, "", "template not found in search path", err)
	}
	text, err := decode(g.tmplEnc, data)
	if err != nil {
		return nil, NewTemplateError(name, enc, "", "decode template", err)
	}
	t, err := template.New(name).Funcs(g.funcs).Parse(text)
	if err != nil {
		return nil, NewTemplateError(name, enc, "", "parse failed", err)
	}
	g.parsed[key] = t
	return t, nil
}

func (g *Generator) readTemplate(name string) ([]byte, error) {
	if filepath.IsAbs(name) {
		return os.ReadFile(name)
	}
	for _, dir := range g.cfg.TemplateDirs {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	fss := []fs.FS{DefaultTemplates()}
	if g.cfg.TemplateFS != nil {
		fss = append([]fs.FS{g.cfg.TemplateFS}, fss...)
	}
	var err error
	for _, fsys := range fss {
		var data []byte
		data, err = fs.ReadFile(fsys, path.Clean(filepath.ToSlash(name)))
		if err == nil || !errors.Is(err, fs.ErrNotExist) {
			return data, err
		}
	}
	return nil, err
}

// Shutdown flushes and closes every open output. Close failures are logged
// and do not prevent the remaining outputs from being closed. Renders
// after Shutdown fail.
func (g *Generator) Shutdown() {
	if g.closed {
		return
	}
	g.closed = true
	if failed := g.writers.closeAll(); failed > 0 {
		g.log.Warn("some outputs failed to close", "count", failed, "run", g.runID)
	}
}
