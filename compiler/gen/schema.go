package gen

import (
	"fmt"
	"path"
	"strings"

	"github.com/syssam/flute/compiler/grammar"
	"github.com/syssam/flute/compiler/load"
)

// Selector exposes the tables of a database that pass the include and
// except patterns. Patterns use path.Match syntax and match table names
// case-insensitively. An empty include list selects every table.
type Selector struct {
	tables  []*load.Table
	include []string
	except  []string
}

// NewSelector validates the patterns and selects the tables of db.
func NewSelector(db *load.Database, include, except []string) (*Selector, error) {
	s := &Selector{include: lowerAll(include), except: lowerAll(except)}
	for _, p := range append(append([]string(nil), s.include...), s.except...) {
		if _, err := path.Match(p, ""); err != nil {
			return nil, NewConfigError("Selector", p, fmt.Sprintf("invalid table pattern: %v", err))
		}
	}
	for _, t := range db.Tables {
		if s.Selected(t.Name) {
			s.tables = append(s.tables, t)
		}
	}
	return s, nil
}

// Tables returns the selected tables in schema order.
func (s *Selector) Tables() []*load.Table { return s.tables }

// Selected reports whether a table name passes the patterns.
func (s *Selector) Selected(name string) bool {
	name = strings.ToLower(name)
	if len(s.include) > 0 && !matchAny(s.include, name) {
		return false
	}
	return !matchAny(s.except, name)
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, _ := path.Match(p, name); ok {
			return true
		}
	}
	return false
}

func lowerAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.ToLower(s)
	}
	return out
}

// SchemaRequest describes a schema-driven run.
type SchemaRequest struct {
	// Database is the schema model. It is linked before rendering.
	Database *load.Database
	// Language selects the grammar, e.g. "java".
	Language string
	// Control is the control template, DefaultControl when empty.
	Control string
	// Package is bound as "package" for the entity templates.
	Package string
	// EntityDir is the output subdirectory of entities, "entity/" when empty.
	EntityDir string
	// BaseClass, when set, is the class generated entities extend.
	BaseClass string
	Include   []string
	Except    []string
	// Data holds extra bindings. They override the built-in ones.
	Data Context
}

// Report summarizes a finished run.
type Report struct {
	RunID        string
	Language     string
	Tables       int
	Parsed       []string
	Skipped      []string
	FilesWritten int
	TotalBytes   int64
}

// GenerateSchema renders the control template against the schema model
// and the grammar of the requested language, then shuts the generator
// down. The control template's own text is discarded.
func GenerateSchema(cfg *Config, req SchemaRequest) (*Report, error) {
	if req.Database == nil {
		return nil, NewConfigError("Database", nil, "missing schema model")
	}
	g, err := grammar.Lookup(req.Language)
	if err != nil {
		return nil, NewConfigError("Language", req.Language, err.Error())
	}
	if err := req.Database.Link(); err != nil {
		return nil, err
	}
	sel, err := NewSelector(req.Database, req.Include, req.Except)
	if err != nil {
		return nil, err
	}
	gen, err := New(cfg)
	if err != nil {
		return nil, err
	}
	defer gen.Shutdown()

	control := req.Control
	if control == "" {
		control = DefaultControl
	}
	entityDir := req.EntityDir
	if entityDir == "" {
		entityDir = "entity/"
	}
	if !strings.HasSuffix(entityDir, "/") {
		entityDir += "/"
	}
	data := Context{
		"database":  req.Database,
		"grammar":   g,
		"selector":  sel,
		"language":  g.Name(),
		"runID":     gen.RunID(),
		"package":   req.Package,
		"entityDir": entityDir,
		"baseClass": req.BaseClass,
	}
	for k, v := range req.Data {
		data[k] = v
	}
	gen.log.Info("generate schema", "language", g.Name(), "tables", len(sel.Tables()), "run", gen.RunID())
	if _, err := gen.RenderControl(control, data); err != nil {
		return nil, err
	}
	gen.Shutdown()
	return &Report{
		RunID:        gen.RunID(),
		Language:     g.Name(),
		Tables:       len(sel.Tables()),
		Parsed:       gen.Tracker().Parsed(),
		Skipped:      gen.Tracker().Skipped(),
		FilesWritten: gen.Metrics().FilesWritten,
		TotalBytes:   gen.Metrics().TotalBytes,
	}, nil
}
