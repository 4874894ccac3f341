package freegen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/syssam/flute/compiler/gen"
)

// DefaultControl is the built-in free-gen control template. It renders
// every request through Manager.Render.
const DefaultControl = "freegen.tmpl"

// ErrRequestNotFound is returned when the target names no request.
var ErrRequestNotFound = errors.New("flute: free-gen request not found")

// Manager is bound as "manager" in the control context.
type Manager struct {
	gen      *gen.Generator
	requests []*Request
}

// Requests returns the requests of the run.
func (m *Manager) Requests() []*Request { return m.requests }

// Request returns the named request or nil.
func (m *Manager) Request(name string) *Request {
	for _, r := range m.requests {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// OutputPath returns the output path of the request.
func (m *Manager) OutputPath(r *Request) string { return r.OutputPath() }

// Render renders the request's template to its output path with the
// request bound as "request".
func (m *Manager) Render(r *Request) (string, error) {
	return m.gen.RenderWith(r.Output.TemplateFile, r.OutputPath(), "request", r)
}

func (*Manager) Camelize(s string) string     { return gen.Camelize(s) }
func (*Manager) CapCamel(s string) string     { return gen.CapCamel(s) }
func (*Manager) UncapCamel(s string) string   { return gen.UncapCamel(s) }
func (*Manager) Capitalize(s string) string   { return gen.Capitalize(s) }
func (*Manager) Uncapitalize(s string) string { return gen.Uncapitalize(s) }

// Runner runs free-gen requests.
type Runner struct {
	cfg      *gen.Config
	requests []*Request
	baseDir  string
	control  string
	workers  int
	log      *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithBaseDir resolves relative resource files against dir.
func WithBaseDir(dir string) RunnerOption {
	return func(r *Runner) { r.baseDir = dir }
}

// WithControl replaces the control template.
func WithControl(name string) RunnerOption {
	return func(r *Runner) {
		if name != "" {
			r.control = name
		}
	}
}

// WithWorkers bounds the number of resources read concurrently.
func WithWorkers(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// NewRunner returns a Runner for the requests.
func NewRunner(cfg *gen.Config, requests []*Request, opts ...RunnerOption) *Runner {
	r := &Runner{
		cfg:      cfg,
		requests: requests,
		control:  DefaultControl,
		workers:  4,
		log:      slog.Default(),
	}
	if cfg != nil && cfg.Logger != nil {
		r.log = cfg.Logger
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Report summarizes a free-gen run.
type Report struct {
	RunID        string
	Requests     []string
	Parsed       []string
	Skipped      []string
	FilesWritten int
	TotalBytes   int64
}

// Run prepares the requests and renders the control template once with
// "manager" and "requestList" bound. A non-empty target limits the run to
// the request of that name.
func (r *Runner) Run(ctx context.Context, target string) (*Report, error) {
	requests := r.requests
	if target != "" {
		requests = nil
		for _, req := range r.requests {
			if req.Name == target {
				requests = append(requests, req)
			}
		}
		if len(requests) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrRequestNotFound, target)
		}
	}
	if err := r.prepare(ctx, requests); err != nil {
		return nil, err
	}
	g, err := gen.New(r.cfg)
	if err != nil {
		return nil, err
	}
	defer g.Shutdown()

	m := &Manager{gen: g, requests: requests}
	r.log.Info("free-gen", "requests", len(requests), "run", g.RunID())
	if _, err := g.RenderControl(r.control, gen.Context{
		"manager":     m,
		"requestList": requests,
	}); err != nil {
		return nil, err
	}
	g.Shutdown()
	report := &Report{
		RunID:        g.RunID(),
		Parsed:       g.Tracker().Parsed(),
		Skipped:      g.Tracker().Skipped(),
		FilesWritten: g.Metrics().FilesWritten,
		TotalBytes:   g.Metrics().TotalBytes,
	}
	for _, req := range requests {
		report.Requests = append(report.Requests, req.Name)
	}
	return report, nil
}

// prepare reads the resources concurrently. Each goroutine owns one
// request; rendering starts only after all of them are done.
func (r *Runner) prepare(ctx context.Context, requests []*Request) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(r.workers)
	for _, req := range requests {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := prepare(r.baseDir, req); err != nil {
				return err
			}
			r.log.Debug("free-gen resource read", "request", req.Name, "keys", len(req.keys))
			return nil
		})
	}
	return eg.Wait()
}
