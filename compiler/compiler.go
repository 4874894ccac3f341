// Package compiler runs the generators described by a project file.
//
//	p, err := config.Load("flute.yaml")
//	if err != nil {
//		return err
//	}
//	result, err := compiler.Run(ctx, p)
package compiler

import (
	"context"

	"github.com/syssam/flute/compiler/config"
	"github.com/syssam/flute/compiler/gen"
	"github.com/syssam/flute/compiler/gen/freegen"
	"github.com/syssam/flute/compiler/load"
)

// Result holds the reports of a project run. A report is nil when its
// part of the project is not configured.
type Result struct {
	Schema  *gen.Report
	FreeGen *freegen.Report
}

// Generate loads the project's schema file and renders the schema-driven
// templates. Generator options are applied after the project's own.
func Generate(p *config.Project, opts ...gen.Option) (*gen.Report, error) {
	if p.Schema == "" {
		return nil, gen.NewConfigError("Schema", nil, "project has no schema file")
	}
	db, err := load.File(p.Schema)
	if err != nil {
		return nil, err
	}
	cfg, err := p.GenConfig(opts...)
	if err != nil {
		return nil, err
	}
	req := p.SchemaRequest()
	req.Database = db
	return gen.GenerateSchema(cfg, req)
}

// FreeGen runs the project's free-gen requests. A non-empty target limits
// the run to the request of that name.
func FreeGen(ctx context.Context, p *config.Project, target string, opts ...gen.Option) (*freegen.Report, error) {
	if len(p.FreeGen.Requests) == 0 {
		return nil, gen.NewConfigError("FreeGen", nil, "project has no free-gen requests")
	}
	cfg, err := p.GenConfig(opts...)
	if err != nil {
		return nil, err
	}
	return freegen.NewRunner(cfg, p.FreeGen.Requests, p.RunnerOptions()...).Run(ctx, target)
}

// Run performs every configured part of the project: the schema run
// first, then free-gen.
func Run(ctx context.Context, p *config.Project, opts ...gen.Option) (*Result, error) {
	res := &Result{}
	if p.Schema != "" {
		r, err := Generate(p, opts...)
		if err != nil {
			return nil, err
		}
		res.Schema = r
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(p.FreeGen.Requests) > 0 {
		r, err := FreeGen(ctx, p, "", opts...)
		if err != nil {
			return nil, err
		}
		res.FreeGen = r
	}
	return res, nil
}

// Snapshot loads the project's schema file and writes it as a msgpack
// snapshot to path. Later runs can point the project at the snapshot.
func Snapshot(p *config.Project, path string) error {
	if p.Schema == "" {
		return gen.NewConfigError("Schema", nil, "project has no schema file")
	}
	db, err := load.File(p.Schema)
	if err != nil {
		return err
	}
	return load.WriteSnapshotFile(path, db)
}
