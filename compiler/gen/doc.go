// Package gen renders text templates against a generation context and
// writes the results under an output directory.
//
// # Architecture
//
// A run follows this flow:
//
//	Schema model (load.Database) or free-gen requests
//	        ↓
//	   Context {generator, outputDirectory, grammar, ...}
//	        ↓
//	   Control template (RenderControl)
//	        ↓
//	   Sub-renders per unit (Render / RenderWith)
//	        ↓
//	   Writer registry → files, Shutdown flushes
//
// # Key Types
//
//   - Generator: the render engine; one per run, never global
//   - Config: generator configuration built from functional options
//   - Context: name to value bindings visible to templates
//   - SkipTracker: outputs written and outputs left unchanged
//   - Selector: the tables a schema run covers
//
// # Output
//
// The first render targeting a path compares the text with the file on
// disk. Identical content is recorded as skipped and not written, so the
// file keeps its modification time. Otherwise a writer is opened and kept
// until Shutdown; every later render to the same path appends to it.
//
// # Error Handling
//
// The package uses structured error types:
//
//   - ConfigError: configuration errors
//   - TemplateError: template lookup, parse and execution errors
//   - GenerationError: output comparison, open and write errors
//
// Errors returned from functions called by a template keep their chain, so
//
//	_, err := g.Render("entity.tmpl", "Member.php")
//	if errors.Is(err, grammar.ErrUnsupported) {
//	    // the template asked the grammar for a construct PHP lacks
//	}
//
// # Configuration
//
//	cfg, err := gen.NewConfig(
//	    gen.WithOutputDir("./out"),
//	    gen.WithTemplateDirs("./templates"),
//	    gen.WithLineSeparator("crlf"),
//	)
//	report, err := gen.GenerateSchema(cfg, gen.SchemaRequest{
//	    Database: db,
//	    Language: "java",
//	})
package gen
