package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/syssam/flute/compiler"
	"github.com/syssam/flute/compiler/config"
	"github.com/syssam/flute/compiler/gen"
	"github.com/syssam/flute/compiler/gen/freegen"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = ""

type rootFlags struct {
	project string
	verbose bool
	noColor bool
	watch   bool
	log     *slog.Logger
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}
	cmd := &cobra.Command{
		Use:           "flute",
		Short:         "Schema-driven template code generator",
		Version:       versionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelInfo
			if f.verbose {
				level = slog.LevelDebug
			}
			f.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			if f.noColor {
				color.NoColor = true
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&f.project, "config", "c", config.DefaultFile, "project file")
	cmd.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "log every rendered file")
	cmd.PersistentFlags().BoolVar(&f.noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(
		generateCmd(f),
		freegenCmd(f),
		runCmd(f),
		snapshotCmd(f),
		versionCmd(),
	)
	return cmd
}

func generateCmd(f *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate entities from the project schema",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return f.execute(cmd, func(ctx context.Context, p *config.Project) error {
				r, err := compiler.Generate(p, gen.WithLogger(f.log))
				if err != nil {
					return err
				}
				printSchemaReport(cmd.OutOrStdout(), r)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&f.watch, "watch", "w", false, "regenerate when the schema or templates change")
	return cmd
}

func freegenCmd(f *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "freegen [request]",
		Short: "Run the free-gen requests, or only the named one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var target string
			if len(args) > 0 {
				target = args[0]
			}
			return f.execute(cmd, func(ctx context.Context, p *config.Project) error {
				r, err := compiler.FreeGen(ctx, p, target, gen.WithLogger(f.log))
				if err != nil {
					return err
				}
				printFreeGenReport(cmd.OutOrStdout(), r)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&f.watch, "watch", "w", false, "rerun when a resource or template changes")
	return cmd
}

func runCmd(f *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate entities, then run the free-gen requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return f.execute(cmd, func(ctx context.Context, p *config.Project) error {
				res, err := compiler.Run(ctx, p, gen.WithLogger(f.log))
				if err != nil {
					return err
				}
				if res.Schema != nil {
					printSchemaReport(cmd.OutOrStdout(), res.Schema)
				}
				if res.FreeGen != nil {
					printFreeGenReport(cmd.OutOrStdout(), res.FreeGen)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&f.watch, "watch", "w", false, "rerun on every change")
	return cmd
}

func snapshotCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot <file>",
		Short: "Write the project schema as a msgpack snapshot",
		Long: `Write the project schema as a msgpack snapshot.

Point the project's schema at the snapshot (.msgpack or .mpk) to skip
parsing the original file on later runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := config.Load(f.project)
			if err != nil {
				return err
			}
			if err := compiler.Snapshot(p, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.New(color.FgGreen).Sprint("snapshot"), args[0])
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "flute", versionString())
		},
	}
}

// execute loads the project and performs one run, or keeps running it on
// changes when --watch is set.
func (f *rootFlags) execute(cmd *cobra.Command, run func(context.Context, *config.Project) error) error {
	p, err := config.Load(f.project)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if !f.watch {
		return run(ctx, p)
	}
	f.log.Info("watching for changes", "paths", len(p.WatchPaths()))
	return compiler.Watch(ctx, p.WatchPaths(), func(ctx context.Context) error {
		return run(ctx, p)
	}, compiler.WithWatchLogger(f.log))
}

func printSchemaReport(w io.Writer, r *gen.Report) {
	fmt.Fprintf(w, "%s %s, %d tables\n", color.New(color.Bold).Sprint("generate"), r.Language, r.Tables)
	printFiles(w, r.Parsed, r.Skipped)
	printSummary(w, r.FilesWritten, len(r.Skipped), r.TotalBytes)
}

func printFreeGenReport(w io.Writer, r *freegen.Report) {
	fmt.Fprintf(w, "%s %d requests\n", color.New(color.Bold).Sprint("freegen"), len(r.Requests))
	printFiles(w, r.Parsed, r.Skipped)
	printSummary(w, r.FilesWritten, len(r.Skipped), r.TotalBytes)
}

func printFiles(w io.Writer, parsed, skipped []string) {
	for _, p := range parsed {
		fmt.Fprintf(w, "  %s %s\n", color.New(color.FgGreen).Sprint("written"), p)
	}
	for _, s := range skipped {
		fmt.Fprintf(w, "  %s %s\n", color.New(color.Faint).Sprint("skipped"), s)
	}
}

func printSummary(w io.Writer, written, skipped int, bytes int64) {
	fmt.Fprintf(w, "%s written, %s unchanged, %d bytes\n",
		color.New(color.FgGreen).Sprint(written),
		color.New(color.FgCyan).Sprint(skipped),
		bytes)
}

func versionString() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}
