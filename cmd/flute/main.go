// flute renders source code from a schema model and from free-form
// resource files, driven by a project file.
//
//	flute generate            # schema-driven entities
//	flute freegen [request]   # free-gen requests
//	flute run --watch         # both, again on every change
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
