// castplot compares the sentence lengths of a book's characters and plots
// them as violins.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	a := &app{}
	err := newRootCommand(a).ExecuteContext(ctx)
	stop()
	if err != nil {
		a.logger().Errorf("%v", err)
		a.close()
		os.Exit(1)
	}
	a.close()
}
