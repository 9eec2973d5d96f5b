// Command isoortho builds isotropic and orthogonality tensors.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/lbtheory/isoortho/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.NewRootCommand().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "isoortho:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
