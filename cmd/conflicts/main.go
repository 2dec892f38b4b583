package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/albertocavalcante/go-conflict/cmd/conflicts/cmd"
)

func main() {
	ctx, cancelFn := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancelFn()

	root := cmd.RootCmd(os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
