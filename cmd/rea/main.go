package main

import (
	"context"
	"fmt"
	"os"

	"github.com/goliatone/go-reaform/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "rea: %v\n", err)
		os.Exit(1)
	}
}
