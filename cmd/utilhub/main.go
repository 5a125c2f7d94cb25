package main

import (
	"context"
	"os"
)

func main() {
	if err := run(context.Background(), os.Args, newCLI(os.Stdout, os.Stdin)); err != nil {
		os.Exit(1)
	}
}
