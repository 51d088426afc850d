package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/vvakame/gqlir/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if errors.Is(err, cli.ErrDiagnostics) {
		os.Exit(1)
	} else if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
