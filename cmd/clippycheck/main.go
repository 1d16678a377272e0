package main

import (
	"os"

	"github.com/dshills/clippycheck/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
