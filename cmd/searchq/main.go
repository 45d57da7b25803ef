package main

import (
	"os"

	"github.com/searchq/searchq/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:]))
}
