package main

import (
	"os"

	"github.com/jobly/jobly/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:]))
}
