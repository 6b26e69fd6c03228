package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/mkp/internal/cli"
	"github.com/arthur-debert/mkp/internal/version"
)

func main() {
	header := &doc.GenManHeader{
		Title:   "MKP",
		Section: "1",
		Source:  "mkp " + version.Version,
		Manual:  "mkp manual",
	}

	if err := doc.GenMan(cli.NewRootCmd(), header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
