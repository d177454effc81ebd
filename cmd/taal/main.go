package main

import (
	"os"

	"github.com/avikm/taal/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
