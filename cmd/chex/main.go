package main

import (
	"os"

	"github.com/aezell/chex/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
