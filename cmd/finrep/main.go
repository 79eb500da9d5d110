package main

import (
	"os"

	"github.com/finrep-dev/finrep/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
