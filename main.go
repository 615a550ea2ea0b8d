package main

import (
	"os"

	"github.com/mreynaud/gensubs/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
