package main

import (
	"os"

	"github.com/chitouru-maker/khoushou3/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
