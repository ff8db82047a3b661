package main

import (
	"os"

	"coinscope/cmd/coinscope/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
