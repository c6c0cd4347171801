package main

import (
	"os"

	"github.com/alpacahq/marketcal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
