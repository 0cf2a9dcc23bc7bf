package main

import (
	"os"

	"github.com/complyx/complyx/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
