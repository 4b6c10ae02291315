package main

import (
	"os"

	"github.com/gkotua/jobradar/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
