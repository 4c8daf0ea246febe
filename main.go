package main

import (
	"os"

	"github.com/teachathon/teachathon/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
