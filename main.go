package main

import (
	"os"

	"github.com/uptimeworks/predmaint/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
