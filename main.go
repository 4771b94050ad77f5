package main

import (
	"os"

	"github.com/talas-app/talas/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
