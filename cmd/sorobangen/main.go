package main

import (
	"os"

	"sorobango/cmd/sorobangen/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
