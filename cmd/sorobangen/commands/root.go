// Package commands implements the sorobangen CLI.
package commands

import (
	"github.com/spf13/cobra"
)

var (
	inPath  string
	outPath string
	pkgName string
)

func Execute() error {
	root := &cobra.Command{
		Use:   "sorobangen",
		Short: "Generate typed Soroban contract clients from Go interfaces",
	}

	root.AddCommand(generateCmd())
	return root.Execute()
}
