package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sorobango/gen"
)

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a contract client from an interface definition",
		RunE: func(cmd *cobra.Command, args []string) error {
			if inPath == "" {
				return fmt.Errorf("input file required (--in)")
			}
			if pkgName == "" {
				return fmt.Errorf("package name required (--package)")
			}

			src, err := os.ReadFile(inPath)
			if err != nil {
				return err
			}

			models, err := gen.ParseFile(inPath, src)
			if err != nil {
				return err
			}

			out, err := gen.Render(pkgName, models)
			if err != nil {
				return err
			}

			if outPath == "" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(outPath, out, 0o644); err != nil {
				return err
			}
			fmt.Printf("Generated %d client(s) in %s\n", len(models), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&inPath, "in", "", "Go file with the contract interface")
	cmd.Flags().StringVar(&outPath, "out", "", "output file (default stdout)")
	cmd.Flags().StringVar(&pkgName, "package", "", "package name for the generated file")
	return cmd
}
