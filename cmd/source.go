package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/mkelesidou/kausal-go/internal/ast"
	"github.com/mkelesidou/kausal-go/internal/frontend"
	"github.com/spf13/cobra"
)

// readSource loads the compilation unit a stage command operates on:
// the file named by --file, or stdin when --file is empty.
func readSource(cmd *cobra.Command) ([]byte, error) {
	path, _ := cmd.Flags().GetString("file")
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// parseMethod reads, parses, and selects one method to run a stage
// against. --method picks by name; with no --method the first parsed
// method is used, matching a single-method-per-invocation pipeline
// stage.
func parseMethod(cmd *cobra.Command) (*ast.Method, error) {
	src, err := readSource(cmd)
	if err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}
	prog, err := frontend.Parse(src)
	if err != nil {
		return nil, err
	}
	return selectMethod(prog, cmd)
}

func selectMethod(prog *ast.Program, cmd *cobra.Command) (*ast.Method, error) {
	name, _ := cmd.Flags().GetString("method")
	if name == "" {
		return prog.Methods[0], nil
	}
	for _, m := range prog.Methods {
		if m.Name == name {
			return m, nil
		}
	}
	return nil, fmt.Errorf("no method named %q in input", name)
}

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", "", "Path to source file (default: read stdin)")
	cmd.Flags().StringP("method", "m", "", "Method name to select (default: first method found)")
}
