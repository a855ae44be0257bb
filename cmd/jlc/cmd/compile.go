package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aprice/jlc/internal/compiler"
	"github.com/aprice/jlc/internal/diag"
)

var compileCmd = &cobra.Command{
	Use:   "compile <file|dir>...",
	Short: "Compile one or more .jl files (or directories of them) to .vm",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)
	rootCmd.Args = cobra.ArbitraryArgs
	rootCmd.RunE = func(c *cobra.Command, args []string) error {
		if len(args) == 0 {
			return c.Help()
		}
		return runCompile(c, args)
	}
}

func removeExtension(path string) string {
	ext := filepath.Ext(path)
	return path[:len(path)-len(ext)]
}

func outputPath(path string) string {
	return removeExtension(path) + ".vm"
}

// collectFiles expands each path into its .jl files: a directory
// contributes every .jl file inside it (non-recursively), a file
// contributes itself (libklein-jackcompiler/main.go's collectFiles).
func collectFiles(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		stat, err := os.Stat(p)
		if err != nil {
			return nil, &diag.FatalError{ExitCode: diag.ExitFile, Message: fmt.Sprintf("cannot stat %q: %v", p, err)}
		}
		if !stat.IsDir() {
			files = append(files, p)
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, &diag.FatalError{ExitCode: diag.ExitFile, Message: fmt.Sprintf("cannot read directory %q: %v", p, err)}
		}
		for _, e := range entries {
			if filepath.Ext(e.Name()) == ".jl" {
				files = append(files, filepath.Join(p, e.Name()))
			}
		}
	}
	return files, nil
}

func runCompile(_ *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	sources := make([]compiler.Source, 0, len(files))
	for _, f := range files {
		if verbose {
			fmt.Fprintf(os.Stderr, "Compiling file %q\n", f)
		}
		text, err := os.ReadFile(f)
		if err != nil {
			return &diag.FatalError{ExitCode: diag.ExitFile, Message: fmt.Sprintf("could not open file %q for reading: %v", f, err)}
		}
		sources = append(sources, compiler.Source{Name: removeExtension(filepath.Base(f)), Text: text})
	}

	c := compiler.New()
	outputs, err := c.Compile(sources)
	if err != nil {
		return err
	}

	for i, out := range outputs {
		dest := outputPath(files[i])
		if err := os.WriteFile(dest, out.VM, 0644); err != nil {
			return &diag.FatalError{ExitCode: diag.ExitFile, Message: fmt.Sprintf("could not write file %q: %v", dest, err)}
		}
	}

	for _, w := range c.Warnings.Warnings {
		fmt.Fprintln(os.Stderr, w.String())
	}

	return nil
}
