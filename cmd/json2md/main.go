// Package main is the entry point for the json2md CLI, which turns a JSON
// video listing into a Markdown list grouped by subject.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"slidemd/internal/jsonmd"
)

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var input, output, htmlOut string

	cmd := &cobra.Command{
		Use:   "json2md",
		Short: "Convert JSON (videos) to Markdown list grouped by subject",
		Long: `json2md reads a JSON object whose "data" list holds video records and
writes a Markdown document with one section per subject. With --html a
rendered HTML preview is written alongside.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(stdout, input, output, htmlOut)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.Flags().StringVarP(&input, "input", "i", "", "path to input JSON file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "path to output Markdown file")
	cmd.Flags().StringVar(&htmlOut, "html", "", "optional path for an HTML preview")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func run(stdout io.Writer, input, output, htmlOut string) error {
	raw, err := os.ReadFile(input)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("Input file not found: %s", input)
	}
	if err != nil {
		return err
	}

	obj, err := jsonmd.Decode(raw)
	if err != nil {
		return err
	}
	md, err := jsonmd.Render(obj)
	if err != nil {
		return err
	}

	if err := writeFile(output, []byte(md)); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Wrote: %s\n", output)

	if htmlOut != "" {
		page, err := jsonmd.RenderHTML(md)
		if err != nil {
			return err
		}
		if err := writeFile(htmlOut, page); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Wrote: %s\n", htmlOut)
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func main() {
	cmd := newRootCmd(os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
