package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"texmath/internal/diagfmt"
	"texmath/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.tex",
	Short: "Parse a TeX math source file and output the syntax tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	parseCmd.Flags().Bool("diag-json", false, "emit diagnostics as JSON on stderr")
	addSettingsFlags(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	result, err := driver.Parse(filePath, settings)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	if result.Bag.HasErrors() || result.Bag.HasWarnings() {
		diagJSON, _ := cmd.Flags().GetBool("diag-json")
		if diagJSON {
			opts := diagfmt.JSONOpts{
				IncludePositions: true,
				IncludeNotes:     true,
			}
			if err := diagfmt.JSON(os.Stderr, result.Bag, result.FileSet, opts); err != nil {
				return err
			}
		} else {
			opts := diagfmt.PrettyOpts{
				Color:     useColorFor(cmd, true),
				ShowNotes: true,
			}
			diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, opts)
		}
	}

	switch format {
	case "pretty":
		return diagfmt.FormatASTPretty(os.Stdout, result.Nodes, result.FileSet)
	case "json":
		return diagfmt.FormatASTJSON(os.Stdout, result.Nodes)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
