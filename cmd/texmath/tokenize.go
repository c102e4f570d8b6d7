package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"texmath/internal/diagfmt"
	"texmath/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.tex",
	Short: "Tokenize a TeX math source file",
	Long:  `Tokenize breaks down a TeX math source into its constituent tokens, after macro expansion`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	addSettingsFlags(tokenizeCmd)
}

func runTokenize(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	result, err := driver.Tokenize(filePath, settings)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// Выводим диагностику в stderr, если есть
	if result.Bag.HasErrors() || result.Bag.HasWarnings() {
		opts := diagfmt.PrettyOpts{
			Color:     useColorFor(cmd, true),
			ShowNotes: true,
		}
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, opts)
	}

	switch format {
	case "pretty":
		return diagfmt.FormatTokensPretty(os.Stdout, result.Tokens, result.FileSet)
	case "json":
		return diagfmt.FormatTokensJSON(os.Stdout, result.Tokens)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
