package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"texmath/internal/driver"
)

// configFileName is looked up in the working directory unless --config
// points elsewhere.
const configFileName = "texmath.toml"

// fileConfig mirrors driver.Settings in texmath.toml.
type fileConfig struct {
	ThrowOnError      bool              `toml:"throw_on_error"`
	ColorIsTextColor  bool              `toml:"color_is_textcolor"`
	MaxExpansionSteps int               `toml:"max_expansion_steps"`
	Macros            map[string]string `toml:"macros"`
}

// addSettingsFlags registers the render settings flags shared by the
// tokenize, parse and render commands.
func addSettingsFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "path to texmath.toml (default: ./texmath.toml if present)")
	cmd.Flags().Bool("throw-on-error", false, "fail on the first error instead of emitting error markers")
	cmd.Flags().Bool("color-is-textcolor", false, "treat \\color as \\textcolor")
	cmd.Flags().Int("max-expansion-steps", 0, "macro expansion budget (0=default)")
	cmd.Flags().StringArray("macro", nil, "user macro as name=replacement (repeatable)")
}

// loadSettings merges texmath.toml under the command-line flags. Flags that
// were explicitly set win over the file.
func loadSettings(cmd *cobra.Command) (driver.Settings, error) {
	var settings driver.Settings

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return settings, err
	}
	explicit := configPath != ""
	if configPath == "" {
		configPath = configFileName
	}

	var cfg fileConfig
	if _, err := toml.DecodeFile(configPath, &cfg); err != nil {
		// Отсутствующий дефолтный файл не ошибка.
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return settings, fmt.Errorf("failed to read %s: %w", configPath, err)
		}
	} else {
		settings.ThrowOnError = cfg.ThrowOnError
		settings.ColorIsTextColor = cfg.ColorIsTextColor
		settings.MaxExpansionSteps = cfg.MaxExpansionSteps
		settings.Macros = cfg.Macros
	}

	if cmd.Flags().Changed("throw-on-error") {
		settings.ThrowOnError, _ = cmd.Flags().GetBool("throw-on-error")
	}
	if cmd.Flags().Changed("color-is-textcolor") {
		settings.ColorIsTextColor, _ = cmd.Flags().GetBool("color-is-textcolor")
	}
	if cmd.Flags().Changed("max-expansion-steps") {
		settings.MaxExpansionSteps, _ = cmd.Flags().GetInt("max-expansion-steps")
	}

	pairs, err := cmd.Flags().GetStringArray("macro")
	if err != nil {
		return settings, err
	}
	for _, pair := range pairs {
		name, replacement, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return settings, fmt.Errorf("invalid --macro %q (expected name=replacement)", pair)
		}
		if settings.Macros == nil {
			settings.Macros = make(map[string]string)
		}
		settings.Macros[strings.TrimPrefix(name, "\\")] = replacement
	}

	settings.MaxDiagnostics, err = cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return settings, err
	}
	return settings, nil
}

// useColorFor решает, красить ли вывод, по флагу --color и типу дескриптора.
func useColorFor(cmd *cobra.Command, stderr bool) bool {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false
	}
	switch colorFlag {
	case "on":
		return true
	case "off":
		return false
	default:
		if stderr {
			return isTerminal(os.Stderr)
		}
		return isTerminal(os.Stdout)
	}
}
