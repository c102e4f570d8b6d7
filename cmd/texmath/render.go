package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"texmath/internal/diagfmt"
	"texmath/internal/driver"
	"texmath/internal/layout"
	"texmath/internal/markup"
)

var renderCmd = &cobra.Command{
	Use:   "render [flags] <file.tex|directory>",
	Short: "Render TeX math to layout and semantic trees",
	Long:  `Render parses a TeX math source, or every *.tex file in a directory, and emits the box tree and the semantic markup tree with source provenance attributes`,
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().String("format", "both", "what to emit (markup|layout|both)")
	renderCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	renderCmd.Flags().String("ui", "auto", "interactive progress for directories (auto|on|off)")
	renderCmd.Flags().Bool("cache", false, "reuse cached output when source and settings are unchanged")
	addSettingsFlags(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	path := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "markup", "layout", "both":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	st, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	if !st.IsDir() {
		return renderFile(cmd, path, settings, format)
	}
	return renderDir(cmd, path, settings, format)
}

func renderFile(cmd *cobra.Command, path string, settings driver.Settings, format string) error {
	useCache, _ := cmd.Flags().GetBool("cache")
	if useCache {
		hit, err := renderFromCache(cmd, path, settings, format)
		if err != nil || hit {
			return err
		}
	}

	result, err := driver.Render(path, settings)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	printDiagnostics(cmd, result)
	printTrees(result, format)
	printTimings(cmd, result)

	if useCache {
		if err := storeInCache(path, settings, result); err != nil {
			fmt.Fprintf(os.Stderr, "warning: cache write failed: %v\n", err)
		}
	}
	return nil
}

// renderFromCache пытается отдать сериализованный вывод из дискового кэша.
func renderFromCache(cmd *cobra.Command, path string, settings driver.Settings, format string) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	cache, err := driver.OpenDiskCache("texmath")
	if err != nil {
		return false, nil
	}
	var payload driver.DiskPayload
	hit, err := cache.Get(driver.CacheKey(content, settings), &payload)
	if err != nil || !hit {
		return false, nil
	}
	if settings.ThrowOnError && len(payload.Errors) > 0 {
		return false, fmt.Errorf("render failed: %s", payload.Errors[0])
	}
	for _, msg := range payload.Errors {
		fmt.Fprintln(os.Stderr, msg)
	}
	if format == "markup" || format == "both" {
		fmt.Println(payload.Markup)
	}
	if format == "layout" || format == "both" {
		fmt.Println(payload.Layout)
	}
	return true, nil
}

func storeInCache(path string, settings driver.Settings, result *driver.RenderResult) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	cache, err := driver.OpenDiskCache("texmath")
	if err != nil {
		return err
	}
	return cache.Put(driver.CacheKey(content, settings), driver.NewPayload(path, content, result))
}

func renderDir(cmd *cobra.Command, dir string, settings driver.Settings, format string) error {
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}

	uiFlag, _ := cmd.Flags().GetString("ui")
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	var results []driver.RenderDirResult
	if shouldUseTUI(mode) {
		results, err = renderDirWithUI(cmd, dir, settings, jobs)
	} else {
		results, err = driver.RenderDir(cmd.Context(), dir, settings, jobs, nil)
	}
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	for idx, r := range results {
		if r.Err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", r.Path, r.Err)
			continue
		}
		printDiagnostics(cmd, r.Result)
		if !quiet {
			fmt.Printf("== %s ==\n", r.Path)
		}
		printTrees(r.Result, format)
		if !quiet && idx < len(results)-1 {
			fmt.Println()
		}
	}
	return nil
}

func printDiagnostics(cmd *cobra.Command, result *driver.RenderResult) {
	if !result.Bag.HasErrors() && !result.Bag.HasWarnings() {
		return
	}
	opts := diagfmt.PrettyOpts{
		Color:     useColorFor(cmd, true),
		ShowNotes: true,
	}
	diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, opts)
}

func printTimings(cmd *cobra.Command, result *driver.RenderResult) {
	timings, _ := cmd.Root().PersistentFlags().GetBool("timings")
	if !timings || result.Timing == nil {
		return
	}
	fmt.Fprintln(os.Stderr, "timings:")
	for _, p := range result.Timing.Phases {
		fmt.Fprintf(os.Stderr, "  %-10s %7.2f ms\n", p.Name, p.DurationMS)
	}
	fmt.Fprintf(os.Stderr, "  %-10s %7.2f ms\n", "total", result.Timing.TotalMS)
}

func printTrees(result *driver.RenderResult, format string) {
	if format == "markup" || format == "both" {
		fmt.Println(markup.Serialize(result.Markup))
	}
	if format == "layout" || format == "both" {
		fmt.Println(layout.Serialize(result.Layout))
	}
}
