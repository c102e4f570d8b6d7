package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"texmath/internal/driver"
	"texmath/internal/ui"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

func shouldUseTUI(mode uiMode) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return isTerminal(os.Stdout)
	}
}

type renderOutcome struct {
	results []driver.RenderDirResult
	err     error
}

// renderDirWithUI запускает RenderDir в горутине и показывает прогресс
// через Bubble Tea, пока канал событий не закроется.
func renderDirWithUI(cmd *cobra.Command, dir string, settings driver.Settings, jobs int) ([]driver.RenderDirResult, error) {
	files, err := driver.ListFiles(dir)
	if err != nil {
		return nil, err
	}

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan renderOutcome, 1)

	go func() {
		results, err := driver.RenderDir(cmd.Context(), dir, settings, jobs, events)
		outcomeCh <- renderOutcome{results: results, err: err}
	}()

	model := ui.NewProgressModel("rendering "+dir, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
