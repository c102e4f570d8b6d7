package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"texmath/internal/diag"
	"texmath/internal/observ"
	"texmath/internal/source"
)

// Stage describes a high-level render phase for one file.
type Stage string

const (
	// StageParse is the tokenize+expand+parse stage.
	StageParse Stage = "parse"
	// StageMarkup is the semantic tree build stage.
	StageMarkup Stage = "markup"
	// StageLayout is the box tree build stage.
	StageLayout Stage = "layout"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusWorking indicates the file is currently being processed.
	StatusWorking Status = "working"
	// StatusDone indicates the file finished cleanly.
	StatusDone Status = "done"
	// StatusError indicates diagnostics of error severity were produced.
	StatusError Status = "error"
)

// Event is one progress notification emitted by RenderDir.
type Event struct {
	Path   string
	Stage  Stage
	Status Status
}

// RenderDirResult содержит результат рендера одного файла
type RenderDirResult struct {
	Path   string        // Относительный путь к файлу
	FileID source.FileID // ID файла в FileSet
	Result *RenderResult // Оба дерева плюс диагностики
	Err    error         // I/O или throw-on-error ошибка
}

// ListFiles возвращает отсортированный список всех *.tex файлов в директории
func ListFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".tex") {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// RenderDir renders every *.tex file under dir in parallel. Events, when the
// channel is non-nil, trace per-file progress for interactive UIs; the channel
// is closed before RenderDir returns. Each file gets its own FileSet so the
// workers never share mutable state.
func RenderDir(ctx context.Context, dir string, settings Settings, jobs int, events chan<- Event) ([]RenderDirResult, error) {
	if events != nil {
		defer close(events)
	}

	files, err := ListFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]RenderDirResult, len(files))

	emit := func(ev Event) {
		if events == nil {
			return
		}
		select {
		case events <- ev:
		case <-ctx.Done():
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			emit(Event{Path: path, Stage: StageParse, Status: StatusWorking})

			parsed, err := Parse(path, settings)
			if err != nil {
				results[i] = RenderDirResult{Path: path, Err: err}
				emit(Event{Path: path, Stage: StageParse, Status: StatusError})
				// Не прерываем соседние файлы: ошибка остаётся в результате.
				return nil
			}

			emit(Event{Path: path, Stage: StageMarkup, Status: StatusWorking})
			res := render(parsed, observ.NewTimer())
			emit(Event{Path: path, Stage: StageLayout, Status: StatusWorking})

			results[i] = RenderDirResult{
				Path:   path,
				FileID: parsed.FileID,
				Result: res,
			}

			status := StatusDone
			if res.Bag.HasErrors() {
				status = StatusError
			}
			emit(Event{Path: path, Stage: StageLayout, Status: status})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// MergeBags собирает диагностики всех файлов в один bag.
func MergeBags(results []RenderDirResult, maxDiagnostics int) *diag.Bag {
	merged := diag.NewBag(maxDiagnostics)
	for _, r := range results {
		if r.Result != nil && r.Result.Bag != nil {
			merged.Merge(r.Result.Bag)
		}
	}
	merged.Sort()
	return merged
}
