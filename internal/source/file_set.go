package source

import (
	"crypto/sha256"
	"fmt"
	"os"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"
)

// FileSet manages the collection of source strings a render run touches and
// resolves spans back to human-readable positions.
type FileSet struct {
	files []File
	index map[string]FileID // path -> id
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// Add stores a source from normalized bytes, computes LineIdx and Hash, and
// returns a new FileID. Всегда создаёт новый FileID, даже если путь уже есть.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	hash := sha256.Sum256(content)
	lineIdx := buildLineIndex(content)
	normalizedPath := normalizePath(path)

	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(lenFiles)
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    normalizedPath,
		Content: content,
		LineIdx: lineIdx,
		Hash:    hash,
		Flags:   flags,
	})
	fileSet.index[normalizedPath] = id
	return id
}

// Load reads a source file from disk, normalizes BOM/CRLF and composes
// combining marks to NFC so glyph lookups see canonical runes, then calls Add.
// Spans produced by the pipeline index the normalized content.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)

	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	if !norm.NFC.IsNormal(content) {
		content = norm.NFC.Bytes(content)
		flags |= FileNormalizedNFC
	}
	return fileSet.Add(path, content, flags), nil
}

// AddVirtual adds a virtual source (stdin, test, CLI argument) as-is.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.Add(name, content, FileVirtual)
}

// Get returns the source metadata for the given ID.
func (fileSet *FileSet) Get(id FileID) *File {
	return &fileSet.files[id]
}

// GetByPath возвращает *File по пути, если был загружен в этот FileSet.
func (fileSet *FileSet) GetByPath(path string) (*File, bool) {
	if id, ok := fileSet.index[normalizePath(path)]; ok {
		return &fileSet.files[id], true
	}
	return nil, false
}

// Len returns the number of sources in the set.
func (fileSet *FileSet) Len() int {
	return len(fileSet.files)
}

// Resolve converts a span into line and column positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fileSet.files[span.File]
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// Snippet returns the source text a span covers.
func (fileSet *FileSet) Snippet(span Span) string {
	f := fileSet.files[span.File]
	return span.Text(f.Content)
}

// GetLine возвращает строку с заданным номером (1-based) из файла.
// Если строка не существует, возвращает пустую строку.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}

	lenLineIdx, err := safecast.Conv[uint32](len(f.LineIdx))
	if err != nil {
		panic(fmt.Errorf("line index overflow: %w", err))
	}
	lenContent, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content overflow: %w", err))
	}

	if lineNum > lenLineIdx+1 {
		return ""
	}

	var start, end uint32
	if lineNum == 1 {
		start = 0
	} else {
		start = f.LineIdx[lineNum-2] + 1
	}
	if lineNum <= lenLineIdx {
		end = f.LineIdx[lineNum-1]
	} else {
		end = lenContent
	}
	if start > end {
		return ""
	}
	return string(f.Content[start:end])
}
