package source

type (
	// FileID uniquely identifies a source string within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source.
	FileFlags uint8
)

const (
	// FileVirtual indicates the source was added from memory (test, stdin, CLI argument).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
	FileNormalizedNFC
)

// File captures metadata and content for a single source string.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}
