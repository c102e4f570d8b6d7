package source

import (
	"fmt"
)

// Span is a half-open byte range [Start, End) into one source string.
type Span struct {
	File  FileID
	Start uint32 // inclusive
	End   uint32 // exclusive
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover возвращает минимальный span, покрывающий оба. min/max merge;
// spans из разных источников не объединяются.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// Contains reports whether other lies fully inside s.
func (s Span) Contains(other Span) bool {
	return s.File == other.File && s.Start <= other.Start && other.End <= s.End
}

// Text returns the exact substring of content that the span covers.
func (s Span) Text(content []byte) string {
	if int(s.End) > len(content) || s.Start > s.End {
		return ""
	}
	return string(content[s.Start:s.End])
}
