package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Лексические
	LexInfo           Code = 1000
	LexBadControlSeq  Code = 1001
	LexUnexpectedChar Code = 1002

	// Макро-расширение
	MacInfo            Code = 1500
	MacRecursionLimit  Code = 1501
	MacMissingArgument Code = 1502
	MacBadDefinition   Code = 1503

	// Парсерные
	SynInfo            Code = 2000
	SynUnknownCommand  Code = 2001
	SynArgumentMode    Code = 2002
	SynUnclosedGroup   Code = 2003
	SynUnexpectedEOF   Code = 2004
	SynUnexpectedToken Code = 2005
	SynMathOnly        Code = 2006
	SynDoubleScript    Code = 2007
	SynBadColor        Code = 2008

	// Построители выходных деревьев (всегда фатальные)
	BuildInfo           Code = 3000
	BuildUnknownKind    Code = 3001
	BuildMissingMetrics Code = 3002
)

var codeIDs = map[Code]string{
	UnknownCode:         "TEX0000",
	LexInfo:             "LEX1000",
	LexBadControlSeq:    "LEX1001",
	LexUnexpectedChar:   "LEX1002",
	MacInfo:             "MAC1500",
	MacRecursionLimit:   "MAC1501",
	MacMissingArgument:  "MAC1502",
	MacBadDefinition:    "MAC1503",
	SynInfo:             "SYN2000",
	SynUnknownCommand:   "SYN2001",
	SynArgumentMode:     "SYN2002",
	SynUnclosedGroup:    "SYN2003",
	SynUnexpectedEOF:    "SYN2004",
	SynUnexpectedToken:  "SYN2005",
	SynMathOnly:         "SYN2006",
	SynDoubleScript:     "SYN2007",
	SynBadColor:         "SYN2008",
	BuildInfo:           "BLD3000",
	BuildUnknownKind:    "BLD3001",
	BuildMissingMetrics: "BLD3002",
}

// ID returns the stable printable identifier of the code.
func (c Code) ID() string {
	if id, ok := codeIDs[c]; ok {
		return id
	}
	return fmt.Sprintf("TEX%04d", uint16(c))
}
