package ordering

import (
	"fmt"
	"strings"
)

// LevelMode selects how a row's depth is derived when no explicit level is
// given.
type LevelMode int

const (
	// LevelFromIndent counts leading whitespace on the name: two spaces or
	// one tab per level.
	LevelFromIndent LevelMode = iota
	// LevelFromCode counts the dot separators of the code ("1.2.3" is 2).
	LevelFromCode
)

// ParseLevelMode maps "indent" and "code" to their modes.
func ParseLevelMode(s string) (LevelMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "indent":
		return LevelFromIndent, nil
	case "code":
		return LevelFromCode, nil
	default:
		return 0, fmt.Errorf("unknown level mode %q (want indent or code)", s)
	}
}

// Row is one imported line before hierarchy reconstruction.
type Row struct {
	Index int // source row number, reported back in RowError
	Code  string
	Name  string // may carry leading indentation
	Unit  string
	Level *int
}

// Node is a row with its derived hierarchy.
type Node struct {
	Index      int
	Code       string
	Name       string
	Unit       string
	Level      int
	IsSection  bool
	ParentCode string // empty at top level
}

// RowError describes a rejected row. Rejected rows are left out of the
// reconstruction; the rest of the batch proceeds.
type RowError struct {
	Row    int    `json:"row"`
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

func (e RowError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
	}
	return fmt.Sprintf("row %d (%s): %s", e.Row, e.Code, e.Reason)
}

// DeriveLevel computes a row's level: an explicit level wins, otherwise mode
// decides.
func DeriveLevel(r Row, mode LevelMode) int {
	if r.Level != nil {
		return *r.Level
	}
	if mode == LevelFromCode {
		return strings.Count(strings.TrimRight(strings.TrimSpace(r.Code), "."), ".")
	}
	return indentLevel(r.Name)
}

func indentLevel(name string) int {
	spaces, tabs := 0, 0
	for _, c := range name {
		switch c {
		case ' ':
			spaces++
		case '\t':
			tabs++
		default:
			return tabs + spaces/2
		}
	}
	return tabs + spaces/2
}

type stackEntry struct {
	code  string
	level int
}

// Reconstruct derives level, section flag and parent code for rows in input
// order. A row is a section when its unit is blank. Its parent is the nearest
// preceding section with a strictly smaller level; rows at equal levels are
// siblings. Open sections live on a stack: a section pops every entry at its
// own level or deeper before being pushed. Rows with a missing code or name, a negative level, or a code
// already seen in the batch are rejected and never become parents.
func Reconstruct(rows []Row, mode LevelMode) ([]Node, []RowError) {
	nodes := make([]Node, 0, len(rows))
	var errs []RowError
	seen := make(map[string]int, len(rows))
	var stack []stackEntry

	for _, r := range rows {
		code := strings.TrimSpace(r.Code)
		name := strings.TrimSpace(r.Name)
		switch {
		case code == "":
			errs = append(errs, RowError{Row: r.Index, Reason: "missing code"})
			continue
		case name == "":
			errs = append(errs, RowError{Row: r.Index, Code: code, Reason: "missing name"})
			continue
		}
		if first, dup := seen[code]; dup {
			errs = append(errs, RowError{Row: r.Index, Code: code, Reason: fmt.Sprintf("duplicate code (first seen in row %d)", first)})
			continue
		}

		level := DeriveLevel(r, mode)
		if level < 0 {
			errs = append(errs, RowError{Row: r.Index, Code: code, Reason: fmt.Sprintf("negative level %d", level)})
			continue
		}
		seen[code] = r.Index

		unit := strings.TrimSpace(r.Unit)
		isSection := unit == ""

		var parent string
		if isSection {
			for len(stack) > 0 && stack[len(stack)-1].level >= level {
				stack = stack[:len(stack)-1]
			}
			if len(stack) > 0 {
				parent = stack[len(stack)-1].code
			}
			stack = append(stack, stackEntry{code: code, level: level})
		} else {
			// Work rows only look: a deeper open section must stay open
			// for the rows after them.
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i].level < level {
					parent = stack[i].code
					break
				}
			}
		}

		nodes = append(nodes, Node{
			Index:      r.Index,
			Code:       code,
			Name:       name,
			Unit:       unit,
			Level:      level,
			IsSection:  isSection,
			ParentCode: parent,
		})
	}
	return nodes, errs
}
