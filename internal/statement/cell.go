package statement

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CellKind identifies the runtime shape of a worksheet cell.
type CellKind int

const (
	KindEmpty CellKind = iota
	KindString
	KindNumber
	KindDate
	KindBool
)

func (k CellKind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	case KindBool:
		return "bool"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Cell is a typed worksheet value. Only the field matching Kind is set.
type Cell struct {
	Kind CellKind
	Str  string
	Num  float64
	Time time.Time
	Bool bool
}

// StringCell returns a string cell.
func StringCell(s string) Cell { return Cell{Kind: KindString, Str: s} }

// NumberCell returns a numeric cell.
func NumberCell(v float64) Cell { return Cell{Kind: KindNumber, Num: v} }

// DateCell returns a native date cell.
func DateCell(t time.Time) Cell { return Cell{Kind: KindDate, Time: t} }

// BoolCell returns a boolean cell.
func BoolCell(b bool) Cell { return Cell{Kind: KindBool, Bool: b} }

// Text renders the cell the way a spreadsheet user would type it.
func (c Cell) Text() string {
	switch c.Kind {
	case KindString:
		return c.Str
	case KindNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case KindDate:
		return c.Time.Format(time.RFC3339)
	case KindBool:
		return strconv.FormatBool(c.Bool)
	}
	return ""
}

// IsBlank reports whether the cell is empty or whitespace only.
func (c Cell) IsBlank() bool {
	switch c.Kind {
	case KindEmpty:
		return true
	case KindString:
		return strings.TrimSpace(c.Str) == ""
	}
	return false
}

// Row is a worksheet row with its original 1-based row number.
type Row struct {
	Num   int
	Cells []Cell
}

// Cell returns the cell at a zero-based column, or an empty cell when the
// column is unresolved (-1) or past the end of the row.
func (r Row) Cell(col int) Cell {
	if col < 0 || col >= len(r.Cells) {
		return Cell{}
	}
	return r.Cells[col]
}

// IsBlank reports whether every cell in the row is blank.
func (r Row) IsBlank() bool {
	for _, c := range r.Cells {
		if !c.IsBlank() {
			return false
		}
	}
	return true
}

// String renders the raw row contents for diagnostics.
func (r Row) String() string {
	vals := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		vals[i] = strconv.Quote(c.Text())
	}
	return "[" + strings.Join(vals, ", ") + "]"
}

// Sheet is the first worksheet of a workbook with blank rows removed.
type Sheet struct {
	Name string
	Rows []Row
}
