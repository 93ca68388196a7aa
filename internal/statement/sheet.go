package statement

import (
	"bytes"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Built-in number format IDs that render as dates.
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	45: true, 46: true, 47: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

// readSheet loads the first worksheet of an xlsx/xlsm workbook.
func readSheet(data []byte) (Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return Sheet{}, &sheetError{kind: ErrUnreadable, cause: err}
	}
	defer f.Close()

	names := f.GetSheetList()
	if len(names) == 0 {
		return Sheet{}, &sheetError{kind: ErrNoSheets}
	}
	name := names[0]

	raw, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return Sheet{}, &sheetError{kind: ErrSheetNotFound, cause: err}
	}

	sr := &sheetReader{f: f, sheet: name, dateStyles: make(map[int]bool)}
	sheet := Sheet{Name: name}
	for r, values := range raw {
		row := Row{Num: r + 1, Cells: make([]Cell, len(values))}
		for c, v := range values {
			row.Cells[c] = sr.cell(c+1, r+1, v)
		}
		if row.IsBlank() {
			continue
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}

type sheetReader struct {
	f          *excelize.File
	sheet      string
	dateStyles map[int]bool
}

// cell types a raw value using the cell's stored type and number format.
func (sr *sheetReader) cell(col, row int, raw string) Cell {
	if raw == "" {
		return Cell{}
	}
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return StringCell(raw)
	}
	typ, err := sr.f.GetCellType(sr.sheet, axis)
	if err != nil {
		return StringCell(raw)
	}

	switch typ {
	case excelize.CellTypeBool:
		return BoolCell(raw == "1" || strings.EqualFold(raw, "true"))
	case excelize.CellTypeDate:
		if t, ok := parseISODate(raw); ok {
			return DateCell(t)
		}
		return StringCell(raw)
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return StringCell(raw)
		}
		if sr.isDateStyled(axis) {
			if t, ok := serialToTime(v); ok {
				return DateCell(t)
			}
		}
		return NumberCell(v)
	}
	return StringCell(raw)
}

func (sr *sheetReader) isDateStyled(axis string) bool {
	id, err := sr.f.GetCellStyle(sr.sheet, axis)
	if err != nil || id == 0 {
		return false
	}
	if isDate, ok := sr.dateStyles[id]; ok {
		return isDate
	}
	isDate := false
	if style, err := sr.f.GetStyle(id); err == nil && style != nil {
		isDate = builtinDateFormats[style.NumFmt]
		if style.CustomNumFmt != nil {
			isDate = isDateFormatCode(*style.CustomNumFmt)
		}
	}
	sr.dateStyles[id] = isDate
	return isDate
}

// isDateFormatCode reports whether a custom number format renders a date.
// Quoted literals, bracketed sections and escaped characters are ignored.
func isDateFormatCode(code string) bool {
	var b strings.Builder
	inQuote, inBracket, escaped := false, false, false
	for _, r := range code {
		switch {
		case escaped:
			escaped = false
		case inQuote:
			inQuote = r != '"'
		case inBracket:
			inBracket = r != ']'
		case r == '\\':
			escaped = true
		case r == '"':
			inQuote = true
		case r == '[':
			inBracket = true
		default:
			b.WriteRune(r)
		}
	}
	return strings.ContainsAny(strings.ToLower(b.String()), "dy")
}

func parseISODate(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// maxDateMillis is the largest distance from the Unix epoch, in either
// direction, that a date may lie.
const maxDateMillis = 8.64e15

// serialToTime converts a spreadsheet serial date (days since 1899-12-30)
// to a UTC time. It fails for serials outside the representable range.
func serialToTime(v float64) (time.Time, bool) {
	ms := (v - 25569) * 86400 * 1000
	if math.IsNaN(ms) || math.Abs(ms) > maxDateMillis {
		return time.Time{}, false
	}
	t := time.UnixMilli(int64(math.Round(ms))).UTC()
	if !validYear(t.Year()) {
		return time.Time{}, false
	}
	return t, true
}
