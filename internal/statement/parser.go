package statement

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cartola-dev/cartola/internal/model"
)

// minDescriptionForWarning is the description length above which an
// amount-less row is reported instead of skipped silently.
const minDescriptionForWarning = 3

// Warning is a non-fatal problem with a single row.
type Warning struct {
	Row     int
	Message string
}

func (w Warning) String() string {
	if w.Row <= 0 {
		return w.Message
	}
	return fmt.Sprintf("row %d: %s", w.Row, w.Message)
}

// MarshalText renders the warning as a plain string.
func (w Warning) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// Result is a successful parse. Warnings may be non-empty.
type Result struct {
	Filename     string              `json:"filename"`
	Sheet        string              `json:"sheet"`
	Transactions []model.Transaction `json:"data"`
	Warnings     []Warning           `json:"warnings,omitempty"`
}

// Parser converts statement workbooks into transactions. The zero value is
// usable: Now defaults to time.Now and Location to UTC.
type Parser struct {
	// Now supplies the year for dates written as DD/MM.
	Now func() time.Time
	// Location is the zone of dates parsed from strings.
	Location *time.Location
}

// New returns a Parser using the wall clock and UTC.
func New() *Parser {
	return &Parser{Now: time.Now, Location: time.UTC}
}

// Parse parses a workbook with a default Parser.
func Parse(data []byte, filename string) (*Result, error) {
	return New().Parse(data, filename)
}

// Parse reads the first worksheet of data and normalizes its rows. filename
// is used for diagnostics only. Fatal problems are returned as *ParseError.
func (p *Parser) Parse(data []byte, filename string) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = newParseError(filename, ErrUnexpected, fmt.Sprint(r))
		}
	}()

	sheet, err := readSheet(data)
	if err != nil {
		var se *sheetError
		if errors.As(err, &se) {
			detail := ""
			if se.cause != nil {
				detail = se.cause.Error()
			}
			return nil, newParseError(filename, se.kind, detail)
		}
		return nil, newParseError(filename, ErrUnexpected, err.Error())
	}
	return p.ParseSheet(sheet, filename)
}

// ParseSheet normalizes an already extracted sheet.
func (p *Parser) ParseSheet(sheet Sheet, filename string) (*Result, error) {
	if len(sheet.Rows) < 2 {
		return nil, newParseError(filename, ErrInsufficientData,
			fmt.Sprintf("%d row(s), need a header and at least one data row", len(sheet.Rows)))
	}

	header := sheet.Rows[0]
	if len(header.Cells) == 0 || header.IsBlank() {
		return nil, newParseError(filename, ErrEmptyHeader, "")
	}

	cols, missing := ResolveColumns(header.Cells, HeaderSynonyms)
	if len(missing) > 0 {
		return nil, newParseError(filename, ErrMissingColumns,
			fmt.Sprintf("%s (header: %s)", strings.Join(missing, ", "), header))
	}

	res := &Result{Filename: filename, Sheet: sheet.Name}
	for _, row := range sheet.Rows[1:] {
		out := p.processRow(row, cols)
		res.Transactions = append(res.Transactions, out.txns...)
		res.Warnings = append(res.Warnings, out.warnings...)
	}

	if len(res.Transactions) == 0 {
		if len(res.Warnings) == 0 {
			return nil, newParseError(filename, ErrNoTransactions, "")
		}
		pe := newParseError(filename, ErrNothingExtracted, "")
		pe.Warnings = res.Warnings
		return nil, pe
	}
	return res, nil
}

// rowOutcome is what a single row contributes: zero, one or two
// transactions and any warnings.
type rowOutcome struct {
	txns     []model.Transaction
	warnings []Warning
}

func skipRow(row Row, format string, args ...any) rowOutcome {
	return rowOutcome{warnings: []Warning{{Row: row.Num, Message: fmt.Sprintf(format, args...)}}}
}

func (p *Parser) processRow(row Row, cols ColumnMap) (out rowOutcome) {
	defer func() {
		if r := recover(); r != nil {
			out = skipRow(row, "unexpected error (%v) processing row %s", r, row)
		}
	}()

	if row.IsBlank() {
		return rowOutcome{}
	}

	date, err := p.resolveDate(row.Cell(cols.Date))
	if err != nil {
		return skipRow(row, "skipped: %v", err)
	}

	desc := strings.TrimSpace(row.Cell(cols.Description).Text())
	charge := parseAmount(row.Cell(cols.Charge))
	deposit := parseAmount(row.Cell(cols.Deposit))

	switch {
	case charge.IsZero() && deposit.IsZero():
		if utf8.RuneCountInString(desc) > minDescriptionForWarning {
			return skipRow(row, "skipped %q: no charge or deposit amount", desc)
		}
		return rowOutcome{}
	case !charge.IsZero() && !deposit.IsZero():
		out.warnings = []Warning{{
			Row: row.Num,
			Message: fmt.Sprintf("%q has both a charge (%s) and a deposit (%s); recorded as two transactions",
				desc, charge, deposit),
		}}
		out.txns = []model.Transaction{
			model.NewIngreso(date, desc+" (Abono)", deposit, row.Num),
			model.NewEgreso(date, desc+" (Cargo)", charge, row.Num),
		}
		return out
	case !deposit.IsZero():
		out.txns = []model.Transaction{model.NewIngreso(date, desc, deposit, row.Num)}
	default:
		out.txns = []model.Transaction{model.NewEgreso(date, desc, charge, row.Num)}
	}
	return out
}

func (p *Parser) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

func (p *Parser) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}
