package movements

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cartola-dev/cartola/internal/model"
)

// Header is the CSV header for movements.csv.
const Header = "movement_id,date,company,account_id,description,amount,type,source_file,batch_id,imported_at"

const (
	numFields     = 10
	dateFormat    = "2006-01-02"
	colID         = 0
	colDate       = 1
	colCompany    = 2
	colAcctID     = 3
	colDesc       = 4
	colAmount     = 5
	colType       = 6
	colSource     = 7
	colBatch      = 8
	colImportedAt = 9
)

// ReadMovements reads all movements from a movements.csv reader.
func ReadMovements(r io.Reader) ([]model.Movement, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading movements CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var movs []model.Movement
	for i, rec := range records[1:] {
		m, err := UnmarshalMovement(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		movs = append(movs, m)
	}
	return movs, nil
}

// WriteMovements writes movements to a writer, including the header.
func WriteMovements(w io.Writer, movs []model.Movement) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, m := range movs {
		if err := cw.Write(MarshalMovement(m)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalMovement converts a Movement to a CSV row.
func MarshalMovement(m model.Movement) []string {
	row := make([]string, numFields)
	row[colID] = m.ID
	row[colDate] = m.Date.Format(dateFormat)
	row[colCompany] = m.Company
	row[colAcctID] = strconv.Itoa(m.AccountID)
	row[colDesc] = m.Description
	row[colAmount] = m.Amount.String()
	row[colType] = string(m.Type)
	row[colSource] = m.SourceFile
	row[colBatch] = m.BatchID
	if !m.ImportedAt.IsZero() {
		row[colImportedAt] = m.ImportedAt.UTC().Format(time.RFC3339)
	}
	return row
}

// UnmarshalMovement converts a CSV row to a Movement.
func UnmarshalMovement(record []string) (model.Movement, error) {
	if len(record) != numFields {
		return model.Movement{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return model.Movement{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	accountID, err := strconv.Atoi(record[colAcctID])
	if err != nil {
		return model.Movement{}, fmt.Errorf("parsing account_id %q: %w", record[colAcctID], err)
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Movement{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	var importedAt time.Time
	if record[colImportedAt] != "" {
		importedAt, err = time.Parse(time.RFC3339, record[colImportedAt])
		if err != nil {
			return model.Movement{}, fmt.Errorf("parsing imported_at %q: %w", record[colImportedAt], err)
		}
	}

	return model.Movement{
		ID:          record[colID],
		Date:        date,
		Company:     record[colCompany],
		AccountID:   accountID,
		Description: record[colDesc],
		Amount:      amount,
		Type:        model.TxType(record[colType]),
		SourceFile:  record[colSource],
		BatchID:     record[colBatch],
		ImportedAt:  importedAt,
	}, nil
}
