package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/cartola-dev/cartola/internal/model"
)

// Header is the CSV header for accounts.csv.
var Header = []string{"account_id", "company", "bank", "number", "name", "currency"}

const (
	numFields   = 6
	colID       = 0
	colCompany  = 1
	colBank     = 2
	colNumber   = 3
	colName     = 4
	colCurrency = 5
)

// ReadAccounts reads accounts.csv.
func ReadAccounts(r io.Reader) ([]model.BankAccount, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accounts []model.BankAccount
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes accounts.csv.
func WriteAccounts(w io.Writer, accounts []model.BankAccount) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalAccount converts a BankAccount to a CSV row.
func MarshalAccount(acct model.BankAccount) []string {
	row := make([]string, numFields)
	row[colID] = strconv.Itoa(acct.ID)
	row[colCompany] = acct.Company
	row[colBank] = acct.Bank
	row[colNumber] = acct.Number
	row[colName] = acct.Name
	row[colCurrency] = acct.Currency
	return row
}

// UnmarshalAccount converts a CSV row to a BankAccount.
func UnmarshalAccount(record []string) (model.BankAccount, error) {
	if len(record) != numFields {
		return model.BankAccount{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	id, err := strconv.Atoi(record[colID])
	if err != nil {
		return model.BankAccount{}, fmt.Errorf("parsing account_id %q: %w", record[colID], err)
	}

	return model.BankAccount{
		ID:       id,
		Company:  record[colCompany],
		Bank:     record[colBank],
		Number:   record[colNumber],
		Name:     record[colName],
		Currency: record[colCurrency],
	}, nil
}
