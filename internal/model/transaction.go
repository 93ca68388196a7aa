package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TxType classifies a transaction as money in or money out.
type TxType string

const (
	TxIngreso TxType = "ingreso" // deposit, amount > 0
	TxEgreso  TxType = "egreso"  // charge, amount < 0
)

// Transaction is one normalized line extracted from a bank statement.
type Transaction struct {
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"` // negative = egreso, positive = ingreso
	Type        TxType          `json:"type"`
	Row         int             `json:"row"` // 1-based worksheet row
}

// NewIngreso builds a deposit transaction. The amount is stored as a positive magnitude.
func NewIngreso(date time.Time, desc string, amount decimal.Decimal, row int) Transaction {
	return Transaction{Date: date, Description: desc, Amount: amount.Abs(), Type: TxIngreso, Row: row}
}

// NewEgreso builds a charge transaction. The amount is stored as a negative magnitude.
func NewEgreso(date time.Time, desc string, amount decimal.Decimal, row int) Transaction {
	return Transaction{Date: date, Description: desc, Amount: amount.Abs().Neg(), Type: TxEgreso, Row: row}
}

// Consistent reports whether Type agrees with the sign of Amount.
func (t Transaction) Consistent() bool {
	return (t.Type == TxIngreso) == t.Amount.IsPositive() &&
		(t.Type == TxIngreso || t.Type == TxEgreso)
}
