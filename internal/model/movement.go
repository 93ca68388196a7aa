package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cartola-dev/cartola/internal/id"
)

// Movement is a persisted transaction: one row in a month's movements.csv.
type Movement struct {
	ID          string // "YYYY-MM-NNN", with a/b suffix when a statement row produced two
	Date        time.Time
	Company     string
	AccountID   int
	Description string
	Amount      decimal.Decimal
	Type        TxType
	SourceFile  string
	BatchID     string
	ImportedAt  time.Time
}

// Group returns the movement ID without its row suffix.
func (m Movement) Group() string {
	return id.Group(m.ID)
}
