package movements

import (
	"fmt"

	"github.com/cartola-dev/cartola/internal/id"
	"github.com/cartola-dev/cartola/internal/model"
)

// ValidationError describes a single rule violation.
type ValidationError struct {
	Rule        string
	MovementID  string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s [%s]: %s", e.Rule, e.MovementID, e.Description)
}

// AccountChecker tests whether an account ID is registered.
type AccountChecker interface {
	Exists(id int) bool
}

// ValidateMovements checks a month's movements before they are written.
func ValidateMovements(movs []model.Movement, accounts AccountChecker, year, month int) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool, len(movs))

	for _, m := range movs {
		// Type agrees with the sign of the amount.
		switch m.Type {
		case model.TxIngreso:
			if !m.Amount.IsPositive() {
				errs = append(errs, ValidationError{"sign", m.ID, fmt.Sprintf("ingreso with non-positive amount %s", m.Amount)})
			}
		case model.TxEgreso:
			if !m.Amount.IsNegative() {
				errs = append(errs, ValidationError{"sign", m.ID, fmt.Sprintf("egreso with non-negative amount %s", m.Amount)})
			}
		default:
			errs = append(errs, ValidationError{"type", m.ID, fmt.Sprintf("unknown type %q", m.Type)})
		}

		if accounts != nil && !accounts.Exists(m.AccountID) {
			errs = append(errs, ValidationError{"account", m.ID, fmt.Sprintf("unknown account %d", m.AccountID)})
		}

		if m.Date.Year() != year || int(m.Date.Month()) != month {
			errs = append(errs, ValidationError{"month", m.ID,
				fmt.Sprintf("date %s not in %04d-%02d", m.Date.Format(dateFormat), year, month)})
		}

		// Whole currency units only.
		if !m.Amount.Equal(m.Amount.Truncate(0)) {
			errs = append(errs, ValidationError{"whole", m.ID, fmt.Sprintf("amount %s has decimals", m.Amount)})
		}

		y, mo, _, err := id.ParseMovementID(m.ID)
		switch {
		case err != nil:
			errs = append(errs, ValidationError{"id", m.ID, fmt.Sprintf("invalid movement ID: %v", err)})
		case y != year || mo != month:
			errs = append(errs, ValidationError{"id", m.ID, fmt.Sprintf("ID not in %04d-%02d", year, month)})
		}

		if seen[m.ID] {
			errs = append(errs, ValidationError{"unique", m.ID, "duplicate movement ID"})
		}
		seen[m.ID] = true
	}

	// A sequence number is either used bare or split into suffixed rows.
	for _, m := range movs {
		if g := m.Group(); g != m.ID && seen[g] {
			errs = append(errs, ValidationError{"group", m.ID, fmt.Sprintf("suffixed ID shares sequence with %s", g)})
		}
	}

	return errs
}
