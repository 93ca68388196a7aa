package movements

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cartola-dev/cartola/internal/id"
	"github.com/cartola-dev/cartola/internal/model"
)

// Service persists imported transactions as monthly movement ledgers.
type Service struct {
	repoRoot string
	accounts AccountChecker
}

// NewService creates a movements Service.
func NewService(repoRoot string, accounts AccountChecker) *Service {
	return &Service{repoRoot: repoRoot, accounts: accounts}
}

// RecordParams describes one import batch.
type RecordParams struct {
	Company      string
	AccountID    int
	SourceFile   string
	BatchID      string
	ImportedAt   time.Time
	Transactions []model.Transaction
}

type monthKey struct{ year, month int }

// Record converts a batch of parsed transactions into movements, validates
// every affected month and writes them. Each month is first staged in full
// beside its ledger and only then renamed into place, so a validation or
// staging failure leaves every ledger untouched.
func (s *Service) Record(params RecordParams) ([]model.Movement, error) {
	byMonth := make(map[monthKey][]model.Transaction)
	var keys []monthKey
	for _, txn := range params.Transactions {
		k := monthKey{txn.Date.Year(), int(txn.Date.Month())}
		if _, ok := byMonth[k]; !ok {
			keys = append(keys, k)
		}
		byMonth[k] = append(byMonth[k], txn)
	}
	slices.SortFunc(keys, func(a, b monthKey) int {
		if a.year != b.year {
			return a.year - b.year
		}
		return a.month - b.month
	})

	pending := make(map[monthKey]monthBatch, len(keys))
	for _, k := range keys {
		existing, err := s.ReadMonth(k.year, k.month)
		if err != nil {
			return nil, err
		}
		added := buildMovements(params, byMonth[k], k, nextSeq(existing))

		all := append(slices.Clone(existing), added...)
		if verrs := ValidateMovements(all, s.accounts, k.year, k.month); len(verrs) > 0 {
			msgs := make([]string, len(verrs))
			for i, ve := range verrs {
				msgs[i] = ve.Error()
			}
			return nil, fmt.Errorf("validation failed for %04d-%02d: %s", k.year, k.month, strings.Join(msgs, "; "))
		}
		pending[k] = monthBatch{all: all, added: added}
	}

	staged := make([]string, 0, len(keys))
	defer func() {
		for _, tmp := range staged {
			_ = os.Remove(tmp)
		}
	}()
	for _, k := range keys {
		tmp, err := s.stageMonth(k, pending[k].all)
		if err != nil {
			return nil, err
		}
		staged = append(staged, tmp)
	}

	var recorded []model.Movement
	for i, k := range keys {
		if err := os.Rename(staged[i], s.monthPath(k.year, k.month)); err != nil {
			return recorded, fmt.Errorf("replacing movements %04d-%02d: %w", k.year, k.month, err)
		}
		recorded = append(recorded, pending[k].added...)
	}
	return recorded, nil
}

// monthBatch is a month's full ledger after an import and the movements the
// import added to it.
type monthBatch struct {
	all   []model.Movement
	added []model.Movement
}

// buildMovements assigns IDs starting at seq. Transactions from the same
// statement row share a sequence number and get a/b suffixes.
func buildMovements(params RecordParams, txns []model.Transaction, k monthKey, seq int) []model.Movement {
	perRow := make(map[int]int)
	for _, txn := range txns {
		if txn.Row > 0 {
			perRow[txn.Row]++
		}
	}

	rowSeq := make(map[int]int)
	rowIdx := make(map[int]int)
	movs := make([]model.Movement, 0, len(txns))
	for _, txn := range txns {
		var movID string
		if txn.Row > 0 && perRow[txn.Row] > 1 {
			s, ok := rowSeq[txn.Row]
			if !ok {
				s = seq
				seq++
				rowSeq[txn.Row] = s
			}
			movID = id.WithSuffix(id.FormatMovementID(k.year, k.month, s), rowIdx[txn.Row])
			rowIdx[txn.Row]++
		} else {
			movID = id.FormatMovementID(k.year, k.month, seq)
			seq++
		}

		movs = append(movs, model.Movement{
			ID:          movID,
			Date:        txn.Date,
			Company:     params.Company,
			AccountID:   params.AccountID,
			Description: txn.Description,
			Amount:      txn.Amount,
			Type:        txn.Type,
			SourceFile:  params.SourceFile,
			BatchID:     params.BatchID,
			ImportedAt:  params.ImportedAt,
		})
	}
	return movs
}

// stageMonth writes a month's complete ledger to a temporary file in the
// month's directory and returns its path.
func (s *Service) stageMonth(k monthKey, movs []model.Movement) (string, error) {
	dir := filepath.Dir(s.monthPath(k.year, k.month))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating movements dir: %w", err)
	}

	f, err := os.CreateTemp(dir, ".movements-*.csv")
	if err != nil {
		return "", fmt.Errorf("staging movements: %w", err)
	}
	tmp := f.Name()

	err = WriteMovements(f, movs)
	if err == nil {
		err = f.Chmod(0o644)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("staging movements %04d-%02d: %w", k.year, k.month, err)
	}
	return tmp, nil
}

// ReadMonth reads all movements for a given year/month.
func (s *Service) ReadMonth(year, month int) ([]model.Movement, error) {
	path := s.monthPath(year, month)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening movements %s: %w", path, err)
	}
	defer f.Close()

	movs, err := ReadMovements(f)
	if err != nil {
		return nil, fmt.Errorf("reading movements %s: %w", path, err)
	}
	return movs, nil
}

func nextSeq(movs []model.Movement) int {
	maxSeq := 0
	for _, m := range movs {
		_, _, seq, err := id.ParseMovementID(m.ID)
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq + 1
}

func (s *Service) monthPath(year, month int) string {
	return filepath.Join(s.repoRoot, "movements", fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month), "movements.csv")
}

// Totals sums deposits and charges. Charges are returned as a negative amount.
func Totals(movs []model.Movement) (ingresos, egresos decimal.Decimal) {
	for _, m := range movs {
		if m.Amount.IsPositive() {
			ingresos = ingresos.Add(m.Amount)
		} else {
			egresos = egresos.Add(m.Amount)
		}
	}
	return ingresos, egresos
}
