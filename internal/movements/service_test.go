package movements

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartola-dev/cartola/internal/model"
)

// mockAccounts implements AccountChecker for testing.
type mockAccounts struct {
	ids map[int]bool
}

func (m *mockAccounts) Exists(id int) bool {
	return m.ids[id]
}

func newMockAccounts(ids ...int) *mockAccounts {
	m := &mockAccounts{ids: make(map[int]bool)}
	for _, id := range ids {
		m.ids[id] = true
	}
	return m
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var importedAt = time.Date(2024, 4, 2, 15, 4, 5, 0, time.UTC)

func params(txns ...model.Transaction) RecordParams {
	return RecordParams{
		Company:      "76.123.456-7",
		AccountID:    1,
		SourceFile:   "marzo.xlsx",
		BatchID:      "batch-1",
		ImportedAt:   importedAt,
		Transactions: txns,
	}
}

func TestRecord_NewMonth(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(dir, newMockAccounts(1))

	movs, err := svc.Record(params(
		model.NewEgreso(date(2024, 3, 1), "Pago luz", dec("15000"), 2),
		model.NewIngreso(date(2024, 3, 2), "Venta", dec("40000"), 3),
	))
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, "2024-03-001", movs[0].ID)
	assert.Equal(t, "2024-03-002", movs[1].ID)

	_, err = os.Stat(filepath.Join(dir, "movements", "2024", "03", "movements.csv"))
	require.NoError(t, err)

	got, err := svc.ReadMonth(2024, 3)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "76.123.456-7", got[0].Company)
	assert.Equal(t, 1, got[0].AccountID)
	assert.True(t, got[0].Amount.Equal(dec("-15000")))
	assert.Equal(t, model.TxEgreso, got[0].Type)
	assert.Equal(t, "marzo.xlsx", got[1].SourceFile)
	assert.Equal(t, "batch-1", got[1].BatchID)
	assert.True(t, importedAt.Equal(got[1].ImportedAt))
}

func TestRecord_ExistingMonthContinuesSequence(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(dir, newMockAccounts(1))

	_, err := svc.Record(params(model.NewEgreso(date(2024, 3, 1), "Uno", dec("1"), 2)))
	require.NoError(t, err)

	movs, err := svc.Record(params(model.NewEgreso(date(2024, 3, 5), "Dos", dec("2"), 2)))
	require.NoError(t, err)
	assert.Equal(t, "2024-03-002", movs[0].ID)

	existing, err := svc.ReadMonth(2024, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, nextSeq(existing))
}

func TestRecord_FailedMonthLeavesLedgersUntouched(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(dir, newMockAccounts(1))

	_, err := svc.Record(params(model.NewEgreso(date(2024, 3, 1), "Previo", dec("1"), 2)))
	require.NoError(t, err)
	march := filepath.Join(dir, "movements", "2024", "03", "movements.csv")
	before, err := os.ReadFile(march)
	require.NoError(t, err)

	// A file where April's directory should be makes April fail.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "movements", "2024", "04"), nil, 0o644))

	movs, err := svc.Record(params(
		model.NewEgreso(date(2024, 3, 5), "Marzo", dec("1"), 2),
		model.NewEgreso(date(2024, 4, 1), "Abril", dec("1"), 3),
	))
	require.Error(t, err)
	assert.Empty(t, movs)

	after, err := os.ReadFile(march)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))

	entries, err := os.ReadDir(filepath.Dir(march))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "staged files are cleaned up")
}

func TestRecord_DualRowSharesSequence(t *testing.T) {
	svc := NewService(t.TempDir(), newMockAccounts(1))

	movs, err := svc.Record(params(
		model.NewEgreso(date(2024, 3, 1), "Pago", dec("10"), 2),
		model.NewIngreso(date(2024, 3, 4), "Ajuste (Abono)", dec("25"), 3),
		model.NewEgreso(date(2024, 3, 4), "Ajuste (Cargo)", dec("10"), 3),
		model.NewEgreso(date(2024, 3, 5), "Otro", dec("5"), 4),
	))
	require.NoError(t, err)

	ids := make([]string, len(movs))
	for i, m := range movs {
		ids[i] = m.ID
	}
	assert.Equal(t, []string{"2024-03-001", "2024-03-002a", "2024-03-002b", "2024-03-003"}, ids)
	assert.Equal(t, movs[1].Group(), movs[2].Group())
}

func TestRecord_SplitsByMonth(t *testing.T) {
	svc := NewService(t.TempDir(), newMockAccounts(1))

	movs, err := svc.Record(params(
		model.NewEgreso(date(2024, 4, 1), "Abril", dec("1"), 3),
		model.NewEgreso(date(2024, 3, 31), "Marzo", dec("1"), 2),
	))
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, "2024-03-001", movs[0].ID)
	assert.Equal(t, "2024-04-001", movs[1].ID)

	march, err := svc.ReadMonth(2024, 3)
	require.NoError(t, err)
	assert.Len(t, march, 1)
	april, err := svc.ReadMonth(2024, 4)
	require.NoError(t, err)
	assert.Len(t, april, 1)
}

func TestRecord_UnknownAccountWritesNothing(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(dir, newMockAccounts(2))

	_, err := svc.Record(params(model.NewEgreso(date(2024, 3, 1), "Pago", dec("1"), 2)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown account 1")

	_, err = os.Stat(filepath.Join(dir, "movements", "2024", "03", "movements.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestReadMonth_Missing(t *testing.T) {
	svc := NewService(t.TempDir(), newMockAccounts(1))
	movs, err := svc.ReadMonth(2030, 1)
	require.NoError(t, err)
	assert.Nil(t, movs)
}

func TestTotals(t *testing.T) {
	in, out := Totals([]model.Movement{
		{Amount: dec("100")},
		{Amount: dec("-40")},
		{Amount: dec("-10")},
	})
	assert.Equal(t, "100", in.String())
	assert.Equal(t, "-50", out.String())

	in, out = Totals(nil)
	assert.True(t, in.IsZero())
	assert.True(t, out.IsZero())
}
