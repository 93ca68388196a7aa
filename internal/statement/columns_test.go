package statement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func header(vals ...string) []Cell {
	cells := make([]Cell, len(vals))
	for i, v := range vals {
		cells[i] = StringCell(v)
	}
	return cells
}

func TestResolveColumns_Standard(t *testing.T) {
	m, missing := ResolveColumns(header("Fecha", "Descripción", "Cargos", "Abonos"), HeaderSynonyms)
	assert.Empty(t, missing)
	assert.Equal(t, ColumnMap{Date: 0, Description: 1, Charge: 2, Deposit: 3}, m)
}

func TestResolveColumns_CaseAndWhitespace(t *testing.T) {
	m, missing := ResolveColumns(header("  N° Doc", " FECHA OPERACIÓN ", "DESCRIPCION", "Cheques y otros cargos", "Depósitos y abonos"), HeaderSynonyms)
	assert.Empty(t, missing)
	assert.Equal(t, 1, m.Date)
	assert.Equal(t, 2, m.Description)
	assert.Equal(t, 3, m.Charge)
	assert.Equal(t, 4, m.Deposit)
}

func TestResolveColumns_FirstMatchWins(t *testing.T) {
	m, _ := ResolveColumns(header("Fecha", "Fecha valuta", "Descripción", "Abonos"), HeaderSynonyms)
	assert.Equal(t, 0, m.Date)
}

func TestResolveColumns_OnlyDeposit(t *testing.T) {
	m, missing := ResolveColumns(header("Fecha", "Descripción", "Abonos"), HeaderSynonyms)
	assert.Empty(t, missing)
	assert.Equal(t, -1, m.Charge)
	assert.Equal(t, 2, m.Deposit)
}

func TestResolveColumns_MissingAmounts(t *testing.T) {
	_, missing := ResolveColumns(header("Fecha", "Detalle"), HeaderSynonyms)
	assert.Equal(t, []string{"Descripción", "Cargos/Abonos"}, missing)
}

func TestResolveColumns_AllMissing(t *testing.T) {
	_, missing := ResolveColumns(header("A", "B"), HeaderSynonyms)
	assert.Equal(t, []string{"Fecha", "Descripción", "Cargos/Abonos"}, missing)
}

func TestResolveColumns_NonStringHeader(t *testing.T) {
	cells := []Cell{NumberCell(2024), StringCell("Fecha"), {}, StringCell("Descripcion"), StringCell("Cargo")}
	m, missing := ResolveColumns(cells, HeaderSynonyms)
	assert.Empty(t, missing)
	assert.Equal(t, 1, m.Date)
	assert.Equal(t, 3, m.Description)
	assert.Equal(t, 4, m.Charge)
}

func TestResolveColumns_CustomRules(t *testing.T) {
	rules := append([]ColumnRule{}, HeaderSynonyms...)
	rules = append(rules, ColumnRule{Column: ColDescription, Label: "Descripción", Synonyms: []string{"detalle"}})

	m, missing := ResolveColumns(header("Fecha", "Detalle", "Cargos"), rules)
	assert.Empty(t, missing)
	assert.Equal(t, 1, m.Description)
}
