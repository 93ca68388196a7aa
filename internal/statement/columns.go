package statement

import "strings"

// Column is a logical statement column.
type Column int

const (
	ColDate Column = iota
	ColDescription
	ColCharge
	ColDeposit
)

// ColumnRule maps a logical column to the header substrings that identify it.
// Synonyms must be lower case.
type ColumnRule struct {
	Column   Column
	Label    string
	Synonyms []string
}

// HeaderSynonyms is the header matching policy, evaluated in order.
var HeaderSynonyms = []ColumnRule{
	{Column: ColDate, Label: "Fecha", Synonyms: []string{"fecha"}},
	{Column: ColDescription, Label: "Descripción", Synonyms: []string{"descripción", "descripcion"}},
	{Column: ColCharge, Label: "Cargos", Synonyms: []string{"cargo", "cheque"}},
	{Column: ColDeposit, Label: "Abonos", Synonyms: []string{"abono", "depósito"}},
}

// amountsLabel names the charge/deposit pair when neither resolves.
const amountsLabel = "Cargos/Abonos"

// ColumnMap holds zero-based column indices; -1 means unresolved.
type ColumnMap struct {
	Date        int
	Description int
	Charge      int
	Deposit     int
}

func (m *ColumnMap) set(c Column, idx int) {
	switch c {
	case ColDate:
		m.Date = idx
	case ColDescription:
		m.Description = idx
	case ColCharge:
		m.Charge = idx
	case ColDeposit:
		m.Deposit = idx
	}
}

// Index returns the resolved index for a logical column.
func (m ColumnMap) Index(c Column) int {
	switch c {
	case ColDate:
		return m.Date
	case ColDescription:
		return m.Description
	case ColCharge:
		return m.Charge
	case ColDeposit:
		return m.Deposit
	}
	return -1
}

// ResolveColumns matches header cells against rules. For each rule the first
// header cell containing one of its synonyms (case-insensitive, trimmed) wins.
// It returns the labels of required columns that could not be resolved: Fecha,
// Descripción, and Cargos/Abonos when neither amount column is present.
func ResolveColumns(header []Cell, rules []ColumnRule) (ColumnMap, []string) {
	m := ColumnMap{Date: -1, Description: -1, Charge: -1, Deposit: -1}

	normalized := make([]string, len(header))
	for i, c := range header {
		normalized[i] = strings.ToLower(strings.TrimSpace(c.Text()))
	}

	labels := make(map[Column]string, len(rules))
	for _, rule := range rules {
		labels[rule.Column] = rule.Label
		if m.Index(rule.Column) >= 0 {
			continue
		}
		if idx := matchHeader(normalized, rule.Synonyms); idx >= 0 {
			m.set(rule.Column, idx)
		}
	}

	var missing []string
	if m.Date < 0 {
		missing = append(missing, labelOr(labels, ColDate, "Fecha"))
	}
	if m.Description < 0 {
		missing = append(missing, labelOr(labels, ColDescription, "Descripción"))
	}
	if m.Charge < 0 && m.Deposit < 0 {
		missing = append(missing, amountsLabel)
	}
	return m, missing
}

func matchHeader(header []string, synonyms []string) int {
	for i, h := range header {
		if h == "" {
			continue
		}
		for _, syn := range synonyms {
			if strings.Contains(h, syn) {
				return i
			}
		}
	}
	return -1
}

func labelOr(labels map[Column]string, c Column, fallback string) string {
	if l, ok := labels[c]; ok && l != "" {
		return l
	}
	return fallback
}
