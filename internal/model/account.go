package model

// BankAccount is a company bank account that statements are imported into.
type BankAccount struct {
	ID       int
	Company  string // company RUT, the tenant key
	Bank     string
	Number   string
	Name     string
	Currency string
}
