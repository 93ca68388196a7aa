package accounts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cartola-dev/cartola/internal/model"
)

// DefaultCurrency is used when an account is added without one.
const DefaultCurrency = "CLP"

const registryFile = "accounts/accounts.csv"

// Service provides in-memory lookup over the company's bank accounts.
type Service struct {
	accounts []model.BankAccount
	byID     map[int]model.BankAccount
}

// NewService creates a Service from a slice of accounts.
func NewService(accounts []model.BankAccount) *Service {
	byID := make(map[int]model.BankAccount, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}
	return &Service{accounts: accounts, byID: byID}
}

// Load reads accounts/accounts.csv from a repo root and returns a Service.
func Load(repoRoot string) (*Service, error) {
	path := filepath.Join(repoRoot, registryFile)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening account registry: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading account registry: %w", err)
	}
	return NewService(accts), nil
}

// All returns all accounts.
func (s *Service) All() []model.BankAccount {
	return s.accounts
}

// Get returns an account by ID.
func (s *Service) Get(id int) (model.BankAccount, bool) {
	a, ok := s.byID[id]
	return a, ok
}

// Exists reports whether an account ID exists.
func (s *Service) Exists(id int) bool {
	_, ok := s.byID[id]
	return ok
}

// ByCompany returns the accounts belonging to a company RUT.
func (s *Service) ByCompany(company string) []model.BankAccount {
	var result []model.BankAccount
	for _, a := range s.accounts {
		if strings.EqualFold(a.Company, company) {
			result = append(result, a)
		}
	}
	return result
}

// Add registers an account. A zero ID is replaced with the next free one.
// Returns the stored account.
func (s *Service) Add(acct model.BankAccount) (model.BankAccount, error) {
	if strings.TrimSpace(acct.Bank) == "" || strings.TrimSpace(acct.Number) == "" {
		return model.BankAccount{}, fmt.Errorf("bank and account number are required")
	}
	if acct.ID == 0 {
		acct.ID = s.nextID()
	}
	if s.Exists(acct.ID) {
		return model.BankAccount{}, fmt.Errorf("account %d already exists", acct.ID)
	}
	for _, a := range s.accounts {
		if strings.EqualFold(a.Bank, acct.Bank) && a.Number == acct.Number {
			return model.BankAccount{}, fmt.Errorf("account %s %s already registered as %d", acct.Bank, acct.Number, a.ID)
		}
	}
	if acct.Currency == "" {
		acct.Currency = DefaultCurrency
	}
	s.accounts = append(s.accounts, acct)
	s.byID[acct.ID] = acct
	return acct, nil
}

func (s *Service) nextID() int {
	maxID := 0
	for _, a := range s.accounts {
		if a.ID > maxID {
			maxID = a.ID
		}
	}
	return maxID + 1
}

// Save writes the registry to accounts/accounts.csv.
func (s *Service) Save(repoRoot string) error {
	dir := filepath.Join(repoRoot, filepath.Dir(registryFile))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	f, err := os.Create(filepath.Join(repoRoot, registryFile))
	if err != nil {
		return fmt.Errorf("creating account registry: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, s.accounts); err != nil {
		return fmt.Errorf("writing account registry: %w", err)
	}
	return nil
}
