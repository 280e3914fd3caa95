// Package trip loads shared-cost trip files and evaluates them into
// balanced ledger transactions without touching the service.
package trip

import (
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Trip is a parsed trip file: the people sharing costs and the
// expenses paid on the group's behalf.
type Trip struct {
	Accounts []string  `yaml:"accounts"`
	Expenses []Expense `yaml:"expenses"`
}

// Expense is one shared cost. Amount stays a string until evaluation
// so the file never passes through a float.
type Expense struct {
	Description string   `yaml:"description"`
	Amount      string   `yaml:"amount"`
	Payers      []string `yaml:"payers"`
}

// Load parses a trip file and validates it: at least one account,
// unique account names, every payer known, every amount a parseable
// decimal. Unknown YAML keys are rejected so typos fail loudly.
func Load(r io.Reader) (*Trip, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var t Trip
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("failed to parse trip file: %w", err)
	}

	if err := t.validate(); err != nil {
		return nil, err
	}

	return &t, nil
}

func (t *Trip) validate() error {
	if len(t.Accounts) == 0 {
		return errors.New("trip file lists no accounts")
	}

	seen := make(map[string]struct{}, len(t.Accounts))
	for _, name := range t.Accounts {
		if _, dup := seen[name]; dup {
			return fmt.Errorf("duplicate account %q", name)
		}
		seen[name] = struct{}{}
	}

	for i := range t.Expenses {
		e := &t.Expenses[i]
		if len(e.Payers) == 0 {
			return fmt.Errorf("expense %q has no payers", e.Description)
		}
		for _, payer := range e.Payers {
			if _, ok := seen[payer]; !ok {
				return fmt.Errorf("expense %q names unknown payer %q", e.Description, payer)
			}
		}
		if _, err := decimal.NewFromString(e.Amount); err != nil {
			return fmt.Errorf("expense %q has unparseable amount %q", e.Description, e.Amount)
		}
	}

	return nil
}
