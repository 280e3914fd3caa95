package trip

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/splitledger/splitledger/internal/domain"
)

// Plan is a locally evaluated trip: every expense as a balanced
// transaction plus a statement per account.
type Plan struct {
	Accounts     []domain.Account
	Transactions []*domain.Transaction
	Statements   []Statement
}

// Statement is one account's view of the trip.
type Statement struct {
	Account domain.Account
	Lines   []StatementLine
	Balance decimal.Decimal
}

// StatementLine is a single posting with the running balance after it.
type StatementLine struct {
	Description string
	Amount      decimal.Decimal
	Balance     decimal.Decimal
}

// Evaluate splits every expense across the whole group, payers as
// creditors, and wraps each split into a validated transaction. Each
// account's postings fold into a statement with running balances.
// Evaluation is pure: account names double as ledger ids and no I/O
// happens.
func Evaluate(t *Trip, ids domain.IDGenerator, q domain.Quantizer) (*Plan, error) {
	accounts := make([]domain.Account, 0, len(t.Accounts))
	registry := make(map[string]domain.Account, len(t.Accounts))
	for _, name := range t.Accounts {
		account := domain.Account{ID: name, Name: name, Type: domain.AccountTypeAsset}
		if err := account.Validate(); err != nil {
			return nil, fmt.Errorf("account %q: %w", name, err)
		}
		accounts = append(accounts, account)
		registry[name] = account
	}

	splitter := domain.NewEqualSplitter(ids, q)

	transactions := make([]*domain.Transaction, 0, len(t.Expenses))
	for i := range t.Expenses {
		e := &t.Expenses[i]

		cost, err := decimal.NewFromString(e.Amount)
		if err != nil {
			return nil, fmt.Errorf("expense %q has unparseable amount %q", e.Description, e.Amount)
		}

		creditors := make([]domain.Account, 0, len(e.Payers))
		for _, payer := range e.Payers {
			account, ok := registry[payer]
			if !ok {
				return nil, fmt.Errorf("expense %q names unknown payer %q", e.Description, payer)
			}
			creditors = append(creditors, account)
		}

		txID := ids.Generate()
		entries, err := splitter.Split(cost, txID, creditors, accounts)
		if err != nil {
			return nil, fmt.Errorf("expense %q: %w", e.Description, err)
		}

		tx, err := domain.NewTransaction(txID, entries, e.Description, nil, q)
		if err != nil {
			return nil, fmt.Errorf("expense %q: %w", e.Description, err)
		}

		transactions = append(transactions, tx)
	}

	statements := make([]Statement, 0, len(accounts))
	for _, account := range accounts {
		statements = append(statements, buildStatement(account, transactions))
	}

	return &Plan{
		Accounts:     accounts,
		Transactions: transactions,
		Statements:   statements,
	}, nil
}

func buildStatement(account domain.Account, transactions []*domain.Transaction) Statement {
	st := Statement{Account: account, Balance: decimal.Zero}
	for _, tx := range transactions {
		for _, entry := range tx.EntriesFor(account.ID) {
			st.Balance = st.Balance.Add(entry.Amount)
			st.Lines = append(st.Lines, StatementLine{
				Description: tx.Description,
				Amount:      entry.Amount,
				Balance:     st.Balance,
			})
		}
	}
	return st
}
