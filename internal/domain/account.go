package domain

import "time"

// AccountType classifies an account for display and reporting. It
// carries no arithmetic meaning: the sign of an entry alone decides
// whether value flows in or out.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity,
		AccountTypeRevenue, AccountTypeExpense:
		return true
	}
	return false
}

// Account is a named bucket that entries post against. It holds
// identity only and is never mutated after creation; its balance is
// always derived by folding over entries.
type Account struct {
	CreatedAt time.Time
	ID        string
	Name      string
	Type      AccountType
}

// Validate checks account fields at creation time.
func (a *Account) Validate() error {
	if err := ValidateAccountName(a.Name); err != nil {
		return err
	}
	if !a.Type.Valid() {
		return ErrInvalidAccountType
	}
	return nil
}

// Equal reports identity equality. Two accounts are the same account
// exactly when their IDs match.
func (a *Account) Equal(other *Account) bool {
	return other != nil && a.ID == other.ID
}
