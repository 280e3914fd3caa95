package domain

import "github.com/shopspring/decimal"

// IDGenerator produces identifiers for transactions and entries.
// Splitters take it injected so tests can supply deterministic ids.
type IDGenerator interface {
	Generate() string
}

// Splitter turns one cost into a balanced set of entries: positive
// legs for the creditors who covered the cost, negative legs for the
// debtors who owe it. Implementations must return entries whose
// amounts sum exactly to zero.
type Splitter interface {
	Split(cost decimal.Decimal, transactionID string, creditors, debtors []Account) ([]Entry, error)
}

// EqualSplitter divides a cost evenly inside each group. Every leg but
// the last receives the quantized even share; the last leg absorbs
// whatever rounding left over, so the group total is exact by
// construction. Duplicate accounts are allowed and get one leg per
// occurrence.
type EqualSplitter struct {
	ids IDGenerator
	q   Quantizer
}

// NewEqualSplitter returns an EqualSplitter using ids for entry
// identifiers and q as the rounding policy.
func NewEqualSplitter(ids IDGenerator, q Quantizer) *EqualSplitter {
	return &EqualSplitter{ids: ids, q: q}
}

// Split implements Splitter. A zero cost yields all-zero legs, which
// still form a valid balanced set. Either group being empty is
// ErrEmptyGroup.
func (s *EqualSplitter) Split(cost decimal.Decimal, transactionID string, creditors, debtors []Account) ([]Entry, error) {
	if len(creditors) == 0 || len(debtors) == 0 {
		return nil, ErrEmptyGroup
	}

	cost = s.q.Quantize(cost)

	entries := make([]Entry, 0, len(creditors)+len(debtors))
	entries = append(entries, s.group(cost, transactionID, creditors)...)
	entries = append(entries, s.group(cost.Neg(), transactionID, debtors)...)

	return entries, nil
}

// group spreads total across accounts: the quantized even share to all
// but the last account, the remainder to the last.
func (s *EqualSplitter) group(total decimal.Decimal, transactionID string, accounts []Account) []Entry {
	k := len(accounts)
	share := s.q.Quantize(total.Div(decimal.NewFromInt(int64(k))))

	entries := make([]Entry, 0, k)
	assigned := decimal.Zero
	for _, account := range accounts[:k-1] {
		entries = append(entries, NewEntry(s.ids.Generate(), transactionID, account.ID, share, s.q))
		assigned = assigned.Add(share)
	}

	remainder := total.Sub(assigned)
	entries = append(entries, NewEntry(s.ids.Generate(), transactionID, accounts[k-1].ID, remainder, s.q))

	return entries
}

// WeightedSplitter divides a cost proportionally to per-account
// weights. Accounts missing from the weight table count as weight 1,
// so a nil table degrades to an equal split. The last leg of each
// group absorbs the rounding remainder, same rule as EqualSplitter.
type WeightedSplitter struct {
	ids     IDGenerator
	q       Quantizer
	weights map[string]decimal.Decimal
}

// NewWeightedSplitter returns a WeightedSplitter resolving shares from
// weights, keyed by account ID.
func NewWeightedSplitter(ids IDGenerator, q Quantizer, weights map[string]decimal.Decimal) *WeightedSplitter {
	return &WeightedSplitter{ids: ids, q: q, weights: weights}
}

// Split implements Splitter. A group whose weights sum to zero or less
// is ErrInvalidWeights.
func (s *WeightedSplitter) Split(cost decimal.Decimal, transactionID string, creditors, debtors []Account) ([]Entry, error) {
	if len(creditors) == 0 || len(debtors) == 0 {
		return nil, ErrEmptyGroup
	}

	cost = s.q.Quantize(cost)

	credits, err := s.group(cost, transactionID, creditors)
	if err != nil {
		return nil, err
	}
	debits, err := s.group(cost.Neg(), transactionID, debtors)
	if err != nil {
		return nil, err
	}

	return append(credits, debits...), nil
}

func (s *WeightedSplitter) weight(accountID string) decimal.Decimal {
	if w, ok := s.weights[accountID]; ok {
		return w
	}
	return decimal.NewFromInt(1)
}

func (s *WeightedSplitter) group(total decimal.Decimal, transactionID string, accounts []Account) ([]Entry, error) {
	totalWeight := decimal.Zero
	for i := range accounts {
		totalWeight = totalWeight.Add(s.weight(accounts[i].ID))
	}
	if !totalWeight.IsPositive() {
		return nil, ErrInvalidWeights
	}

	k := len(accounts)
	entries := make([]Entry, 0, k)
	assigned := decimal.Zero
	for _, account := range accounts[:k-1] {
		share := s.q.Quantize(total.Mul(s.weight(account.ID)).Div(totalWeight))
		entries = append(entries, NewEntry(s.ids.Generate(), transactionID, account.ID, share, s.q))
		assigned = assigned.Add(share)
	}

	remainder := total.Sub(assigned)
	entries = append(entries, NewEntry(s.ids.Generate(), transactionID, accounts[k-1].ID, remainder, s.q))

	return entries, nil
}
