package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/splitledger/splitledger/internal/domain"
)

// Retrier re-runs an operation that failed transiently. The postgres
// adapter provides one backed by exponential backoff.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

type nopRetrier struct{}

func (nopRetrier) Retry(ctx context.Context, operation func() error) error {
	return operation()
}

// ExpenseUseCase records shared expenses as balanced transactions and
// reverses them. Every write happens inside a single database
// transaction together with its outbox event.
type ExpenseUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	txRepo      TransactionRepository
	entryRepo   EntryRepository
	outboxRepo  OutboxRepository
	cache       Cache
	idGen       IDGenerator
	metrics     MetricsRecorder
	quantizer   domain.Quantizer
	retrier     Retrier
}

// ExpenseUseCaseConfig for ExpenseUseCase.
type ExpenseUseCaseConfig struct {
	TxManager   TransactionManager
	AccountRepo AccountRepository
	TxRepo      TransactionRepository
	EntryRepo   EntryRepository
	OutboxRepo  OutboxRepository
	Cache       Cache
	IDGen       IDGenerator
	Metrics     MetricsRecorder
	Quantizer   domain.Quantizer
}

// NewExpenseUseCase creates a new ExpenseUseCase.
func NewExpenseUseCase(cfg ExpenseUseCaseConfig) *ExpenseUseCase {
	return &ExpenseUseCase{
		txManager:   cfg.TxManager,
		accountRepo: cfg.AccountRepo,
		txRepo:      cfg.TxRepo,
		entryRepo:   cfg.EntryRepo,
		outboxRepo:  cfg.OutboxRepo,
		cache:       cfg.Cache,
		idGen:       cfg.IDGen,
		metrics:     cfg.Metrics,
		quantizer:   cfg.Quantizer,
		retrier:     nopRetrier{},
	}
}

// WithRetrier makes persist re-run on transient database errors, such
// as deadlocks between concurrent expense writes.
func (uc *ExpenseUseCase) WithRetrier(r Retrier) *ExpenseUseCase {
	uc.retrier = r
	return uc
}

// RecordExpenseInput represents input for recording a shared expense.
// PayerIDs covered the cost; ParticipantIDs owe their share of it.
// When Weights is non-empty shares are proportional to it, with
// missing accounts counting as weight 1.
type RecordExpenseInput struct {
	Timestamp      *time.Time
	Weights        map[string]decimal.Decimal
	Description    string
	PayerIDs       []string
	ParticipantIDs []string
	Cost           decimal.Decimal
}

// RecordExpense splits a cost across payers and participants and
// persists the resulting transaction atomically.
func (uc *ExpenseUseCase) RecordExpense(ctx context.Context, input RecordExpenseInput) (*domain.Transaction, error) {
	// Validate inputs before starting transaction
	if !input.Cost.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, err
	}
	if len(input.PayerIDs) == 0 || len(input.ParticipantIDs) == 0 {
		return nil, domain.ErrEmptyGroup
	}

	payers, err := uc.resolveAccounts(ctx, input.PayerIDs)
	if err != nil {
		return nil, err
	}

	participants, err := uc.resolveAccounts(ctx, input.ParticipantIDs)
	if err != nil {
		return nil, err
	}

	var splitter domain.Splitter
	if len(input.Weights) > 0 {
		splitter = domain.NewWeightedSplitter(uc.idGen, uc.quantizer, input.Weights)
	} else {
		splitter = domain.NewEqualSplitter(uc.idGen, uc.quantizer)
	}

	transactionID := uc.idGen.Generate()

	entries, err := splitter.Split(input.Cost, transactionID, payers, participants)
	if err != nil {
		return nil, err
	}

	transaction, err := domain.NewTransaction(transactionID, entries, input.Description, input.Timestamp, uc.quantizer)
	if err != nil {
		var unbalanced *domain.UnbalancedTransactionError
		if errors.As(err, &unbalanced) {
			uc.metrics.UnbalancedRejected()
		}
		return nil, err
	}

	now := time.Now().UTC()
	transaction.CreatedAt = now
	for i := range transaction.Entries {
		transaction.Entries[i].CreatedAt = now
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   transaction.ID,
		AggregateType: domain.AggregateTypeTransaction,
		EventType:     domain.EventTypeExpenseRecorded,
		Payload: domain.ExpenseRecordedEvent{
			TransactionID: transaction.ID,
			Description:   transaction.Description,
			GrossCost:     transaction.GrossCost().String(),
			EntryCount:    len(transaction.Entries),
			AccountIDs:    affectedAccountIDs(transaction.Entries),
		},
		CreatedAt: now,
	}

	if err := uc.persist(ctx, transaction, event); err != nil {
		return nil, err
	}

	uc.invalidateBalances(ctx, transaction.Entries)

	grossCost, _ := transaction.GrossCost().Float64()
	uc.metrics.ExpenseRecorded(len(transaction.Entries), grossCost)

	return transaction, nil
}

// ReverseTransaction negates every entry of an existing transaction in
// a new one, leaving the original untouched. A transaction can only be
// reversed once, and reversals themselves cannot be reversed.
func (uc *ExpenseUseCase) ReverseTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	original, err := uc.txRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if original.ReversedTransactionID != "" {
		return nil, domain.ErrTransactionIsReversal
	}

	if _, err := uc.txRepo.GetReversal(ctx, transactionID); err == nil {
		return nil, domain.ErrTransactionAlreadyReversed
	} else if !errors.Is(err, domain.ErrTransactionNotFound) {
		return nil, err
	}

	reversalID := uc.idGen.Generate()

	entries := make([]domain.Entry, 0, len(original.Entries))
	for i := range original.Entries {
		entries = append(entries, domain.NewEntry(
			uc.idGen.Generate(),
			reversalID,
			original.Entries[i].AccountID,
			original.Entries[i].Amount.Neg(),
			uc.quantizer,
		))
	}

	reversal, err := domain.NewTransaction(reversalID, entries, "reversal: "+original.Description, nil, uc.quantizer)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	reversal.CreatedAt = now
	reversal.ReversedTransactionID = original.ID
	for i := range reversal.Entries {
		reversal.Entries[i].CreatedAt = now
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   reversal.ID,
		AggregateType: domain.AggregateTypeTransaction,
		EventType:     domain.EventTypeExpenseReversed,
		Payload: domain.ExpenseReversedEvent{
			ReversalTransactionID: reversal.ID,
			OriginalTransactionID: original.ID,
			GrossCost:             reversal.GrossCost().String(),
		},
		CreatedAt: now,
	}

	if err := uc.persist(ctx, reversal, event); err != nil {
		return nil, err
	}

	uc.invalidateBalances(ctx, reversal.Entries)
	uc.metrics.ExpenseReversed()

	return reversal, nil
}

// GetTransaction retrieves a transaction with its entries.
func (uc *ExpenseUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return uc.txRepo.GetByID(ctx, id)
}

// ListTransactionsByAccountInput represents input for listing transactions.
type ListTransactionsByAccountInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// ListTransactionsByAccount lists transactions touching an account,
// newest first.
func (uc *ExpenseUseCase) ListTransactionsByAccount(ctx context.Context, input ListTransactionsByAccountInput) ([]*domain.Transaction, error) {
	limit, offset, err := domain.ValidatePagination(input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}

	return uc.txRepo.ListByAccount(ctx, input.AccountID, limit, offset)
}

// persist writes the transaction, its entries and the outbox event in
// one database transaction. The retrier re-runs the whole unit on
// transient failures, so a retry never commits half an expense.
func (uc *ExpenseUseCase) persist(ctx context.Context, transaction *domain.Transaction, event *domain.OutboxEvent) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	return uc.retrier.Retry(ctx, func() error {
		return uc.persistOnce(ctx, transaction, event)
	})
}

func (uc *ExpenseUseCase) persistOnce(ctx context.Context, transaction *domain.Transaction, event *domain.OutboxEvent) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := uc.txRepo.Create(ctx, tx, transaction); err != nil {
		return err
	}

	if err := uc.entryRepo.CreateBatch(ctx, tx, transaction.Entries); err != nil {
		return err
	}

	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// resolveAccounts loads the accounts for ids, preserving order and
// duplicates. Any missing id fails the whole lookup.
func (uc *ExpenseUseCase) resolveAccounts(ctx context.Context, ids []string) ([]domain.Account, error) {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	accounts, err := uc.accountRepo.GetByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(accounts) != len(unique) {
		return nil, domain.ErrAccountNotFound
	}

	byID := make(map[string]*domain.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}

	resolved := make([]domain.Account, 0, len(ids))
	for _, id := range ids {
		resolved = append(resolved, *byID[id])
	}

	return resolved, nil
}

// invalidateBalances drops cached balances for every account the
// entries touch. Cache errors are ignored: the entry is already
// committed and stale balances expire on their own.
func (uc *ExpenseUseCase) invalidateBalances(ctx context.Context, entries []domain.Entry) {
	seen := make(map[string]bool, len(entries))
	for i := range entries {
		id := entries[i].AccountID
		if seen[id] {
			continue
		}
		seen[id] = true
		_ = uc.cache.Delete(ctx, balanceCacheKey(id))
	}
}

func affectedAccountIDs(entries []domain.Entry) []string {
	seen := make(map[string]bool, len(entries))

	var ids []string
	for i := range entries {
		if !seen[entries[i].AccountID] {
			seen[entries[i].AccountID] = true
			ids = append(ids, entries[i].AccountID)
		}
	}

	return ids
}
