package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/splitledger/splitledger/internal/domain"
	"github.com/splitledger/splitledger/internal/usecase"
	"github.com/splitledger/splitledger/internal/usecase/mocks"
)

func TestAccountUseCase_CreateAccount(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.CreateAccountInput
		setupMocks  func(*mocks.MockAccountRepository, *mocks.MockIDGenerator, *mocks.MockMetricsRecorder)
		wantName    string
		expectedErr error
	}{
		{
			name: "successful account creation",
			input: usecase.CreateAccountInput{
				Name: "Alice",
				Type: domain.AccountTypeAsset,
			},
			setupMocks: func(repo *mocks.MockAccountRepository, idGen *mocks.MockIDGenerator, metrics *mocks.MockMetricsRecorder) {
				idGen.EXPECT().Generate().Return("acc-1")
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
				metrics.EXPECT().AccountCreated()
			},
			wantName: "Alice",
		},
		{
			name: "surrounding whitespace stripped from stored name",
			input: usecase.CreateAccountInput{
				Name: "  Alice  ",
				Type: domain.AccountTypeAsset,
			},
			setupMocks: func(repo *mocks.MockAccountRepository, idGen *mocks.MockIDGenerator, metrics *mocks.MockMetricsRecorder) {
				idGen.EXPECT().Generate().Return("acc-1")
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
				metrics.EXPECT().AccountCreated()
			},
			wantName: "Alice",
		},
		{
			name: "blank name rejected",
			input: usecase.CreateAccountInput{
				Name: "   ",
				Type: domain.AccountTypeAsset,
			},
			setupMocks: func(repo *mocks.MockAccountRepository, idGen *mocks.MockIDGenerator, metrics *mocks.MockMetricsRecorder) {
				idGen.EXPECT().Generate().Return("acc-1")
			},
			expectedErr: domain.ErrInvalidAccountName,
		},
		{
			name: "overlong name rejected",
			input: usecase.CreateAccountInput{
				Name: strings.Repeat("a", domain.MaxAccountNameLength+1),
				Type: domain.AccountTypeAsset,
			},
			setupMocks: func(repo *mocks.MockAccountRepository, idGen *mocks.MockIDGenerator, metrics *mocks.MockMetricsRecorder) {
				idGen.EXPECT().Generate().Return("acc-1")
			},
			expectedErr: domain.ErrInvalidAccountName,
		},
		{
			name: "unknown type rejected",
			input: usecase.CreateAccountInput{
				Name: "Alice",
				Type: domain.AccountType("piggybank"),
			},
			setupMocks: func(repo *mocks.MockAccountRepository, idGen *mocks.MockIDGenerator, metrics *mocks.MockMetricsRecorder) {
				idGen.EXPECT().Generate().Return("acc-1")
			},
			expectedErr: domain.ErrInvalidAccountType,
		},
		{
			name: "repository error surfaces",
			input: usecase.CreateAccountInput{
				Name: "Alice",
				Type: domain.AccountTypeExpense,
			},
			setupMocks: func(repo *mocks.MockAccountRepository, idGen *mocks.MockIDGenerator, metrics *mocks.MockMetricsRecorder) {
				idGen.EXPECT().Generate().Return("acc-1")
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("insert failed"))
			},
			expectedErr: errors.New("insert failed"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockAccountRepository(ctrl)
			idGen := mocks.NewMockIDGenerator(ctrl)
			metrics := mocks.NewMockMetricsRecorder(ctrl)
			tt.setupMocks(repo, idGen, metrics)

			uc := usecase.NewAccountUseCase(repo, idGen, metrics)
			account, err := uc.CreateAccount(context.Background(), tt.input)

			if tt.expectedErr != nil {
				if err == nil {
					t.Fatalf("expected error %v, got nil", tt.expectedErr)
				}
				if !errors.Is(err, tt.expectedErr) && err.Error() != tt.expectedErr.Error() {
					t.Fatalf("expected error %v, got %v", tt.expectedErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if account.ID != "acc-1" {
				t.Fatalf("expected generated id, got %q", account.ID)
			}
			if account.Name != tt.wantName || account.Type != tt.input.Type {
				t.Fatalf("account fields not carried over: %+v", account)
			}
			if account.CreatedAt.IsZero() {
				t.Fatal("expected CreatedAt to be set")
			}
		})
	}
}

func TestAccountUseCase_GetAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockAccountRepository(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)
	metrics := mocks.NewMockMetricsRecorder(ctrl)

	want := &domain.Account{ID: "acc-1", Name: "Alice", Type: domain.AccountTypeAsset}
	repo.EXPECT().GetByID(gomock.Any(), "acc-1").Return(want, nil)
	repo.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, domain.ErrAccountNotFound)

	uc := usecase.NewAccountUseCase(repo, idGen, metrics)

	got, err := uc.GetAccount(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != want.ID {
		t.Fatalf("expected %q, got %q", want.ID, got.ID)
	}

	if _, err := uc.GetAccount(context.Background(), "missing"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountUseCase_ListAccounts(t *testing.T) {
	tests := []struct {
		name       string
		input      usecase.ListAccountsInput
		wantLimit  int
		wantOffset int
	}{
		{name: "defaults", input: usecase.ListAccountsInput{}, wantLimit: 50, wantOffset: 0},
		{name: "cap applied", input: usecase.ListAccountsInput{Limit: 5000, Offset: 10}, wantLimit: 1000, wantOffset: 10},
		{name: "passthrough", input: usecase.ListAccountsInput{Limit: 10, Offset: 30}, wantLimit: 10, wantOffset: 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockAccountRepository(ctrl)
			idGen := mocks.NewMockIDGenerator(ctrl)
			metrics := mocks.NewMockMetricsRecorder(ctrl)

			repo.EXPECT().
				List(gomock.Any(), tt.wantLimit, tt.wantOffset).
				Return([]*domain.Account{{ID: "acc-1"}}, nil)

			uc := usecase.NewAccountUseCase(repo, idGen, metrics)
			accounts, err := uc.ListAccounts(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(accounts) != 1 {
				t.Fatalf("expected one account, got %d", len(accounts))
			}
		})
	}
}
