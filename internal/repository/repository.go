package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"broker/internal/models"
)

// ListTransactionsParams filters the append-only transaction log.
type ListTransactionsParams struct {
	Limit  int
	Offset int
	UserID *string
	Symbol *string
	Type   *string
}

// Repository is the durable ledger store behind the order, valuation and
// history engines. All order effects (balance check, debit/credit, position
// upsert or delete, transaction insert) must run inside one InTx call; the
// postgres implementation maps that onto a single database transaction and
// relies on its isolation for concurrent orders against the same account.
type Repository interface {
	InTx(ctx context.Context, fn func(tx Repository) error) error

	GetAccount(ctx context.Context, userID string) (*models.Account, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)
	UpdateAccountCash(ctx context.Context, userID string, balance decimal.Decimal) error

	GetPosition(ctx context.Context, userID, symbol string) (*models.Position, error)
	ListPositions(ctx context.Context, userID string) ([]models.Position, error)
	UpsertPosition(ctx context.Context, item *models.Position) error
	DeletePosition(ctx context.Context, id uint64) error

	InsertTransaction(ctx context.Context, item *models.Transaction) error
	ListTransactions(ctx context.Context, params ListTransactionsParams) ([]models.Transaction, error)
	CountTransactions(ctx context.Context, params ListTransactionsParams) (int64, error)

	InsertPortfolioSnapshot(ctx context.Context, item *models.PortfolioSnapshot) error
	ListSnapshotsSince(ctx context.Context, userID string, since time.Time) ([]models.PortfolioSnapshot, error)
}
