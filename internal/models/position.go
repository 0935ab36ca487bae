package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is one user's open holding in one symbol. At most one row exists
// per (user_id, ticker_symbol). AverageBuyPrice is the quantity-weighted
// cost basis per unit; it moves only on buys, never on sells. The row is
// deleted outright once quantity decays to effectively zero.
type Position struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	UserID       string `gorm:"type:varchar(100);not null;uniqueIndex:idx_positions_user_symbol;index"`
	TickerSymbol string `gorm:"type:varchar(20);not null;uniqueIndex:idx_positions_user_symbol"`

	Quantity        decimal.Decimal `gorm:"type:numeric(30,10);not null"`
	AverageBuyPrice decimal.Decimal `gorm:"type:numeric(20,10);not null"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Position) TableName() string {
	return "positions"
}
