package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account holds the cash side of one user's ledger. Accounts are created
// out-of-band; the order engine only ever mutates CashBalance, and never
// lets a committed order take it below zero.
type Account struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`
	UserID string `gorm:"type:varchar(100);not null;uniqueIndex"`

	CashBalance decimal.Decimal `gorm:"type:numeric(30,10);not null;default:0"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Account) TableName() string {
	return "accounts"
}
