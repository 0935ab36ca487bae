package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionBuy  = "BUY"
	TransactionSell = "SELL"
)

// Transaction is one committed fill in the append-only audit log. Rows are
// never updated or deleted. PricePerShare is the quote price at execution
// time, authoritative as-is.
type Transaction struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	Reference string `gorm:"type:varchar(40);not null;uniqueIndex"`

	UserID       string `gorm:"type:varchar(100);not null;index"`
	TickerSymbol string `gorm:"type:varchar(20);not null;index"`

	TransactionType string `gorm:"type:varchar(10);not null"`

	Quantity      decimal.Decimal `gorm:"type:numeric(30,10);not null"`
	PricePerShare decimal.Decimal `gorm:"type:numeric(20,10);not null"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
}

func (Transaction) TableName() string {
	return "transactions"
}
