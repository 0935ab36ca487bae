package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PortfolioSnapshot is one recorded point of a user's total portfolio value,
// appended by the periodic recorder. Breakdown carries the stocks/crypto/cash
// split at snapshot time as JSON.
type PortfolioSnapshot struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`
	UserID string `gorm:"type:varchar(100);not null;index:idx_snapshots_user_created"`

	Value     decimal.Decimal `gorm:"type:numeric(30,10);not null"`
	Breakdown datatypes.JSON  `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index:idx_snapshots_user_created"`
}

func (PortfolioSnapshot) TableName() string {
	return "portfolio_snapshots"
}
