package db

import (
	"broker/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.Account{},
		&models.Position{},
		&models.Transaction{},
		&models.PortfolioSnapshot{},
	)
}
