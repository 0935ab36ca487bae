package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"broker/internal/models"
	"broker/internal/repository"
)

// SnapshotService records one portfolio-value row per account per run.
// Accounts are processed sequentially and failures are isolated per user:
// one user's broken valuation never blocks the rest.
type SnapshotService struct {
	Repo      repository.Repository
	Valuation *ValuationService
	Logger    *zap.Logger
}

type snapshotBreakdown struct {
	Stocks float64 `json:"stocks"`
	Crypto float64 `json:"crypto"`
	Cash   float64 `json:"cash"`
}

func (s *SnapshotService) RecordAll(ctx context.Context) error {
	accounts, err := s.Repo.ListAccounts(ctx)
	if err != nil {
		return err
	}

	recorded := 0
	for _, acct := range accounts {
		if err := s.recordOne(ctx, acct.UserID); err != nil {
			if s.Logger != nil {
				s.Logger.Warn("snapshot failed for user",
					zap.String("user_id", acct.UserID),
					zap.Error(err),
				)
			}
			continue
		}
		recorded++
	}

	if s.Logger != nil {
		s.Logger.Info("portfolio snapshots recorded",
			zap.Int("accounts", len(accounts)),
			zap.Int("recorded", recorded),
		)
	}
	return nil
}

func (s *SnapshotService) recordOne(ctx context.Context, userID string) error {
	val, err := s.Valuation.SnapshotValue(ctx, userID)
	if err != nil {
		return err
	}
	breakdown, err := json.Marshal(snapshotBreakdown{
		Stocks: val.Stocks.InexactFloat64(),
		Crypto: val.Crypto.InexactFloat64(),
		Cash:   val.Cash.InexactFloat64(),
	})
	if err != nil {
		return err
	}
	return s.Repo.InsertPortfolioSnapshot(ctx, &models.PortfolioSnapshot{
		UserID:    userID,
		Value:     val.Total,
		Breakdown: breakdown,
	})
}
