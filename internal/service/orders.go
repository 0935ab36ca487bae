package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"broker/internal/models"
	"broker/internal/repository"
)

// PositionCloseEpsilon is the quantity at or below which a remainder after
// a sell is treated as a full close and the position row deleted.
var PositionCloseEpsilon = decimal.New(1, -8)

// OrderService applies buy and sell orders to an account's cash and
// position. The fill price is the gateway quote at execution time; it is
// resolved before the store transaction opens so the network call never
// extends the transaction's lifetime, and all ledger effects of one order
// commit atomically or not at all.
type OrderService struct {
	Repo   repository.Repository
	Quotes QuoteGateway
	Logger *zap.Logger
}

// NormalizeTicker canonicalizes user-supplied ticker input.
func NormalizeTicker(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func (s *OrderService) ExecuteBuy(ctx context.Context, userID, symbol string, quantity decimal.Decimal) (*models.Transaction, error) {
	if !quantity.IsPositive() {
		return nil, ErrInvalidQuantity
	}
	symbol = NormalizeTicker(symbol)

	quote, err := s.Quotes.Quote(ctx, symbol)
	if err != nil || quote == nil {
		if s.Logger != nil {
			s.Logger.Warn("buy quote lookup failed", zap.String("symbol", symbol), zap.Error(err))
		}
		return nil, ErrQuoteUnavailable
	}
	price := decimal.NewFromFloat(quote.Price)
	totalCost := price.Mul(quantity)

	txn := &models.Transaction{
		Reference:       uuid.NewString(),
		UserID:          userID,
		TickerSymbol:    symbol,
		TransactionType: models.TransactionBuy,
		Quantity:        quantity,
		PricePerShare:   price,
	}

	err = s.Repo.InTx(ctx, func(tx repository.Repository) error {
		acct, err := tx.GetAccount(ctx, userID)
		if err != nil {
			return err
		}
		if acct == nil {
			return ErrUserNotFound
		}
		if acct.CashBalance.LessThan(totalCost) {
			return ErrInsufficientFunds
		}
		if err := tx.UpdateAccountCash(ctx, userID, acct.CashBalance.Sub(totalCost)); err != nil {
			return err
		}

		pos, err := tx.GetPosition(ctx, userID, symbol)
		if err != nil {
			return err
		}
		if pos != nil {
			newQty := pos.Quantity.Add(quantity)
			pos.AverageBuyPrice = pos.AverageBuyPrice.Mul(pos.Quantity).
				Add(price.Mul(quantity)).
				Div(newQty)
			pos.Quantity = newQty
		} else {
			pos = &models.Position{
				UserID:          userID,
				TickerSymbol:    symbol,
				Quantity:        quantity,
				AverageBuyPrice: price,
			}
		}
		if err := tx.UpsertPosition(ctx, pos); err != nil {
			return err
		}

		return tx.InsertTransaction(ctx, txn)
	})
	if err != nil {
		return nil, err
	}

	if s.Logger != nil {
		s.Logger.Info("buy executed",
			zap.String("user_id", userID),
			zap.String("symbol", symbol),
			zap.String("quantity", quantity.String()),
			zap.String("price", price.String()),
		)
	}
	return txn, nil
}

func (s *OrderService) ExecuteSell(ctx context.Context, userID, symbol string, quantity decimal.Decimal) (*models.Transaction, error) {
	if !quantity.IsPositive() {
		return nil, ErrInvalidQuantity
	}
	symbol = NormalizeTicker(symbol)

	// Holdings are checked before the quote is fetched; an order that
	// cannot fill must not spend a network call.
	pos, err := s.Repo.GetPosition(ctx, userID, symbol)
	if err != nil {
		return nil, err
	}
	if pos == nil || pos.Quantity.LessThan(quantity) {
		return nil, ErrInsufficientShares
	}

	quote, err := s.Quotes.Quote(ctx, symbol)
	if err != nil || quote == nil {
		if s.Logger != nil {
			s.Logger.Warn("sell quote lookup failed", zap.String("symbol", symbol), zap.Error(err))
		}
		return nil, ErrQuoteUnavailable
	}
	price := decimal.NewFromFloat(quote.Price)
	revenue := price.Mul(quantity)

	txn := &models.Transaction{
		Reference:       uuid.NewString(),
		UserID:          userID,
		TickerSymbol:    symbol,
		TransactionType: models.TransactionSell,
		Quantity:        quantity,
		PricePerShare:   price,
	}

	err = s.Repo.InTx(ctx, func(tx repository.Repository) error {
		pos, err := tx.GetPosition(ctx, userID, symbol)
		if err != nil {
			return err
		}
		if pos == nil || pos.Quantity.LessThan(quantity) {
			return ErrInsufficientShares
		}
		acct, err := tx.GetAccount(ctx, userID)
		if err != nil {
			return err
		}
		if acct == nil {
			return ErrUserNotFound
		}
		if err := tx.UpdateAccountCash(ctx, userID, acct.CashBalance.Add(revenue)); err != nil {
			return err
		}

		remaining := pos.Quantity.Sub(quantity)
		if remaining.LessThanOrEqual(PositionCloseEpsilon) {
			if err := tx.DeletePosition(ctx, pos.ID); err != nil {
				return err
			}
		} else {
			// Sells reduce quantity only; the cost basis never moves.
			pos.Quantity = remaining
			if err := tx.UpsertPosition(ctx, pos); err != nil {
				return err
			}
		}

		return tx.InsertTransaction(ctx, txn)
	})
	if err != nil {
		return nil, err
	}

	if s.Logger != nil {
		s.Logger.Info("sell executed",
			zap.String("user_id", userID),
			zap.String("symbol", symbol),
			zap.String("quantity", quantity.String()),
			zap.String("price", price.String()),
		)
	}
	return txn, nil
}
