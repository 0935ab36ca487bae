package service

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"broker/internal/repository"
)

// PositionView is one valued holding in a portfolio read.
type PositionView struct {
	Ticker           string  `json:"ticker"`
	Name             string  `json:"name"`
	Quantity         float64 `json:"quantity"`
	AverageBuyPrice  float64 `json:"average_buy_price"`
	CurrentPrice     float64 `json:"current_price"`
	CurrentValue     float64 `json:"current_value"`
	UnrealizedPnL    float64 `json:"unrealized_pnl"`
	UnrealizedPnLPct float64 `json:"unrealized_pnl_pct"`
	DayChangePct     float64 `json:"day_change_pct"`
	AssetClass       string  `json:"asset_class"`
}

// PortfolioView is the full valuation payload for one user.
type PortfolioView struct {
	UserID              string         `json:"user_id"`
	CashBalance         float64        `json:"cash_balance"`
	TotalAssetValue     float64        `json:"total_asset_value"`
	TotalValueStocks    float64        `json:"total_value_stocks"`
	TotalValueCrypto    float64        `json:"total_value_crypto"`
	TotalPortfolioValue float64        `json:"total_portfolio_value"`
	OverallPnLPct       float64        `json:"overall_pnl_pct"`
	Positions           []PositionView `json:"positions"`
}

// SnapshotValuation is the reduced result used by the periodic recorder.
type SnapshotValuation struct {
	Total  decimal.Decimal
	Stocks decimal.Decimal
	Crypto decimal.Decimal
	Cash   decimal.Decimal
}

// ValuationService prices a user's holdings with live quotes. A failed
// quote never fails the request: the position degrades to a zero price,
// zero change and the ticker as its display name, so the payload is always
// complete.
type ValuationService struct {
	Repo   repository.Repository
	Quotes QuoteGateway
	Logger *zap.Logger
}

func (s *ValuationService) Portfolio(ctx context.Context, userID string) (*PortfolioView, error) {
	acct, err := s.Repo.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, ErrUserNotFound
	}

	positions, err := s.Repo.ListPositions(ctx, userID)
	if err != nil {
		return nil, err
	}

	totalStocks := decimal.Zero
	totalCrypto := decimal.Zero
	totalCost := decimal.Zero
	views := make([]PositionView, 0, len(positions))

	for _, pos := range positions {
		cost := pos.AverageBuyPrice.Mul(pos.Quantity)
		totalCost = totalCost.Add(cost)

		currentPrice := decimal.Zero
		dayChangePct := 0.0
		name := pos.TickerSymbol
		quote, err := s.Quotes.Quote(ctx, pos.TickerSymbol)
		if err != nil || quote == nil {
			if s.Logger != nil {
				s.Logger.Warn("quote degraded to zero",
					zap.String("symbol", pos.TickerSymbol),
					zap.Error(err),
				)
			}
		} else {
			currentPrice = decimal.NewFromFloat(quote.Price)
			dayChangePct = quote.ChangePct
			name = quote.Name
		}

		value := currentPrice.Mul(pos.Quantity)
		pnl := currentPrice.Sub(pos.AverageBuyPrice).Mul(pos.Quantity)
		pnlPct := decimal.Zero
		if cost.IsPositive() {
			pnlPct = pnl.Div(cost)
		}

		class := ClassifyAsset(pos.TickerSymbol)
		if class == AssetCrypto {
			totalCrypto = totalCrypto.Add(value)
		} else {
			totalStocks = totalStocks.Add(value)
		}

		views = append(views, PositionView{
			Ticker:           pos.TickerSymbol,
			Name:             name,
			Quantity:         pos.Quantity.InexactFloat64(),
			AverageBuyPrice:  pos.AverageBuyPrice.InexactFloat64(),
			CurrentPrice:     currentPrice.InexactFloat64(),
			CurrentValue:     value.InexactFloat64(),
			UnrealizedPnL:    pnl.InexactFloat64(),
			UnrealizedPnLPct: pnlPct.InexactFloat64(),
			DayChangePct:     dayChangePct,
			AssetClass:       string(class),
		})
	}

	totalAssets := totalStocks.Add(totalCrypto)
	overallPct := decimal.Zero
	if totalCost.IsPositive() {
		overallPct = totalAssets.Sub(totalCost).Div(totalCost)
	}

	return &PortfolioView{
		UserID:              userID,
		CashBalance:         acct.CashBalance.InexactFloat64(),
		TotalAssetValue:     totalAssets.InexactFloat64(),
		TotalValueStocks:    totalStocks.InexactFloat64(),
		TotalValueCrypto:    totalCrypto.InexactFloat64(),
		TotalPortfolioValue: totalAssets.Add(acct.CashBalance).InexactFloat64(),
		OverallPnLPct:       overallPct.InexactFloat64(),
		Positions:           views,
	}, nil
}

// SnapshotValue computes only the totals the recorder persists. Positions
// whose quote cannot be resolved contribute zero, logged but not fatal.
func (s *ValuationService) SnapshotValue(ctx context.Context, userID string) (*SnapshotValuation, error) {
	acct, err := s.Repo.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, ErrUserNotFound
	}
	positions, err := s.Repo.ListPositions(ctx, userID)
	if err != nil {
		return nil, err
	}

	stocks := decimal.Zero
	crypto := decimal.Zero
	for _, pos := range positions {
		quote, err := s.Quotes.Quote(ctx, pos.TickerSymbol)
		if err != nil || quote == nil {
			if s.Logger != nil {
				s.Logger.Warn("snapshot quote skipped",
					zap.String("user_id", userID),
					zap.String("symbol", pos.TickerSymbol),
					zap.Error(err),
				)
			}
			continue
		}
		value := decimal.NewFromFloat(quote.Price).Mul(pos.Quantity)
		if ClassifyAsset(pos.TickerSymbol) == AssetCrypto {
			crypto = crypto.Add(value)
		} else {
			stocks = stocks.Add(value)
		}
	}

	return &SnapshotValuation{
		Total:  stocks.Add(crypto).Add(acct.CashBalance),
		Stocks: stocks,
		Crypto: crypto,
		Cash:   acct.CashBalance,
	}, nil
}
