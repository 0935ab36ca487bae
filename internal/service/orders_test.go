package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"broker/internal/repository"
	"broker/internal/repository/memory"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newOrderService(cash string) (*OrderService, *memory.Store, *stubGateway) {
	store := memory.New()
	store.Seed("u1", dec(cash))
	gw := newStubGateway()
	return &OrderService{Repo: store, Quotes: gw}, store, gw
}

func TestExecuteBuy_DebitsCashAndOpensPosition(t *testing.T) {
	svc, store, gw := newOrderService("10000")
	gw.set("XYZ", 100, 0, "Xyz Corp")

	txn, err := svc.ExecuteBuy(context.Background(), "u1", "xyz ", dec("10"))
	if err != nil {
		t.Fatalf("buy failed: %v", err)
	}
	if txn.TickerSymbol != "XYZ" || txn.TransactionType != "BUY" {
		t.Fatalf("txn = %+v", txn)
	}
	if txn.Reference == "" {
		t.Fatalf("expected a transaction reference")
	}

	acct, _ := store.GetAccount(context.Background(), "u1")
	if acct.CashBalance.Cmp(dec("9000")) != 0 {
		t.Fatalf("cash=%s want 9000", acct.CashBalance)
	}
	pos, _ := store.GetPosition(context.Background(), "u1", "XYZ")
	if pos == nil {
		t.Fatalf("position missing")
	}
	if pos.Quantity.Cmp(dec("10")) != 0 || pos.AverageBuyPrice.Cmp(dec("100")) != 0 {
		t.Fatalf("position = qty %s avg %s", pos.Quantity, pos.AverageBuyPrice)
	}
}

func TestExecuteBuy_WeightedAverageCostBasis(t *testing.T) {
	svc, store, gw := newOrderService("10000")
	gw.set("XYZ", 100, 0, "Xyz Corp")
	if _, err := svc.ExecuteBuy(context.Background(), "u1", "XYZ", dec("10")); err != nil {
		t.Fatalf("first buy: %v", err)
	}
	gw.set("XYZ", 120, 0, "Xyz Corp")
	if _, err := svc.ExecuteBuy(context.Background(), "u1", "XYZ", dec("5")); err != nil {
		t.Fatalf("second buy: %v", err)
	}

	pos, _ := store.GetPosition(context.Background(), "u1", "XYZ")
	// (10*100 + 5*120) / 15
	want := dec("1600").Div(dec("15"))
	if pos.Quantity.Cmp(dec("15")) != 0 {
		t.Fatalf("qty=%s want 15", pos.Quantity)
	}
	if pos.AverageBuyPrice.Cmp(want) != 0 {
		t.Fatalf("avg=%s want %s", pos.AverageBuyPrice, want)
	}
}

func TestExecuteBuy_InsufficientFunds(t *testing.T) {
	svc, store, gw := newOrderService("500")
	gw.set("XYZ", 100, 0, "Xyz Corp")

	_, err := svc.ExecuteBuy(context.Background(), "u1", "XYZ", dec("10"))
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err=%v want ErrInsufficientFunds", err)
	}
	acct, _ := store.GetAccount(context.Background(), "u1")
	if acct.CashBalance.Cmp(dec("500")) != 0 {
		t.Fatalf("cash mutated on rejected buy: %s", acct.CashBalance)
	}
	if pos, _ := store.GetPosition(context.Background(), "u1", "XYZ"); pos != nil {
		t.Fatalf("position created on rejected buy")
	}
}

func TestExecuteBuy_InvalidQuantity(t *testing.T) {
	svc, _, gw := newOrderService("10000")
	gw.set("XYZ", 100, 0, "Xyz Corp")
	for _, qty := range []string{"0", "-3"} {
		if _, err := svc.ExecuteBuy(context.Background(), "u1", "XYZ", dec(qty)); !errors.Is(err, ErrInvalidQuantity) {
			t.Fatalf("qty %s: err=%v want ErrInvalidQuantity", qty, err)
		}
	}
	if gw.calls["XYZ"] != 0 {
		t.Fatalf("quote fetched for invalid order")
	}
}

func TestExecuteBuy_QuoteUnavailable(t *testing.T) {
	svc, _, _ := newOrderService("10000")
	if _, err := svc.ExecuteBuy(context.Background(), "u1", "NOPE", dec("1")); !errors.Is(err, ErrQuoteUnavailable) {
		t.Fatalf("err=%v want ErrQuoteUnavailable", err)
	}
}

func TestExecuteBuy_UnknownUser(t *testing.T) {
	svc, _, gw := newOrderService("10000")
	gw.set("XYZ", 100, 0, "Xyz Corp")
	if _, err := svc.ExecuteBuy(context.Background(), "ghost", "XYZ", dec("1")); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err=%v want ErrUserNotFound", err)
	}
}

func TestExecuteSell_RejectsOversell(t *testing.T) {
	svc, store, gw := newOrderService("10000")
	gw.set("XYZ", 100, 0, "Xyz Corp")
	if _, err := svc.ExecuteBuy(context.Background(), "u1", "XYZ", dec("10")); err != nil {
		t.Fatalf("buy: %v", err)
	}
	quoteCalls := gw.calls["XYZ"]

	_, err := svc.ExecuteSell(context.Background(), "u1", "XYZ", dec("11"))
	if !errors.Is(err, ErrInsufficientShares) {
		t.Fatalf("err=%v want ErrInsufficientShares", err)
	}
	if gw.calls["XYZ"] != quoteCalls {
		t.Fatalf("oversell spent a quote call")
	}
	acct, _ := store.GetAccount(context.Background(), "u1")
	if acct.CashBalance.Cmp(dec("9000")) != 0 {
		t.Fatalf("cash mutated on rejected sell: %s", acct.CashBalance)
	}
	pos, _ := store.GetPosition(context.Background(), "u1", "XYZ")
	if pos.Quantity.Cmp(dec("10")) != 0 {
		t.Fatalf("position mutated on rejected sell: %s", pos.Quantity)
	}
}

func TestExecuteSell_UnknownPosition(t *testing.T) {
	svc, _, _ := newOrderService("10000")
	if _, err := svc.ExecuteSell(context.Background(), "u1", "XYZ", dec("1")); !errors.Is(err, ErrInsufficientShares) {
		t.Fatalf("err=%v want ErrInsufficientShares", err)
	}
}

func TestExecuteSell_PartialKeepsCostBasis(t *testing.T) {
	svc, store, gw := newOrderService("10000")
	gw.set("XYZ", 100, 0, "Xyz Corp")
	if _, err := svc.ExecuteBuy(context.Background(), "u1", "XYZ", dec("10")); err != nil {
		t.Fatalf("buy: %v", err)
	}
	gw.set("XYZ", 150, 0, "Xyz Corp")
	if _, err := svc.ExecuteSell(context.Background(), "u1", "XYZ", dec("4")); err != nil {
		t.Fatalf("sell: %v", err)
	}

	acct, _ := store.GetAccount(context.Background(), "u1")
	if acct.CashBalance.Cmp(dec("9600")) != 0 {
		t.Fatalf("cash=%s want 9600", acct.CashBalance)
	}
	pos, _ := store.GetPosition(context.Background(), "u1", "XYZ")
	if pos.Quantity.Cmp(dec("6")) != 0 {
		t.Fatalf("qty=%s want 6", pos.Quantity)
	}
	if pos.AverageBuyPrice.Cmp(dec("100")) != 0 {
		t.Fatalf("avg moved on sell: %s", pos.AverageBuyPrice)
	}
}

func TestExecuteSell_FullCloseDeletesPosition(t *testing.T) {
	svc, store, gw := newOrderService("10000")
	gw.set("XYZ", 100, 0, "Xyz Corp")
	if _, err := svc.ExecuteBuy(context.Background(), "u1", "XYZ", dec("10")); err != nil {
		t.Fatalf("buy: %v", err)
	}
	gw.set("XYZ", 150, 0, "Xyz Corp")
	if _, err := svc.ExecuteSell(context.Background(), "u1", "XYZ", dec("10")); err != nil {
		t.Fatalf("sell: %v", err)
	}
	if pos, _ := store.GetPosition(context.Background(), "u1", "XYZ"); pos != nil {
		t.Fatalf("position not deleted on full close: %+v", pos)
	}
}

func TestExecuteSell_EpsilonResidualDeletesPosition(t *testing.T) {
	svc, store, gw := newOrderService("10000")
	gw.set("XYZ", 10, 0, "Xyz Corp")
	if _, err := svc.ExecuteBuy(context.Background(), "u1", "XYZ", dec("1")); err != nil {
		t.Fatalf("buy: %v", err)
	}
	// Sell everything but a residual below the closure tolerance.
	if _, err := svc.ExecuteSell(context.Background(), "u1", "XYZ", dec("0.999999999")); err != nil {
		t.Fatalf("sell: %v", err)
	}
	if pos, _ := store.GetPosition(context.Background(), "u1", "XYZ"); pos != nil {
		t.Fatalf("near-zero residual position not deleted: qty=%s", pos.Quantity)
	}
}

func TestExecuteSell_QuoteUnavailableAfterQuantityCheck(t *testing.T) {
	svc, store, gw := newOrderService("10000")
	gw.set("XYZ", 100, 0, "Xyz Corp")
	if _, err := svc.ExecuteBuy(context.Background(), "u1", "XYZ", dec("10")); err != nil {
		t.Fatalf("buy: %v", err)
	}
	delete(gw.quotes, "XYZ")

	_, err := svc.ExecuteSell(context.Background(), "u1", "XYZ", dec("5"))
	if !errors.Is(err, ErrQuoteUnavailable) {
		t.Fatalf("err=%v want ErrQuoteUnavailable", err)
	}
	pos, _ := store.GetPosition(context.Background(), "u1", "XYZ")
	if pos.Quantity.Cmp(dec("10")) != 0 {
		t.Fatalf("position mutated when quote failed: %s", pos.Quantity)
	}
}

func TestOrderFlow_EndToEnd(t *testing.T) {
	svc, store, gw := newOrderService("10000")

	gw.set("XYZ", 100, 0, "Xyz Corp")
	if _, err := svc.ExecuteBuy(context.Background(), "u1", "XYZ", dec("10")); err != nil {
		t.Fatalf("buy 1: %v", err)
	}
	gw.set("XYZ", 120, 0, "Xyz Corp")
	if _, err := svc.ExecuteBuy(context.Background(), "u1", "XYZ", dec("5")); err != nil {
		t.Fatalf("buy 2: %v", err)
	}

	acct, _ := store.GetAccount(context.Background(), "u1")
	if acct.CashBalance.Cmp(dec("8400")) != 0 {
		t.Fatalf("cash after buys = %s want 8400", acct.CashBalance)
	}

	gw.set("XYZ", 150, 0, "Xyz Corp")
	if _, err := svc.ExecuteSell(context.Background(), "u1", "XYZ", dec("15")); err != nil {
		t.Fatalf("sell: %v", err)
	}

	acct, _ = store.GetAccount(context.Background(), "u1")
	if acct.CashBalance.Cmp(dec("10650")) != 0 {
		t.Fatalf("cash after close = %s want 10650", acct.CashBalance)
	}
	if pos, _ := store.GetPosition(context.Background(), "u1", "XYZ"); pos != nil {
		t.Fatalf("position survived full close")
	}

	txns, _ := store.ListTransactions(context.Background(), listAllTxns("u1"))
	if len(txns) != 3 {
		t.Fatalf("transactions = %d want 3", len(txns))
	}
}

func TestTransactionLog_ReproducesCostBasis(t *testing.T) {
	svc, store, gw := newOrderService("100000")
	buys := []struct {
		price float64
		qty   string
	}{
		{100, "10"}, {120, "5"}, {90, "20"},
	}
	for _, b := range buys {
		gw.set("XYZ", b.price, 0, "Xyz Corp")
		if _, err := svc.ExecuteBuy(context.Background(), "u1", "XYZ", dec(b.qty)); err != nil {
			t.Fatalf("buy: %v", err)
		}
	}

	txns, _ := store.ListTransactions(context.Background(), listAllTxns("u1"))
	sumCost := decimal.Zero
	sumQty := decimal.Zero
	for _, txn := range txns {
		sumCost = sumCost.Add(txn.PricePerShare.Mul(txn.Quantity))
		sumQty = sumQty.Add(txn.Quantity)
	}
	want := sumCost.Div(sumQty)

	pos, _ := store.GetPosition(context.Background(), "u1", "XYZ")
	if pos.AverageBuyPrice.Cmp(want) != 0 {
		t.Fatalf("avg=%s, history reproduces %s", pos.AverageBuyPrice, want)
	}
}

func listAllTxns(userID string) repository.ListTransactionsParams {
	return repository.ListTransactionsParams{Limit: 100, UserID: &userID}
}
