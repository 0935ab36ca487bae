package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"broker/internal/models"
	"broker/internal/repository/memory"
)

// brokenAccountRepo fails GetAccount for one user, leaving the rest of the
// store intact.
type brokenAccountRepo struct {
	*memory.Store
	failUser string
}

func (r *brokenAccountRepo) GetAccount(ctx context.Context, userID string) (*models.Account, error) {
	if userID == r.failUser {
		return nil, errors.New("account read failed")
	}
	return r.Store.GetAccount(ctx, userID)
}

func TestRecordAll_WritesBreakdown(t *testing.T) {
	store := memory.New()
	store.Seed("u1", dec("500"))
	seedPosition(store, "u1", "AAPL", "2", "90")
	seedPosition(store, "u1", "ETH-USD", "1", "1800")

	gw := newStubGateway()
	gw.set("AAPL", 100, 0, "Apple Inc.")
	gw.set("ETH-USD", 2000, 0, "Ethereum USD")

	svc := &SnapshotService{
		Repo:      store,
		Valuation: &ValuationService{Repo: store, Quotes: gw},
	}
	if err := svc.RecordAll(context.Background()); err != nil {
		t.Fatalf("record all: %v", err)
	}

	snaps, err := store.ListSnapshotsSince(context.Background(), "u1", time.Time{})
	if err != nil {
		t.Fatalf("list snapshots: %v", err)
	}
	if len(snaps) != 1 {
		t.Fatalf("snapshots=%d want 1", len(snaps))
	}
	if !snaps[0].Value.Equal(dec("2700")) {
		t.Fatalf("value=%s want 2700", snaps[0].Value)
	}

	var bk struct {
		Stocks float64 `json:"stocks"`
		Crypto float64 `json:"crypto"`
		Cash   float64 `json:"cash"`
	}
	if err := json.Unmarshal(snaps[0].Breakdown, &bk); err != nil {
		t.Fatalf("breakdown: %v", err)
	}
	if !almostEqual(bk.Stocks, 200) || !almostEqual(bk.Crypto, 2000) || !almostEqual(bk.Cash, 500) {
		t.Fatalf("breakdown = %+v", bk)
	}
}

func TestRecordAll_IsolatesFailingUser(t *testing.T) {
	store := memory.New()
	store.Seed("bad", dec("100"))
	store.Seed("good", dec("250"))

	repo := &brokenAccountRepo{Store: store, failUser: "bad"}
	svc := &SnapshotService{
		Repo:      repo,
		Valuation: &ValuationService{Repo: repo, Quotes: newStubGateway()},
	}
	if err := svc.RecordAll(context.Background()); err != nil {
		t.Fatalf("record all: %v", err)
	}

	good, _ := store.ListSnapshotsSince(context.Background(), "good", time.Time{})
	if len(good) != 1 {
		t.Fatalf("good snapshots=%d want 1", len(good))
	}
	if !good[0].Value.Equal(dec("250")) {
		t.Fatalf("good value=%s want 250", good[0].Value)
	}
	bad, _ := store.ListSnapshotsSince(context.Background(), "bad", time.Time{})
	if len(bad) != 0 {
		t.Fatalf("bad snapshots=%d want 0", len(bad))
	}
}

func TestRecordAll_UnresolvedQuoteStillRecords(t *testing.T) {
	store := memory.New()
	store.Seed("u1", dec("300"))
	seedPosition(store, "u1", "GONE", "5", "40")

	svc := &SnapshotService{
		Repo:      store,
		Valuation: &ValuationService{Repo: store, Quotes: newStubGateway()},
	}
	if err := svc.RecordAll(context.Background()); err != nil {
		t.Fatalf("record all: %v", err)
	}

	snaps, _ := store.ListSnapshotsSince(context.Background(), "u1", time.Time{})
	if len(snaps) != 1 {
		t.Fatalf("snapshots=%d want 1", len(snaps))
	}
	if !snaps[0].Value.Equal(dec("300")) {
		t.Fatalf("value=%s want cash only 300", snaps[0].Value)
	}
}
