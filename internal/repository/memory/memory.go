// Package memory implements the ledger repository with in-memory slices.
// Used for testing and development. Not suitable for production
// (no persistence, no real transaction isolation).
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"broker/internal/models"
	"broker/internal/repository"
)

type Store struct {
	mu        sync.RWMutex
	nextID    uint64
	accounts  map[string]*models.Account
	positions []*models.Position
	txns      []models.Transaction
	snapshots []models.PortfolioSnapshot
}

func New() *Store {
	return &Store{
		nextID:   1,
		accounts: make(map[string]*models.Account),
	}
}

// Seed inserts an account directly; accounts are created out-of-band in
// production, so the repository interface has no create method.
func (s *Store) Seed(userID string, cash decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[userID] = &models.Account{
		ID:          s.allocID(),
		UserID:      userID,
		CashBalance: cash,
	}
}

func (s *Store) allocID() uint64 {
	id := s.nextID
	s.nextID++
	return id
}

// InTx runs fn against the store itself. The memory store offers no
// rollback; tests that need failure injection wrap it instead.
func (s *Store) InTx(_ context.Context, fn func(tx repository.Repository) error) error {
	return fn(s)
}

func (s *Store) GetAccount(_ context.Context, userID string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.accounts[strings.TrimSpace(userID)]
	if !ok {
		return nil, nil
	}
	cp := *acct
	return &cp, nil
}

func (s *Store) ListAccounts(_ context.Context) ([]models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]models.Account, 0, len(s.accounts))
	for _, acct := range s.accounts {
		items = append(items, *acct)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *Store) UpdateAccountCash(_ context.Context, userID string, balance decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if acct, ok := s.accounts[strings.TrimSpace(userID)]; ok {
		acct.CashBalance = balance
		acct.UpdatedAt = time.Now().UTC()
	}
	return nil
}

func (s *Store) GetPosition(_ context.Context, userID, symbol string) (*models.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, pos := range s.positions {
		if pos.UserID == strings.TrimSpace(userID) && pos.TickerSymbol == strings.TrimSpace(symbol) {
			cp := *pos
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Store) ListPositions(_ context.Context, userID string) ([]models.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []models.Position
	for _, pos := range s.positions {
		if pos.UserID == strings.TrimSpace(userID) {
			items = append(items, *pos)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *Store) UpsertPosition(_ context.Context, item *models.Position) error {
	if item == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, pos := range s.positions {
		if item.ID != 0 && pos.ID == item.ID {
			*pos = *item
			return nil
		}
		if item.ID == 0 && pos.UserID == item.UserID && pos.TickerSymbol == item.TickerSymbol {
			item.ID = pos.ID
			*pos = *item
			return nil
		}
	}
	item.ID = s.allocID()
	cp := *item
	s.positions = append(s.positions, &cp)
	return nil
}

func (s *Store) DeletePosition(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, pos := range s.positions {
		if pos.ID == id {
			s.positions = append(s.positions[:i], s.positions[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *Store) InsertTransaction(_ context.Context, item *models.Transaction) error {
	if item == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	item.ID = s.allocID()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	s.txns = append(s.txns, *item)
	return nil
}

func (s *Store) ListTransactions(_ context.Context, params repository.ListTransactionsParams) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []models.Transaction
	for i := len(s.txns) - 1; i >= 0; i-- {
		txn := s.txns[i]
		if !matchTransaction(txn, params) {
			continue
		}
		items = append(items, txn)
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil, nil
	}
	items = items[offset:]
	if params.Limit > 0 && len(items) > params.Limit {
		items = items[:params.Limit]
	}
	return items, nil
}

func (s *Store) CountTransactions(_ context.Context, params repository.ListTransactionsParams) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total int64
	for _, txn := range s.txns {
		if matchTransaction(txn, params) {
			total++
		}
	}
	return total, nil
}

func matchTransaction(txn models.Transaction, params repository.ListTransactionsParams) bool {
	if params.UserID != nil && *params.UserID != "" && txn.UserID != *params.UserID {
		return false
	}
	if params.Symbol != nil && *params.Symbol != "" && txn.TickerSymbol != *params.Symbol {
		return false
	}
	if params.Type != nil && *params.Type != "" && txn.TransactionType != strings.ToUpper(*params.Type) {
		return false
	}
	return true
}

func (s *Store) InsertPortfolioSnapshot(_ context.Context, item *models.PortfolioSnapshot) error {
	if item == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	item.ID = s.allocID()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	s.snapshots = append(s.snapshots, *item)
	return nil
}

func (s *Store) ListSnapshotsSince(_ context.Context, userID string, since time.Time) ([]models.PortfolioSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []models.PortfolioSnapshot
	for _, snap := range s.snapshots {
		if snap.UserID != strings.TrimSpace(userID) {
			continue
		}
		if !since.IsZero() && snap.CreatedAt.Before(since) {
			continue
		}
		items = append(items, snap)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}
