package service

import (
	"math"

	"github.com/pixelplaza/tradehall/internal/domain"
	"github.com/pixelplaza/tradehall/internal/ident"
	"github.com/pixelplaza/tradehall/internal/store"
)

// PurchaseResult is the outcome of a shop buy or sell: the recorded
// transaction and the catalog entry as it stood after execution.
type PurchaseResult struct {
	Transaction *domain.ShopTransaction
	Item        domain.ShopItem
}

// ShopStats is the shop subsystem's aggregate view.
type ShopStats struct {
	Items        int
	Transactions int
	TotalBuy     int64
	TotalSell    int64
	Profit       int64
}

// ShopService sells catalog items to characters and buys them back at
// the catalog sell price. The engine holds no inventory ledger: the
// caller supplies a read-only inventory snapshot, and applying the
// resulting delta is the caller's job.
type ShopService struct {
	store *store.ShopStore
	ids   *ident.Generator
	now   domain.Clock
	sink  EventSink
}

// NewShopService creates a ShopService. A nil clock falls back to the
// system clock; sink may be nil.
func NewShopService(shopStore *store.ShopStore, ids *ident.Generator, now domain.Clock, sink EventSink) *ShopService {
	if now == nil {
		now = domain.SystemClock
	}
	return &ShopService{store: shopStore, ids: ids, now: now, sink: sink}
}

// Seed inserts catalog entries, replacing any with the same ID.
func (s *ShopService) Seed(items []domain.ShopItem) {
	for _, item := range items {
		entry := item
		s.store.PutItem(&entry)
	}
}

// AddItem inserts or replaces a catalog entry.
func (s *ShopService) AddItem(item domain.ShopItem) (domain.ShopItem, error) {
	if item.ItemID == "" {
		return domain.ShopItem{}, &domain.ValidationError{Message: "item_id is required"}
	}
	if item.Name == "" {
		return domain.ShopItem{}, &domain.ValidationError{Message: "name is required"}
	}
	switch item.Type {
	case domain.ItemTypeConsumable, domain.ItemTypeEquipment, domain.ItemTypeCurrency, domain.ItemTypeMaterial:
	default:
		return domain.ShopItem{}, &domain.ValidationError{Message: "unknown item type"}
	}
	if item.BuyPrice < 0 || item.SellPrice < 0 {
		return domain.ShopItem{}, &domain.ValidationError{Message: "prices must be non-negative"}
	}
	if item.Stock < 0 {
		return domain.ShopItem{}, &domain.ValidationError{Message: "stock must be non-negative"}
	}

	s.store.PutItem(&item)
	return item, nil
}

// RemoveItem deletes a catalog entry.
func (s *ShopService) RemoveItem(itemID string) error {
	if !s.store.RemoveItem(itemID) {
		return domain.ErrItemNotFound
	}
	return nil
}

// UpdateStock overwrites an item's stock count.
func (s *ShopService) UpdateStock(itemID string, stock int64) (domain.ShopItem, error) {
	if stock < 0 {
		return domain.ShopItem{}, &domain.ValidationError{Message: "stock must be non-negative"}
	}
	return s.store.SetStock(itemID, stock)
}

// IncreaseStock adds quantity to an item's stock.
func (s *ShopService) IncreaseStock(itemID string, quantity int64) (domain.ShopItem, error) {
	if quantity <= 0 {
		return domain.ShopItem{}, &domain.ValidationError{Message: "quantity must be a positive integer"}
	}
	return s.store.IncreaseStock(itemID, quantity)
}

// DecreaseStock subtracts quantity from an item's stock.
func (s *ShopService) DecreaseStock(itemID string, quantity int64) (domain.ShopItem, error) {
	if quantity <= 0 {
		return domain.ShopItem{}, &domain.ValidationError{Message: "quantity must be a positive integer"}
	}
	return s.store.DecreaseStock(itemID, quantity)
}

// Item returns one catalog entry.
func (s *ShopService) Item(itemID string) (domain.ShopItem, error) {
	return s.store.Item(itemID)
}

// List returns the full catalog.
func (s *ShopService) List() []domain.ShopItem {
	return s.store.List()
}

// Buy sells quantity units of an item to a character. Checks run in
// catalog, stock, coins order against the supplied inventory snapshot;
// the stock decrement inside the store is the authoritative check, so
// concurrent buyers cannot oversell a limited item.
func (s *ShopService) Buy(characterID, itemID string, quantity int64, inv domain.Inventory) (*PurchaseResult, error) {
	if characterID == "" {
		return nil, &domain.ValidationError{Message: "character_id is required"}
	}
	if quantity <= 0 {
		return nil, &domain.ValidationError{Message: "quantity must be a positive integer"}
	}

	item, err := s.store.Item(itemID)
	if err != nil {
		return nil, err
	}
	if !item.Unlimited && item.Stock < quantity {
		return nil, domain.ErrInsufficientStock
	}

	// The true total would overflow int64, so no coin balance can cover it.
	if item.BuyPrice > 0 && quantity > math.MaxInt64/item.BuyPrice {
		return nil, domain.ErrInsufficientCoins
	}
	total := item.BuyPrice * quantity
	if inv.Coins() < total {
		return nil, domain.ErrInsufficientCoins
	}

	item, err = s.store.DecreaseStock(itemID, quantity)
	if err != nil {
		return nil, err
	}

	tx := &domain.ShopTransaction{
		TransactionID: s.ids.ShopTransactionID(),
		CharacterID:   characterID,
		Type:          domain.TransactionTypeBuy,
		ItemID:        item.ItemID,
		ItemName:      item.Name,
		Quantity:      quantity,
		Price:         item.BuyPrice,
		TotalPrice:    total,
		Timestamp:     s.now(),
	}
	s.store.AppendTransaction(tx)

	publish(s.sink, domain.Event{
		Type:         domain.EventShopTransaction,
		At:           tx.Timestamp,
		CharacterIDs: []string{characterID},
		Payload:      tx,
	})

	return &PurchaseResult{Transaction: tx, Item: item}, nil
}

// Sell buys quantity units back from a character at the catalog sell
// price. The character must hold enough of the item per the supplied
// inventory snapshot; sold stock returns to the catalog.
func (s *ShopService) Sell(characterID, itemID string, quantity int64, inv domain.Inventory) (*PurchaseResult, error) {
	if characterID == "" {
		return nil, &domain.ValidationError{Message: "character_id is required"}
	}
	if quantity <= 0 {
		return nil, &domain.ValidationError{Message: "quantity must be a positive integer"}
	}

	item, err := s.store.Item(itemID)
	if err != nil {
		return nil, err
	}
	if inv.Quantity(itemID) < quantity {
		return nil, domain.ErrInsufficientItems
	}
	if item.SellPrice > 0 && quantity > math.MaxInt64/item.SellPrice {
		return nil, &domain.ValidationError{Message: "quantity is too large"}
	}

	item, err = s.store.IncreaseStock(itemID, quantity)
	if err != nil {
		return nil, err
	}

	tx := &domain.ShopTransaction{
		TransactionID: s.ids.ShopTransactionID(),
		CharacterID:   characterID,
		Type:          domain.TransactionTypeSell,
		ItemID:        item.ItemID,
		ItemName:      item.Name,
		Quantity:      quantity,
		Price:         item.SellPrice,
		TotalPrice:    item.SellPrice * quantity,
		Timestamp:     s.now(),
	}
	s.store.AppendTransaction(tx)

	publish(s.sink, domain.Event{
		Type:         domain.EventShopTransaction,
		At:           tx.Timestamp,
		CharacterIDs: []string{characterID},
		Payload:      tx,
	})

	return &PurchaseResult{Transaction: tx, Item: item}, nil
}

// Transactions returns a character's shop transactions, newest first.
// limit <= 0 applies DefaultHistoryQueryLimit.
func (s *ShopService) Transactions(characterID string, limit int) []*domain.ShopTransaction {
	if limit <= 0 {
		limit = DefaultHistoryQueryLimit
	}
	return s.store.TransactionsByCharacter(characterID, limit)
}

// Stats returns the subsystem's aggregate counters. Profit is what the
// shop took in from buys minus what it paid out on sells.
func (s *ShopService) Stats() ShopStats {
	items, transactions, totalBuy, totalSell := s.store.Totals()
	return ShopStats{
		Items:        items,
		Transactions: transactions,
		TotalBuy:     totalBuy,
		TotalSell:    totalSell,
		Profit:       totalBuy - totalSell,
	}
}
