package store

import (
	"sync"

	"github.com/pixelplaza/tradehall/internal/domain"
)

// ShopStore is a thread-safe in-memory store for the shop catalog and
// transaction records. All stock arithmetic happens under the store
// lock so stock can never go negative regardless of interleaving.
type ShopStore struct {
	mu           sync.RWMutex
	catalog      map[string]*domain.ShopItem
	transactions []*domain.ShopTransaction            // chronological, all characters
	byCharacter  map[string][]*domain.ShopTransaction // character_id → bounded window
	historyMax   int
}

// NewShopStore creates an empty ShopStore with the given per-character
// transaction window.
func NewShopStore(historyMax int) *ShopStore {
	return &ShopStore{
		catalog:     make(map[string]*domain.ShopItem),
		byCharacter: make(map[string][]*domain.ShopTransaction),
		historyMax:  historyMax,
	}
}

// PutItem inserts or replaces a catalog entry.
func (s *ShopStore) PutItem(item *domain.ShopItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog[item.ItemID] = item
}

// RemoveItem deletes a catalog entry. Returns false if the item was
// not in the catalog.
func (s *ShopStore) RemoveItem(itemID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.catalog[itemID]; !ok {
		return false
	}
	delete(s.catalog, itemID)
	return true
}

// Item returns a copy of a catalog entry, or ErrItemNotFound. Copies
// keep callers from mutating stock outside the store lock.
func (s *ShopStore) Item(itemID string) (domain.ShopItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.catalog[itemID]
	if !ok {
		return domain.ShopItem{}, domain.ErrItemNotFound
	}
	return *item, nil
}

// List returns a copy of every catalog entry.
func (s *ShopStore) List() []domain.ShopItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ShopItem, 0, len(s.catalog))
	for _, item := range s.catalog {
		out = append(out, *item)
	}
	return out
}

// SetStock overwrites an item's stock count.
func (s *ShopStore) SetStock(itemID string, stock int64) (domain.ShopItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.catalog[itemID]
	if !ok {
		return domain.ShopItem{}, domain.ErrItemNotFound
	}
	item.Stock = stock
	return *item, nil
}

// IncreaseStock adds quantity to an item's stock. Unlimited items are
// a no-op beyond the existence check.
func (s *ShopStore) IncreaseStock(itemID string, quantity int64) (domain.ShopItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.catalog[itemID]
	if !ok {
		return domain.ShopItem{}, domain.ErrItemNotFound
	}
	if !item.Unlimited {
		item.Stock += quantity
	}
	return *item, nil
}

// DecreaseStock subtracts quantity from an item's stock. It returns
// ErrInsufficientStock when stock would go negative; unlimited items
// never block.
func (s *ShopStore) DecreaseStock(itemID string, quantity int64) (domain.ShopItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.catalog[itemID]
	if !ok {
		return domain.ShopItem{}, domain.ErrItemNotFound
	}
	if !item.Unlimited {
		if item.Stock < quantity {
			return domain.ShopItem{}, domain.ErrInsufficientStock
		}
		item.Stock -= quantity
	}
	return *item, nil
}

// AppendTransaction records a completed buy or sell.
func (s *ShopStore) AppendTransaction(tx *domain.ShopTransaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transactions = append(s.transactions, tx)
	s.byCharacter[tx.CharacterID] = appendBounded(s.byCharacter[tx.CharacterID], tx, s.historyMax)
}

// TransactionsByCharacter returns up to limit of a character's
// transactions, newest first.
func (s *ShopStore) TransactionsByCharacter(characterID string, limit int) []*domain.ShopTransaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newestFirst(s.byCharacter[characterID], limit)
}

// Totals returns the catalog size, the all-time transaction count, and
// the summed buy/sell value across every transaction.
func (s *ShopStore) Totals() (items, transactions int, totalBuy, totalSell int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, tx := range s.transactions {
		switch tx.Type {
		case domain.TransactionTypeBuy:
			totalBuy += tx.TotalPrice
		case domain.TransactionTypeSell:
			totalSell += tx.TotalPrice
		}
	}
	return len(s.catalog), len(s.transactions), totalBuy, totalSell
}
