package domain

import "time"

// ItemType categorizes shop catalog entries.
type ItemType string

const (
	ItemTypeConsumable ItemType = "consumable"
	ItemTypeEquipment  ItemType = "equipment"
	ItemTypeCurrency   ItemType = "currency"
	ItemTypeMaterial   ItemType = "material"
)

// ShopItem is one catalog entry: fixed buy/sell prices and a stock
// count. Stock never goes negative; Unlimited marks entries (currency)
// whose stock is never consumed or checked.
type ShopItem struct {
	ItemID      string
	Name        string
	Type        ItemType
	BuyPrice    int64
	SellPrice   int64
	Stock       int64
	Unlimited   bool
	Description string
}

// TransactionType distinguishes shop purchases from sales.
type TransactionType string

const (
	TransactionTypeBuy  TransactionType = "buy"
	TransactionTypeSell TransactionType = "sell"
)

// ShopTransaction is an append-only record of one buy or sell against
// the shop catalog.
type ShopTransaction struct {
	TransactionID string
	CharacterID   string
	Type          TransactionType
	ItemID        string
	ItemName      string
	Quantity      int64
	Price         int64 // unit price at execution time
	TotalPrice    int64
	Timestamp     time.Time
}
