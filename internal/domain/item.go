package domain

// CoinItemID is the inventory entry that carries a character's coin
// balance. Inventory snapshots passed to the shop read coins from it.
const CoinItemID = "coin"

// ItemStack is one entry of a caller-supplied inventory snapshot, or
// one line of a trade offer. The engine never mutates a snapshot; it
// only reads quantities from it.
type ItemStack struct {
	ID       string
	Name     string
	Quantity int64
}

// Inventory is a read-only snapshot of a character's holdings, supplied
// by the caller on buy/sell. The engine computes what should move; the
// caller applies the deltas to its own ledger.
type Inventory []ItemStack

// Quantity returns the held quantity of the given item, or 0.
func (inv Inventory) Quantity(itemID string) int64 {
	for _, s := range inv {
		if s.ID == itemID {
			return s.Quantity
		}
	}
	return 0
}

// Coins returns the coin balance carried by the snapshot.
func (inv Inventory) Coins() int64 {
	return inv.Quantity(CoinItemID)
}
