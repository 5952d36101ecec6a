package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pixelplaza/tradehall/internal/domain"
	"github.com/pixelplaza/tradehall/internal/service"
)

// ShopHandler handles HTTP requests for shop endpoints.
type ShopHandler struct {
	shopSvc *service.ShopService
}

// NewShopHandler creates a new ShopHandler.
func NewShopHandler(shopSvc *service.ShopService) *ShopHandler {
	return &ShopHandler{shopSvc: shopSvc}
}

// shopItemBody is a catalog entry in request and response bodies.
type shopItemBody struct {
	ItemID      string `json:"item_id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	BuyPrice    int64  `json:"buy_price"`
	SellPrice   int64  `json:"sell_price"`
	Stock       int64  `json:"stock"`
	Unlimited   bool   `json:"unlimited"`
	Description string `json:"description,omitempty"`
}

// updateStockRequest is the JSON body for PUT /shop/items/{item_id}/stock.
type updateStockRequest struct {
	Stock int64 `json:"stock"`
}

// tradeInRequest is the JSON body for POST /shop/buy and /shop/sell.
// Inventory is the caller's read-only snapshot of the character's
// holdings; the engine validates against it but never mutates it.
type tradeInRequest struct {
	CharacterID string          `json:"character_id"`
	ItemID      string          `json:"item_id"`
	Quantity    int64           `json:"quantity"`
	Inventory   []itemStackBody `json:"inventory"`
}

// shopTransactionResponse is one shop transaction in JSON form.
type shopTransactionResponse struct {
	TransactionID string `json:"transaction_id"`
	CharacterID   string `json:"character_id"`
	Type          string `json:"type"`
	ItemID        string `json:"item_id"`
	ItemName      string `json:"item_name"`
	Quantity      int64  `json:"quantity"`
	Price         int64  `json:"price"`
	TotalPrice    int64  `json:"total_price"`
	Timestamp     string `json:"timestamp"`
}

// purchaseResponse is the JSON response for buy and sell.
type purchaseResponse struct {
	Transaction shopTransactionResponse `json:"transaction"`
	Item        shopItemBody            `json:"item"`
}

// List handles GET /shop/items.
func (h *ShopHandler) List(w http.ResponseWriter, r *http.Request) {
	items := h.shopSvc.List()
	out := make([]shopItemBody, len(items))
	for i, item := range items {
		out[i] = buildShopItemBody(item)
	}
	WriteJSON(w, http.StatusOK, map[string]any{"items": out})
}

// AddItem handles POST /shop/items.
func (h *ShopHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var body shopItemBody
	if err := ParseJSON(r, &body); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	item, err := h.shopSvc.AddItem(domain.ShopItem{
		ItemID:      body.ItemID,
		Name:        body.Name,
		Type:        domain.ItemType(body.Type),
		BuyPrice:    body.BuyPrice,
		SellPrice:   body.SellPrice,
		Stock:       body.Stock,
		Unlimited:   body.Unlimited,
		Description: body.Description,
	})
	if err != nil {
		mapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, buildShopItemBody(item))
}

// RemoveItem handles DELETE /shop/items/{item_id}.
func (h *ShopHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if err := h.shopSvc.RemoveItem(chi.URLParam(r, "item_id")); err != nil {
		mapDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetItem handles GET /shop/items/{item_id}.
func (h *ShopHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.shopSvc.Item(chi.URLParam(r, "item_id"))
	if err != nil {
		mapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, buildShopItemBody(item))
}

// UpdateStock handles PUT /shop/items/{item_id}/stock.
func (h *ShopHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	var body updateStockRequest
	if err := ParseJSON(r, &body); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	item, err := h.shopSvc.UpdateStock(chi.URLParam(r, "item_id"), body.Stock)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, buildShopItemBody(item))
}

// Buy handles POST /shop/buy.
func (h *ShopHandler) Buy(w http.ResponseWriter, r *http.Request) {
	h.tradeIn(w, r, h.shopSvc.Buy)
}

// Sell handles POST /shop/sell.
func (h *ShopHandler) Sell(w http.ResponseWriter, r *http.Request) {
	h.tradeIn(w, r, h.shopSvc.Sell)
}

func (h *ShopHandler) tradeIn(
	w http.ResponseWriter,
	r *http.Request,
	op func(string, string, int64, domain.Inventory) (*service.PurchaseResult, error),
) {
	var body tradeInRequest
	if err := ParseJSON(r, &body); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	inv := make(domain.Inventory, len(body.Inventory))
	for i, it := range body.Inventory {
		inv[i] = domain.ItemStack{ID: it.ID, Name: it.Name, Quantity: it.Quantity}
	}

	res, err := op(body.CharacterID, body.ItemID, body.Quantity, inv)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, purchaseResponse{
		Transaction: buildShopTransactionResponse(res.Transaction),
		Item:        buildShopItemBody(res.Item),
	})
}

// Transactions handles GET /characters/{character_id}/transactions.
func (h *ShopHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	characterID := chi.URLParam(r, "character_id")
	limit := parseLimit(r)

	txs := h.shopSvc.Transactions(characterID, limit)
	out := make([]shopTransactionResponse, len(txs))
	for i, tx := range txs {
		out[i] = buildShopTransactionResponse(tx)
	}
	WriteJSON(w, http.StatusOK, map[string]any{"transactions": out})
}

func buildShopItemBody(item domain.ShopItem) shopItemBody {
	return shopItemBody{
		ItemID:      item.ItemID,
		Name:        item.Name,
		Type:        string(item.Type),
		BuyPrice:    item.BuyPrice,
		SellPrice:   item.SellPrice,
		Stock:       item.Stock,
		Unlimited:   item.Unlimited,
		Description: item.Description,
	}
}

func buildShopTransactionResponse(tx *domain.ShopTransaction) shopTransactionResponse {
	return shopTransactionResponse{
		TransactionID: tx.TransactionID,
		CharacterID:   tx.CharacterID,
		Type:          string(tx.Type),
		ItemID:        tx.ItemID,
		ItemName:      tx.ItemName,
		Quantity:      tx.Quantity,
		Price:         tx.Price,
		TotalPrice:    tx.TotalPrice,
		Timestamp:     formatTime(tx.Timestamp),
	}
}
