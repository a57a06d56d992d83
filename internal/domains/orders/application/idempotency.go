package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/Apurer/go-gin-shop-server/internal/domains/orders/ports"
)

type normalizedPlaceOrderInput struct {
	CustomerID int64            `json:"customerId"`
	Items      []normalizedLine `json:"items"`
}

type normalizedLine struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// FingerprintPlaceOrder builds a deterministic hash of the placement payload (excluding the idempotency key).
func FingerprintPlaceOrder(input ports.PlaceOrderInput) (string, error) {
	normalized := normalizedPlaceOrderInput{
		CustomerID: input.CustomerID,
		Items:      make([]normalizedLine, 0, len(input.Items)),
	}
	for id, qty := range input.Items {
		normalized.Items = append(normalized.Items, normalizedLine{ProductID: id, Quantity: qty})
	}
	sort.Slice(normalized.Items, func(i, j int) bool { return normalized.Items[i].ProductID < normalized.Items[j].ProductID })
	payload, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
