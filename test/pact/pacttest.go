//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "shop-api"
	ConsumerName = "storefront-web"

	StateCatalogSeeded  = "product MUG is in stock and customer 2 is a client"
	StateProductMissing = "no product with code GHOST"
)

// Ids assigned by the provider when seeding an empty store in this order.
const (
	SeededAdminID   int64 = 1
	SeededClientID  int64 = 2
	SeededProductID int64 = 1

	SeededStock      = 10
	SeededCode       = "MUG"
	MissingCode      = "GHOST"
	ExampleQuantity  = 2
	examplePrice     = "12.50"
	exampleOrderedAt = "2024-06-12T10:00:00Z"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the storefront consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleProductPayload is the seeded product as the provider renders it.
func ExampleProductPayload() map[string]any {
	return map[string]any{
		"id":       SeededProductID,
		"code":     SeededCode,
		"price":    examplePrice,
		"currency": "RON",
		"valid":    true,
		"stock":    SeededStock,
	}
}

// ExamplePlacedAt is a stable timestamp for order matchers.
func ExamplePlacedAt() string {
	return exampleOrderedAt
}

// ExamplePrice is the seeded product price.
func ExamplePrice() string {
	return examplePrice
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
