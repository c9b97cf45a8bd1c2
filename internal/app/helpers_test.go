package app

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// newTestCustomer создаёт покупателя с пустой корзиной для тестов.
func newTestCustomer(t *testing.T) *domain.Customer {
	t.Helper()
	customer, err := domain.NewCustomer("Test", "test@example.com", "01000000000", decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("failed to create customer: %v", err)
	}
	return customer
}
