package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

func TestNewProduct_Plain(t *testing.T) {
	p, err := domain.NewProduct("Scratch Card", decimal.NewFromInt(1), 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.IsShippable() || p.IsExpirable() {
		t.Fatal("plain product must have no capabilities")
	}
	if !p.Weight().IsZero() {
		t.Fatalf("expected zero weight, got %s", p.Weight())
	}
	if p.ID() == "" {
		t.Fatal("expected generated id")
	}
	if p.IsExpired() {
		t.Fatal("product without expiration date cannot expire")
	}
}

func TestNewProduct_Capabilities(t *testing.T) {
	expires := time.Date(2030, 12, 31, 0, 0, 0, 0, time.UTC)
	p, err := domain.NewProduct("Cheese", decimal.NewFromInt(5), 10,
		domain.WithExpiration(expires),
		domain.WithWeight(decimal.RequireFromString("0.4")),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.IsShippable() || !p.IsExpirable() {
		t.Fatal("expected expirable and shippable product")
	}
	if !p.Weight().Equal(decimal.RequireFromString("0.4")) {
		t.Fatalf("unexpected weight %s", p.Weight())
	}
	got, ok := p.ExpiresOn()
	if !ok || !got.Equal(expires) {
		t.Fatalf("unexpected expiration date %v (ok=%v)", got, ok)
	}
}

func TestNewProduct_Validation(t *testing.T) {
	cases := []struct {
		name  string
		pname string
		price decimal.Decimal
		qty   int
		opts  []domain.ProductOption
	}{
		{name: "blank name", pname: "   ", price: decimal.NewFromInt(1), qty: 1},
		{name: "negative price", pname: "A", price: decimal.NewFromInt(-1), qty: 1},
		{name: "negative quantity", pname: "A", price: decimal.NewFromInt(1), qty: -1},
		{name: "zero weight", pname: "A", price: decimal.NewFromInt(1), qty: 1, opts: []domain.ProductOption{domain.WithWeight(decimal.Zero)}},
		{name: "negative weight", pname: "A", price: decimal.NewFromInt(1), qty: 1, opts: []domain.ProductOption{domain.WithWeight(decimal.NewFromInt(-2))}},
		{name: "zero expiration", pname: "A", price: decimal.NewFromInt(1), qty: 1, opts: []domain.ProductOption{domain.WithExpiration(time.Time{})}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := domain.NewProduct(tc.pname, tc.price, tc.qty, tc.opts...)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestProduct_ZeroPriceAndQuantityAllowed(t *testing.T) {
	p, err := domain.NewProduct("Freebie", decimal.Zero, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.SetQuantity(-1); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if p.Quantity() != 0 {
		t.Fatalf("failed update must keep quantity, got %d", p.Quantity())
	}
}

func TestProduct_IsExpiredAt(t *testing.T) {
	expires := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	p, err := domain.NewProduct("Milk", decimal.NewFromInt(2), 3, domain.WithExpiration(expires))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{name: "day before", now: time.Date(2025, 6, 14, 23, 59, 0, 0, time.UTC), want: false},
		{name: "same day morning", now: time.Date(2025, 6, 15, 0, 1, 0, 0, time.UTC), want: false},
		{name: "same day evening", now: time.Date(2025, 6, 15, 23, 59, 59, 0, time.UTC), want: false},
		{name: "next day", now: time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), want: true},
		{name: "long after", now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), want: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := p.IsExpiredAt(tc.now); got != tc.want {
				t.Fatalf("IsExpiredAt(%v) = %v, want %v", tc.now, got, tc.want)
			}
		})
	}
}
