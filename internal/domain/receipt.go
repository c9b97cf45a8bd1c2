package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptLine — строка чека по одной позиции корзины.
type ReceiptLine struct {
	ProductID string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	Cost      decimal.Decimal
	Shippable bool
}

// Receipt фиксирует результат успешного оформления заказа.
type Receipt struct {
	ID          string
	CustomerID  string
	Lines       []ReceiptLine
	Subtotal    decimal.Decimal
	Shipping    decimal.Decimal
	Amount      decimal.Decimal
	Balance     decimal.Decimal // остаток после списания
	WeightKg    decimal.Decimal
	CompletedAt time.Time
}

// ShipmentLine — доставляемый товар и количество к отправке.
type ShipmentLine struct {
	Product  *Product
	Quantity int
}

// Weight возвращает суммарный вес строки отправки.
func (l ShipmentLine) Weight() decimal.Decimal {
	return l.Product.Weight().Mul(decimal.NewFromInt(int64(l.Quantity)))
}
