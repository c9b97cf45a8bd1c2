package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product — товар с ценой и складским остатком.
// Идентичность товара определяется указателем: два товара с одинаковым именем
// в корзине считаются разными позициями.
type Product struct {
	id       string
	name     string
	price    decimal.Decimal
	quantity int

	// Необязательные возможности товара.
	shipping *ShippingInfo
	expiry   *ExpiryInfo
}

// ShippingInfo описывает физически доставляемый товар.
type ShippingInfo struct {
	// WeightKg — вес одной единицы товара в килограммах.
	WeightKg decimal.Decimal
}

// ExpiryInfo описывает товар со сроком годности.
type ExpiryInfo struct {
	// ExpiresOn — последний день, когда товар ещё можно продать.
	ExpiresOn time.Time
}

// ProductOption настраивает товар при создании.
type ProductOption func(*Product) error

// WithWeight делает товар доставляемым с указанным весом единицы.
func WithWeight(weightKg decimal.Decimal) ProductOption {
	return func(p *Product) error {
		return p.SetWeight(weightKg)
	}
}

// WithExpiration задаёт срок годности товара.
func WithExpiration(expiresOn time.Time) ProductOption {
	return func(p *Product) error {
		if expiresOn.IsZero() {
			return fmt.Errorf("%w: expiration date is required", ErrInvalidInput)
		}
		p.expiry = &ExpiryInfo{ExpiresOn: expiresOn}
		return nil
	}
}

// NewProduct создаёт товар и проверяет его поля.
func NewProduct(name string, price decimal.Decimal, quantity int, opts ...ProductOption) (*Product, error) {
	p := &Product{id: uuid.NewString()}
	if err := p.SetName(name); err != nil {
		return nil, err
	}
	if err := p.SetPrice(price); err != nil {
		return nil, err
	}
	if err := p.SetQuantity(quantity); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// ID возвращает технический идентификатор товара (для логов и событий).
func (p *Product) ID() string { return p.id }

// Name возвращает название товара.
func (p *Product) Name() string { return p.name }

// Price возвращает цену за единицу.
func (p *Product) Price() decimal.Decimal { return p.price }

// Quantity возвращает текущий складской остаток.
func (p *Product) Quantity() int { return p.quantity }

// SetName меняет название товара.
func (p *Product) SetName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: product name cannot be empty", ErrInvalidInput)
	}
	p.name = name
	return nil
}

// SetPrice меняет цену товара.
func (p *Product) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidInput)
	}
	p.price = price
	return nil
}

// SetQuantity меняет складской остаток. Уже сделанные резервы в корзинах
// не пересчитываются: расхождение ловится при оформлении заказа.
func (p *Product) SetQuantity(quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("%w: quantity cannot be negative", ErrInvalidInput)
	}
	p.quantity = quantity
	return nil
}

// SetWeight задаёт вес единицы товара и делает его доставляемым.
func (p *Product) SetWeight(weightKg decimal.Decimal) error {
	if !weightKg.IsPositive() {
		return fmt.Errorf("%w: weight must be greater than zero", ErrInvalidInput)
	}
	p.shipping = &ShippingInfo{WeightKg: weightKg}
	return nil
}

// IsShippable сообщает, участвует ли товар в доставке.
func (p *Product) IsShippable() bool { return p.shipping != nil }

// Weight возвращает вес единицы товара (ноль для недоставляемых).
func (p *Product) Weight() decimal.Decimal {
	if p.shipping == nil {
		return decimal.Zero
	}
	return p.shipping.WeightKg
}

// IsExpirable сообщает, есть ли у товара срок годности.
func (p *Product) IsExpirable() bool { return p.expiry != nil }

// ExpiresOn возвращает срок годности; ok=false, если его нет.
func (p *Product) ExpiresOn() (date time.Time, ok bool) {
	if p.expiry == nil {
		return time.Time{}, false
	}
	return p.expiry.ExpiresOn, true
}

// IsExpired проверяет срок годности относительно текущей даты.
func (p *Product) IsExpired() bool {
	return p.IsExpiredAt(time.Now())
}

// IsExpiredAt сообщает, что дата now строго позже срока годности.
// Сравнение идёт по календарным датам в часовом поясе срока годности.
func (p *Product) IsExpiredAt(now time.Time) bool {
	if p.expiry == nil {
		return false
	}
	exp := p.expiry.ExpiresOn
	today := truncateToDate(now.In(exp.Location()))
	return today.After(truncateToDate(exp))
}

func (p *Product) String() string {
	return fmt.Sprintf("%s (price=%s, qty=%d)", p.name, p.price.StringFixed(2), p.quantity)
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
