package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var phonePattern = regexp.MustCompile(`^\d{11}$`)

// Customer — покупатель с балансом и единственной корзиной.
type Customer struct {
	id      string
	name    string
	email   string
	phone   string
	balance decimal.Decimal
	cart    *Cart
}

// NewCustomer создаёт покупателя с пустой корзиной.
func NewCustomer(name, email, phone string, balance decimal.Decimal) (*Customer, error) {
	c := &Customer{id: uuid.NewString(), cart: NewCart()}
	if err := c.SetName(name); err != nil {
		return nil, err
	}
	if err := c.SetEmail(email); err != nil {
		return nil, err
	}
	if err := c.SetPhone(phone); err != nil {
		return nil, err
	}
	if err := c.SetBalance(balance); err != nil {
		return nil, err
	}
	return c, nil
}

// ID возвращает технический идентификатор покупателя.
func (c *Customer) ID() string { return c.id }

// Name возвращает имя покупателя.
func (c *Customer) Name() string { return c.name }

// Email возвращает адрес электронной почты.
func (c *Customer) Email() string { return c.email }

// Phone возвращает номер телефона из 11 цифр.
func (c *Customer) Phone() string { return c.phone }

// Balance возвращает текущий баланс.
func (c *Customer) Balance() decimal.Decimal { return c.balance }

// Cart возвращает корзину покупателя.
func (c *Customer) Cart() *Cart { return c.cart }

// SetName меняет имя покупателя.
func (c *Customer) SetName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: customer name cannot be empty", ErrInvalidInput)
	}
	c.name = name
	return nil
}

// SetEmail меняет email; достаточно непустой строки с '@'.
func (c *Customer) SetEmail(email string) error {
	if strings.TrimSpace(email) == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: invalid email address %q", ErrInvalidInput, email)
	}
	c.email = email
	return nil
}

// SetPhone меняет телефон: ровно 11 цифр.
func (c *Customer) SetPhone(phone string) error {
	if !phonePattern.MatchString(phone) {
		return fmt.Errorf("%w: phone number must be exactly 11 digits", ErrInvalidInput)
	}
	c.phone = phone
	return nil
}

// SetBalance меняет баланс покупателя.
func (c *Customer) SetBalance(balance decimal.Decimal) error {
	if balance.IsNegative() {
		return fmt.Errorf("%w: balance cannot be negative", ErrInvalidInput)
	}
	c.balance = balance
	return nil
}

// SetCart заменяет корзину покупателя.
func (c *Customer) SetCart(cart *Cart) error {
	if cart == nil {
		return fmt.Errorf("%w: cart cannot be nil", ErrInvalidInput)
	}
	c.cart = cart
	return nil
}

// Debit списывает amount с баланса.
func (c *Customer) Debit(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: debit amount cannot be negative", ErrInvalidInput)
	}
	if amount.GreaterThan(c.balance) {
		return fmt.Errorf("%w: amount %s, available %s",
			ErrInsufficientBalance, amount.StringFixed(2), c.balance.StringFixed(2))
	}
	c.balance = c.balance.Sub(amount)
	return nil
}
