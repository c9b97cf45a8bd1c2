package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

func TestNewCustomer(t *testing.T) {
	c, err := domain.NewCustomer("Alice", "alice@example.com", "01000000000", decimal.NewFromInt(10))
	require.NoError(t, err)

	assert.NotEmpty(t, c.ID())
	assert.Equal(t, "Alice", c.Name())
	require.NotNil(t, c.Cart())
	assert.True(t, c.Cart().IsEmpty())
	assert.True(t, c.Balance().Equal(decimal.NewFromInt(10)))
}

func TestNewCustomer_Validation(t *testing.T) {
	cases := []struct {
		name    string
		cname   string
		email   string
		phone   string
		balance decimal.Decimal
	}{
		{name: "blank name", cname: " ", email: "a@b.c", phone: "01000000000", balance: decimal.Zero},
		{name: "blank email", cname: "A", email: "", phone: "01000000000", balance: decimal.Zero},
		{name: "email without at", cname: "A", email: "alice.example.com", phone: "01000000000", balance: decimal.Zero},
		{name: "short phone", cname: "A", email: "a@b.c", phone: "0100000000", balance: decimal.Zero},
		{name: "long phone", cname: "A", email: "a@b.c", phone: "010000000000", balance: decimal.Zero},
		{name: "phone with letters", cname: "A", email: "a@b.c", phone: "0100000000a", balance: decimal.Zero},
		{name: "negative balance", cname: "A", email: "a@b.c", phone: "01000000000", balance: decimal.NewFromInt(-1)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := domain.NewCustomer(tc.cname, tc.email, tc.phone, tc.balance)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestCustomer_SetCart(t *testing.T) {
	c, err := domain.NewCustomer("Bob", "bob@example.com", "01234567890", decimal.Zero)
	require.NoError(t, err)

	original := c.Cart()
	assert.ErrorIs(t, c.SetCart(nil), domain.ErrInvalidInput)
	assert.Same(t, original, c.Cart())

	replacement := domain.NewCart()
	require.NoError(t, c.SetCart(replacement))
	assert.Same(t, replacement, c.Cart())
}

func TestCustomer_Debit(t *testing.T) {
	c, err := domain.NewCustomer("Bob", "bob@example.com", "01234567890", decimal.NewFromInt(100))
	require.NoError(t, err)

	require.NoError(t, c.Debit(decimal.RequireFromString("40.5")))
	assert.True(t, c.Balance().Equal(decimal.RequireFromString("59.5")))

	assert.ErrorIs(t, c.Debit(decimal.NewFromInt(60)), domain.ErrInsufficientBalance)
	assert.ErrorIs(t, c.Debit(decimal.NewFromInt(-1)), domain.ErrInvalidInput)
	assert.True(t, c.Balance().Equal(decimal.RequireFromString("59.5")))

	require.NoError(t, c.Debit(decimal.RequireFromString("59.5")))
	assert.True(t, c.Balance().IsZero())
}
