package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// LineItem — позиция корзины: товар и зарезервированное количество.
type LineItem struct {
	Product  *Product
	Quantity int
}

// Cost возвращает стоимость позиции: price × qty.
func (li LineItem) Cost() decimal.Decimal {
	return li.Product.Price().Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Cart хранит резервы товаров покупателя и поддерживает сумму позиций
// инкрементально при каждой мутации. Нулевое значение готово к работе.
type Cart struct {
	items map[*Product]int
	// order сохраняет порядок добавления для стабильных чеков.
	order      []*Product
	itemsTotal decimal.Decimal
	logger     *log.Entry
}

// NewCart создаёт пустую корзину.
func NewCart() *Cart {
	return NewCartWithLogger(nil)
}

// NewCartWithLogger создаёт пустую корзину, которая пишет статусные строки в logger.
func NewCartWithLogger(logger *log.Entry) *Cart {
	if logger == nil {
		logger = log.WithField("component", "cart")
	}
	return &Cart{
		items:  make(map[*Product]int),
		logger: logger,
	}
}

// Add резервирует qty единиц товара, добавляя их к уже зарезервированным.
func (c *Cart) Add(product *Product, qty int) error {
	if product == nil {
		return fmt.Errorf("%w: product cannot be nil", ErrInvalidInput)
	}
	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be greater than zero", ErrInvalidInput)
	}
	c.lazyInit()

	current, exists := c.items[product]
	total := current + qty
	if total > product.Quantity() {
		return fmt.Errorf("%w for product: %s", ErrCapacityExceeded, product.Name())
	}

	if !exists {
		c.order = append(c.order, product)
	}
	c.items[product] = total
	c.itemsTotal = c.itemsTotal.Add(lineCost(product, qty))

	c.logger.WithFields(log.Fields{
		"product":  product.Name(),
		"qty":      qty,
		"reserved": total,
		"total":    c.itemsTotal.StringFixed(2),
	}).Infof("added %d of %s to the cart", qty, product.Name())
	return nil
}

// Remove удаляет позицию целиком.
func (c *Cart) Remove(product *Product) error {
	if product == nil {
		return fmt.Errorf("%w: product cannot be nil", ErrInvalidInput)
	}
	c.lazyInit()
	qty, ok := c.items[product]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, product.Name())
	}

	c.itemsTotal = c.itemsTotal.Sub(lineCost(product, qty))
	delete(c.items, product)
	c.dropFromOrder(product)

	c.logger.WithFields(log.Fields{
		"product": product.Name(),
		"total":   c.itemsTotal.StringFixed(2),
	}).Infof("removed %s from the cart", product.Name())
	return nil
}

// UpdateProductQuantity заменяет резерв по товару, который уже лежит в корзине.
func (c *Cart) UpdateProductQuantity(product *Product, qty int) error {
	if product == nil {
		return fmt.Errorf("%w: product cannot be nil", ErrInvalidInput)
	}
	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be greater than zero", ErrInvalidInput)
	}
	c.lazyInit()
	current, ok := c.items[product]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, product.Name())
	}
	if qty > product.Quantity() {
		return fmt.Errorf("%w for product: %s", ErrCapacityExceeded, product.Name())
	}

	c.itemsTotal = c.itemsTotal.Sub(lineCost(product, current)).Add(lineCost(product, qty))
	c.items[product] = qty

	c.logger.WithFields(log.Fields{
		"product": product.Name(),
		"qty":     qty,
		"total":   c.itemsTotal.StringFixed(2),
	}).Infof("updated %s quantity to %d", product.Name(), qty)
	return nil
}

// Clear очищает корзину и обнуляет сумму.
func (c *Cart) Clear() {
	c.lazyInit()
	c.items = make(map[*Product]int)
	c.order = nil
	c.itemsTotal = decimal.Zero

	c.logger.WithField("total", c.itemsTotal.StringFixed(2)).Info("cart cleared")
}

// IsEmpty сообщает, что в корзине нет позиций.
func (c *Cart) IsEmpty() bool { return len(c.items) == 0 }

// Len возвращает количество позиций.
func (c *Cart) Len() int { return len(c.items) }

// Quantity возвращает зарезервированное количество товара (0, если его нет).
func (c *Cart) Quantity(product *Product) int { return c.items[product] }

// Contains сообщает, лежит ли товар в корзине.
func (c *Cart) Contains(product *Product) bool {
	_, ok := c.items[product]
	return ok
}

// ItemsTotalCost возвращает сумму позиций без доставки.
func (c *Cart) ItemsTotalCost() decimal.Decimal { return c.itemsTotal }

// Items возвращает снимок позиций в порядке добавления.
func (c *Cart) Items() []LineItem {
	result := make([]LineItem, 0, len(c.order))
	for _, p := range c.order {
		result = append(result, LineItem{Product: p, Quantity: c.items[p]})
	}
	return result
}

func (c *Cart) String() string {
	s := "Cart:\n"
	for _, item := range c.Items() {
		s += fmt.Sprintf("%s - Quantity: %d, Price: %s\n",
			item.Product.Name(), item.Quantity, item.Product.Price().StringFixed(2))
	}
	return s + "Total Price: " + c.itemsTotal.StringFixed(2)
}

// lazyInit создаёт map и logger для корзины, собранной без NewCart.
func (c *Cart) lazyInit() {
	if c.items == nil {
		c.items = make(map[*Product]int)
	}
	if c.logger == nil {
		c.logger = log.WithField("component", "cart")
	}
}

func (c *Cart) dropFromOrder(product *Product) {
	for i, p := range c.order {
		if p == product {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

func lineCost(product *Product, qty int) decimal.Decimal {
	return product.Price().Mul(decimal.NewFromInt(int64(qty)))
}
