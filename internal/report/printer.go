// Package report печатает человекочитаемые чеки, накладные и подтверждения
// доставки. Это побочный канал для ручной проверки, а не источник истины:
// все суммы доступны и в domain.Receipt.
package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

const separator = "--------------------------------------------"

// Printer пишет отчёты в текстовом виде в io.Writer.
type Printer struct {
	mu  sync.Mutex
	out io.Writer
}

// NewPrinter создаёт Printer поверх out; nil означает stdout.
func NewPrinter(out io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}
	return &Printer{out: out}
}

// Discard возвращает Printer, который ничего не печатает.
func Discard() *Printer {
	return &Printer{out: io.Discard}
}

// ShipmentNotice печатает накладную: позиции с весом и общий вес посылки.
func (p *Printer) ShipmentNotice(lines []domain.ShipmentLine) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(lines) > 0 {
		p.printf("------------- Shipment Notice -------------\n")
		p.printf("%-20s %10s\n", "Item", "Weight(kg)")
	}
	total := decimal.Zero
	for _, line := range lines {
		weight := line.Weight()
		total = total.Add(weight)
		p.printf("%-20s %10s\n", itemLabel(line.Quantity, line.Product.Name()), weight.String()+"kg")
	}
	p.printf("Total package weight: %skg\n", total.String())
	p.printf("%s\n", separator)
}

// Receipt печатает позиции чека со стоимостью каждой.
func (p *Printer) Receipt(lines []domain.ReceiptLine) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.printf("------------- Checkout Receipt -------------\n")
	p.printf("%-20s %10s\n", "Item", "Total Cost")
	for _, line := range lines {
		p.printf("%-20s %10s\n", itemLabel(line.Quantity, line.Name), line.Cost.StringFixed(2))
	}
	p.printf("%s\n", separator)
}

// Summary печатает итог: подытог, доставку и сумму к оплате.
func (p *Printer) Summary(subtotal, shipping, amount decimal.Decimal) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.printf("%-20s %10s\n", "Subtotal", subtotal.StringFixed(2))
	p.printf("%-20s %10s\n", "Shipping", shipping.StringFixed(2))
	p.printf("%-20s %10s\n", "Amount", amount.StringFixed(2))
	p.printf("%s\n", separator)
}

// ShippedItem подтверждает отправку одной позиции.
func (p *Printer) ShippedItem(line domain.ShipmentLine) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.printf("Shipping item: %s with weight: %skg - Quantity: %d\n",
		line.Product.Name(), line.Product.Weight().String(), line.Quantity)
}

// ShippingTotal печатает итоговую стоимость доставки.
func (p *Printer) ShippingTotal(cost decimal.Decimal) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.printf("Total shipping cost: $%s\n", cost.StringFixed(2))
}

// CheckoutCompleted печатает остаток баланса после оплаты.
func (p *Printer) CheckoutCompleted(balance decimal.Decimal) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.printf("Checkout successful! Remaining balance: %s\n", balance.StringFixed(2))
}

func (p *Printer) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}

func itemLabel(qty int, name string) string {
	return strconv.Itoa(qty) + "x " + name
}
