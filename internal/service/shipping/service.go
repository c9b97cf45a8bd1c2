package shipping

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// RatePerKg — фиксированный тариф доставки за килограмм.
var RatePerKg = decimal.NewFromInt(5)

// Notifier получает подтверждения отправки.
type Notifier interface {
	ShippedItem(line domain.ShipmentLine)
	ShippingTotal(cost decimal.Decimal)
}

// Service считает стоимость доставки для фиксированного набора позиций
// и подтверждает их отправку. Состояние домена не меняет.
type Service struct {
	lines    []domain.ShipmentLine
	notifier Notifier
	logger   *log.Entry
}

// NewService создаёт сервис доставки из отображения товар → количество.
// nil-отображение считается ошибкой, пустое даёт нулевую стоимость.
func NewService(items map[*domain.Product]int, notifier Notifier, logger *log.Entry) (*Service, error) {
	if items == nil {
		return nil, fmt.Errorf("%w: shippable items cannot be nil", domain.ErrInvalidInput)
	}
	if logger == nil {
		logger = log.WithField("component", "shipping")
	}

	lines := make([]domain.ShipmentLine, 0, len(items))
	for product, qty := range items {
		if product == nil {
			return nil, fmt.Errorf("%w: shippable product cannot be nil", domain.ErrInvalidInput)
		}
		if !product.IsShippable() {
			return nil, fmt.Errorf("%w: product %s is not shippable", domain.ErrInvalidInput, product.Name())
		}
		if qty <= 0 {
			return nil, fmt.Errorf("%w: shipment quantity for %s must be greater than zero", domain.ErrInvalidInput, product.Name())
		}
		lines = append(lines, domain.ShipmentLine{Product: product, Quantity: qty})
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Product.Name() != lines[j].Product.Name() {
			return lines[i].Product.Name() < lines[j].Product.Name()
		}
		return lines[i].Product.ID() < lines[j].Product.ID()
	})

	return &Service{lines: lines, notifier: notifier, logger: logger}, nil
}

// Lines возвращает копию строк отправки.
func (s *Service) Lines() []domain.ShipmentLine {
	result := make([]domain.ShipmentLine, len(s.lines))
	copy(result, s.lines)
	return result
}

// CalculateShippingCost возвращает Σ weight × RatePerKg × qty.
func (s *Service) CalculateShippingCost() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.lines {
		total = total.Add(line.Weight().Mul(RatePerKg))
	}
	return total
}

// TotalWeight возвращает общий вес посылки в килограммах.
func (s *Service) TotalWeight() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.lines {
		total = total.Add(line.Weight())
	}
	return total
}

// ShipItems подтверждает отправку каждой позиции и печатает итог.
func (s *Service) ShipItems() {
	for _, line := range s.lines {
		s.logger.WithFields(log.Fields{
			"product":   line.Product.Name(),
			"weight_kg": line.Product.Weight().String(),
			"qty":       line.Quantity,
		}).Debug("item shipped")
		if s.notifier != nil {
			s.notifier.ShippedItem(line)
		}
	}
	cost := s.CalculateShippingCost()
	if s.notifier != nil {
		s.notifier.ShippingTotal(cost)
	}
}
