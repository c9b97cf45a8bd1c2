package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/domain"
	"github.com/vladislavdragonenkov/shop/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/shop/internal/metrics"
	"github.com/vladislavdragonenkov/shop/internal/service/shipping"
)

// Reporter печатает накладную, чек и итог оформления.
type Reporter interface {
	shipping.Notifier
	ShipmentNotice(lines []domain.ShipmentLine)
	Receipt(lines []domain.ReceiptLine)
	Summary(subtotal, shipping, amount decimal.Decimal)
	CheckoutCompleted(balance decimal.Decimal)
}

// EventPublisher публикует события оформления (Kafka или заглушка в тестах).
type EventPublisher interface {
	Publish(event *kafka.CheckoutEvent) error
}

// Options задаёт необязательные зависимости сервиса.
type Options struct {
	Logger   *log.Entry
	Receipts domain.ReceiptRepository
	Events   EventPublisher
	Metrics  *metrics.CheckoutMetrics
	Clock    func() time.Time
}

// Option настраивает Service.
type Option func(*Options)

// WithLogger задаёт logger сервиса.
func WithLogger(logger *log.Entry) Option {
	return func(opts *Options) { opts.Logger = logger }
}

// WithReceipts включает сохранение чеков успешных оформлений.
func WithReceipts(repo domain.ReceiptRepository) Option {
	return func(opts *Options) { opts.Receipts = repo }
}

// WithEventPublisher включает публикацию событий оформления.
func WithEventPublisher(publisher EventPublisher) Option {
	return func(opts *Options) { opts.Events = publisher }
}

// WithMetrics задаёт метрики; без этой опции сервис работает без метрик.
func WithMetrics(m *metrics.CheckoutMetrics) Option {
	return func(opts *Options) { opts.Metrics = m }
}

// WithClock подменяет источник текущего времени (проверка сроков годности).
func WithClock(clock func() time.Time) Option {
	return func(opts *Options) { opts.Clock = clock }
}

// Service оформляет заказ по корзине покупателя: проверки, расчёт
// стоимости и расчёт с покупателем. Любая неудачная проверка прерывает
// оформление без изменений состояния.
//
// Блокировок нет: одновременное оформление корзин с одним и тем же товаром
// небезопасно, уменьшение остатков не защищено.
type Service struct {
	reporter Reporter
	receipts domain.ReceiptRepository
	events   EventPublisher
	metrics  *metrics.CheckoutMetrics
	logger   *log.Entry
	now      func() time.Time
}

// NewService создаёт сервис оформления. reporter может быть nil.
func NewService(reporter Reporter, options ...Option) *Service {
	var opts Options
	for _, option := range options {
		option(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "checkout")
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Service{
		reporter: reporter,
		receipts: opts.Receipts,
		events:   opts.Events,
		metrics:  opts.Metrics,
		logger:   logger,
		now:      clock,
	}
}

// Checkout оформляет корзину покупателя. При успехе возвращает чек,
// при отказе ровно одну ошибку из таксономии domain (errors.Is).
func (s *Service) Checkout(ctx context.Context, customer *domain.Customer) (*domain.Receipt, error) {
	start := time.Now()
	if s.metrics != nil {
		s.metrics.RecordStarted()
		defer func() {
			s.metrics.RecordFinished(time.Since(start))
		}()
	}

	receipt, err := s.checkout(ctx, customer)
	if err != nil {
		s.onFailure(customer, err)
		return nil, err
	}
	s.onSuccess(receipt)
	return receipt, nil
}

func (s *Service) checkout(ctx context.Context, customer *domain.Customer) (*domain.Receipt, error) {
	stepStart := time.Now()
	if customer == nil {
		return nil, fmt.Errorf("%w: customer cannot be nil", domain.ErrInvalidInput)
	}
	s.recordStep(domain.CheckoutStepCustomer, stepStart)

	stepStart = time.Now()
	cart := customer.Cart()
	if cart.IsEmpty() {
		return nil, fmt.Errorf("%w: add items to the cart before checkout", domain.ErrEmptyCart)
	}
	s.recordStep(domain.CheckoutStepCart, stepStart)

	stepStart = time.Now()
	items := cart.Items()
	shippable, err := s.validateLines(items)
	if err != nil {
		return nil, err
	}
	s.recordStep(domain.CheckoutStepLines, stepStart)

	stepStart = time.Now()
	shipper, err := shipping.NewService(shippable, s.reporter, s.logger.WithField("layer", "shipping"))
	if err != nil {
		return nil, err
	}
	shippingCost := shipper.CalculateShippingCost()
	itemsCost := cart.ItemsTotalCost()
	totalCost := itemsCost.Add(shippingCost)
	if totalCost.GreaterThan(customer.Balance()) {
		return nil, fmt.Errorf("%w: total cost %s, available balance %s",
			domain.ErrInsufficientBalance, totalCost.StringFixed(2), customer.Balance().StringFixed(2))
	}
	s.recordStep(domain.CheckoutStepCost, stepStart)

	// Последняя точка, где оформление можно прервать без частичного коммита.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("checkout aborted before settlement: %w", err)
	}

	stepStart = time.Now()
	receipt, err := s.settle(customer, items, shipper, itemsCost, shippingCost, totalCost)
	if err != nil {
		return nil, err
	}
	s.recordStep(domain.CheckoutStepSettlement, stepStart)
	return receipt, nil
}

// validateLines проверяет каждую позицию и за тот же проход собирает
// доставляемые товары. Остаток сравнивается с текущим значением на складе,
// а не с тем, что было при добавлении в корзину.
func (s *Service) validateLines(items []domain.LineItem) (map[*domain.Product]int, error) {
	now := s.now()
	shippable := make(map[*domain.Product]int)
	for _, item := range items {
		product := item.Product
		switch {
		case product.Quantity() == 0:
			return nil, fmt.Errorf("%w: %s", domain.ErrOutOfStock, product.Name())
		case product.Quantity() < item.Quantity:
			return nil, fmt.Errorf("%w for product %s: requested %d, available %d",
				domain.ErrInsufficientStock, product.Name(), item.Quantity, product.Quantity())
		case product.IsExpiredAt(now):
			return nil, fmt.Errorf("%w: %s", domain.ErrExpired, product.Name())
		}
		if product.IsShippable() {
			shippable[product] = item.Quantity
		}
	}
	return shippable, nil
}

// settle выполняет расчёт. Списание идёт первым: это единственный шаг,
// который может отказать, и до него ничего не изменено.
func (s *Service) settle(
	customer *domain.Customer,
	items []domain.LineItem,
	shipper *shipping.Service,
	itemsCost, shippingCost, totalCost decimal.Decimal,
) (*domain.Receipt, error) {
	lines := make([]domain.ReceiptLine, 0, len(items))
	units := 0
	for _, item := range items {
		lines = append(lines, domain.ReceiptLine{
			ProductID: item.Product.ID(),
			Name:      item.Product.Name(),
			Quantity:  item.Quantity,
			UnitPrice: item.Product.Price(),
			Cost:      item.Cost(),
			Shippable: item.Product.IsShippable(),
		})
		units += item.Quantity
	}

	if s.reporter != nil {
		s.reporter.ShipmentNotice(shipper.Lines())
		s.reporter.Receipt(lines)
		s.reporter.Summary(itemsCost, shippingCost, totalCost)
	}

	if err := customer.Debit(totalCost); err != nil {
		return nil, err
	}
	for _, item := range items {
		// Остаток проверен в validateLines, отрицательным он не станет.
		_ = item.Product.SetQuantity(item.Product.Quantity() - item.Quantity)
	}

	shipper.ShipItems()
	customer.Cart().Clear()

	if s.reporter != nil {
		s.reporter.CheckoutCompleted(customer.Balance())
	}

	receipt := &domain.Receipt{
		ID:          uuid.NewString(),
		CustomerID:  customer.ID(),
		Lines:       lines,
		Subtotal:    itemsCost,
		Shipping:    shippingCost,
		Amount:      totalCost,
		Balance:     customer.Balance(),
		WeightKg:    shipper.TotalWeight(),
		CompletedAt: s.now().UTC(),
	}

	s.logger.WithFields(log.Fields{
		"customer_id": customer.ID(),
		"checkout_id": receipt.ID,
		"units":       units,
		"subtotal":    itemsCost.StringFixed(2),
		"shipping":    shippingCost.StringFixed(2),
		"amount":      totalCost.StringFixed(2),
		"balance":     customer.Balance().StringFixed(2),
	}).Info("checkout completed")

	return receipt, nil
}

func (s *Service) onSuccess(receipt *domain.Receipt) {
	if s.receipts != nil {
		if err := s.receipts.Append(*receipt); err != nil {
			s.logger.WithError(err).WithField("checkout_id", receipt.ID).Warn("failed to store receipt")
		}
	}

	if s.metrics != nil {
		units := 0
		for _, line := range receipt.Lines {
			units += line.Quantity
		}
		s.metrics.RecordCompleted(receipt.Amount.InexactFloat64(), receipt.Shipping.InexactFloat64(), units)
	}

	s.publish(kafka.NewCheckoutEvent(kafka.EventTypeCheckoutCompleted, receipt.ID, receipt.CustomerID, map[string]interface{}{
		"subtotal": receipt.Subtotal.StringFixed(2),
		"shipping": receipt.Shipping.StringFixed(2),
		"amount":   receipt.Amount.StringFixed(2),
		"balance":  receipt.Balance.StringFixed(2),
		"lines":    len(receipt.Lines),
	}))
}

func (s *Service) onFailure(customer *domain.Customer, err error) {
	kind := domain.KindOf(err)
	if s.metrics != nil {
		s.metrics.RecordFailed(string(kind))
	}

	var customerID string
	if customer != nil {
		customerID = customer.ID()
	}
	s.logger.WithError(err).WithFields(log.Fields{
		"customer_id": customerID,
		"reason":      kind,
	}).Warn("checkout rejected")

	if customer == nil {
		return
	}
	s.publish(kafka.NewCheckoutEvent(kafka.EventTypeCheckoutFailed, "", customerID, map[string]interface{}{
		"reason": string(kind),
		"error":  err.Error(),
	}))
}

// publish отправляет событие, если паблишер настроен. Ошибка публикации
// не влияет на результат оформления.
func (s *Service) publish(event *kafka.CheckoutEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(event); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"event_type":  event.EventType,
			"customer_id": event.CustomerID,
		}).Warn("failed to publish checkout event")
	}
}

func (s *Service) recordStep(step domain.CheckoutStep, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordStepDuration(string(step), time.Since(start))
	}
}
