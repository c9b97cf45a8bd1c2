package app

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/domain"
	"github.com/vladislavdragonenkov/shop/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/shop/internal/metrics"
	"github.com/vladislavdragonenkov/shop/internal/report"
	"github.com/vladislavdragonenkov/shop/internal/service/checkout"
	"github.com/vladislavdragonenkov/shop/internal/storage/memory"
)

// Dependencies содержит все зависимости приложения.
type Dependencies struct {
	Printer  *report.Printer
	Receipts domain.ReceiptRepository
	Metrics  *metrics.CheckoutMetrics
	// Producer и Publisher равны nil, если Kafka не настроена или недоступна.
	Producer  *kafka.Producer
	Publisher *kafka.CheckoutPublisher
	KafkaErr  error
	Logger    *log.Entry
}

// NewDependencies создаёт зависимости по конфигурации. Недоступная Kafka
// не мешает запуску: события просто не публикуются.
func NewDependencies(cfg Config, logger *log.Entry) *Dependencies {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	deps := &Dependencies{
		Printer:  report.NewPrinter(cfg.ReportOutput),
		Receipts: memory.NewReceiptRepository(),
		Metrics:  metrics.NewCheckoutMetrics(),
		Logger:   logger,
	}

	producer, err := initKafkaProducer(cfg.KafkaBrokers, logger)
	if err != nil {
		deps.KafkaErr = err
	}
	if producer != nil {
		deps.Producer = producer
		deps.Publisher = kafka.NewCheckoutPublisher(producer, cfg.KafkaTopic)
	}
	return deps
}

// Close освобождает внешние ресурсы.
func (d *Dependencies) Close() {
	closeKafka(d.Producer, d.Logger)
	d.Producer = nil
	d.Publisher = nil
}

// checkoutOptions собирает опции сервиса оформления из зависимостей.
func checkoutOptions(deps *Dependencies) []checkout.Option {
	options := []checkout.Option{
		checkout.WithLogger(deps.Logger.WithField("layer", "checkout")),
		checkout.WithReceipts(deps.Receipts),
		checkout.WithMetrics(deps.Metrics),
	}
	if deps.Publisher != nil {
		options = append(options, checkout.WithEventPublisher(deps.Publisher))
	}
	return options
}
