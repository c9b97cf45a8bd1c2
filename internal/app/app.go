package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	healthcheck "github.com/vladislavdragonenkov/shop/internal/health"
	"github.com/vladislavdragonenkov/shop/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/shop/internal/scenario"
	"github.com/vladislavdragonenkov/shop/internal/version"
)

// ErrScenarioFailed — хотя бы один шаг сценария разошёлся с ожиданием.
var ErrScenarioFailed = errors.New("scenario failed")

// Config описывает настройки запуска.
type Config struct {
	// MetricsAddr включает HTTP-сервер /metrics и health checks; по умолчанию выключен.
	MetricsAddr string
	// KafkaBrokers задаёт брокеров через запятую; без них события не публикуются.
	KafkaBrokers string
	KafkaTopic   string
	LogLevel     string
	// ScenarioPath указывает YAML-сценарий, иначе играется встроенный.
	ScenarioPath string
	// ReportOutput получает чеки и накладные (по умолчанию stdout).
	ReportOutput io.Writer
}

// DefaultConfig возвращает конфигурацию без внешних зависимостей.
func DefaultConfig() Config {
	return Config{
		KafkaTopic: kafka.TopicCheckoutEvents,
		LogLevel:   "info",
	}
}

// Run проигрывает сценарий. Если задан MetricsAddr, после сценария
// HTTP-сервер продолжает работать до отмены ctx.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	deps := NewDependencies(cfg, logger)
	defer deps.Close()

	healthHandler := healthcheck.NewHandler(version.GetVersion())
	scenarioCheck := healthcheck.NewScenarioChecker("scenario")
	healthHandler.RegisterChecker("scenario", scenarioCheck)
	if cfg.KafkaBrokers != "" {
		healthHandler.RegisterChecker("kafka", healthcheck.NewSimpleChecker("kafka", func() error {
			if deps.Producer == nil {
				return fmt.Errorf("kafka producer unavailable: %v", deps.KafkaErr)
			}
			return nil
		}))
	}

	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var metricsSrv *http.Server
	if cfg.MetricsAddr != "" {
		metricsSrv = startMetricsServer(serveCtx, cfg.MetricsAddr, logger, healthHandler)
	}

	runErr := runScenario(ctx, cfg, deps, scenarioCheck, logger)

	if metricsSrv != nil && ctx.Err() == nil {
		logger.WithField("metrics_addr", cfg.MetricsAddr).Info("scenario finished, serving metrics until shutdown")
		<-ctx.Done()
	}
	// Сервер метрик останавливается по serveCtx.
	cancel()

	if runErr != nil {
		return runErr
	}
	return ctx.Err()
}

func runScenario(ctx context.Context, cfg Config, deps *Dependencies, check *healthcheck.ScenarioChecker, logger *log.Entry) error {
	f, err := loadScenario(cfg.ScenarioPath)
	if err != nil {
		check.Record(0, 0, err)
		return err
	}

	runner := scenario.NewRunner(deps.Printer, logger.WithField("layer", "scenario"), checkoutOptions(deps)...)
	result, err := runner.Run(ctx, f)
	if result != nil {
		check.Record(len(result.Steps), result.Failed(), err)
	}
	if err != nil {
		return err
	}

	if !result.OK() {
		for _, step := range result.Steps {
			if !step.Passed() {
				logger.WithFields(log.Fields{
					"step":   step.Index,
					"action": step.Action,
				}).Error(step.Mismatch)
			}
		}
		return fmt.Errorf("%w: %d of %d steps deviated", ErrScenarioFailed, result.Failed(), len(result.Steps))
	}

	logger.WithFields(log.Fields{
		"scenario":  result.Name,
		"steps":     len(result.Steps),
		"checkouts": len(result.Receipts),
	}).Info("scenario passed")
	return nil
}

func loadScenario(path string) (*scenario.File, error) {
	if path == "" {
		return scenario.Default()
	}
	return scenario.LoadFile(path)
}

// startMetricsServer запускает HTTP-обработчик /metrics для Prometheus и health checks.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez, %s/readyz", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("metrics shutdown with error")
	}
}
