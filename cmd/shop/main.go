package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/app"
	"github.com/vladislavdragonenkov/shop/internal/version"
)

const (
	envMetricsAddr  = "SHOP_METRICS_ADDR"
	envKafkaBrokers = "SHOP_KAFKA_BROKERS"
	envKafkaTopic   = "SHOP_KAFKA_TOPIC"
	envLogLevel     = "SHOP_LOG_LEVEL"
	envScenario     = "SHOP_SCENARIO"
)

type lookupFunc func(string) (string, bool)

// setupLogger настраивает формат и уровень логирования.
func setupLogger(level string) error {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	parsed, err := log.ParseLevel(level)
	if err != nil {
		log.SetLevel(log.InfoLevel)
		return err
	}
	log.SetLevel(parsed)
	return nil
}

// readConfigFromEnv собирает конфигурацию из окружения поверх app.DefaultConfig.
// Некорректные значения не прерывают запуск, а возвращаются как предупреждения.
func readConfigFromEnv(lookup lookupFunc) (app.Config, []string) {
	cfg := app.DefaultConfig()
	var warnings []string

	if v, ok := lookupTrimmed(lookup, envMetricsAddr); ok {
		cfg.MetricsAddr = v
	}
	if v, ok := lookupTrimmed(lookup, envKafkaBrokers); ok {
		cfg.KafkaBrokers = v
	}
	if v, ok := lookupTrimmed(lookup, envKafkaTopic); ok {
		cfg.KafkaTopic = v
	}
	if v, ok := lookupTrimmed(lookup, envScenario); ok {
		cfg.ScenarioPath = v
	}
	if v, ok := lookupTrimmed(lookup, envLogLevel); ok {
		if _, err := log.ParseLevel(v); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s=%q is not a valid log level, using %q", envLogLevel, v, cfg.LogLevel))
		} else {
			cfg.LogLevel = strings.ToLower(v)
		}
	}

	return cfg, warnings
}

// parseFlags позволяет переопределить путь к сценарию из командной строки.
func parseFlags(fs *flag.FlagSet, args []string, cfg app.Config) (app.Config, bool, error) {
	scenarioPath := fs.String("scenario", cfg.ScenarioPath, "path to a YAML checkout scenario (default: built-in demo)")
	showVersion := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return cfg, false, err
	}
	cfg.ScenarioPath = strings.TrimSpace(*scenarioPath)
	return cfg, *showVersion, nil
}

func lookupTrimmed(lookup lookupFunc, key string) (string, bool) {
	v, ok := lookup(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func main() {
	cfg, warnings := readConfigFromEnv(os.LookupEnv)
	cfg, showVersion, err := parseFlags(flag.CommandLine, os.Args[1:], cfg)
	if err != nil {
		os.Exit(2)
	}
	if showVersion {
		fmt.Println(version.String())
		return
	}

	if err := setupLogger(cfg.LogLevel); err != nil {
		log.WithError(err).Warn("unknown log level, falling back to info")
	}
	for _, warning := range warnings {
		log.Warn(warning)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"metrics_addr":  cfg.MetricsAddr,
		"kafka_brokers": cfg.KafkaBrokers,
		"scenario":      cfg.ScenarioPath,
		"version":       version.GetVersion(),
	}).Info("запускаем витрину")

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	log.Info("витрина остановлена")
}
