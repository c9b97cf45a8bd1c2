package app

import (
	"bytes"
	"testing"

	"github.com/vladislavdragonenkov/shop/internal/messaging/kafka"
)

func TestDefaultConfig_Values(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.MetricsAddr != "" {
		t.Errorf("expected metrics server disabled by default, got %s", cfg.MetricsAddr)
	}
	if cfg.KafkaBrokers != "" {
		t.Errorf("expected kafka disabled by default, got %s", cfg.KafkaBrokers)
	}
	if cfg.KafkaTopic != kafka.TopicCheckoutEvents {
		t.Errorf("expected KafkaTopic %s, got %s", kafka.TopicCheckoutEvents, cfg.KafkaTopic)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected LogLevel info, got %s", cfg.LogLevel)
	}
	if cfg.ScenarioPath != "" {
		t.Errorf("expected embedded scenario by default, got %s", cfg.ScenarioPath)
	}
	if cfg.ReportOutput != nil {
		t.Error("expected stdout report output by default")
	}
}

func TestConfig_Copy(t *testing.T) {
	original := DefaultConfig()
	copied := original

	copied.MetricsAddr = ":9091"

	if original.MetricsAddr != "" {
		t.Error("original config was modified")
	}
	if copied.MetricsAddr != ":9091" {
		t.Error("copy was not modified")
	}
}

func TestConfig_Comparison(t *testing.T) {
	cfg1 := DefaultConfig()
	cfg2 := DefaultConfig()

	if cfg1 != cfg2 {
		t.Error("two DefaultConfig instances should be equal")
	}

	cfg2.ReportOutput = &bytes.Buffer{}
	if cfg1 == cfg2 {
		t.Error("modified config should not be equal to original")
	}
}
