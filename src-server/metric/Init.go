package metric

import (
	"context"
	"log/slog"
	"time"

	"bulletin/src-server/utils"

	"github.com/prometheus/client_golang/prometheus"
)

// EmptyReader is satisfied by the event gateway.
type EmptyReader interface {
	EmptyRead(ctx context.Context) (time.Duration, error)
}

// register returns the gauge that is exposed under name, which is an earlier
// registration's gauge when there is one.
func register(gauge prometheus.Gauge, name string) prometheus.Gauge {
	if err := prometheus.Register(gauge); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			slog.Error("can't register metric", "metric", name, "error", err)
			return gauge
		}
		existing, ok := are.ExistingCollector.(prometheus.Gauge)
		if !ok {
			slog.Error("metric registered with another type", "metric", name)
			return gauge
		}
		gauge = existing
	}
	slog.Debug("metric registered", "metric", name)
	gauge.Set(0)
	return gauge
}

func unregister(gauge prometheus.Gauge, name string) {
	switch prometheus.Unregister(gauge) {
	case true:
		slog.Debug("metric unregistered", "metric", name)
	case false:
		slog.Warn("metric not registered", "metric", name)
	}
}

func databaseEmptyRead(as *utils.AppState, reader EmptyReader, tickerInterval time.Duration) {
	const name = "bulletin_database_empty_read_microsec"
	gauge := register(prometheus.NewGauge(prometheus.GaugeOpts{
		Name: name,
		Help: "The latency of an empty database read in microseconds",
	}), name)
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		ticker := time.NewTicker(tickerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gracefulShutdownCh:
				unregister(gauge, name)
				return
			case <-ticker.C:
				latency, err := database(reader)
				if err != nil {
					slog.Error("can't get database latency", "error", err)
					continue
				}
				gauge.Set(float64(latency.Microseconds()))
			}
		}
	}()
}

// latencyFromChan mirrors the last sample sent on samples, and drops back to 0
// when nothing arrives for clearTickerInterval.
func latencyFromChan(as *utils.AppState, name, help string, samples <-chan float64, clearTickerInterval time.Duration) {
	gauge := register(prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: help}), name)
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		clearTicker := time.NewTicker(clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-gracefulShutdownCh:
				unregister(gauge, name)
				return
			case latency := <-samples:
				gauge.Set(latency)
				clearTicker.Reset(clearTickerInterval)
			case <-clearTicker.C:
				gauge.Set(0)
			}
		}
	}()
}

func Init(as *utils.AppState, reader EmptyReader) {
	tickerInterval := as.Config.GetMetricCollectionInterval()
	clearTickerInterval := as.Config.GetMetricCollectionInterval() * 2

	databaseEmptyRead(as, reader, tickerInterval)
	latencyFromChan(as,
		"bulletin_database_read_microsec",
		"The latency of a database read in microseconds",
		as.MetricChans.DatabaseRead, clearTickerInterval)
	latencyFromChan(as,
		"bulletin_database_write_microsec",
		"The latency of a database write in microseconds",
		as.MetricChans.DatabaseWrite, clearTickerInterval)
}
