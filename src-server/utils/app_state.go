package utils

import (
	"log/slog"
	"os"
	"sync"
)

type AppState struct {
	Config      *Config
	MetricChans *Metric

	// anything sent here stops the process, see main.go
	AppCloseSignalChan chan os.Signal

	shutdownMu    sync.Mutex
	shutdownChans []chan struct{}
}

func NewAppState(config *Config) *AppState {
	return &AppState{
		Config:             config,
		MetricChans:        NewMetric(),
		AppCloseSignalChan: make(chan os.Signal, 1),
	}
}

// CreateGracefulShutdownChan hands out a channel that is closed once
// GracefulShutdown runs.
func (as *AppState) CreateGracefulShutdownChan() <-chan struct{} {
	as.shutdownMu.Lock()
	defer as.shutdownMu.Unlock()
	ch := make(chan struct{})
	as.shutdownChans = append(as.shutdownChans, ch)
	return ch
}

func (as *AppState) GracefulShutdown() {
	as.shutdownMu.Lock()
	defer as.shutdownMu.Unlock()
	for _, ch := range as.shutdownChans {
		close(ch)
	}
	slog.Debug("graceful shutdown channels closed", "count", len(as.shutdownChans))
	as.shutdownChans = nil
}
