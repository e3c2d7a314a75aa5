package utils

import "time"

type Metric struct {
	DatabaseRead  chan float64
	DatabaseWrite chan float64
}

func NewMetric() *Metric {
	return &Metric{
		DatabaseRead:  make(chan float64, 1),
		DatabaseWrite: make(chan float64, 1),
	}
}

// ObserveRead never blocks; a sample is dropped when nobody is collecting.
func (m *Metric) ObserveRead(start time.Time) {
	if m == nil {
		return
	}
	select {
	case m.DatabaseRead <- float64(time.Since(start).Microseconds()):
	default:
	}
}

func (m *Metric) ObserveWrite(start time.Time) {
	if m == nil {
		return
	}
	select {
	case m.DatabaseWrite <- float64(time.Since(start).Microseconds()):
	default:
	}
}
