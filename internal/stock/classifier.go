// Package stock classifies stock levels into severity labels used for
// dashboard flagging and low-stock alerts.
package stock

import (
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/shared"
)

// Status is the derived severity of a stock level.
type Status string

const (
	StatusCritical  Status = "CRITICAL"
	StatusLow       Status = "LOW"
	StatusGood      Status = "GOOD"
	StatusOverstock Status = "OVERSTOCK"
)

// Color returns the suggested display color for the status.
func (s Status) Color() string {
	switch s {
	case StatusCritical:
		return "#dc2626"
	case StatusLow:
		return "#f59e0b"
	case StatusOverstock:
		return "#8b5cf6"
	default:
		return "#16a34a"
	}
}

// Thresholds hold the min/max configuration of a stock record.
type Thresholds struct {
	MinStock float64
	MaxStock float64
}

// Classify maps a current stock level onto a Status. Rules are checked in
// order: Critical when current <= 0.5*min, Low when current <= min,
// Overstock when current >= 0.9*max, otherwise Good.
func Classify(current float64, th Thresholds) (Status, error) {
	if current < 0 {
		return "", shared.NewValidationError("current_stock", "must not be negative")
	}
	if th.MinStock < 0 {
		return "", shared.NewValidationError("min_stock", "must not be negative")
	}
	if th.MaxStock <= th.MinStock {
		return "", shared.NewValidationError("max_stock", "must be greater than min stock")
	}
	switch {
	case current <= th.MinStock*0.5:
		return StatusCritical, nil
	case current <= th.MinStock:
		return StatusLow, nil
	case current >= th.MaxStock*0.9:
		return StatusOverstock, nil
	default:
		return StatusGood, nil
	}
}
