package products

import (
	"time"
)

// Product represents a sellable item with its stock thresholds. The min/max
// thresholds feed the stock status classifier.
type Product struct {
	ID           int64     `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Unit         string    `json:"unit"`
	Price        float64   `json:"price"`
	Cost         float64   `json:"cost"`
	MinStock     float64   `json:"min_stock"`
	MaxStock     float64   `json:"max_stock"`
	ReorderPoint float64   `json:"reorder_point"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
