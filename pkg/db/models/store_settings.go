package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StoreSettings is the single-row store-wide shipping configuration.
type StoreSettings struct {
	ID                    int             `gorm:"column:id;primaryKey;default:1"`
	FreeShippingThreshold decimal.Decimal `gorm:"column:free_shipping_threshold;type:numeric(12,2);not null"`
	FlatShippingCost      decimal.Decimal `gorm:"column:flat_shipping_cost;type:numeric(12,2);not null"`
	UpdatedAt             time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
