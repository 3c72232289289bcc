package exchange

import (
	"errors"
	"time"
)

// DefaultUsdToGuarani is the sentinel rate served when no rate row has
// ever been configured.
const DefaultUsdToGuarani = "7300.00"

var ErrInvalidRate = errors.New("invalid exchange rate")

// Rate is one row of the append-only rate history. The current rate is
// the most recently updated row; history is never overwritten.
type Rate struct {
	ID           uint64    `gorm:"primaryKey;column:id" json:"id"`
	UsdToGuarani string    `gorm:"type:decimal(18,2)" json:"usdToGuarani"`
	UpdatedBy    uint64    `json:"updatedBy"`
	UpdatedAt    time.Time `gorm:"autoCreateTime;index" json:"updatedAt"`
}

func (Rate) TableName() string { return "exchange_rate_config" }
