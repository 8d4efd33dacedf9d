package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Project proyecto de due diligence (Quality of Earnings) de una firma.
// MaterialityAmount es el piso absoluto y MaterialityPercentage el piso relativo (en %) sobre BaseValue.
type Project struct {
	ID                    string
	FirmID                string
	Name                  string
	Description           string
	ClientName            string
	CreatedBy             string
	IsActive              bool
	MaterialityAmount     decimal.Decimal
	MaterialityPercentage decimal.Decimal
	BaseValue             *decimal.Decimal // EBITDA normalizado; nil = aún no disponible
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
