package models

import "github.com/shopspring/decimal"

type Tax struct {
	ID   int             `json:"id,omitempty" db:"id,omitempty"`
	Name string          `json:"name,omitempty" db:"name,omitempty"`
	Rate decimal.Decimal `json:"rate,omitempty" db:"rate,omitempty"`
}
