package dto

import "github.com/shopspring/decimal"

type CreateProductInput struct {
	Name          string
	Description   string // Optional
	Price         decimal.Decimal
	StockQuantity int
	SKU           string // Optional, unique when set
}
