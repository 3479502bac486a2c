package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateEmployeeInput struct {
	FirstName  string
	LastName   string
	Email      string
	Phone      string // Optional
	HireDate   time.Time
	HourlyRate decimal.Decimal
	IsActive   *bool // Defaults to true
}
