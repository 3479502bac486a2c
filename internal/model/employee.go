package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	BaseModel
	FirstName  string          `db:"first_name" gorm:"column:first_name;type:varchar(100);not null" json:"first_name" validate:"required,max=100"`
	LastName   string          `db:"last_name" gorm:"column:last_name;type:varchar(100);not null" json:"last_name" validate:"required,max=100"`
	Email      string          `db:"email" gorm:"column:email;type:varchar(255);not null;uniqueIndex:idx_employees_email,expression:lower(email)" json:"email" validate:"required,email,max=255"`
	Phone      *string         `db:"phone" gorm:"column:phone;type:varchar(30)" json:"phone" validate:"omitempty,max=30"`
	HireDate   time.Time       `db:"hire_date" gorm:"column:hire_date;type:timestamptz;not null" json:"hire_date"`
	HourlyRate decimal.Decimal `db:"hourly_rate" gorm:"column:hourly_rate;type:numeric(10,2);not null" json:"hourly_rate"`
	IsActive   bool            `db:"is_active" gorm:"column:is_active;not null" json:"is_active"`
}

func (Employee) TableName() string { return "employees" }

func (Employee) DefaultOrder() string { return "last_name, first_name, id" }

func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}
