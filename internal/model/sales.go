package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sales records are part of the shared schema but have no service yet.

type PaymentMethod struct {
	BaseModel
	Name     string `db:"name" gorm:"column:name;type:varchar(50);not null;uniqueIndex:idx_payment_methods_name" json:"name"`
	IsActive bool   `db:"is_active" gorm:"column:is_active;not null" json:"is_active"`
}

func (PaymentMethod) TableName() string { return "payment_methods" }

func (PaymentMethod) DefaultOrder() string { return "name, id" }

type Receipt struct {
	BaseModel
	ReceiptNumber   string          `db:"receipt_number" gorm:"column:receipt_number;type:varchar(50);not null;uniqueIndex:idx_receipts_number" json:"receipt_number"`
	CustomerID      *string         `db:"customer_id" gorm:"column:customer_id;type:varchar(36)" json:"customer_id"`
	EmployeeID      *string         `db:"employee_id" gorm:"column:employee_id;type:varchar(36)" json:"employee_id"`
	PaymentMethodID string          `db:"payment_method_id" gorm:"column:payment_method_id;type:varchar(36);not null" json:"payment_method_id"`
	Subtotal        decimal.Decimal `db:"subtotal" gorm:"column:subtotal;type:numeric(18,2);not null" json:"subtotal"`
	Tax             decimal.Decimal `db:"tax" gorm:"column:tax;type:numeric(18,2);not null" json:"tax"`
	Total           decimal.Decimal `db:"total" gorm:"column:total;type:numeric(18,2);not null" json:"total"`
	IssuedAt        time.Time       `db:"issued_at" gorm:"column:issued_at;type:timestamptz;not null" json:"issued_at"`

	Customer      *Customer      `db:"-" gorm:"foreignKey:CustomerID" json:"-"`
	Employee      *Employee      `db:"-" gorm:"foreignKey:EmployeeID" json:"-"`
	PaymentMethod *PaymentMethod `db:"-" gorm:"foreignKey:PaymentMethodID" json:"-"`
}

func (Receipt) TableName() string { return "receipts" }

func (Receipt) DefaultOrder() string { return "issued_at, id" }

type ReceiptItem struct {
	BaseModel
	ReceiptID string          `db:"receipt_id" gorm:"column:receipt_id;type:varchar(36);not null" json:"receipt_id"`
	ProductID string          `db:"product_id" gorm:"column:product_id;type:varchar(36);not null" json:"product_id"`
	Quantity  int             `db:"quantity" gorm:"column:quantity;type:integer;not null" json:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price" gorm:"column:unit_price;type:numeric(18,2);not null" json:"unit_price"`
	LineTotal decimal.Decimal `db:"line_total" gorm:"column:line_total;type:numeric(18,2);not null" json:"line_total"`

	Receipt *Receipt `db:"-" gorm:"foreignKey:ReceiptID;constraint:OnDelete:CASCADE" json:"-"`
	Product *Product `db:"-" gorm:"foreignKey:ProductID" json:"-"`
}

func (ReceiptItem) TableName() string { return "receipt_items" }

func (ReceiptItem) DefaultOrder() string { return "receipt_id, created_at, id" }
