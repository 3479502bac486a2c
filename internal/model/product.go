package model

import "github.com/shopspring/decimal"

type Product struct {
	BaseModel
	Name          string          `db:"name" gorm:"column:name;type:varchar(200);not null" json:"name" validate:"required,max=200"`
	Description   *string         `db:"description" gorm:"column:description;type:text" json:"description"`
	Price         decimal.Decimal `db:"price" gorm:"column:price;type:numeric(18,2);not null" json:"price"`
	StockQuantity int             `db:"stock_quantity" gorm:"column:stock_quantity;type:integer;not null" json:"stock_quantity"`
	SKU           *string         `db:"sku" gorm:"column:sku;type:varchar(50);uniqueIndex:idx_products_sku" json:"sku" validate:"omitempty,max=50"`
}

func (Product) TableName() string { return "products" }

func (Product) DefaultOrder() string { return "name, id" }
