package model

type Customer struct {
	BaseModel
	FirstName string  `db:"first_name" gorm:"column:first_name;type:varchar(100);not null" json:"first_name" validate:"required,max=100"`
	LastName  string  `db:"last_name" gorm:"column:last_name;type:varchar(100);not null" json:"last_name" validate:"required,max=100"`
	Email     string  `db:"email" gorm:"column:email;type:varchar(255);not null;uniqueIndex:idx_customers_email,expression:lower(email)" json:"email" validate:"required,email,max=255"`
	Phone     *string `db:"phone" gorm:"column:phone;type:varchar(30)" json:"phone" validate:"omitempty,max=30"`
}

func (Customer) TableName() string { return "customers" }

func (Customer) DefaultOrder() string { return "last_name, first_name, id" }

func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}
