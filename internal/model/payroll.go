package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payroll records are part of the shared schema but have no service yet.

type TimeEntry struct {
	BaseModel
	EmployeeID string     `db:"employee_id" gorm:"column:employee_id;type:varchar(36);not null" json:"employee_id"`
	ClockIn    time.Time  `db:"clock_in" gorm:"column:clock_in;type:timestamptz;not null" json:"clock_in"`
	ClockOut   *time.Time `db:"clock_out" gorm:"column:clock_out;type:timestamptz" json:"clock_out"`
	Notes      *string    `db:"notes" gorm:"column:notes;type:text" json:"notes"`

	Employee *Employee `db:"-" gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (TimeEntry) TableName() string { return "time_entries" }

func (TimeEntry) DefaultOrder() string { return "clock_in, id" }

type Paycheck struct {
	BaseModel
	EmployeeID  string          `db:"employee_id" gorm:"column:employee_id;type:varchar(36);not null" json:"employee_id"`
	PeriodStart time.Time       `db:"period_start" gorm:"column:period_start;type:timestamptz;not null" json:"period_start"`
	PeriodEnd   time.Time       `db:"period_end" gorm:"column:period_end;type:timestamptz;not null" json:"period_end"`
	HoursWorked decimal.Decimal `db:"hours_worked" gorm:"column:hours_worked;type:numeric(10,2);not null" json:"hours_worked"`
	GrossPay    decimal.Decimal `db:"gross_pay" gorm:"column:gross_pay;type:numeric(18,2);not null" json:"gross_pay"`
	PaidAt      *time.Time      `db:"paid_at" gorm:"column:paid_at;type:timestamptz" json:"paid_at"`

	Employee *Employee `db:"-" gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Paycheck) TableName() string { return "paychecks" }

func (Paycheck) DefaultOrder() string { return "period_start, id" }
