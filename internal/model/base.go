package model

import "time"

// Entity is implemented by every persisted record. Repositories are generic
// over pointer types satisfying it (e.g. *Customer).
type Entity interface {
	GetID() string
	SetID(id string)
	GetCreatedAt() time.Time
	SetCreatedAt(t time.Time)
	TableName() string
	// DefaultOrder is the ORDER BY clause used for full listings.
	DefaultOrder() string
}

type BaseModel struct {
	ID        string     `db:"id" gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time  `db:"created_at" gorm:"column:created_at;type:timestamptz;not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt *time.Time `db:"updated_at" gorm:"column:updated_at;type:timestamptz;autoUpdateTime:false" json:"updated_at"`
}

func (b *BaseModel) GetID() string { return b.ID }

func (b *BaseModel) SetID(id string) { b.ID = id }

func (b *BaseModel) GetCreatedAt() time.Time { return b.CreatedAt }

func (b *BaseModel) SetCreatedAt(t time.Time) { b.CreatedAt = t }

// Touch sets UpdatedAt to t.
func (b *BaseModel) Touch(t time.Time) {
	b.UpdatedAt = &t
}

// Now returns the current time in UTC truncated to PostgreSQL precision, so
// a value survives a round trip through either backend unchanged.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
