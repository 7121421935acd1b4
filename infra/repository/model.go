// Package repository implements the data-access contracts from
// pkg/repository on GORM/Postgres.
package repository

import (
	"time"

	"github.com/google/uuid"
)

// User is a user row.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Username  string    `gorm:"uniqueIndex;not null;size:50"`
	Email     string    `gorm:"uniqueIndex;not null;size:255"`
	Password  string    `gorm:"not null"`
	FirstName string    `gorm:"size:30"`
	LastName  string    `gorm:"size:30"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Account is an account row; one per owner.
type Account struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	OwnerID   uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Balance   int64     `gorm:"not null;default:0"` // cents
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Transaction is a row of the append-only transaction log.
type Transaction struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	OwnerID   uuid.UUID `gorm:"type:uuid;index;not null"`
	Kind      string    `gorm:"type:varchar(10);not null"`
	Amount    int64     `gorm:"not null"` // cents, always positive
	CreatedAt time.Time `gorm:"index"`
}

// FailedJob records a permanently failed async transaction request.
type FailedJob struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	JobID     uuid.UUID `gorm:"type:uuid;index;not null"`
	OwnerID   uuid.UUID `gorm:"type:uuid;index;not null"`
	Kind      string    `gorm:"type:varchar(10);not null"`
	Amount    int64     `gorm:"not null"`
	Attempts  int       `gorm:"not null"`
	LastError string    `gorm:"type:text"`
	CreatedAt time.Time
}

// Models lists every table for AutoMigrate.
func Models() []any {
	return []any{&User{}, &Account{}, &Transaction{}, &FailedJob{}}
}
