package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ksoliman/banksim/pkg/utils"
)

// User represents a registered identity. The ID doubles as the owner
// identity of the user's account and transactions.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser creates a User with a bcrypt-hashed password and current
// timestamps.
func NewUser(username, email, password, firstName, lastName string) (*User, error) {
	if username == "" {
		return nil, errors.New("username cannot be empty")
	}
	if !utils.IsEmail(email) {
		return nil, errors.New("invalid email address")
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &User{
		ID:        uuid.New(),
		Username:  username,
		Email:     email,
		Password:  hashed,
		FirstName: firstName,
		LastName:  lastName,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NewUserFromData hydrates a User from a data store.
func NewUserFromData(
	id uuid.UUID,
	username, email, password, firstName, lastName string,
	created, updated time.Time,
) *User {
	return &User{
		ID:        id,
		Username:  username,
		Email:     email,
		Password:  password,
		FirstName: firstName,
		LastName:  lastName,
		CreatedAt: created,
		UpdatedAt: updated,
	}
}
