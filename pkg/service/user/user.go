// Package user implements registration and user lookup.
package user

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ksoliman/banksim/pkg/domain"
	"github.com/ksoliman/banksim/pkg/repository"
)

// Service provides user registration and lookup. Registration creates the
// user's account in the same unit of work, so every identity has exactly one
// account from the moment it exists.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a user Service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// Register creates a user and their zero-balance account atomically.
func (s *Service) Register(
	ctx context.Context,
	username, email, password, firstName, lastName string,
) (u *domain.User, err error) {
	log := s.logger.With("username", username, "email", email)
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		if existing, err := users.GetByUsernameOrEmail(ctx, username); err == nil && existing != nil {
			return domain.ErrUsernameTaken
		}
		if existing, err := users.GetByUsernameOrEmail(ctx, email); err == nil && existing != nil {
			return domain.ErrUsernameTaken
		}
		u, err = domain.NewUser(username, email, password, firstName, lastName)
		if err != nil {
			return err
		}
		if err := users.Create(ctx, u); err != nil {
			return err
		}
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		return accounts.Create(ctx, domain.NewAccount(u.ID))
	})
	if err != nil {
		u = nil
		log.Error("registration failed", "error", err)
		return
	}
	log.Info("user registered", "userID", u.ID)
	return
}

// Get returns a user by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (u *domain.User, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		u, err = users.Get(ctx, id)
		return err
	})
	return
}
