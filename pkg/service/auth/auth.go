// Package auth implements credential verification and JWT issuance. The
// token's subject is the owner identity the rest of the system trusts; the
// ledger never re-checks passwords.
package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ksoliman/banksim/pkg/config"
	"github.com/ksoliman/banksim/pkg/domain"
	"github.com/ksoliman/banksim/pkg/repository"
	"github.com/ksoliman/banksim/pkg/utils"
)

// Service authenticates users and issues tokens.
type Service struct {
	uow    repository.UnitOfWork
	cfg    *config.Jwt
	logger *slog.Logger
}

// New creates an auth Service.
func New(uow repository.UnitOfWork, cfg *config.Jwt, logger *slog.Logger) *Service {
	return &Service{uow: uow, cfg: cfg, logger: logger}
}

// Login verifies the identity (username or email) and password and returns
// the user. Lookup misses and bad passwords both map to
// ErrInvalidCredentials so the response does not reveal which part failed.
func (s *Service) Login(ctx context.Context, identity, password string) (u *domain.User, err error) {
	log := s.logger.With("identity", identity)
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		u, err = users.GetByUsernameOrEmail(ctx, identity)
		if err != nil {
			return domain.ErrInvalidCredentials
		}
		if !utils.CheckPasswordHash(password, u.Password) {
			return domain.ErrInvalidCredentials
		}
		return nil
	})
	if err != nil {
		u = nil
		log.Warn("login failed", "error", err)
		return
	}
	log.Info("login successful", "userID", u.ID)
	return
}

// GenerateToken issues a signed JWT for the user.
func (s *Service) GenerateToken(u *domain.User) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["user_id"] = u.ID.String()
	claims["username"] = u.Username
	claims["exp"] = time.Now().Add(s.cfg.Expiry).Unix()
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		s.logger.Error("token generation failed", "userID", u.ID, "error", err)
		return "", err
	}
	return signed, nil
}

// CurrentUserID extracts the owner identity from a verified token.
func CurrentUserID(token *jwt.Token) (uuid.UUID, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, domain.ErrInvalidCredentials
	}
	raw, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, domain.ErrInvalidCredentials
	}
	return uuid.Parse(raw)
}
